// Package adb wraps the external Android Debug Bridge client.
//
// All device interaction in phonelink goes through the adb command-line
// tool as a subprocess; this package owns process execution, output
// capture, timeouts, and the parsing of adb's plain-text output into
// typed results.
//
// # Execution Model
//
// Every command runs under exec.CommandContext with an explicit deadline.
// A timeout or refused connection is an ordinary probe failure, not a
// fatal condition; callers decide what a failed command means.
//
// # Connection Verification
//
// `adb connect` can report success for targets that never complete a
// handshake. ConnectAndVerify therefore re-lists devices after connecting
// and requires the ip:port transport to appear in the "device" state
// before claiming success. Discovery code must use ConnectAndVerify, never
// Connect alone.
package adb
