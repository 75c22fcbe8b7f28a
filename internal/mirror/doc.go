// Package mirror launches the external screen-mirroring client and keeps
// the device's physical display dark for the duration of the session.
//
// The mirroring client (scrcpy) is an external collaborator: phonelink
// starts it with a fixed option set, tracks its lifetime, and terminates
// it on teardown, but never parses its output. Suppressing the physical
// display is handled separately through adb power keyevents, with a
// background keeper that re-asserts the off state every couple of
// seconds in case the device wakes itself.
package mirror
