// Package connector sequences device discovery as a one-way state
// machine:
//
//	USB_CHECK -> CACHE_RETRY -> NETWORK_SCAN -> {CONNECTED, FAILED}
//
// Each phase either produces a connected device or hands off to the next;
// there is no backtracking within a run. The orchestrator owns all
// sequencing and priority decisions — the adb, cache, and netscan
// collaborators never call back into it.
//
// Priority during NETWORK_SCAN: a host whose MAC matches the cache is
// always tried first, then hosts whose MAC prefix classifies as a known
// handset maker, then everyone else. A matched port is only accepted
// after the device's reported model agrees with the cached model (when
// one exists); a mismatch disconnects and resumes scanning. Mismatched
// hosts are not blacklisted — the scan is a single forward pass, so a
// host is visited at most once per run.
package connector
