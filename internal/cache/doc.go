// Package cache persists the last successful device connection.
//
// The cache is a single JSON record (ip, port, mac, device name, device
// model, timestamp) used to short-circuit discovery on the next run: the
// orchestrator retries the cached endpoint before touching the network,
// and the cached MAC promotes its host to the front of any scan. The
// record is overwritten wholesale on every successful connection.
package cache
