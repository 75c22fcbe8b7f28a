package netscan

import (
	"context"
	"fmt"
	"net"
	"time"
)

// DefaultProbeTimeout bounds a single TCP connect probe. Wireless debug
// ports on the local segment answer within a few milliseconds; anything
// slower is treated as closed.
const DefaultProbeTimeout = 150 * time.Millisecond

// TCPProbe reports whether ip:port accepts a TCP connection within the
// timeout. It carries no protocol semantics and exists purely for cheap
// fan-out filtering ahead of the authoritative bridge connect.
func TCPProbe(ip string, port int, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", ip, port), timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// ConnectProber is the authoritative connect test: it must verify a real
// debug-bridge session, not just TCP reachability. *adb.Runner satisfies
// it; tests substitute fakes.
type ConnectProber interface {
	ConnectAndVerify(ctx context.Context, ip string, port int) bool
}
