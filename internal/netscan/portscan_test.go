package netscan

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeProber records bridge-connect attempts and succeeds for a fixed set
// of ports.
type fakeProber struct {
	mu    sync.Mutex
	open  map[int]bool
	tried []int
}

func (f *fakeProber) ConnectAndVerify(ctx context.Context, ip string, port int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tried = append(f.tried, port)
	return f.open[port]
}

func newTestScanner(prober ConnectProber, tcpOpen map[int]bool) *PortScanner {
	s := NewPortScanner(prober, zap.NewNop())
	s.RangeLow = 30000
	s.RangeHigh = 31000
	s.BatchSize = 100
	s.Workers = 4
	s.ProbeTimeout = time.Millisecond
	s.tcpProbe = func(ip string, port int, timeout time.Duration) bool {
		return tcpOpen[port]
	}
	return s
}

func TestPortScanner_CommonPortHit(t *testing.T) {
	prober := &fakeProber{open: map[int]bool{37777: true}}
	s := newTestScanner(prober, nil)

	port, ok := s.Scan(context.Background(), "192.168.1.50", false)
	if !ok || port != 37777 {
		t.Fatalf("Scan() = (%d, %v), want (37777, true)", port, ok)
	}
}

func TestPortScanner_NonAndroidSkipsDeepScan(t *testing.T) {
	prober := &fakeProber{}
	tcpOpen := map[int]bool{30500: true} // open, but deep scan must not run
	s := newTestScanner(prober, tcpOpen)

	port, ok := s.Scan(context.Background(), "192.168.1.9", false)
	if ok {
		t.Fatalf("Scan() matched port %d for non-Android host", port)
	}
	if len(prober.tried) != len(s.CommonPorts) {
		t.Errorf("expected only the %d common ports tried, got %d probes",
			len(s.CommonPorts), len(prober.tried))
	}
}

func TestPortScanner_EmptyPhase1SkipsPhase2(t *testing.T) {
	prober := &fakeProber{}
	s := newTestScanner(prober, nil) // no TCP port open anywhere

	port, ok := s.Scan(context.Background(), "192.168.1.50", true)
	if ok {
		t.Fatalf("Scan() matched port %d with nothing open", port)
	}
	// Phase 2 never ran: the only bridge connects were the common ports.
	if len(prober.tried) != len(s.CommonPorts) {
		t.Errorf("phase 2 ran despite empty phase 1: %d probes", len(prober.tried))
	}
}

func TestPortScanner_DeepScanFindsPort(t *testing.T) {
	prober := &fakeProber{open: map[int]bool{30750: true}}
	tcpOpen := map[int]bool{30750: true}
	s := newTestScanner(prober, tcpOpen)

	port, ok := s.Scan(context.Background(), "192.168.1.50", true)
	if !ok || port != 30750 {
		t.Fatalf("Scan() = (%d, %v), want (30750, true)", port, ok)
	}
}

func TestPortScanner_TCPOpenIsNotAMatch(t *testing.T) {
	// A TCP-open port that fails the bridge connect must not be reported.
	prober := &fakeProber{} // bridge connect always fails
	tcpOpen := map[int]bool{30100: true}
	s := newTestScanner(prober, tcpOpen)

	port, ok := s.Scan(context.Background(), "192.168.1.50", true)
	if ok {
		t.Fatalf("Scan() = (%d, true); bridge connect never succeeded", port)
	}

	// The open port must have been offered to the bridge in phase 2.
	found := false
	for _, p := range prober.tried {
		if p == 30100 {
			found = true
		}
	}
	if !found {
		t.Error("phase 2 never verified the TCP-open port")
	}
}

func TestPortScanner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prober := &fakeProber{open: map[int]bool{37777: true}}
	s := newTestScanner(prober, nil)

	if _, ok := s.Scan(ctx, "192.168.1.50", true); ok {
		t.Error("Scan() succeeded with a cancelled context")
	}
}
