package netscan

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultCommonPorts are wireless-debug ports observed repeatedly across
// devices and reboots. They are tried with a full bridge connect before
// any TCP sweep.
var DefaultCommonPorts = []int{43449, 35059, 36361, 40441, 37777, 42222, 38888, 44973, 45678, 41234}

// Deep-scan parameters. Android allocates the wireless debugging port
// from the upper ephemeral range; 30000-50000 covers every allocation
// observed in practice.
const (
	DefaultRangeLow  = 30000
	DefaultRangeHigh = 50000
	DefaultBatchSize = 200
	DefaultWorkers   = 10
)

// PortScanner locates the wireless debugging port on a single host.
//
// The scan is layered: a bridge connect against the common-port list
// first, then (only for likely-Android hosts) a two-phase deep scan of the
// ephemeral range. Phase 1 fans TCP probes out over a bounded worker pool
// and short-circuits on the first batch that yields open ports; phase 2
// verifies those ports serially with the authoritative bridge connect. A
// port is never reported matched unless the bridge connect succeeded on it.
type PortScanner struct {
	// CommonPorts tried with a direct bridge connect before any sweep.
	CommonPorts []int

	// RangeLow, RangeHigh bound the deep-scan port range, half-open.
	RangeLow  int
	RangeHigh int

	// BatchSize is ports per work unit in phase 1.
	BatchSize int

	// Workers bounds phase-1 concurrency.
	Workers int

	// ProbeTimeout bounds one phase-1 TCP probe.
	ProbeTimeout time.Duration

	prober   ConnectProber
	tcpProbe func(ip string, port int, timeout time.Duration) bool
	logger   *zap.Logger
}

// NewPortScanner creates a scanner with default parameters.
func NewPortScanner(prober ConnectProber, logger *zap.Logger) *PortScanner {
	return &PortScanner{
		CommonPorts:  DefaultCommonPorts,
		RangeLow:     DefaultRangeLow,
		RangeHigh:    DefaultRangeHigh,
		BatchSize:    DefaultBatchSize,
		Workers:      DefaultWorkers,
		ProbeTimeout: 100 * time.Millisecond,
		prober:       prober,
		tcpProbe:     TCPProbe,
		logger:       logger,
	}
}

// Scan returns the wireless debugging port of ip, or ok=false when none
// was found. Hosts not hinted as likely Android skip the deep scan: it is
// expensive and nearly always wasted on printers and TVs.
func (s *PortScanner) Scan(ctx context.Context, ip string, androidLikely bool) (port int, ok bool) {
	for _, p := range s.CommonPorts {
		if ctx.Err() != nil {
			return 0, false
		}
		if s.prober.ConnectAndVerify(ctx, ip, p) {
			return p, true
		}
	}

	if !androidLikely {
		s.logger.Debug("Skipping deep port scan for non-Android host", zap.String("ip", ip))
		return 0, false
	}

	s.logger.Info("Deep scanning wireless debug range",
		zap.String("ip", ip),
		zap.Int("low", s.RangeLow),
		zap.Int("high", s.RangeHigh),
	)

	openPorts := s.sweepRange(ctx, ip)
	if len(openPorts) == 0 {
		s.logger.Info("No open ports in wireless debug range", zap.String("ip", ip))
		return 0, false
	}

	s.logger.Info("Verifying open ports with bridge connect",
		zap.String("ip", ip),
		zap.Int("count", len(openPorts)),
	)
	for _, p := range openPorts {
		if ctx.Err() != nil {
			return 0, false
		}
		if s.prober.ConnectAndVerify(ctx, ip, p) {
			return p, true
		}
	}
	return 0, false
}

// sweepRange is phase 1: a bounded-concurrency TCP sweep over the
// ephemeral range. Batches are handed to a fixed worker pool; collection
// stops at the first batch reporting any open port. Workers observe the
// stop flag cooperatively between probes, and in-flight probes are each
// bounded by their own timeout, so abandonment costs at most one probe
// interval per worker.
func (s *PortScanner) sweepRange(ctx context.Context, ip string) []int {
	var batches [][2]int
	for lo := s.RangeLow; lo < s.RangeHigh; lo += s.BatchSize {
		hi := lo + s.BatchSize
		if hi > s.RangeHigh {
			hi = s.RangeHigh
		}
		batches = append(batches, [2]int{lo, hi})
	}

	work := make(chan [2]int, len(batches))
	for _, b := range batches {
		work <- b
	}
	close(work)

	// Buffered to capacity so workers never block after the collector
	// stops reading.
	results := make(chan []int, len(batches))

	var stop atomic.Bool
	var wg sync.WaitGroup
	for w := 0; w < s.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range work {
				if stop.Load() || ctx.Err() != nil {
					results <- nil
					continue
				}
				var open []int
				for p := batch[0]; p < batch[1]; p++ {
					if stop.Load() || ctx.Err() != nil {
						break
					}
					if s.tcpProbe(ip, p, s.ProbeTimeout) {
						open = append(open, p)
					}
				}
				results <- open
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	scanned := 0
	for open := range results {
		scanned++
		if scanned%20 == 0 {
			s.logger.Debug("TCP sweep progress",
				zap.String("ip", ip),
				zap.Int("batches_done", scanned),
				zap.Int("batches_total", len(batches)),
			)
		}
		if len(open) > 0 {
			stop.Store(true)
			return open
		}
	}
	return nil
}
