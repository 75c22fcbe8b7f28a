package connector

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kmansel/phonelink/internal/adb"
	"github.com/kmansel/phonelink/internal/cache"
	"github.com/kmansel/phonelink/internal/netscan"
)

// Phase names of the discovery state machine. Transitions are
// one-directional: a run never backtracks to an earlier phase.
const (
	PhaseUSBCheck    = "USB_CHECK"
	PhaseCacheRetry  = "CACHE_RETRY"
	PhaseNetworkScan = "NETWORK_SCAN"
	PhaseConnected   = "CONNECTED"
	PhaseFailed      = "FAILED"
)

// Bridge is the slice of the adb runner the orchestrator needs.
// *adb.Runner satisfies it; tests substitute fakes.
type Bridge interface {
	RestartServer(ctx context.Context)
	Devices(ctx context.Context) ([]adb.Device, error)
	ConnectAndVerify(ctx context.Context, ip string, port int) bool
	Disconnect(ctx context.Context, ip string, port int)
	DeviceInfo(ctx context.Context) adb.Info
}

// Result describes a successful connection.
type Result struct {
	// Transport is "usb" or "tcp".
	Transport string

	// IP and Port are set for tcp transports.
	IP   string
	Port int

	// Info is the identity read from the device after connecting.
	Info adb.Info
}

// Connector drives discovery: USB check, cached-endpoint retry, then a
// full network scan. All collaborators are injected; the network-touching
// ones default to the real netscan implementations.
type Connector struct {
	bridge     Bridge
	store      *cache.Store
	classifier *netscan.Classifier
	logger     *zap.Logger

	// CommonPorts is the shortlist retried against a cached IP.
	CommonPorts []int

	// Injection points for the network layer, overridable in tests.
	Subnets   func(ctx context.Context) []string
	Sweep     func(ctx context.Context, subnet string)
	Neighbors func(ctx context.Context) map[string]netscan.Neighbor
	PortScan  func(ctx context.Context, ip string, androidLikely bool) (int, bool)
	MDNS      func(ctx context.Context) []netscan.MDNSEndpoint
}

// New creates a Connector wired to the real network stack.
func New(bridge Bridge, store *cache.Store, classifier *netscan.Classifier, logger *zap.Logger) *Connector {
	scanner := netscan.NewPortScanner(bridge, logger)
	browser := netscan.NewMDNSBrowser(logger)
	return &Connector{
		bridge:      bridge,
		store:       store,
		classifier:  classifier,
		logger:      logger,
		CommonPorts: netscan.DefaultCommonPorts,
		Subnets: func(ctx context.Context) []string {
			return netscan.Subnets(ctx, logger)
		},
		Sweep: func(ctx context.Context, subnet string) {
			netscan.Sweep(ctx, subnet, logger)
		},
		Neighbors: netscan.NeighborTable,
		PortScan:  scanner.Scan,
		MDNS:      browser.Browse,
	}
}

// Connect runs the state machine to completion. The only error it returns
// is *DiscoveryFailedError, after every phase has been exhausted.
func (c *Connector) Connect(ctx context.Context) (*Result, error) {
	cached, err := c.store.Load()
	if err != nil {
		c.logger.Warn("Cache unreadable, treating as empty", zap.Error(err))
		cached = cache.Record{}
	} else if cached.HasEndpoint() {
		c.logger.Info("Loaded cached connection", zap.String("record", cached.String()))
	}

	if res := c.usbCheck(ctx); res != nil {
		return res, nil
	}
	if res := c.cacheRetry(ctx, cached); res != nil {
		return res, nil
	}
	if res := c.networkScan(ctx, cached); res != nil {
		return res, nil
	}

	c.logPhase(PhaseFailed)
	c.logger.Error("Discovery exhausted, no device found")
	return nil, &DiscoveryFailedError{TriedCache: cached.HasEndpoint()}
}

// usbCheck restarts the adb server and succeeds if any device is attached
// over a physical transport.
func (c *Connector) usbCheck(ctx context.Context) *Result {
	c.logPhase(PhaseUSBCheck)

	c.bridge.RestartServer(ctx)
	devices, err := c.bridge.Devices(ctx)
	if err != nil {
		c.logger.Warn("Device enumeration failed", zap.Error(err))
		return nil
	}
	for _, d := range devices {
		if !d.IsNetwork() && d.State == adb.StateDevice {
			c.logger.Info("USB device attached", zap.String("serial", d.Serial))
			info := c.bridge.DeviceInfo(ctx)
			c.logPhase(PhaseConnected, zap.String("transport", "usb"))
			return &Result{Transport: "usb", Info: info}
		}
	}
	c.logger.Info("No USB device attached")
	return nil
}

// cacheRetry tries the cached endpoint directly, then the cached IP
// against the common-port shortlist.
func (c *Connector) cacheRetry(ctx context.Context, cached cache.Record) *Result {
	if !cached.HasEndpoint() {
		c.logger.Info("No cached connection to retry")
		return nil
	}
	c.logPhase(PhaseCacheRetry, zap.String("endpoint", cached.String()))

	if c.bridge.ConnectAndVerify(ctx, cached.IP, cached.Port) {
		return c.accept(ctx, cached.IP, cached.Port, cached.MAC)
	}

	c.logger.Info("Cached port failed, trying common ports on cached IP",
		zap.String("ip", cached.IP))
	for _, port := range c.CommonPorts {
		if port == cached.Port {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		if c.bridge.ConnectAndVerify(ctx, cached.IP, port) {
			return c.accept(ctx, cached.IP, port, cached.MAC)
		}
	}
	c.logger.Info("Cached connection failed")
	return nil
}

// candidate is one live host queued for port scanning.
type candidate struct {
	ip     string
	mac    string
	vendor string
}

// networkScan is the full discovery pass: mDNS fast path, then per-subnet
// sweep, neighbor classification, and prioritized port scanning.
func (c *Connector) networkScan(ctx context.Context, cached cache.Record) *Result {
	c.logPhase(PhaseNetworkScan,
		zap.String("looking_for", orAny(cached.DeviceModel)),
		zap.String("cached_mac", orAny(cached.MAC)),
	)

	if c.MDNS != nil {
		for _, ep := range c.MDNS(ctx) {
			if c.bridge.ConnectAndVerify(ctx, ep.IP, ep.Port) {
				if res := c.verifyAndAccept(ctx, ep.IP, ep.Port, "", cached); res != nil {
					return res
				}
			}
		}
	}

	subnets := c.Subnets(ctx)
	if len(subnets) == 0 {
		c.logger.Warn("No local subnets found")
		return nil
	}

	for _, subnet := range subnets {
		if ctx.Err() != nil {
			return nil
		}
		c.Sweep(ctx, subnet)
		neighbors := c.Neighbors(ctx)

		order := c.scanOrder(subnet, neighbors, cached.MAC)
		c.logger.Info("Scan order built",
			zap.String("subnet", subnet+".x"),
			zap.Int("candidates", len(order)),
		)

		for i, cand := range order {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Info("Trying candidate",
				zap.String("ip", cand.ip),
				zap.String("mac", cand.mac),
				zap.String("vendor", cand.vendor),
				zap.Int("position", i+1),
				zap.Int("total", len(order)),
			)

			androidLikely := c.classifier.Preferred(cand.vendor) ||
				(cached.MAC != "" && cand.mac == cached.MAC)

			port, ok := c.PortScan(ctx, cand.ip, androidLikely)
			if !ok {
				continue
			}
			if res := c.verifyAndAccept(ctx, cand.ip, port, cand.mac, cached); res != nil {
				return res
			}
			// Identity mismatch: scanning continues with the next host.
		}
	}

	c.logger.Info("Network scan complete, no device found")
	return nil
}

// scanOrder filters the neighbor table to dynamic entries inside the
// subnet and orders them: cached-MAC match first, then preferred vendors,
// then the rest. Within a tier the ascending-IP discovery order is kept.
func (c *Connector) scanOrder(subnet string, neighbors map[string]netscan.Neighbor, cachedMAC string) []candidate {
	ips := make([]string, 0, len(neighbors))
	for ip, n := range neighbors {
		if n.Freshness != netscan.FreshnessDynamic {
			continue
		}
		if !strings.HasPrefix(ip, subnet+".") {
			continue
		}
		ips = append(ips, ip)
	}
	sort.Slice(ips, func(i, j int) bool { return ipLess(ips[i], ips[j]) })

	var cachedTier, preferredTier, otherTier []candidate
	for _, ip := range ips {
		n := neighbors[ip]
		cand := candidate{ip: ip, mac: n.MAC, vendor: c.classifier.Vendor(n.MAC)}
		switch {
		case cachedMAC != "" && n.MAC == cachedMAC:
			c.logger.Info("Cached MAC seen on network, trying it first",
				zap.String("ip", ip), zap.String("mac", n.MAC))
			cachedTier = append(cachedTier, cand)
		case c.classifier.Preferred(cand.vendor):
			preferredTier = append(preferredTier, cand)
		default:
			otherTier = append(otherTier, cand)
		}
	}
	order := append(cachedTier, preferredTier...)
	return append(order, otherTier...)
}

// verifyAndAccept reads device identity over the established connection
// and rejects it when the model contradicts the cache. A mismatch is a
// false positive: the connection is dropped and scanning continues.
func (c *Connector) verifyAndAccept(ctx context.Context, ip string, port int, mac string, cached cache.Record) *Result {
	info := c.bridge.DeviceInfo(ctx)
	if cached.DeviceModel != "" && info.Model != cached.DeviceModel {
		c.logger.Warn("Wrong device on matched port, disconnecting",
			zap.String("ip", ip),
			zap.Int("port", port),
			zap.String("model", info.Model),
			zap.String("expected", cached.DeviceModel),
		)
		c.bridge.Disconnect(ctx, ip, port)
		return nil
	}

	rec := cache.Record{
		IP:          ip,
		Port:        port,
		MAC:         mac,
		DeviceName:  info.DeviceName,
		DeviceModel: info.Model,
	}
	if mac == "" {
		rec.MAC = cached.MAC
	}
	if err := c.store.Save(rec); err != nil {
		c.logger.Warn("Failed to save connection cache", zap.Error(err))
	}

	c.logPhase(PhaseConnected,
		zap.String("endpoint", rec.String()),
		zap.String("device", info.String()),
	)
	return &Result{Transport: "tcp", IP: ip, Port: port, Info: info}
}

// accept finalizes a cache-retry success: identity is read for the cache
// record but the endpoint was already trusted.
func (c *Connector) accept(ctx context.Context, ip string, port int, mac string) *Result {
	info := c.bridge.DeviceInfo(ctx)
	rec := cache.Record{
		IP:          ip,
		Port:        port,
		MAC:         mac,
		DeviceName:  info.DeviceName,
		DeviceModel: info.Model,
	}
	if err := c.store.Save(rec); err != nil {
		c.logger.Warn("Failed to save connection cache", zap.Error(err))
	}
	c.logPhase(PhaseConnected,
		zap.String("endpoint", rec.String()),
		zap.String("device", info.String()),
	)
	return &Result{Transport: "tcp", IP: ip, Port: port, Info: info}
}

func (c *Connector) logPhase(phase string, fields ...zap.Field) {
	all := append([]zap.Field{zap.String("phase", phase)}, fields...)
	c.logger.Info("Discovery phase", all...)
}

// ipLess compares dotted-quad addresses numerically.
func ipLess(a, b string) bool {
	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			if len(pa[i]) != len(pb[i]) {
				return len(pa[i]) < len(pb[i])
			}
			return pa[i] < pb[i]
		}
	}
	return len(pa) < len(pb)
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}
