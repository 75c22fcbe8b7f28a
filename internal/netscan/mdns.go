package netscan

import (
	"context"
	"fmt"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"
)

const (
	// ADBServiceType is the mDNS service Android advertises while
	// wireless debugging is enabled.
	ADBServiceType = "_adb-tls-connect._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultMDNSTimeout is how long an mDNS browse listens for
	// advertisements.
	DefaultMDNSTimeout = 3 * time.Second
)

// MDNSEndpoint is an ip:port advertised over mDNS by a device with
// wireless debugging enabled. The advertised port is the pairing/connect
// port, handed straight to the bridge connect probe.
type MDNSEndpoint struct {
	Instance string
	IP       string
	Port     int
}

// String returns a human-readable representation of the endpoint.
func (e MDNSEndpoint) String() string {
	return fmt.Sprintf("%s at %s:%d", e.Instance, e.IP, e.Port)
}

// MDNSBrowser discovers wireless-debugging endpoints via mDNS.
type MDNSBrowser struct {
	// Timeout is the maximum time to listen for advertisements.
	Timeout time.Duration

	logger *zap.Logger
}

// NewMDNSBrowser creates a browser with the default timeout.
func NewMDNSBrowser(logger *zap.Logger) *MDNSBrowser {
	return &MDNSBrowser{
		Timeout: DefaultMDNSTimeout,
		logger:  logger,
	}
}

// Browse collects wireless-debugging advertisements from the local
// network. Not every device advertises (the service is suppressed on some
// OEM builds), so an empty result is normal and callers fall back to the
// neighbor-table scan.
func (b *MDNSBrowser) Browse(ctx context.Context) []MDNSEndpoint {
	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		b.logger.Debug("mDNS resolver unavailable", zap.Error(err))
		return nil
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var endpoints []MDNSEndpoint

	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			if ep, ok := parseADBEntry(entry); ok {
				b.logger.Info("mDNS wireless debugging advertisement",
					zap.String("instance", ep.Instance),
					zap.String("ip", ep.IP),
					zap.Int("port", ep.Port),
				)
				endpoints = append(endpoints, ep)
			}
		}
	}()

	if err := resolver.Browse(ctx, ADBServiceType, ServiceDomain, entries); err != nil {
		b.logger.Debug("mDNS browse failed", zap.Error(err))
		return nil
	}

	<-ctx.Done()
	<-done
	return endpoints
}

// parseADBEntry converts a zeroconf service entry to an endpoint,
// preferring IPv4 addresses.
func parseADBEntry(entry *zeroconf.ServiceEntry) (MDNSEndpoint, bool) {
	if entry.Port == 0 {
		return MDNSEndpoint{}, false
	}
	for _, addr := range entry.AddrIPv4 {
		return MDNSEndpoint{
			Instance: entry.Instance,
			IP:       addr.String(),
			Port:     entry.Port,
		}, true
	}
	return MDNSEndpoint{}, false
}
