package netscan

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"time"
)

// Freshness classifies a neighbor-table entry.
type Freshness int

const (
	// FreshnessUnknown means the OS gave no usable state for the entry.
	FreshnessUnknown Freshness = iota
	// FreshnessDynamic means the entry was learned from traffic recently;
	// only dynamic entries are considered live-host candidates.
	FreshnessDynamic
	// FreshnessStatic means a permanent administrative entry.
	FreshnessStatic
)

func (f Freshness) String() string {
	switch f {
	case FreshnessDynamic:
		return "dynamic"
	case FreshnessStatic:
		return "static"
	default:
		return "unknown"
	}
}

// Neighbor is one IP to MAC mapping from the OS neighbor table.
type Neighbor struct {
	MAC       string
	Freshness Freshness
}

var (
	ipNeighRe = regexp.MustCompile(`(\d+\.\d+\.\d+\.\d+)\s+dev\s+\S+\s+lladdr\s+([0-9a-fA-F:]+)\s+(\w+)`)
	arpARe    = regexp.MustCompile(`\((\d+\.\d+\.\d+\.\d+)\)\s+at\s+([0-9a-fA-F:]+)\s+\[(\w+)\]`)
	arpWinRe  = regexp.MustCompile(`(\d+\.\d+\.\d+\.\d+)\s+([0-9a-fA-F-]{17})\s+(\w+)`)
)

// NeighborTable reads the OS neighbor/ARP cache. It never mutates OS
// state and is cheap enough to call once per subnet pass. A host with no
// working introspection command yields an empty map, not an error.
func NeighborTable(ctx context.Context) map[string]Neighbor {
	cmdCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if runtime.GOOS == "windows" {
		if out, err := exec.CommandContext(cmdCtx, "arp", "-a").Output(); err == nil {
			return parseArpWindows(string(out))
		}
		return map[string]Neighbor{}
	}

	if out, err := exec.CommandContext(cmdCtx, "ip", "neigh", "show").Output(); err == nil && len(out) > 0 {
		return parseIPNeigh(string(out))
	}
	if table := readProcNetArp(); len(table) > 0 {
		return table
	}
	if out, err := exec.CommandContext(cmdCtx, "arp", "-a").Output(); err == nil {
		return parseArpBSD(string(out))
	}
	return map[string]Neighbor{}
}

// parseIPNeigh parses `ip neigh show` output:
//
//	192.168.0.5 dev wlan0 lladdr aa:bb:cc:dd:ee:ff REACHABLE
func parseIPNeigh(out string) map[string]Neighbor {
	table := make(map[string]Neighbor)
	for _, line := range strings.Split(out, "\n") {
		m := ipNeighRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		table[m[1]] = Neighbor{
			MAC:       strings.ToLower(m[2]),
			Freshness: freshnessFromNeighState(m[3]),
		}
	}
	return table
}

// freshnessFromNeighState maps kernel neighbor states onto the
// dynamic/static split. REACHABLE through PROBE all indicate a
// recently-learned entry.
func freshnessFromNeighState(state string) Freshness {
	switch strings.ToUpper(state) {
	case "REACHABLE", "STALE", "DELAY", "PROBE":
		return FreshnessDynamic
	case "PERMANENT":
		return FreshnessStatic
	default:
		return FreshnessUnknown
	}
}

// readProcNetArp reads /proc/net/arp directly, for Linux hosts without
// iproute2.
func readProcNetArp() map[string]Neighbor {
	f, err := os.Open("/proc/net/arp")
	if err != nil {
		return nil
	}
	defer f.Close()

	table := make(map[string]Neighbor)
	s := bufio.NewScanner(f)
	s.Scan() // skip header
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) < 4 {
			continue
		}
		ip, flags, mac := fields[0], fields[2], fields[3]
		if mac == "00:00:00:00:00:00" {
			continue
		}
		// Flags 0x2 = complete (learned); 0x6 = complete+permanent.
		freshness := FreshnessUnknown
		switch flags {
		case "0x2":
			freshness = FreshnessDynamic
		case "0x6":
			freshness = FreshnessStatic
		}
		table[ip] = Neighbor{MAC: strings.ToLower(mac), Freshness: freshness}
	}
	return table
}

// parseArpBSD parses BSD-style `arp -a` output:
//
//	? (192.168.0.3) at aa:bb:cc:dd:ee:ff [ether] on wlan0
func parseArpBSD(out string) map[string]Neighbor {
	table := make(map[string]Neighbor)
	for _, line := range strings.Split(out, "\n") {
		m := arpARe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		freshness := FreshnessDynamic
		if strings.Contains(line, "permanent") {
			freshness = FreshnessStatic
		}
		table[m[1]] = Neighbor{MAC: strings.ToLower(m[2]), Freshness: freshness}
	}
	return table
}

// parseArpWindows parses Windows `arp -a` output:
//
//	192.168.0.3      00-11-22-33-44-55     dynamic
func parseArpWindows(out string) map[string]Neighbor {
	table := make(map[string]Neighbor)
	for _, line := range strings.Split(out, "\n") {
		m := arpWinRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		freshness := FreshnessUnknown
		switch strings.ToLower(m[3]) {
		case "dynamic":
			freshness = FreshnessDynamic
		case "static":
			freshness = FreshnessStatic
		}
		mac := strings.ToLower(strings.ReplaceAll(m[2], "-", ":"))
		table[m[1]] = Neighbor{MAC: mac, Freshness: freshness}
	}
	return table
}
