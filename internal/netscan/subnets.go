package netscan

import (
	"context"
	"net"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ipv4Re = regexp.MustCompile(`(\d+\.\d+\.\d+)\.\d+`)

// Subnets returns the distinct /24 prefixes ("a.b.c") of all non-loopback
// IPv4 addresses on local interfaces. Introspection failures degrade to an
// empty set, never an error: discovery continues with whatever the host
// can tell us.
func Subnets(ctx context.Context, logger *zap.Logger) []string {
	subnets := subnetsFromInterfaces()
	if len(subnets) == 0 {
		// Some containers and locked-down hosts hide interface data from
		// the runtime; fall back to shelling out.
		subnets = subnetsFromCommands(ctx)
	}
	for _, s := range subnets {
		logger.Info("Found subnet", zap.String("subnet", s+".x"))
	}
	return subnets
}

func subnetsFromInterfaces() []string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	var subnets []string
	seen := make(map[string]bool)
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip4 := ipNet.IP.To4()
		if ip4 == nil || ip4.IsLoopback() {
			continue
		}
		prefix := prefix24(ip4.String())
		if prefix != "" && !seen[prefix] {
			seen[prefix] = true
			subnets = append(subnets, prefix)
		}
	}
	return subnets
}

// subnetsFromCommands tries a prioritized list of OS commands and parses
// the first one that produces output.
func subnetsFromCommands(ctx context.Context) []string {
	cmdCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	candidates := [][]string{
		{"ip", "-4", "addr", "show"},
		{"hostname", "-I"},
		{"ifconfig"},
	}
	for _, args := range candidates {
		out, err := exec.CommandContext(cmdCtx, args[0], args[1:]...).Output()
		if err != nil || len(out) == 0 {
			continue
		}
		if subnets := parseSubnets(string(out)); len(subnets) > 0 {
			return subnets
		}
	}
	return nil
}

// parseSubnets extracts distinct non-loopback /24 prefixes from any text
// containing dotted-quad IPv4 addresses.
func parseSubnets(out string) []string {
	var subnets []string
	seen := make(map[string]bool)
	for _, m := range ipv4Re.FindAllStringSubmatch(out, -1) {
		prefix := m[1]
		if strings.HasPrefix(prefix, "127.") || seen[prefix] {
			continue
		}
		seen[prefix] = true
		subnets = append(subnets, prefix)
	}
	return subnets
}

// prefix24 returns the "a.b.c" prefix of a dotted-quad IPv4 address, or
// "" for loopback and malformed input.
func prefix24(ip string) string {
	i := strings.LastIndex(ip, ".")
	if i < 0 {
		return ""
	}
	prefix := ip[:i]
	if strings.HasPrefix(prefix, "127.") {
		return ""
	}
	return prefix
}
