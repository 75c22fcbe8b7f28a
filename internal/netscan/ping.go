package netscan

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"runtime"
	"time"

	"github.com/j-keck/arping"
	"go.uber.org/zap"
)

// Hosts probed during a liveness sweep, beyond the broadcast address.
// Routers tend to sit at the bottom of the range, DHCP pools often start
// at .100, so these suffixes wake the hosts most likely to matter.
var sweepSuffixes = []int{1, 2, 3, 4, 5, 10, 100, 101, 102, 103, 104, 105}

// settleInterval is how long the sweep waits for probe replies to land in
// the neighbor table before the caller re-reads it.
const settleInterval = time.Second

// Sweep fires a broadcast ping plus short pings at common host suffixes
// of the given /24 prefix, then waits for the neighbor table to settle.
// The point is populating the OS neighbor cache, not collecting replies:
// every probe is fire-and-forget with its own short timeout.
//
// When the process has raw-socket privileges, ARP pings are sent as well;
// they populate the cache even for hosts that drop ICMP.
func Sweep(ctx context.Context, subnet string, logger *zap.Logger) {
	logger.Info("Sweeping subnet for live hosts", zap.String("subnet", subnet+".x"))

	// Broadcast ping first: a single packet can refresh most of the table.
	broadcast := fmt.Sprintf("%s.255", subnet)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	exec.CommandContext(pingCtx, "ping", pingArgs(broadcast)...).Run()
	cancel()

	arpingOK := tryArping(ctx, fmt.Sprintf("%s.%d", subnet, sweepSuffixes[0]))

	for _, suffix := range sweepSuffixes {
		ip := fmt.Sprintf("%s.%d", subnet, suffix)
		// Detached: replies are read from the neighbor table, not here.
		cmd := exec.Command("ping", pingArgs(ip)...)
		if err := cmd.Start(); err == nil {
			go cmd.Wait()
		}
		if arpingOK {
			go func(ip string) {
				if parsed := net.ParseIP(ip); parsed != nil {
					arping.Ping(parsed)
				}
			}(ip)
		}
	}

	settle := time.NewTimer(settleInterval)
	defer settle.Stop()
	select {
	case <-settle.C:
	case <-ctx.Done():
	}
}

// tryArping sends one probe to find out whether raw sockets are usable.
// arping needs CAP_NET_RAW; on a plain user account it fails uniformly,
// so one failed probe disables it for the rest of the sweep.
func tryArping(ctx context.Context, ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	arping.SetTimeout(300 * time.Millisecond)
	_, _, err := arping.Ping(parsed)
	if err == arping.ErrTimeout {
		return true // socket worked, host just did not answer
	}
	return err == nil
}

// pingArgs builds single-packet short-timeout ping arguments for the
// current platform.
func pingArgs(ip string) []string {
	if runtime.GOOS == "windows" {
		return []string{"-n", "1", "-w", "200", ip}
	}
	return []string{"-c", "1", "-W", "1", ip}
}
