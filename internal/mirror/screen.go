package mirror

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DeviceShell runs shell commands on the connected device.
// *adb.Runner satisfies it.
type DeviceShell interface {
	Shell(ctx context.Context, args ...string) (string, error)
}

// DefaultKeeperInterval is how often the keeper checks display state.
const DefaultKeeperInterval = 2 * time.Second

// ScreenKeeper keeps the device's physical display off while mirroring,
// so stray touches on the glass do nothing. It polls the power service
// and sends a power keyevent whenever the display woke up.
//
// The keeper shares no state with discovery beyond the context used to
// stop it.
type ScreenKeeper struct {
	// Interval between display-state checks.
	Interval time.Duration

	shell  DeviceShell
	logger *zap.Logger
}

// NewScreenKeeper creates a keeper with the default poll interval.
func NewScreenKeeper(shell DeviceShell, logger *zap.Logger) *ScreenKeeper {
	return &ScreenKeeper{
		Interval: DefaultKeeperInterval,
		shell:    shell,
		logger:   logger,
	}
}

// ScreenOff turns the physical display off once.
func (k *ScreenKeeper) ScreenOff(ctx context.Context) {
	k.shell.Shell(ctx, "input", "keyevent", "KEYCODE_POWER")
}

// Run polls until ctx is cancelled, forcing the display off whenever it
// is awake. Intended to be started as a goroutine after the mirroring
// client has attached.
func (k *ScreenKeeper) Run(ctx context.Context) {
	ticker := time.NewTicker(k.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if k.displayAwake(ctx) {
			k.logger.Debug("Display awake, forcing it off")
			// Twice: some devices need a second press when the first
			// lands during an animation.
			k.ScreenOff(ctx)
			sleepCtx(ctx, 500*time.Millisecond)
			k.ScreenOff(ctx)
		}
	}
}

// displayAwake reads the power service's wakefulness. An unreadable or
// unrecognized state counts as awake so the keeper errs toward pressing
// power.
func (k *ScreenKeeper) displayAwake(ctx context.Context) bool {
	out, err := k.shell.Shell(ctx, "dumpsys", "power")
	if err != nil {
		return false // device gone; the session is ending anyway
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "mWakefulness=") {
			return strings.Contains(line, "Awake")
		}
	}
	return true
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
