package mirror

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Config holds the configuration for the mirroring client.
type Config struct {
	// ScrcpyPath is the path to the scrcpy binary.
	// Default: "scrcpy" (searches PATH)
	ScrcpyPath string

	// ExtraArgs are appended after the fixed option set.
	ExtraArgs []string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ScrcpyPath: "scrcpy",
	}
}

// Launcher starts and tracks the external mirroring client. The client's
// output is not inspected; only process lifetime matters.
type Launcher struct {
	config Config
	logger *zap.Logger
	cmd    *exec.Cmd
}

// NewLauncher creates a launcher with the given configuration.
func NewLauncher(config Config, logger *zap.Logger) *Launcher {
	if config.ScrcpyPath == "" {
		config.ScrcpyPath = "scrcpy"
	}
	return &Launcher{
		config: config,
		logger: logger,
	}
}

// Start launches the mirroring client in the background.
//
// --stay-awake keeps the device on while mirroring; --power-off-on-close
// restores the physical display when the session ends. The physical
// screen itself is turned off separately, once the client has attached.
func (l *Launcher) Start() error {
	args := append([]string{"--stay-awake", "--power-off-on-close"}, l.config.ExtraArgs...)
	cmd := exec.Command(l.config.ScrcpyPath, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", l.config.ScrcpyPath, err)
	}
	l.cmd = cmd
	l.logger.Info("Mirroring client started",
		zap.String("path", l.config.ScrcpyPath),
		zap.Int("pid", cmd.Process.Pid),
	)
	return nil
}

// Wait blocks until the mirroring client exits.
func (l *Launcher) Wait() error {
	if l.cmd == nil {
		return fmt.Errorf("mirroring client not started")
	}
	err := l.cmd.Wait()
	l.logger.Info("Mirroring client exited", zap.Error(err))
	return err
}

// Stop asks the client to terminate, escalating to a kill if it ignores
// the request.
func (l *Launcher) Stop() {
	if l.cmd == nil || l.cmd.Process == nil {
		return
	}
	if err := l.cmd.Process.Signal(os.Interrupt); err != nil {
		l.cmd.Process.Kill()
		return
	}
	done := make(chan struct{})
	go func() {
		l.cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		l.cmd.Process.Kill()
	}
}

// Available reports whether the mirroring client binary can be found.
func (l *Launcher) Available() error {
	_, err := exec.LookPath(l.config.ScrcpyPath)
	if err != nil {
		return fmt.Errorf("mirroring client %q not found: %w\n"+
			"Hint: install scrcpy or set scrcpy_path in the config file", l.config.ScrcpyPath, err)
	}
	return nil
}
