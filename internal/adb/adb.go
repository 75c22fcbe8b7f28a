package adb

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds the configuration for adb execution.
type Config struct {
	// ADBPath is the path to the adb binary.
	// Default: "adb" (searches PATH)
	ADBPath string

	// DefaultTimeout bounds commands that do not specify their own.
	// Default: 10 seconds
	DefaultTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ADBPath:        "adb",
		DefaultTimeout: 10 * time.Second,
	}
}

// Runner executes adb commands via os/exec.
//
// Every invocation is bounded by a timeout; a timed-out command is reported
// through the returned error, never by blocking the caller indefinitely.
type Runner struct {
	config Config
	logger *zap.Logger
}

// NewRunner creates a new adb runner with the given configuration.
func NewRunner(config Config, logger *zap.Logger) *Runner {
	if config.ADBPath == "" {
		config.ADBPath = "adb"
	}
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = 10 * time.Second
	}
	return &Runner{
		config: config,
		logger: logger,
	}
}

// Run executes adb with the given arguments and returns captured output.
// A non-zero exit code is not an error by itself: probe-style callers
// inspect stdout regardless of exit status. err is non-nil only when the
// process could not be started or the timeout elapsed.
func (r *Runner) Run(ctx context.Context, timeout time.Duration, args ...string) (stdout, stderr string, exitCode int, err error) {
	if timeout <= 0 {
		timeout = r.config.DefaultTimeout
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, r.config.ADBPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	exitCode = 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
			runErr = nil // command ran; let callers judge the exit code
		} else {
			exitCode = -1
		}
	}

	if timeoutCtx.Err() == context.DeadlineExceeded {
		runErr = &TimeoutError{
			Args:    strings.Join(args, " "),
			Timeout: timeout,
		}
	}

	r.logger.Debug("adb command complete",
		zap.String("args", strings.Join(args, " ")),
		zap.Duration("duration", duration),
		zap.Int("exit_code", exitCode),
		zap.Int("stdout_size", len(stdout)),
		zap.Int("stderr_size", len(stderr)),
	)

	if runErr != nil && exitCode == -1 {
		if _, ok := runErr.(*TimeoutError); !ok {
			runErr = &ExecError{
				Path: r.config.ADBPath,
				Args: strings.Join(args, " "),
				Err:  runErr,
			}
		}
	}

	return stdout, stderr, exitCode, runErr
}

// KillServer stops the local adb server process.
func (r *Runner) KillServer(ctx context.Context) {
	r.Run(ctx, 0, "kill-server")
}

// StartServer starts the local adb server process.
func (r *Runner) StartServer(ctx context.Context) {
	r.Run(ctx, 0, "start-server")
}

// RestartServer restarts the local adb server, waiting briefly between the
// kill and the start so the old process releases its socket.
func (r *Runner) RestartServer(ctx context.Context) {
	r.KillServer(ctx)
	sleepCtx(ctx, time.Second)
	r.StartServer(ctx)
	sleepCtx(ctx, 2*time.Second)
}

// Devices lists devices known to the adb server.
func (r *Runner) Devices(ctx context.Context) ([]Device, error) {
	stdout, _, _, err := r.Run(ctx, 0, "devices")
	if err != nil {
		return nil, err
	}
	return parseDevices(stdout), nil
}

// Connect issues `adb connect ip:port` and reports whether adb itself
// claimed success. The claim is unreliable (adb reports "connected" for
// some unreachable targets); use ConnectAndVerify for an authoritative
// answer.
func (r *Runner) Connect(ctx context.Context, ip string, port int) bool {
	addr := fmt.Sprintf("%s:%d", ip, port)
	stdout, _, _, err := r.Run(ctx, 5*time.Second, "connect", addr)
	if err != nil {
		return false
	}
	out := strings.ToLower(stdout)
	return strings.Contains(out, "connected") && !strings.Contains(out, "cannot") && !strings.Contains(out, "failed")
}

// ConnectAndVerify connects to ip:port and then verifies the device list
// actually contains the address in the "device" state. This is the
// authoritative wireless connect probe.
func (r *Runner) ConnectAndVerify(ctx context.Context, ip string, port int) bool {
	if !r.Connect(ctx, ip, port) {
		return false
	}

	// Give the server a moment to settle the transport before listing.
	sleepCtx(ctx, time.Second)

	devices, err := r.Devices(ctx)
	if err != nil {
		return false
	}
	addr := fmt.Sprintf("%s:%d", ip, port)
	for _, d := range devices {
		if d.Serial == addr && d.State == StateDevice {
			r.logger.Info("Verified adb connection", zap.String("addr", addr))
			return true
		}
	}
	return false
}

// Disconnect drops the adb connection to ip:port. Failures are ignored:
// the transport may already be gone.
func (r *Runner) Disconnect(ctx context.Context, ip string, port int) {
	r.Run(ctx, 5*time.Second, "disconnect", fmt.Sprintf("%s:%d", ip, port))
}

// Shell runs a shell command on the connected device and returns trimmed
// stdout.
func (r *Runner) Shell(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"shell"}, args...)
	stdout, stderr, exitCode, err := r.Run(ctx, 0, full...)
	if err != nil {
		return "", err
	}
	if exitCode != 0 {
		return "", &ShellError{
			Command:  strings.Join(args, " "),
			ExitCode: exitCode,
			Stderr:   stderr,
		}
	}
	return strings.TrimSpace(stdout), nil
}

// Reboot reboots the connected device.
func (r *Runner) Reboot(ctx context.Context) error {
	_, stderr, exitCode, err := r.Run(ctx, 30*time.Second, "reboot")
	if err != nil {
		return err
	}
	if exitCode != 0 {
		return &ShellError{Command: "reboot", ExitCode: exitCode, Stderr: stderr}
	}
	return nil
}

// Available reports whether the adb binary can be found.
func (r *Runner) Available() error {
	if _, err := exec.LookPath(r.config.ADBPath); err != nil {
		return &PrerequisiteError{
			Prerequisite: "adb",
			Details:      "Install Android platform-tools and ensure adb is on PATH, or set adb_path in the config file.",
			Err:          err,
		}
	}
	return nil
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
