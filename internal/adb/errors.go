package adb

import (
	"fmt"
	"time"
)

// ExecError represents a failure to start the adb process at all.
// This typically means the binary is missing or not executable.
type ExecError struct {
	// Path is the adb binary path that was invoked
	Path string
	// Args is the argument string for context
	Args string
	// Underlying error
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("failed to run %s %s: %v\n"+
		"Hint: Install Android platform-tools or point adb_path at the binary.",
		e.Path, e.Args, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// TimeoutError represents an adb command exceeding its deadline.
// Probe-style callers treat this as an ordinary failed probe.
type TimeoutError struct {
	// Args is the argument string of the command that timed out
	Args string
	// Timeout is the deadline that was exceeded
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("adb command %q timed out after %s", e.Args, e.Timeout)
}

// ShellError represents a device-side shell command returning a non-zero
// exit status.
type ShellError struct {
	// Command is the shell command that failed
	Command string
	// ExitCode is the remote exit status
	ExitCode int
	// Stderr is the captured error output
	Stderr string
}

func (e *ShellError) Error() string {
	return fmt.Sprintf("adb shell %q failed (exit code %d)\nstderr: %s",
		e.Command, e.ExitCode, e.Stderr)
}

// PrerequisiteError represents a missing prerequisite (adb binary,
// mirroring client, etc.).
type PrerequisiteError struct {
	// Prerequisite is the name of the missing prerequisite
	Prerequisite string
	// Details provides additional context
	Details string
	// Underlying error
	Err error
}

func (e *PrerequisiteError) Error() string {
	msg := fmt.Sprintf("missing prerequisite: %s", e.Prerequisite)
	if e.Details != "" {
		msg += "\n" + e.Details
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\nError: %v", e.Err)
	}
	return msg
}

func (e *PrerequisiteError) Unwrap() error {
	return e.Err
}
