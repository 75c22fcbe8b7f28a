package mirror

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeShell scripts responses for shell commands and records everything
// that was run.
type fakeShell struct {
	mu       sync.Mutex
	dumpsys  string
	err      error
	commands []string
}

func (f *fakeShell) Shell(ctx context.Context, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := strings.Join(args, " ")
	f.commands = append(f.commands, cmd)
	if f.err != nil {
		return "", f.err
	}
	if strings.HasPrefix(cmd, "dumpsys power") {
		return f.dumpsys, nil
	}
	return "", nil
}

func (f *fakeShell) ran(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.commands {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func TestScreenKeeper_DisplayAwake(t *testing.T) {
	tests := []struct {
		name    string
		dumpsys string
		err     error
		want    bool
	}{
		{
			name:    "awake",
			dumpsys: "POWER MANAGER (dumpsys power)\n  mWakefulness=Awake\n",
			want:    true,
		},
		{
			name:    "asleep",
			dumpsys: "POWER MANAGER (dumpsys power)\n  mWakefulness=Asleep\n",
			want:    false,
		},
		{
			name:    "dozing",
			dumpsys: "  mWakefulness=Dozing\n",
			want:    false,
		},
		{
			name:    "state missing counts as awake",
			dumpsys: "POWER MANAGER (dumpsys power)\n",
			want:    true,
		},
		{
			name: "device gone counts as not awake",
			err:  errors.New("device offline"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shell := &fakeShell{dumpsys: tt.dumpsys, err: tt.err}
			k := NewScreenKeeper(shell, zap.NewNop())
			if got := k.displayAwake(context.Background()); got != tt.want {
				t.Errorf("displayAwake() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScreenKeeper_ForcesScreenOffWhenAwake(t *testing.T) {
	shell := &fakeShell{dumpsys: "mWakefulness=Awake"}
	k := NewScreenKeeper(shell, zap.NewNop())
	k.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		k.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for shell.ran("input keyevent KEYCODE_POWER") < 2 {
		select {
		case <-deadline:
			t.Fatal("keeper never pressed power while display was awake")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestScreenKeeper_IdleWhenAsleep(t *testing.T) {
	shell := &fakeShell{dumpsys: "mWakefulness=Asleep"}
	k := NewScreenKeeper(shell, zap.NewNop())
	k.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		k.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	if n := shell.ran("input keyevent"); n != 0 {
		t.Errorf("keeper pressed power %d times while display was asleep", n)
	}
}
