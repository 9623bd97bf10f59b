package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"
	"time"
)

// Cmd describes a child process to run. A nil Stdin reads from the null
// device, nil Stdout or Stderr discard output.
type Cmd struct {
	Argv   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// TimeLimit bounds the wall time of the process. Zero means no bound.
	TimeLimit time.Duration
}

// Metrics are collected once the process has been reaped.
type Metrics struct {
	ExitCode int
	// Signal is set when the process was terminated by a signal.
	Signal   syscall.Signal
	TimedOut bool

	WallTime time.Duration
	// PeakRssBytes is the child's own peak resident set size as sampled from
	// /proc while it ran. Zero if it exited before the first sample.
	PeakRssBytes int64
}

func (m *Metrics) Success() bool {
	return !m.TimedOut && m.Signal == 0 && m.ExitCode == 0
}

// waitDelay bounds how long Wait keeps copying stdio after the process exits.
const waitDelay = time.Second

// Run starts the command in its own process group and waits for it. When the
// time limit elapses the whole group is killed, reaped, and Metrics.TimedOut is
// set. Cancelling ctx kills the group as well but is reported as an error,
// as is a failure to start the process at all.
func Run(ctx context.Context, c Cmd) (*Metrics, error) {
	if len(c.Argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := exec.Command(c.Argv[0], c.Argv[1:]...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.WaitDelay = waitDelay

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", c.Argv[0], err)
	}

	// rusage is not used for memory: the exec after Go's vfork-style clone
	// carries the parent's peak RSS into the child's ru_maxrss.
	stopWatch := make(chan struct{})
	peak := make(chan int64, 1)
	go func() {
		peak <- watchMemory(cmd.Process.Pid, stopWatch)
	}()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
		close(stopWatch)
	}()

	var deadline <-chan time.Time
	if c.TimeLimit > 0 {
		timer := time.NewTimer(c.TimeLimit)
		defer timer.Stop()
		deadline = timer.C
	}

	m := &Metrics{}
	var waitErr error
	select {
	case waitErr = <-done:
	case <-deadline:
		m.TimedOut = true
		kill(cmd)
		waitErr = <-done
	case <-ctx.Done():
		kill(cmd)
		<-done
		<-peak
		return nil, fmt.Errorf("%s interrupted: %w", c.Argv[0], ctx.Err())
	}
	m.WallTime = time.Since(start)

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) && !m.TimedOut {
			return nil, fmt.Errorf("failed to wait for %s: %w", c.Argv[0], waitErr)
		}
	}

	collect(cmd, m)
	m.PeakRssBytes = <-peak
	return m, nil
}

func collect(cmd *exec.Cmd, m *Metrics) {
	st := cmd.ProcessState
	if st == nil {
		return
	}
	m.ExitCode = st.ExitCode()
	if ws, ok := st.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		m.Signal = ws.Signal()
	}
}

// kill terminates the process group led by cmd, falling back to the leader alone.
func kill(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
}
