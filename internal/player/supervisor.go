package player

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

const (
	supMaxFastFails = 5
	supFastFailSec  = 5.0
	supMaxBackoff   = 30 * time.Second
	supBackoffReset = 30 * time.Second // reset backoff if the player ran this long
	supTermTimeout  = 3 * time.Second
)

// supervisor keeps one player subprocess running with bounded restart
// logic. Safe to Start/Stop concurrently.
type supervisor struct {
	name     string
	buildCmd func() *exec.Cmd

	mu         sync.Mutex
	currentPID int
	backoff    time.Duration
	failCount  int
	stopCh     chan struct{}
	doneCh     chan struct{}
	running    bool
}

func newSupervisor(name string, buildCmd func() *exec.Cmd) *supervisor {
	return &supervisor{
		name:     name,
		buildCmd: buildCmd,
		backoff:  500 * time.Millisecond,
	}
}

// Start launches the process and begins supervision. No-op if already
// running. ctx cancellation stops supervision and kills the process.
func (s *supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.failCount = 0
	s.backoff = 500 * time.Millisecond
	s.running = true
	go s.supervise(ctx)
	return nil
}

// Stop terminates the process and waits for supervision to end.
func (s *supervisor) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	stopCh := s.stopCh
	doneCh := s.doneCh
	s.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
	case <-time.After(10 * time.Second):
		slog.Warn("player: supervisor stop timed out", "name", s.name)
	}
	return nil
}

func (s *supervisor) supervise(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.currentPID = 0
		doneCh := s.doneCh
		s.mu.Unlock()
		close(doneCh)
	}()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		s.mu.Lock()
		if s.failCount >= supMaxFastFails {
			slog.Error("player: giving up after repeated fast-fails", "name", s.name, "fails", s.failCount)
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		cmd := s.buildCmd()
		if cmd == nil {
			slog.Error("player: buildCmd returned nil", "name", s.name)
			return
		}
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

		startTime := time.Now()
		if err := cmd.Start(); err != nil {
			// Missing binary is permanent, retrying won't help.
			if errors.Is(err, exec.ErrNotFound) || strings.Contains(err.Error(), "no such file or directory") {
				slog.Error("player: binary not found, giving up", "name", s.name, "cmd", cmd.Path, "err", err)
				return
			}
			slog.Error("player: failed to start process", "name", s.name, "err", err)
			s.mu.Lock()
			s.failCount++
			backoff := s.backoff
			s.backoff = min(s.backoff*2, supMaxBackoff)
			s.mu.Unlock()
			s.sleepOrStop(ctx, backoff)
			continue
		}

		pid := cmd.Process.Pid
		s.mu.Lock()
		s.currentPID = pid
		s.mu.Unlock()
		slog.Debug("player: process running", "name", s.name, "pid", pid)

		exitCh := make(chan error, 1)
		go func() { exitCh <- cmd.Wait() }()

		var exitErr error
		select {
		case exitErr = <-exitCh:
		case <-s.stopCh:
			killProcessGroup(pid)
			<-exitCh
			return
		case <-ctx.Done():
			killProcessGroup(pid)
			<-exitCh
			return
		}

		elapsed := time.Since(startTime)
		slog.Info("player: process exited", "name", s.name, "pid", pid, "elapsed", elapsed, "err", exitErr)

		s.mu.Lock()
		s.currentPID = 0
		switch {
		case elapsed >= supBackoffReset:
			s.failCount = 0
			s.backoff = 500 * time.Millisecond
		case elapsed.Seconds() < supFastFailSec:
			s.failCount++
			s.backoff = min(s.backoff*2, supMaxBackoff)
		default:
			s.failCount = 0
		}
		backoff := s.backoff
		s.mu.Unlock()

		s.sleepOrStop(ctx, backoff)
	}
}

func (s *supervisor) sleepOrStop(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-s.stopCh:
	case <-ctx.Done():
	}
}

// killProcessGroup sends SIGTERM to the process group and escalates to
// SIGKILL after supTermTimeout.
func killProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGTERM)

	deadline := time.Now().Add(supTermTimeout)
	for time.Now().Before(deadline) {
		if syscall.Kill(-pid, 0) != nil {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	slog.Warn("player: SIGTERM timed out, sending SIGKILL", "pid", pid)
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
