package frontend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"todo-desktop/internal/config"
)

var (
	// ErrNotReady means the dev server did not answer within the ready timeout.
	ErrNotReady = errors.New("front-end server not ready")
	// ErrExited means the dev server exited before it became ready.
	ErrExited = errors.New("front-end server exited")
)

// SupervisionError reports a failure to launch or terminate the dev server.
type SupervisionError struct {
	Op  string
	Err error
}

func (e *SupervisionError) Error() string {
	return fmt.Sprintf("front-end %s: %v", e.Op, e.Err)
}

func (e *SupervisionError) Unwrap() error {
	return e.Err
}

// Supervisor owns the front-end dev server process and its descendants.
type Supervisor struct {
	cfg config.FrontendConfig
	log zerolog.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	exited  chan struct{}
	stopped bool
}

// New creates a supervisor for the configured dev server command.
func New(cfg config.FrontendConfig, log zerolog.Logger) *Supervisor {
	return &Supervisor{
		cfg: cfg,
		log: log.With().Str("component", "frontend").Logger(),
	}
}

// Start launches the dev server in the configured directory and waits until
// its URL answers. The parent's working directory is left untouched.
//
// The process is left running when readiness fails; Stop still owns it.
func (s *Supervisor) Start(ctx context.Context) error {
	if !s.cfg.Enabled() {
		s.log.Info().Str("url", s.cfg.URL).Msg("front-end supervision disabled")
		return nil
	}

	exited, err := s.launch()
	if err != nil {
		return err
	}

	start := time.Now()
	if err := waitReady(ctx, s.cfg.URL, s.cfg.ReadyTimeout, exited); err != nil {
		return &SupervisionError{Op: "ready", Err: err}
	}

	s.log.Info().
		Str("url", s.cfg.URL).
		Dur("elapsed", time.Since(start)).
		Msg("front-end server ready")
	return nil
}

func (s *Supervisor) launch() (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return nil, &SupervisionError{Op: "start", Err: errors.New("already started")}
	}
	if s.stopped {
		return nil, &SupervisionError{Op: "start", Err: errors.New("supervisor stopped")}
	}

	args := s.cfg.Args()
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = s.cfg.Dir
	cmd.Env = os.Environ()
	cmd.WaitDelay = s.stopTimeout()
	setProcAttr(cmd)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return nil, &SupervisionError{Op: "start", Err: err}
	}

	s.cmd = cmd
	s.exited = make(chan struct{})
	exited := s.exited

	go s.forwardOutput(pr)
	go func() {
		err := cmd.Wait()
		pw.Close()
		close(exited)

		s.log.Debug().Err(err).Int("pid", cmd.Process.Pid).Msg("front-end process exited")
	}()

	s.log.Info().
		Strs("command", args).
		Str("dir", s.cfg.Dir).
		Int("pid", cmd.Process.Pid).
		Msg("front-end server started")

	return exited, nil
}

func (s *Supervisor) forwardOutput(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s.log.Debug().Str("stream", "dev-server").Msg(scanner.Text())
	}
	// Keep draining so the child never blocks on a full pipe.
	io.Copy(io.Discard, r)
}

// Stop terminates the dev server and every process it spawned. It is safe to
// call more than once and before Start.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	cmd, exited := s.cmd, s.exited
	s.mu.Unlock()

	if cmd == nil {
		return nil
	}

	pid := cmd.Process.Pid
	timeout := s.stopTimeout()
	log := s.log.With().Int("pid", pid).Logger()

	leaderExited := false
	select {
	case <-exited:
		leaderExited = true
	default:
	}

	var errs []error
	if err := terminateTree(pid, leaderExited); err != nil {
		errs = append(errs, err)
	}

	select {
	case <-exited:
	case <-time.After(timeout):
		log.Warn().Dur("timeout", timeout).Msg("front-end server did not exit, killing")
	}

	// Descendants can outlive the leader, so the whole tree is always killed.
	if err := killTree(pid); err != nil {
		errs = append(errs, err)
	}

	select {
	case <-exited:
	case <-time.After(timeout):
		errs = append(errs, errors.New("process did not exit after kill"))
	}

	if len(errs) > 0 {
		err := &SupervisionError{Op: "stop", Err: errors.Join(errs...)}
		log.Error().Err(err).Msg("failed to stop front-end server cleanly")
		return err
	}

	log.Info().Msg("front-end server stopped")
	return nil
}

// Pid returns the dev server's process id, or 0 if it was never started.
func (s *Supervisor) Pid() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

func (s *Supervisor) stopTimeout() time.Duration {
	if s.cfg.StopTimeout > 0 {
		return s.cfg.StopTimeout
	}
	return 5 * time.Second
}
