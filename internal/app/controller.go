package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Supervisor manages the front-end dev server.
type Supervisor interface {
	Start(ctx context.Context) error
	Stop() error
}

// APIServer is the background HTTP API.
type APIServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// Window is the native window. Run blocks until the window closes;
// Terminate may be called from any goroutine.
type Window interface {
	Run()
	Terminate()
}

// WindowFactory creates the window. It is called on the goroutine that runs
// the controller.
type WindowFactory func() (Window, error)

// StartupFatalError is a failure that prevents the window from being shown.
type StartupFatalError struct {
	Stage State
	Err   error
}

func (e *StartupFatalError) Error() string {
	return fmt.Sprintf("startup failed in %s: %v", e.Stage, e.Err)
}

func (e *StartupFatalError) Unwrap() error {
	return e.Err
}

// Controller starts the front-end, the API and the window in order and
// guarantees the front-end process tree is stopped on every exit path.
type Controller struct {
	supervisor      Supervisor
	api             APIServer
	newWindow       WindowFactory
	shutdownTimeout time.Duration
	log             zerolog.Logger

	mu      sync.Mutex
	state   State
	history []State

	teardownOnce sync.Once
}

// NewController wires the lifecycle components together.
func NewController(sup Supervisor, api APIServer, newWindow WindowFactory, shutdownTimeout time.Duration, log zerolog.Logger) *Controller {
	return &Controller{
		supervisor:      sup,
		api:             api,
		newWindow:       newWindow,
		shutdownTimeout: shutdownTimeout,
		log:             log.With().Str("component", "lifecycle").Logger(),
		state:           StateIdle,
		history:         []State{StateIdle},
	}
}

// Run drives the application until the window closes or ctx is cancelled
// and returns the process exit code. Cancelling ctx (a termination signal)
// is a clean shutdown.
func (c *Controller) Run(ctx context.Context) (code int) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().
				Interface("panic", r).
				Str("state", c.State().String()).
				Str("stack", string(debug.Stack())).
				Msg("unhandled panic")
			code = ExitFailure
		}
		c.teardown()
		c.transition(StateExited)
		c.log.Info().Int("exit_code", code).Msg("application exited")
	}()

	if err := c.run(ctx); err != nil {
		c.log.Error().Err(err).Msg("fatal startup error")
		return ExitFailure
	}
	return ExitOK
}

func (c *Controller) run(ctx context.Context) error {
	c.transition(StateFrontEndStarting)
	if err := c.supervisor.Start(ctx); err != nil {
		if ctx.Err() != nil {
			c.log.Info().Msg("interrupted while starting front-end")
			return nil
		}
		// The window can still be shown; teardown stops whatever was launched.
		c.log.Error().Err(err).Msg("front-end supervision failed")
	}
	if ctx.Err() != nil {
		return nil
	}

	c.transition(StateAPIStarting)
	if err := c.api.Start(); err != nil {
		return &StartupFatalError{Stage: StateAPIStarting, Err: err}
	}
	if ctx.Err() != nil {
		return nil
	}

	win, err := c.newWindow()
	if err != nil {
		return &StartupFatalError{Stage: StateAPIStarting, Err: fmt.Errorf("failed to create window: %w", err)}
	}

	stop := context.AfterFunc(ctx, func() {
		c.log.Info().Msg("termination requested, closing window")
		win.Terminate()
	})
	defer stop()

	c.transition(StateWindowShown)
	win.Run()
	return nil
}

// teardown stops the front-end process tree and the API server. It runs at
// most once no matter how many exit paths reach it.
func (c *Controller) teardown() {
	c.teardownOnce.Do(func() {
		c.transition(StateTerminating)

		if err := c.supervisor.Stop(); err != nil {
			c.log.Error().Err(err).Msg("failed to stop front-end server")
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.shutdownTimeout)
		defer cancel()
		if err := c.api.Shutdown(ctx); err != nil {
			c.log.Error().Err(err).Msg("failed to shut down API server")
		}
	})
}

func (c *Controller) transition(to State) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.history = append(c.history, to)
	c.mu.Unlock()

	c.log.Info().Stringer("from", from).Stringer("to", to).Msg("state transition")
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// History returns every state the controller has entered, in order.
func (c *Controller) History() []State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]State(nil), c.history...)
}
