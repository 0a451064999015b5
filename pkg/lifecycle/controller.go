package lifecycle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meridian-sys/standalone/internal/logger"
	"github.com/meridian-sys/standalone/internal/telemetry"
	"github.com/meridian-sys/standalone/pkg/config"
)

// DefaultGracePeriod bounds voluntary teardown when the configuration does
// not specify a shutdown timeout.
const DefaultGracePeriod = 30 * time.Second

// auxStopTimeout bounds auxiliary server teardown after the component has
// already stopped (or been abandoned).
const auxStopTimeout = 5 * time.Second

// Controller supervises a single component for the lifetime of the
// process. It owns the state machine: Starting -> Running -> ShuttingDown
// -> Stopped, with ShuttingDown reachable from Starting when the shutdown
// request fires before the component is up. Transitions are monotonic.
type Controller struct {
	grace time.Duration
	req   *ShutdownRequest
	state atomic.Int32
	aux   []AuxiliaryServer

	serveOnce sync.Once
}

// New creates a controller. A zero or negative grace period falls back to
// DefaultGracePeriod.
func New(grace time.Duration, req *ShutdownRequest) *Controller {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Controller{grace: grace, req: req}
}

// AddAuxiliary registers a supporting server whose lifetime is tied to the
// component's. Must be called before Serve.
func (c *Controller) AddAuxiliary(srv AuxiliaryServer) {
	c.aux = append(c.aux, srv)
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Running reports whether the component is in its steady serving state.
// The ops readiness probe keys off this.
func (c *Controller) Running() bool {
	return c.State() == StateRunning
}

func (c *Controller) setState(s State) {
	c.state.Store(int32(s))
	metricState.Set(float64(s))
	logger.Debug("lifecycle state changed", "state", s.String())
}

// Serve constructs the component via factory and runs it until it
// completes, fails, or the shutdown request fires. It is the blocking
// heart of the process: main calls it once and exits with its verdict.
//
// Serve returns nil on clean completion or graceful shutdown, a
// *ConstructionError when the factory fails, a *ComponentError when Run
// reports a fatal error, and ErrForcedTermination when voluntary teardown
// exceeds the grace period. A controller serves at most once; subsequent
// calls return an error without touching the component.
func (c *Controller) Serve(ctx context.Context, name string, factory Factory, cfg *config.Config) error {
	served := false
	var err error
	c.serveOnce.Do(func() {
		served = true
		err = c.serve(ctx, name, factory, cfg)
	})
	if !served {
		return errors.New("lifecycle: controller already served")
	}
	return err
}

func (c *Controller) serve(ctx context.Context, name string, factory Factory, cfg *config.Config) error {
	c.setState(StateStarting)
	logger.Info("starting component", "component", name, "grace_period", c.grace.String())

	ctx, span := telemetry.StartSpan(ctx, "lifecycle.serve")
	defer span.End()

	comp, err := factory(cfg)
	if err != nil {
		cerr := &ConstructionError{Err: err}
		telemetry.RecordError(ctx, cerr)
		logger.Error("component construction failed", "component", name, "error", err)
		c.setState(StateStopped)
		return cerr
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Auxiliary servers come up before the component enters Running so the
	// ops endpoint can answer liveness probes for the whole steady state.
	auxErr := make(chan error, len(c.aux))
	for _, srv := range c.aux {
		go func(srv AuxiliaryServer) {
			if err := srv.Start(runCtx); err != nil {
				auxErr <- err
			}
		}(srv)
		logger.Info("auxiliary server started", "component", name, "port", srv.Port())
	}

	// A shutdown request that fired during construction means the
	// component never enters Running at all.
	if c.req.Fired() {
		reason, detail := c.req.Reason()
		c.setState(StateShuttingDown)
		logger.Info("shutdown requested during startup",
			"component", name, "reason", string(reason), "detail", detail)
		comp.Shutdown()
		c.stopAuxiliaries(name)
		c.setState(StateStopped)
		if reason == ReasonFailure {
			metricComponentFailures.Inc()
			return &ComponentError{Err: errors.New(detail)}
		}
		return nil
	}

	c.setState(StateRunning)
	logger.Info("component running", "component", name)

	done := make(chan error, 1)
	go func() {
		done <- comp.Run(runCtx)
	}()

	// Steady state: wait for whichever comes first. A component that
	// returns before any shutdown request simply ends the process; the
	// shutdown path below is for the other two arms.
	var runErr error
	select {
	case runErr = <-done:
		c.setState(StateShuttingDown)
		if runErr != nil {
			c.req.Fire(ReasonFailure, runErr.Error())
		}
		c.stopAuxiliaries(name)
		c.setState(StateStopped)
		if runErr != nil {
			metricComponentFailures.Inc()
			ferr := &ComponentError{Err: runErr}
			telemetry.RecordError(ctx, ferr)
			logger.Error("component failed", "component", name, "error", runErr)
			return ferr
		}
		logger.Info("component completed", "component", name)
		return nil

	case err := <-auxErr:
		c.req.Fire(ReasonFailure, err.Error())
		logger.Error("auxiliary server failed", "component", name, "error", err)

	case <-c.req.Done():
	}

	// Shutdown path. Ask the component to stop, cancel its context, and
	// give it the grace period to return from Run.
	reason, detail := c.req.Reason()
	c.setState(StateShuttingDown)
	logger.Info("shutting down component",
		"component", name,
		"reason", string(reason),
		"detail", detail,
		"grace_period", c.grace.String())

	comp.Shutdown()
	cancel()

	timer := time.NewTimer(c.grace)
	defer timer.Stop()

	select {
	case runErr = <-done:
	case <-timer.C:
		// The component's goroutine is abandoned, not killed; the process
		// exits regardless once main returns.
		metricForcedTerminations.Inc()
		telemetry.RecordError(ctx, ErrForcedTermination)
		logger.Error("grace period expired, forcing termination",
			"component", name,
			"grace_period", c.grace.String())
		c.stopAuxiliaries(name)
		c.setState(StateStopped)
		return ErrForcedTermination
	}

	c.stopAuxiliaries(name)
	c.setState(StateStopped)

	if runErr != nil {
		metricComponentFailures.Inc()
		ferr := &ComponentError{Err: runErr}
		telemetry.RecordError(ctx, ferr)
		logger.Error("component failed during shutdown", "component", name, "error", runErr)
		return ferr
	}
	if reason == ReasonFailure {
		metricComponentFailures.Inc()
		return &ComponentError{Err: errors.New(detail)}
	}
	logger.Info("component stopped", "component", name)
	return nil
}

func (c *Controller) stopAuxiliaries(name string) {
	if len(c.aux) == 0 {
		return
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), auxStopTimeout)
	defer cancel()
	for _, srv := range c.aux {
		if err := srv.Stop(stopCtx); err != nil {
			logger.Warn("auxiliary server stop failed", "component", name, "error", err)
		}
	}
}
