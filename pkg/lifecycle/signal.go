package lifecycle

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/meridian-sys/standalone/internal/logger"
)

// Bridge forwards OS termination signals to a ShutdownRequest. The first
// signal fires the request; later signals are counted and logged so an
// operator hammering Ctrl-C during a stuck shutdown gets feedback, but
// they never terminate the process directly. The grace period is the only
// bound on shutdown duration.
type Bridge struct {
	req   *ShutdownRequest
	ch    chan os.Signal
	done  chan struct{}
	extra atomic.Int64
}

// NewBridge creates a bridge wired to req. Call Start to begin listening.
func NewBridge(req *ShutdownRequest) *Bridge {
	return &Bridge{
		req:  req,
		ch:   make(chan os.Signal, 4),
		done: make(chan struct{}),
	}
}

// Start registers the signal handlers and begins forwarding. SIGINT,
// SIGTERM and SIGHUP all mean "shut down gracefully"; none carries a
// reload meaning here.
func (b *Bridge) Start() {
	signal.Notify(b.ch, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go b.loop()
}

// Stop unregisters the handlers and ends the forwarding goroutine.
func (b *Bridge) Stop() {
	signal.Stop(b.ch)
	close(b.done)
}

// ExtraSignals returns the number of signals received after the first.
func (b *Bridge) ExtraSignals() int64 {
	return b.extra.Load()
}

func (b *Bridge) loop() {
	for {
		select {
		case sig := <-b.ch:
			b.deliver(sig)
		case <-b.done:
			return
		}
	}
}

// deliver handles one received signal. Split out from loop so tests can
// inject signals without raising them process-wide.
func (b *Bridge) deliver(sig os.Signal) {
	metricSignalsReceived.WithLabelValues(sig.String()).Inc()

	if !b.req.Fired() {
		logger.Info("received termination signal, shutting down", "signal", sig.String())
		b.req.Fire(ReasonSignal, sig.String())
		return
	}

	n := b.extra.Add(1)
	logger.Warn("shutdown already in progress, ignoring signal",
		"signal", sig.String(),
		"extra_signals", n)
}
