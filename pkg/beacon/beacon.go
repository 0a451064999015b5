// Package beacon implements the reference Meridian component: a heartbeat
// emitter that logs a message at a fixed interval. It exists to exercise
// the full harness surface (configuration, lifecycle, ops endpoint) and to
// serve as the template for real components.
package beacon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meridian-sys/standalone/internal/logger"
	"github.com/meridian-sys/standalone/pkg/config"
	"github.com/meridian-sys/standalone/pkg/lifecycle"
)

// Config is the beacon's component section.
type Config struct {
	// Interval between heartbeats.
	Interval time.Duration `json:"interval" mapstructure:"interval" validate:"required,gt=0" yaml:"interval"`

	// Message logged with each heartbeat.
	Message string `json:"message" mapstructure:"message" validate:"required" yaml:"message"`
}

// Beacon emits a heartbeat log line every Interval.
type Beacon struct {
	cfg Config

	stopOnce sync.Once
	stop     chan struct{}
}

// New constructs a beacon from the resolved harness configuration. It is a
// lifecycle.Factory.
func New(cfg *config.Config) (lifecycle.Component, error) {
	bc := Config{
		Interval: 10 * time.Second,
		Message:  "heartbeat",
	}
	if err := cfg.DecodeComponent(&bc); err != nil {
		return nil, fmt.Errorf("decode beacon configuration: %w", err)
	}
	if err := config.ValidateSection(&bc); err != nil {
		return nil, err
	}
	return &Beacon{cfg: bc, stop: make(chan struct{})}, nil
}

// Run emits heartbeats until ctx is cancelled or Shutdown is called. It
// always finishes voluntary teardown immediately, so a beacon never hits
// the grace period.
func (b *Beacon) Run(ctx context.Context) error {
	logger.Info("beacon started", "interval", b.cfg.Interval.String())

	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	beats := 0
	for {
		select {
		case <-ticker.C:
			beats++
			logger.Info(b.cfg.Message, "beat", beats)
		case <-b.stop:
			logger.Info("beacon stopping", "beats", beats)
			return nil
		case <-ctx.Done():
			logger.Info("beacon stopping", "beats", beats)
			return nil
		}
	}
}

// Shutdown requests teardown. Idempotent and non-blocking.
func (b *Beacon) Shutdown() {
	b.stopOnce.Do(func() { close(b.stop) })
}
