// Package lifecycle drives the run loop of a standalone Meridian
// component: construction from validated configuration, supervised
// execution, and signal-driven graceful shutdown bounded by a grace
// period.
package lifecycle

import (
	"context"

	"github.com/meridian-sys/standalone/pkg/config"
)

// Component is the contract between the harness and the platform component
// it hosts. The controller depends only on this interface, never on a
// concrete component type.
type Component interface {
	// Run executes the component's main work. It returns nil when the
	// component completes on its own or finishes voluntary teardown after
	// a shutdown request, and an error on unrecoverable internal failure.
	// Cancellation of ctx is the cooperative shutdown signal; Run must
	// observe it.
	Run(ctx context.Context) error

	// Shutdown requests orderly teardown. It must be idempotent and
	// non-blocking; Run is expected to return once teardown completes.
	Shutdown()
}

// Factory constructs a component from resolved configuration. It is called
// exactly once per process, after configuration validation and logging
// initialization have both completed.
type Factory func(cfg *config.Config) (Component, error)

// AuxiliaryServer is a supporting server (ops endpoint, debug listener)
// whose lifetime the controller ties to the component's. Start blocks
// until ctx is cancelled or the server fails; a failure is treated as a
// component-fatal shutdown trigger.
type AuxiliaryServer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Port() int
}
