package lifecycle

import (
	"sync"
)

// Reason records why shutdown was requested. When the signal bridge and a
// component failure race, whichever fires the request first is the reason
// reported to the operator; teardown proceeds identically either way.
type Reason string

const (
	// ReasonNone means shutdown has not been requested.
	ReasonNone Reason = ""

	// ReasonSignal means an OS termination signal fired the request.
	ReasonSignal Reason = "signal"

	// ReasonFailure means the component or an auxiliary server reported a
	// fatal error.
	ReasonFailure Reason = "failure"
)

// ShutdownRequest is a single-fire cancellation token. It is created once
// at process start; the signal bridge is its primary writer and the
// controller fires it on component-fatal conditions. Once fired it stays
// fired, and firing it again has no observable effect.
type ShutdownRequest struct {
	once   sync.Once
	ch     chan struct{}
	mu     sync.RWMutex
	reason Reason
	detail string
}

// NewShutdownRequest creates an unfired token.
func NewShutdownRequest() *ShutdownRequest {
	return &ShutdownRequest{ch: make(chan struct{})}
}

// Fire triggers the token with the given reason and human-readable detail
// (signal name, failure description). Only the first call wins; later
// calls are no-ops, not errors.
func (r *ShutdownRequest) Fire(reason Reason, detail string) {
	r.once.Do(func() {
		r.mu.Lock()
		r.reason = reason
		r.detail = detail
		r.mu.Unlock()
		close(r.ch)
	})
}

// Done returns a channel closed when the token has fired.
func (r *ShutdownRequest) Done() <-chan struct{} {
	return r.ch
}

// Fired reports whether the token has fired.
func (r *ShutdownRequest) Fired() bool {
	select {
	case <-r.ch:
		return true
	default:
		return false
	}
}

// Reason returns the recorded reason and detail of the first Fire call,
// or ReasonNone when the token has not fired.
func (r *ShutdownRequest) Reason() (Reason, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reason, r.detail
}
