package transport

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// ShutdownConfig configures graceful shutdown behavior.
type ShutdownConfig struct {
	// Timeout bounds the wait for in-flight requests. Default: 30s.
	Timeout time.Duration

	// DrainDelay is the pause before draining begins, giving load
	// balancers time to remove the server from rotation. Default: 0.
	DrainDelay time.Duration

	// OnShutdownStart is called when shutdown begins.
	OnShutdownStart func()

	// OnDrainStart is called when draining begins, after DrainDelay.
	OnDrainStart func()

	// OnShutdownComplete is called when shutdown finishes.
	OnShutdownComplete func(err error)
}

// DefaultShutdownConfig returns sensible shutdown defaults.
func DefaultShutdownConfig() ShutdownConfig {
	return ShutdownConfig{
		Timeout:    30 * time.Second,
		DrainDelay: 0,
	}
}

// ShutdownManager coordinates graceful shutdown with request draining.
// While draining, new requests are rejected and the manager waits for
// in-flight requests to finish.
type ShutdownManager struct {
	config ShutdownConfig

	draining  atomic.Bool
	inFlight  atomic.Int64
	doneCh    chan struct{}
	closeOnce sync.Once
}

// NewShutdownManager creates a shutdown manager.
func NewShutdownManager(config ShutdownConfig) *ShutdownManager {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &ShutdownManager{
		config: config,
		doneCh: make(chan struct{}),
	}
}

// IsDraining reports whether the server is draining.
func (sm *ShutdownManager) IsDraining() bool {
	return sm.draining.Load()
}

// InFlightRequests returns the number of in-flight requests.
func (sm *ShutdownManager) InFlightRequests() int64 {
	return sm.inFlight.Load()
}

// TrackRequest increments the in-flight counter. It returns false while
// draining, in which case the request should be rejected.
func (sm *ShutdownManager) TrackRequest() bool {
	if sm.draining.Load() {
		return false
	}
	sm.inFlight.Add(1)
	return true
}

// CompleteRequest decrements the in-flight counter.
func (sm *ShutdownManager) CompleteRequest() {
	sm.inFlight.Add(-1)
}

// Shutdown drains and waits for in-flight requests, returning an error if
// the timeout elapses first.
func (sm *ShutdownManager) Shutdown(ctx context.Context) error {
	if sm.config.OnShutdownStart != nil {
		sm.config.OnShutdownStart()
	}

	if sm.config.DrainDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sm.config.DrainDelay):
		}
	}

	sm.draining.Store(true)
	if sm.config.OnDrainStart != nil {
		sm.config.OnDrainStart()
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, sm.config.Timeout)
	defer cancel()

	shutdownErr := sm.awaitDrain(timeoutCtx)

	sm.closeOnce.Do(func() {
		close(sm.doneCh)
	})
	if sm.config.OnShutdownComplete != nil {
		sm.config.OnShutdownComplete(shutdownErr)
	}
	return shutdownErr
}

func (sm *ShutdownManager) awaitDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if sm.inFlight.Load() > 0 {
				return ctx.Err()
			}
			return nil
		case <-ticker.C:
			if sm.inFlight.Load() == 0 {
				return nil
			}
		}
	}
}

// Done returns a channel closed when shutdown is complete.
func (sm *ShutdownManager) Done() <-chan struct{} {
	return sm.doneCh
}
