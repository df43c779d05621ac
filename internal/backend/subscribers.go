package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging/events"
)

// SubscriberError wraps a failure raised by one update callback.
type SubscriberError struct {
	Index int
	Err   error
}

func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscriber %d: %v", e.Index, e.Err)
}

func (e *SubscriberError) Unwrap() error {
	return e.Err
}

// SubscriberRegistry is an append-only, ordered list of update callbacks.
type SubscriberRegistry struct {
	logger *slog.Logger

	mu        sync.Mutex
	callbacks []func() error
}

// NewSubscriberRegistry returns an empty registry logging through logger.
func NewSubscriberRegistry(logger *slog.Logger) *SubscriberRegistry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SubscriberRegistry{logger: logger}
}

// Add appends cb. Nil callbacks are ignored.
func (r *SubscriberRegistry) Add(cb func() error) {
	if cb == nil {
		return
	}
	r.mu.Lock()
	r.callbacks = append(r.callbacks, cb)
	r.mu.Unlock()
}

// Len returns the number of registered callbacks.
func (r *SubscriberRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.callbacks)
}

// Notify runs every callback in registration order on the calling goroutine.
// Failures are logged and collected; they never stop later callbacks.
func (r *SubscriberRegistry) Notify() error {
	r.mu.Lock()
	callbacks := r.callbacks[:len(r.callbacks):len(r.callbacks)]
	r.mu.Unlock()

	var errs []error
	for i, cb := range callbacks {
		if err := invoke(cb); err != nil {
			serr := &SubscriberError{Index: i, Err: err}
			r.logger.Warn("subscriber failed", "index", i, "err", err)
			events.Catalog.SubscriberFailed(i, err)
			errs = append(errs, serr)
		}
	}
	return errors.Join(errs...)
}

func invoke(cb func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return cb()
}
