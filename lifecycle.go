package loom

import (
	"context"
	"errors"
	"fmt"
)

// Startable is the start capability. It is invoked exactly once per built
// instance, in the background, right after the first build — regardless of
// the key's lifetime. The outcome is memoized; repeated resolves of a cached
// instance never re-invoke Start.
type Startable interface {
	Start() error
}

// StartableWithContext is the context-aware variant of Startable.
type StartableWithContext interface {
	Start(ctx context.Context) error
}

// startState memoizes the outcome of one instance's start capability. The
// error, if any, is set before done is closed.
type startState struct {
	done chan struct{}
	err  error
}

// startInstance launches the start capability of a freshly built record.
// Failures — returned errors and panics alike — are captured as a StartError
// on the record rather than propagated; they surface through Ready.
func (c *Container) startInstance(record *instanceRecord) {
	var start func(ctx context.Context) error
	switch v := record.instance.(type) {
	case StartableWithContext:
		start = v.Start
	case Startable:
		start = func(context.Context) error { return v.Start() }
	default:
		return
	}

	state := &startState{done: make(chan struct{})}
	record.start = state

	go func() {
		defer close(state.done)
		defer func() {
			if r := recover(); r != nil {
				state.err = StartError{Key: record.key, Cause: fmt.Errorf("start panicked: %v", r)}
			}
		}()

		if err := start(context.Background()); err != nil {
			state.err = StartError{Key: record.key, Cause: err}
		}
	}()
}

// startBackground eagerly resolves every key with the Background lifetime.
// Keys are visited in lexical order.
func (c *Container) startBackground() error {
	for _, key := range c.registry.keys {
		if c.registry.descriptors[key].Lifetime != Background {
			continue
		}

		if _, err := c.Resolve(key); err != nil {
			return err
		}
	}

	return nil
}

// Ready blocks until every start capability launched by this container has
// settled, then reports the captured StartErrors, if any, joined into one
// error. Instances held by a parent container are reported by the parent's
// Ready, not the child's.
func (c *Container) Ready(ctx context.Context) error {
	if c.IsDisposed() {
		return ErrContainerDisposed
	}

	var errs []error
	for _, record := range c.cache.all() {
		if record.start == nil {
			continue
		}

		select {
		case <-record.start.done:
			if record.start.err != nil {
				errs = append(errs, record.start.err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return errors.Join(errs...)
}
