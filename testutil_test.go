package loom_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/loom-di/loom"
)

// ============================================================================
// Shared Test Types
// ============================================================================

// TService is a basic service for testing.
type TService struct {
	ID    string
	Value int
}

// TDisposable exposes the synchronous teardown capability.
type TDisposable struct {
	Name     string
	closed   atomic.Int32
	closeErr error
}

func (d *TDisposable) Close() error {
	d.closed.Add(1)
	return d.closeErr
}

func (d *TDisposable) Closed() bool { return d.closed.Load() > 0 }

func (d *TDisposable) CloseCount() int { return int(d.closed.Load()) }

// TAsyncDisposable exposes the asynchronous teardown capability.
type TAsyncDisposable struct {
	Name     string
	closed   atomic.Int32
	closeErr error
	seenCtx  context.Context
	mu       sync.Mutex
}

func (d *TAsyncDisposable) Close(ctx context.Context) error {
	d.mu.Lock()
	d.seenCtx = ctx
	d.mu.Unlock()
	d.closed.Add(1)
	return d.closeErr
}

func (d *TAsyncDisposable) Closed() bool { return d.closed.Load() > 0 }

// TStartable exposes the start capability.
type TStartable struct {
	Name     string
	started  atomic.Int32
	startErr error
	block    chan struct{} // when non-nil, Start blocks until closed
}

func (s *TStartable) Start() error {
	s.started.Add(1)
	if s.block != nil {
		<-s.block
	}
	return s.startErr
}

func (s *TStartable) StartCount() int { return int(s.started.Load()) }

// TStartableCtx exposes the context-aware start capability.
type TStartableCtx struct {
	started atomic.Int32
}

func (s *TStartableCtx) Start(ctx context.Context) error {
	s.started.Add(1)
	return nil
}

// counter counts factory invocations across resolves.
type counter struct {
	n atomic.Int32
}

func (c *counter) inc() int32 { return c.n.Add(1) }

func (c *counter) count() int { return int(c.n.Load()) }

// constFactory returns a factory producing v with no dependencies.
func constFactory(v any) loom.Factory {
	return func(loom.Deps) (any, error) { return v, nil }
}
