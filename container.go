package loom

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Container owns a registry snapshot, an instance cache, and an optional
// parent. It is the resolver, scope factory, and disposer in one.
//
// Factories execute on the goroutine that called Resolve; construction
// follows a cooperative single-threaded model, with re-entrancy on the same
// call stack guarded by the per-resolve cycle guard. Resolving already-cached
// instances from multiple goroutines is safe.
//
// A child scope never outlives its parent: the parent must stay open for as
// long as any child shares its singleton or background instances.
type Container struct {
	id       string
	registry *registry
	services ServiceMap
	parent   *Container
	cache    *instanceCache
	options  containerOptions
	logger   *zap.Logger
	disposed atomic.Bool
}

// New creates a container from a declarative service map.
//
// Keys with the Background lifetime are built and started eagerly, in
// lexical key order. If an eager build fails, everything built so far is
// disposed and the failure is returned.
func New(services ServiceMap, opts ...Option) (*Container, error) {
	return newContainer(services, defaultOptions(), opts...)
}

func newContainer(services ServiceMap, base containerOptions, opts ...Option) (*Container, error) {
	reg, err := newRegistry(services)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt.applyOption(&base)
	}

	c := &Container{
		id:       uuid.NewString(),
		registry: reg,
		services: services,
		cache:    newInstanceCache(),
		options:  base,
		logger:   base.logger,
	}

	if err := c.startBackground(); err != nil {
		_ = c.Close(context.Background())
		return nil, err
	}

	return c, nil
}

// ID returns the unique ID of this container.
func (c *Container) ID() string {
	return c.id
}

// Parent returns the parent container, or nil for a root container.
func (c *Container) Parent() *Container {
	return c.parent
}

// IsRoot returns true if this container has no parent.
func (c *Container) IsRoot() bool {
	return c.parent == nil
}

// IsDisposed returns true once Close has been called.
func (c *Container) IsDisposed() bool {
	return c.disposed.Load()
}

// Has returns true if key is declared in this container's service map.
func (c *Container) Has(key string) bool {
	_, ok := c.registry.lookup(key)
	return ok
}

// Resolve returns the instance registered under key, building it on demand
// according to its lifetime.
func (c *Container) Resolve(key string) (any, error) {
	if c.IsDisposed() {
		return nil, ErrContainerDisposed
	}

	started := time.Now()
	instance, err := c.resolveChain(&resolution{}, key, nil)
	if err != nil {
		if c.options.onError != nil {
			c.options.onError(key, err)
		}
		return nil, err
	}

	if c.options.onResolved != nil {
		c.options.onResolved(key, instance, time.Since(started))
	}

	return instance, nil
}

// ResolveAll resolves every position in key's chain, innermost first.
func (c *Container) ResolveAll(key string) ([]any, error) {
	if c.IsDisposed() {
		return nil, ErrContainerDisposed
	}

	desc, ok := c.registry.lookup(key)
	if !ok {
		return nil, NotFoundError{Key: key}
	}

	if sharedWithParent(desc.Lifetime) && c.parent != nil && c.parent.Has(key) {
		return c.parent.ResolveAll(key)
	}

	instances := make([]any, 0, len(desc.Chain))
	for index := range desc.Chain {
		instance, err := c.resolveIndex(&resolution{}, key, desc, index, false)
		if err != nil {
			if c.options.onError != nil {
				c.options.onError(key, err)
			}
			return nil, err
		}
		instances = append(instances, instance)
	}

	return instances, nil
}

// Inject builds a one-off factory using the same dependency-access view as
// registered factories, without registering it. The result is not cached,
// but its start and teardown capabilities are honored.
func (c *Container) Inject(factory Factory) (any, error) {
	if c.IsDisposed() {
		return nil, ErrContainerDisposed
	}
	if factory == nil {
		return nil, ErrNilFunction
	}

	view := &depsView{
		container: c,
		res:       &resolution{},
		memo:      make(map[string]any),
	}

	instance, err := invokeFactory(factory, view)
	if err != nil {
		return nil, err
	}

	record := &instanceRecord{key: "inject", instance: instance}
	c.startInstance(record)
	c.cache.add(record, false)

	return instance, nil
}

// CreateScope creates a child container sharing this container's registry
// and its singleton/background instances, with an empty local cache for
// scoped and transient instances.
func (c *Container) CreateScope() *Container {
	if c.IsDisposed() {
		panic(ErrContainerDisposed)
	}

	return &Container{
		id:       uuid.NewString(),
		registry: c.registry,
		services: c.services,
		parent:   c,
		cache:    newInstanceCache(),
		options:  c.options,
		logger:   c.logger,
	}
}

// With produces a brand-new, independent container whose service map is this
// container's map with overrides shallow-merged on top. The original
// container and its cached instances are untouched; the derived container
// starts empty and re-runs eager background startup.
func (c *Container) With(overrides ServiceMap, opts ...Option) (*Container, error) {
	if c.IsDisposed() {
		return nil, ErrContainerDisposed
	}

	merged := make(ServiceMap, len(c.services)+len(overrides))
	for key, service := range c.services {
		merged[key] = service
	}
	for key, service := range overrides {
		merged[key] = service
	}

	return newContainer(merged, c.options, opts...)
}

// Close disposes every instance this container ever built, transients
// included when they expose a teardown capability. Synchronous teardown runs
// before asynchronous teardown; all instances are disposed concurrently and
// every failure is collected into one DisposeError. Caches are cleared
// regardless of the outcome, and subsequent calls return nil.
func (c *Container) Close(ctx context.Context) error {
	if !c.disposed.CompareAndSwap(false, true) {
		return nil
	}

	records := c.cache.drain()
	c.logger.Debug("disposing container",
		zap.String("container", c.id),
		zap.Int("instances", len(records)))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	collect := func(key string, cause error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, InjectionError{Key: key, Cause: cause})
	}

	for _, record := range records {
		syncClose, isSync := record.instance.(Disposable)
		asyncClose, isAsync := record.instance.(DisposableWithContext)
		if !isSync && !isAsync {
			continue
		}

		wg.Add(1)
		go func(record *instanceRecord) {
			defer wg.Done()

			if isSync {
				if err := syncClose.Close(); err != nil {
					collect(record.key, err)
				}
			}
			if isAsync {
				if err := asyncClose.Close(ctx); err != nil {
					collect(record.key, err)
				}
			}
		}(record)
	}

	wg.Wait()

	if len(errs) > 0 {
		err := DisposeError{Errors: errs}
		c.logger.Warn("dispose completed with errors",
			zap.String("container", c.id),
			zap.Error(err))
		return err
	}

	return nil
}

type containerContextKey struct{}

// NewContext returns a context carrying the container, typically a request
// scope created by middleware.
func NewContext(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, containerContextKey{}, c)
}

// FromContext returns the container attached to ctx by NewContext.
func FromContext(ctx context.Context) (*Container, error) {
	c, ok := ctx.Value(containerContextKey{}).(*Container)
	if !ok {
		return nil, errors.New("no container in context")
	}
	return c, nil
}
