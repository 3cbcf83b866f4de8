package loom

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// resolution tracks the state of one top-level resolve: the ordered stack of
// keys currently under construction. It doubles as the cycle guard — a key
// re-entered without a decorator context while still on the stack is an
// illegal cycle.
type resolution struct {
	stack []string
}

func (r *resolution) push(key string) {
	r.stack = append(r.stack, key)
}

func (r *resolution) pop() {
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *resolution) contains(key string) bool {
	for _, k := range r.stack {
		if k == key {
			return true
		}
	}
	return false
}

// path returns a copy of the current stack with key appended, which is the
// full construction path reported in cycle and injection errors.
func (r *resolution) path(key string) []string {
	path := make([]string, len(r.stack), len(r.stack)+1)
	copy(path, r.stack)
	if key != "" {
		path = append(path, key)
	}
	return path
}

// depsView is the dependency-access view handed to one factory invocation.
// Get results are memoized for the duration of the build; the view stays
// usable after its factory returns, at which point the cycle guard has
// released the key — deferred access to an otherwise-cyclic dependency is
// therefore legal.
type depsView struct {
	container *Container
	res       *resolution
	key       string
	index     int

	mu   sync.Mutex
	memo map[string]any
}

var _ Deps = (*depsView)(nil)

func (v *depsView) Get(key string) (any, error) {
	v.mu.Lock()
	if instance, ok := v.memo[key]; ok {
		v.mu.Unlock()
		return instance, nil
	}
	v.mu.Unlock()

	instance, err := v.container.resolveChain(v.res, key, v)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.memo[key] = instance
	v.mu.Unlock()

	return instance, nil
}

// resolveChain resolves key at its outermost chain index, or — when the
// caller is a factory registered under the same key — at the next-lower
// decorator index.
func (c *Container) resolveChain(res *resolution, key string, caller *depsView) (any, error) {
	desc, ok := c.registry.lookup(key)
	if !ok {
		return nil, NotFoundError{Key: key}
	}

	// Singleton and background instances live in the oldest ancestor that
	// declares the key; scoped and transient are always local.
	if sharedWithParent(desc.Lifetime) && c.parent != nil && c.parent.Has(key) {
		return c.parent.resolveChain(res, key, caller)
	}

	index := len(desc.Chain) - 1
	decorator := false
	if caller != nil && caller.key == key && caller.index > 0 {
		index = caller.index - 1
		decorator = true
	}

	return c.resolveIndex(res, key, desc, index, decorator)
}

// resolveIndex builds or returns the instance for one (key, chain index)
// slot. Same-key access from a decorator factory bypasses the cycle check;
// every other re-entry of a key already under construction fails with the
// full ordered path.
func (c *Container) resolveIndex(res *resolution, key string, desc Descriptor, index int, decorator bool) (any, error) {
	slot := instanceKey{key: key, index: index}
	if desc.Lifetime != Transient {
		if record, ok := c.cache.get(slot); ok {
			return record.instance, nil
		}
	}

	if !decorator && res.contains(key) {
		return nil, CircularDependencyError{Path: res.path(key)}
	}

	res.push(key)
	defer res.pop()

	view := &depsView{
		container: c,
		res:       res,
		key:       key,
		index:     index,
		memo:      make(map[string]any),
	}

	instance, err := invokeFactory(desc.Chain[index], view)
	if err != nil {
		return nil, wrapBuildError(key, res, err)
	}

	record := &instanceRecord{key: key, index: index, instance: instance}
	// Start state is attached before the record is published so that Ready
	// never observes a half-initialized record.
	c.startInstance(record)
	c.cache.add(record, desc.Lifetime != Transient)

	c.logger.Debug("service resolved",
		zap.String("container", c.id),
		zap.String("key", key),
		zap.Int("index", index),
		zap.Stringer("lifetime", desc.Lifetime))

	return instance, nil
}

// invokeFactory calls a factory, converting panics into errors.
func invokeFactory(factory Factory, deps Deps) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("factory panicked: %v", r)
		}
	}()

	return factory(deps)
}

// wrapBuildError wraps a factory failure into an InjectionError carrying the
// resolution path at the point of failure. Errors that already carry a path —
// nested InjectionErrors and cycle errors propagating up through outer
// resolves — pass through untouched.
func wrapBuildError(key string, res *resolution, err error) error {
	var injection InjectionError
	if errors.As(err, &injection) {
		return err
	}

	var circular CircularDependencyError
	if errors.As(err, &circular) {
		return err
	}

	return InjectionError{Key: key, Path: res.path(""), Cause: err}
}

func sharedWithParent(lifetime Lifetime) bool {
	return lifetime == Singleton || lifetime == Background
}
