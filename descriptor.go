package loom

// Factory produces an instance from its resolved dependencies.
//
// Dependencies are pulled on demand through the Deps view; within one
// invocation, repeated access to the same key returns the same instance.
type Factory func(deps Deps) (any, error)

// Deps is the dependency-access view handed to every factory invocation.
//
// Get triggers resolution of the requested key with the current factory as
// the calling context, which is what allows a decorator factory to request
// the next-lower layer of its own key. The view remains valid after the
// factory returns: a Get captured in a closure and called later resolves
// against the container's caches, so mutually-referencing services can
// exchange references once construction has completed.
type Deps interface {
	// Get resolves the instance registered under key.
	Get(key string) (any, error)
}

// Descriptor is the normalized registration unit: an ordered, non-empty
// factory chain plus a lifetime tag.
//
// A chain of length 1 is the common case. Longer chains express decorator
// layering: the factory at position i may request the instance produced by
// position i-1 under the same key, and a plain resolve returns the outermost
// (last) layer.
type Descriptor struct {
	Chain    []Factory
	Lifetime Lifetime
}

// Of wraps one or more factories into a Descriptor tagged with the lifetime.
//
//	loom.New(loom.ServiceMap{
//	    "db":    loom.Singleton.Of(newDB),
//	    "cache": loom.Scoped.Of(newCache, newCacheMetrics),
//	    "tasks": loom.Background.Of(newTaskRunner),
//	})
func (l Lifetime) Of(factories ...Factory) Descriptor {
	return Descriptor{Chain: factories, Lifetime: l}
}

func (d Descriptor) validate(key string) error {
	if len(d.Chain) == 0 {
		return RegistrationError{Key: key, Cause: ErrEmptyChain}
	}

	for _, factory := range d.Chain {
		if factory == nil {
			return RegistrationError{Key: key, Cause: ErrNilFactory}
		}
	}

	if !d.Lifetime.IsValid() {
		return RegistrationError{Key: key, Cause: LifetimeError{Value: d.Lifetime}}
	}

	return nil
}
