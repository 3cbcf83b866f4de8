package loom

import "sort"

// ServiceMap declares the services of a container, keyed by name.
//
// Each value is one of:
//   - a Factory (or a bare func(Deps) (any, error))
//   - a []Factory, registering a decorator chain
//   - a Descriptor, typically built through the lifetime tag constructors
//     such as Scoped.Of
//   - any other value, registered as a constant
//
// The default lifetime is Singleton; constants are wrapped as
// zero-dependency factories returning themselves.
type ServiceMap map[string]any

// registry holds the normalized descriptors of one container. It is built
// once at construction and shared read-only with child scopes.
type registry struct {
	descriptors map[string]Descriptor

	// keys is sorted; Go maps carry no declaration order, so eager
	// background startup runs in lexical key order for determinism.
	keys []string
}

func newRegistry(services ServiceMap) (*registry, error) {
	r := &registry{
		descriptors: make(map[string]Descriptor, len(services)),
		keys:        make([]string, 0, len(services)),
	}

	for key, service := range services {
		desc, err := normalizeService(key, service)
		if err != nil {
			return nil, err
		}

		r.descriptors[key] = desc
		r.keys = append(r.keys, key)
	}

	sort.Strings(r.keys)
	return r, nil
}

func (r *registry) lookup(key string) (Descriptor, bool) {
	desc, ok := r.descriptors[key]
	return desc, ok
}

// normalizeService maps one ServiceMap value onto a validated Descriptor.
// Only empty chains and nil factories fail here; everything else is deferred
// to resolution.
func normalizeService(key string, service any) (Descriptor, error) {
	var desc Descriptor

	switch s := service.(type) {
	case Descriptor:
		desc = s
	case Factory:
		desc = Descriptor{Chain: []Factory{s}, Lifetime: Singleton}
	case func(Deps) (any, error):
		desc = Descriptor{Chain: []Factory{s}, Lifetime: Singleton}
	case []Factory:
		desc = Descriptor{Chain: s, Lifetime: Singleton}
	case nil:
		return Descriptor{}, RegistrationError{Key: key, Cause: ErrNilFactory}
	default:
		// Constant value: wrapped as a zero-dependency factory.
		desc = Descriptor{
			Chain:    []Factory{func(Deps) (any, error) { return s, nil }},
			Lifetime: Singleton,
		}
	}

	if err := desc.validate(key); err != nil {
		return Descriptor{}, err
	}

	return desc, nil
}
