package loom

import "fmt"

// Resolve is a generic helper that resolves a service as type T.
func Resolve[T any](c *Container, key string) (T, error) {
	var zero T

	instance, err := c.Resolve(key)
	if err != nil {
		return zero, err
	}

	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("type assertion failed for %q: expected %T, got %T", key, zero, instance)
	}

	return result, nil
}

// ResolveAll is a generic helper that resolves every chain position of a key
// as []T, innermost first.
func ResolveAll[T any](c *Container, key string) ([]T, error) {
	instances, err := c.ResolveAll(key)
	if err != nil {
		return nil, err
	}

	results := make([]T, 0, len(instances))
	for i, instance := range instances {
		result, ok := instance.(T)
		if !ok {
			return nil, fmt.Errorf("type assertion failed for %q at index %d: expected %T, got %T",
				key, i, *new(T), instance)
		}
		results = append(results, result)
	}

	return results, nil
}

// Get is a generic helper for factory bodies: it pulls a dependency through
// the access view and asserts it to type T.
func Get[T any](deps Deps, key string) (T, error) {
	var zero T

	instance, err := deps.Get(key)
	if err != nil {
		return zero, err
	}

	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("type assertion failed for %q: expected %T, got %T", key, zero, instance)
	}

	return result, nil
}

// MustResolve resolves a service and panics on error.
func MustResolve[T any](c *Container, key string) T {
	result, err := Resolve[T](c, key)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %q: %v", key, err))
	}
	return result
}

// MustGet pulls a dependency through the access view and panics on error.
// Intended for factory bodies where a missing dependency is unrecoverable.
func MustGet[T any](deps Deps, key string) T {
	result, err := Get[T](deps, key)
	if err != nil {
		panic(fmt.Sprintf("failed to get %q: %v", key, err))
	}
	return result
}
