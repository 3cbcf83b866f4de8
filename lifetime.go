package loom

import (
	"encoding/json"
	"fmt"
)

// Lifetime specifies how instances produced for a key are cached and shared.
// The lifetime is attached per key, not per factory within a chain.
type Lifetime int

const (
	// Singleton specifies that a single instance is created on first request
	// and cached for the lifetime of the container. Singleton instances are
	// shared with child scopes.
	Singleton Lifetime = iota

	// Scoped specifies that a new instance is created per container. A child
	// scope builds and caches its own instance independently of its parent.
	Scoped

	// Transient specifies that a new instance is created on every resolve.
	// Transient instances are never cached.
	Transient

	// Background behaves like Singleton, but the instance is built eagerly at
	// container construction and its start capability is invoked immediately.
	Background
)

// String returns the string representation of the Lifetime.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "Singleton"
	case Scoped:
		return "Scoped"
	case Transient:
		return "Transient"
	case Background:
		return "Background"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// IsValid checks if the lifetime is one of the declared values.
func (l Lifetime) IsValid() bool {
	return l >= Singleton && l <= Background
}

// MarshalText implements encoding.TextMarshaler.
func (l Lifetime) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lifetime) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Singleton", "singleton":
		*l = Singleton
	case "Scoped", "scoped":
		*l = Scoped
	case "Transient", "transient":
		*l = Transient
	case "Background", "background":
		*l = Background
	default:
		return LifetimeError{Value: string(text)}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Lifetime) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lifetime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	return l.UnmarshalText([]byte(s))
}
