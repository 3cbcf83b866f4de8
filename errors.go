package loom

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. These are wrapped by the typed errors below; match them
// with errors.Is.
var (
	ErrServiceNotFound    = errors.New("service not found")
	ErrContainerDisposed  = errors.New("container has been disposed")
	ErrCircularDependency = errors.New("circular dependency detected")
	ErrEmptyChain         = errors.New("factory chain cannot be empty")
	ErrNilFactory         = errors.New("factory cannot be nil")
	ErrNilFunction        = errors.New("function cannot be nil")
)

var (
	_ error = LifetimeError{}
	_ error = RegistrationError{}
	_ error = NotFoundError{}
	_ error = CircularDependencyError{}
	_ error = InjectionError{}
	_ error = StartError{}
	_ error = DisposeError{}
)

// LifetimeError indicates an invalid lifetime value.
type LifetimeError struct {
	Value any
}

func (e LifetimeError) Error() string {
	return fmt.Sprintf("invalid lifetime: %v", e.Value)
}

// RegistrationError wraps errors raised while normalizing a service map.
type RegistrationError struct {
	Key   string
	Cause error
}

func (e RegistrationError) Error() string {
	return fmt.Sprintf("failed to register %q: %v", e.Key, e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// NotFoundError indicates a resolve was requested for an undeclared key.
type NotFoundError struct {
	Key string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("service not found: %q", e.Key)
}

func (e NotFoundError) Unwrap() error {
	return ErrServiceNotFound
}

// CircularDependencyError indicates a self-referential construction path was
// detected synchronously. Path holds the ordered keys under construction,
// ending with the repeated key.
type CircularDependencyError struct {
	Path []string
}

func (e CircularDependencyError) Error() string {
	return "Circular dependency detected: " + strings.Join(e.Path, " -> ")
}

func (e CircularDependencyError) Unwrap() error {
	return ErrCircularDependency
}

// InjectionError wraps a factory failure together with the resolution path at
// the point of failure. Nested InjectionErrors are never re-wrapped, so the
// innermost path and cause survive propagation through outer resolves.
type InjectionError struct {
	Key   string
	Path  []string
	Cause error
}

func (e InjectionError) Error() string {
	return fmt.Sprintf("Injection error for %s: %v", e.Key, e.Cause)
}

func (e InjectionError) Unwrap() error {
	return e.Cause
}

// StartError is captured when an instance's start capability fails. It is
// never thrown from Resolve; it surfaces through Container.Ready.
type StartError struct {
	Key   string
	Cause error
}

func (e StartError) Error() string {
	return fmt.Sprintf("start failed for %s: %v", e.Key, e.Cause)
}

func (e StartError) Unwrap() error {
	return e.Cause
}

// DisposeError aggregates every failure collected during a dispose pass.
// Individual failures never suppress each other; all disposals are attempted
// before the aggregate is reported.
type DisposeError struct {
	Errors []error
}

func (e DisposeError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d error(s) during dispose: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e DisposeError) Unwrap() []error {
	return e.Errors
}
