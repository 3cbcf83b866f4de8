package loom

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a container at construction time.
type Option interface {
	applyOption(*containerOptions)
}

// containerOptions holds container configuration. Child scopes inherit the
// options of the container that created them; With-derived containers
// inherit and may override.
type containerOptions struct {
	logger     *zap.Logger
	onResolved func(key string, instance any, duration time.Duration)
	onError    func(key string, err error)
}

func defaultOptions() containerOptions {
	return containerOptions{logger: zap.NewNop()}
}

// optionFunc adapts a function to Option.
type optionFunc func(*containerOptions)

func (f optionFunc) applyOption(opts *containerOptions) {
	f(opts)
}

// WithLogger sets the logger used for debug-level resolution events and
// warn-level dispose failures. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(opts *containerOptions) {
		if logger != nil {
			opts.logger = logger
		}
	})
}

// OnResolved registers a callback invoked after every successful top-level
// resolve with the key, the instance, and the resolution duration.
func OnResolved(fn func(key string, instance any, duration time.Duration)) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.onResolved = fn
	})
}

// OnError registers a callback invoked when a top-level resolve fails.
func OnError(fn func(key string, err error)) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.onError = fn
	})
}
