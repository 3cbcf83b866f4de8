// Package chi provides loom integration for Chi and other net/http routers.
//
// The middleware creates a request-scoped container for each request and the
// handler wrapper resolves controllers from it.
//
// Example usage:
//
//	container, _ := loom.New(services)
//
//	r := chi.NewRouter()
//	r.Use(loomchi.ScopeMiddleware(container))
//
//	r.Post("/login", loomchi.Handle("auth", (*AuthController).Login))
//	r.Get("/users/{id}", loomchi.Handle("users", (*UserController).GetByID))
package chi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/loom-di/loom"
)

// Config holds the configuration for the scope middleware.
type Config struct {
	// ErrorHandler is called when a scope middleware step fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// CloseErrorHandler is called when closing the request scope fails.
	// If nil, failures are logged through Logger.
	CloseErrorHandler func(error)

	// Logger is used by the default handlers. If nil, zap's global logger
	// is used.
	Logger *zap.Logger

	// Middlewares run after scope creation. They can seed request-specific
	// services, set user data, and so on.
	Middlewares []func(*loom.Container, *http.Request) error
}

// Option configures the scope middleware.
type Option func(*Config)

// WithErrorHandler sets the handler for scope middleware failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithCloseErrorHandler sets the handler for scope close failures.
func WithCloseErrorHandler(h func(error)) Option {
	return func(c *Config) {
		c.CloseErrorHandler = h
	}
}

// WithLogger sets the logger used by the default handlers.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMiddleware adds a function that runs after scope creation. Multiple
// middlewares execute in the order they are added.
func WithMiddleware(mw func(*loom.Container, *http.Request) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func newConfig(opts []Option) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.L()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
	if cfg.CloseErrorHandler == nil {
		logger := cfg.Logger
		cfg.CloseErrorHandler = func(err error) {
			logger.Warn("failed to close request scope", zap.Error(err))
		}
	}

	return cfg
}

// ScopeMiddleware creates a middleware that opens a child scope of container
// for each request. The scope is attached to the request context and can be
// retrieved with loom.FromContext; it is closed when the request completes.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(loomchi.ScopeMiddleware(container))
func ScopeMiddleware(container *loom.Container, opts ...Option) func(http.Handler) http.Handler {
	cfg := newConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := container.CreateScope()
			defer func() {
				if err := scope.Close(r.Context()); err != nil {
					cfg.CloseErrorHandler(err)
				}
			}()

			r = r.WithContext(loom.NewContext(r.Context(), scope))

			for _, mw := range cfg.Middlewares {
				if err := mw(scope, r); err != nil {
					cfg.ErrorHandler(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Handle wraps a controller method for type-safe resolution from the request
// scope. The controller registered under key is resolved as T from the scope
// attached to the request context by ScopeMiddleware.
//
// Example:
//
//	r.Get("/users/{id}", loomchi.Handle("users", (*UserController).GetByID))
func Handle[T any](key string, method func(T, http.ResponseWriter, *http.Request), opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts)

	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := loom.FromContext(r.Context())
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}

		controller, err := loom.Resolve[T](scope, key)
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}

		method(controller, w, r)
	}
}
