// Package loom is a string-keyed dependency-injection runtime. Given a
// declarative map of named service definitions, it builds the object graph on
// demand, manages instance lifetime, detects illegal construction cycles, and
// tears the graph down deterministically.
//
// # Overview
//
// Services are declared in a ServiceMap and registered explicitly as tagged
// variants — factories, constants, decorator chains, or lifetime-tagged
// descriptors. There is no reflection: every factory receives an explicit
// dependency-access view and pulls what it needs by key.
//
//   - Four lifetimes: Singleton, Scoped, Transient, and Background
//   - Decorator chains layered under a single key
//   - Child scopes sharing singleton and background instances
//   - Eager, asynchronous startup for background services
//   - Concurrent, failure-tolerant disposal
//
// # Basic Usage
//
// Declare the service map, create a container, and resolve:
//
//	container, err := loom.New(loom.ServiceMap{
//	    "config": cfg,
//	    "db": loom.Singleton.Of(func(deps loom.Deps) (any, error) {
//	        cfg, err := loom.Get[*Config](deps, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return OpenDatabase(cfg.DSN)
//	    }),
//	    "users": loom.Scoped.Of(newUserService),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer container.Close(context.Background())
//
//	users, err := loom.Resolve[*UserService](container, "users")
//
// # Scopes
//
// CreateScope returns a child container. Scoped keys are built and cached per
// scope; singleton and background keys resolve to the parent's instances. In
// web applications a scope is typically created per request and closed when
// the request completes. A parent must outlive the scopes it shares
// instances with.
//
// # Cycles
//
// Two factories that synchronously read each other during construction fail
// with a CircularDependencyError carrying the full ordered path. Factories
// that merely capture the access view and read the other key after
// construction has completed resolve normally — by then the cycle guard has
// released the keys.
//
// # Lifecycle
//
// Instances exposing a Startable capability are started once, in the
// background, after their first build; keys tagged Background are built and
// started at container construction. Start failures are captured, not
// thrown, and surface through Container.Ready. Close walks every instance
// the container built and invokes the Disposable and DisposableWithContext
// capabilities concurrently, aggregating any failures into one DisposeError.
package loom
