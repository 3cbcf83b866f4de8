package loom_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-di/loom"
)

func TestCreateScope_ScopedIsolation(t *testing.T) {
	var calls counter

	container, err := loom.New(loom.ServiceMap{
		"svc": loom.Scoped.Of(func(loom.Deps) (any, error) {
			calls.inc()
			return &TService{}, nil
		}),
	})
	require.NoError(t, err)
	defer container.Close(context.Background())

	scope := container.CreateScope()
	defer scope.Close(context.Background())

	fromScope, err := scope.Resolve("svc")
	require.NoError(t, err)
	fromScopeAgain, err := scope.Resolve("svc")
	require.NoError(t, err)
	fromRoot, err := container.Resolve("svc")
	require.NoError(t, err)

	assert.Same(t, fromScope, fromScopeAgain)
	assert.NotSame(t, fromScope, fromRoot)
	assert.Equal(t, 2, calls.count())
}

func TestCreateScope_SingletonSharing(t *testing.T) {
	var calls counter

	container, err := loom.New(loom.ServiceMap{
		"svc": loom.Singleton.Of(func(loom.Deps) (any, error) {
			calls.inc()
			return &TService{}, nil
		}),
	})
	require.NoError(t, err)
	defer container.Close(context.Background())

	scope := container.CreateScope()
	defer scope.Close(context.Background())

	// First touch through the scope builds in the parent.
	fromScope, err := scope.Resolve("svc")
	require.NoError(t, err)
	fromRoot, err := container.Resolve("svc")
	require.NoError(t, err)

	assert.Same(t, fromRoot, fromScope)
	assert.Equal(t, 1, calls.count())

	nested := scope.CreateScope()
	defer nested.Close(context.Background())

	fromNested, err := nested.Resolve("svc")
	require.NoError(t, err)
	assert.Same(t, fromRoot, fromNested)
}

func TestCreateScope_BackgroundSharing(t *testing.T) {
	startable := &TStartable{Name: "worker"}

	container, err := loom.New(loom.ServiceMap{
		"worker": loom.Background.Of(constFactory(startable)),
	})
	require.NoError(t, err)
	defer container.Close(context.Background())

	scope := container.CreateScope()
	defer scope.Close(context.Background())

	fromScope, err := scope.Resolve("worker")
	require.NoError(t, err)
	assert.Same(t, startable, fromScope)
	assert.Equal(t, 1, startable.StartCount())
}

func TestCreateScope_DisposalIsLocal(t *testing.T) {
	rootDisposable := &TDisposable{Name: "root"}
	container, err := loom.New(loom.ServiceMap{
		"shared": loom.Singleton.Of(constFactory(rootDisposable)),
		"local": loom.Scoped.Of(func(loom.Deps) (any, error) {
			return &TDisposable{Name: "local"}, nil
		}),
	})
	require.NoError(t, err)
	defer container.Close(context.Background())

	scope := container.CreateScope()

	shared, err := scope.Resolve("shared")
	require.NoError(t, err)
	local, err := loom.Resolve[*TDisposable](scope, "local")
	require.NoError(t, err)

	require.NoError(t, scope.Close(context.Background()))

	assert.True(t, local.Closed())
	assert.False(t, shared.(*TDisposable).Closed())

	// The parent still owns the shared instance.
	again, err := container.Resolve("shared")
	require.NoError(t, err)
	assert.Same(t, shared, again)
}

func TestCreateScope_TransientNeverCached(t *testing.T) {
	var calls counter

	container, err := loom.New(loom.ServiceMap{
		"svc": loom.Transient.Of(func(loom.Deps) (any, error) {
			calls.inc()
			return &TService{}, nil
		}),
	})
	require.NoError(t, err)
	defer container.Close(context.Background())

	scope := container.CreateScope()
	defer scope.Close(context.Background())

	first, err := scope.Resolve("svc")
	require.NoError(t, err)
	second, err := scope.Resolve("svc")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, calls.count())
}

func TestCreateScope_Lineage(t *testing.T) {
	container, err := loom.New(loom.ServiceMap{})
	require.NoError(t, err)
	defer container.Close(context.Background())

	assert.True(t, container.IsRoot())
	assert.Nil(t, container.Parent())
	assert.NotEmpty(t, container.ID())

	scope := container.CreateScope()
	defer scope.Close(context.Background())

	assert.False(t, scope.IsRoot())
	assert.Same(t, container, scope.Parent())
	assert.NotEqual(t, container.ID(), scope.ID())
}

func TestCreateScope_Disposed(t *testing.T) {
	container, err := loom.New(loom.ServiceMap{})
	require.NoError(t, err)
	require.NoError(t, container.Close(context.Background()))

	assert.Panics(t, func() { container.CreateScope() })
}

func TestCreateScope_ScopedDependsOnSingleton(t *testing.T) {
	container, err := loom.New(loom.ServiceMap{
		"shared": loom.Singleton.Of(constFactory(&TService{ID: "shared"})),
		"local": loom.Scoped.Of(func(deps loom.Deps) (any, error) {
			shared, err := loom.Get[*TService](deps, "shared")
			if err != nil {
				return nil, err
			}
			return &TService{ID: "local:" + shared.ID}, nil
		}),
	})
	require.NoError(t, err)
	defer container.Close(context.Background())

	scope := container.CreateScope()
	defer scope.Close(context.Background())

	local, err := loom.Resolve[*TService](scope, "local")
	require.NoError(t, err)
	assert.Equal(t, "local:shared", local.ID)

	shared, err := container.Resolve("shared")
	require.NoError(t, err)
	scopeShared, err := scope.Resolve("shared")
	require.NoError(t, err)
	assert.Same(t, shared, scopeShared)
}
