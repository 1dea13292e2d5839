package dependor_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/junioryono/dependor"
	"github.com/junioryono/dependor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type loggerService struct {
	Logger string `inject:"logger"`
}

type scenarioHost struct {
	*dependor.Injectable
}

type emptyScenarioHost struct {
	*dependor.Injectable
}

func init() {
	if err := dependor.LookInModules[*scenarioHost](dependor.Values{"logger": "L"}); err != nil {
		panic(err)
	}
}

func newScenarioHost() *scenarioHost {
	h := &scenarioHost{}
	h.Injectable = dependor.Attach(h)
	return h
}

func TestInjectScenarios(t *testing.T) {
	t.Run("chain provides logger", func(t *testing.T) {
		svc, err := dependor.Inject[*loggerService](newScenarioHost(), dependor.Overrides{})
		require.NoError(t, err)
		assert.Equal(t, "L", svc.Logger)
	})

	t.Run("override replaces logger", func(t *testing.T) {
		svc, err := dependor.Inject[*loggerService](newScenarioHost(), dependor.Overrides{"logger": "L2"})
		require.NoError(t, err)
		assert.Equal(t, "L2", svc.Logger)
	})

	t.Run("empty chain", func(t *testing.T) {
		h := &emptyScenarioHost{}
		h.Injectable = dependor.Attach(h)

		_, err := dependor.Inject[*loggerService](h, dependor.Overrides{})
		testutil.AssertInstantiationFailed(t, err, "logger", reflect.TypeOf(&loggerService{}))

		var nf dependor.DependencyNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "logger", nf.Name)
		assert.Equal(t, reflect.TypeOf(h), nf.Requester)
	})
}

type sharedChainHost struct {
	*dependor.Injectable
}

func TestInjectableSharesChainAcrossInstances(t *testing.T) {
	require.NoError(t, dependor.LookInModules[*sharedChainHost](dependor.Values(testutil.CommonValues())))

	first := &sharedChainHost{}
	first.Injectable = dependor.Attach(first)
	second := &sharedChainHost{}
	second.Injectable = dependor.Attach(second)

	a := testutil.AssertResolvable(t, first, "database")
	b := testutil.AssertResolvable(t, second, "database")
	assert.Same(t, a, b)

	assert.NotSame(t, first.AutoResolver(), second.AutoResolver())
	assert.Same(t, first.AutoResolver().Chain(), second.AutoResolver().Chain())
	assert.Same(t, first, first.AutoResolver().Host())

	testutil.AssertNotFound(t, first, "cache")
}

type lazyHost struct {
	*dependor.Injectable
}

func TestInjectableLazyResolver(t *testing.T) {
	h := &lazyHost{}
	h.Injectable = dependor.Attach(h)

	chain := dependor.Declare[*lazyHost]()
	assert.False(t, chain.Frozen(), "attach alone does not build the resolver")
	require.NoError(t, dependor.LookInModules[*lazyHost](dependor.Values{"late": "declared after attach"}))

	value, err := h.Get("late")
	require.NoError(t, err)
	assert.Equal(t, "declared after attach", value)
	assert.True(t, chain.Frozen())

	assert.Same(t, h.AutoResolver(), h.AutoResolver())
	assert.ErrorIs(t, dependor.LookInModules[*lazyHost](dependor.Values{}), dependor.ErrChainFrozen)
}

type concurrentHost struct {
	*dependor.Injectable
}

func TestInjectableConcurrentFirstUse(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	require.NoError(t, dependor.LookInModules[*concurrentHost](dependor.Values{"logger": "L"}))

	h := &concurrentHost{}
	h.Injectable = dependor.Attach(h, dependor.WithZap(zap.New(core)))

	const goroutines = 50
	resolvers := make([]*dependor.AutoResolver, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = h.Get("logger")
			resolvers[i] = h.AutoResolver()
		}(i)
	}
	wg.Wait()

	for _, r := range resolvers {
		assert.Same(t, resolvers[0], r)
	}
	assert.Equal(t, 1, logs.FilterMessage("resolver built").Len())
	assert.Equal(t, goroutines, logs.FilterMessage("resolved").Len())
}

type eagerHost struct {
	*dependor.Injectable
}

func TestInjectableEager(t *testing.T) {
	h := &eagerHost{}
	h.Injectable = dependor.Attach(h, dependor.Eager())

	assert.True(t, dependor.Declare[*eagerHost]().Frozen())
	assert.ErrorIs(t, dependor.LookInModules[*eagerHost](dependor.Values{"x": 1}), dependor.ErrChainFrozen)
}

type explicitChainHost struct {
	*dependor.Injectable
}

func TestInjectableWithChain(t *testing.T) {
	c, err := dependor.NewChain(reflect.TypeOf(&explicitChainHost{}), dependor.Values{"region": "eu"})
	require.NoError(t, err)

	h := &explicitChainHost{}
	h.Injectable = dependor.Attach(h, dependor.WithChain(c))

	value := testutil.AssertResolvable(t, h, "region")
	assert.Equal(t, "eu", value)
	assert.Same(t, c, h.AutoResolver().Chain())
	assert.True(t, c.Frozen())
	assert.False(t, dependor.Declare[*explicitChainHost]().Frozen())
}

type injectHost struct {
	*dependor.Injectable
}

func newInjectHost(t *testing.T, opts ...dependor.Option) *injectHost {
	t.Helper()
	h := &injectHost{}
	h.Injectable = dependor.Attach(h, opts...)
	return h
}

func init() {
	values := testutil.CommonValues()
	values["port"] = 8080
	if err := dependor.LookInModules[*injectHost](dependor.Values(values)); err != nil {
		panic(err)
	}
}

func TestInjectable(t *testing.T) {
	h := newInjectHost(t)

	t.Run("Inject struct", func(t *testing.T) {
		svc, err := dependor.Inject[*testutil.TestService](h, nil)
		require.NoError(t, err)
		assert.NotNil(t, svc.Logger)
		assert.Equal(t, "primary", svc.Database.Name)
		assert.Nil(t, svc.Cache)
	})

	t.Run("Inject with optional override", func(t *testing.T) {
		cache := testutil.NewTestCache()
		svc, err := dependor.Inject[*testutil.TestService](h, dependor.Overrides{"cache": cache})
		require.NoError(t, err)
		assert.Same(t, cache, svc.Cache)
	})

	t.Run("override does not leak", func(t *testing.T) {
		_, err := dependor.Inject[*testutil.TestService](h, dependor.Overrides{"cache": testutil.NewTestCache()})
		require.NoError(t, err)
		assert.False(t, h.Resolvable("cache"))
	})

	t.Run("InjectTarget", func(t *testing.T) {
		target, err := dependor.Func(testutil.NewTestServiceWithDeps, "logger", "database")
		require.NoError(t, err)

		svc, err := dependor.InjectTarget[*testutil.TestServiceWithDeps](h, target, nil)
		require.NoError(t, err)
		assert.Equal(t, "primary", svc.Database.Name)
	})

	t.Run("InjectTarget wrong type", func(t *testing.T) {
		target, err := dependor.Func(testutil.NewTestServiceWithDeps, "logger", "database")
		require.NoError(t, err)

		_, err = dependor.InjectTarget[*testutil.TestService](h, target, nil)
		var tm dependor.TypeMismatchError
		assert.ErrorAs(t, err, &tm)
	})

	t.Run("Inject invalid target", func(t *testing.T) {
		_, err := dependor.Inject[int](h, nil)
		var te dependor.TargetError
		assert.ErrorAs(t, err, &te)
	})

	t.Run("Get", func(t *testing.T) {
		port, err := dependor.Get[int](h, "port")
		require.NoError(t, err)
		assert.Equal(t, 8080, port)

		_, err = dependor.Get[string](h, "port")
		var tm dependor.TypeMismatchError
		require.ErrorAs(t, err, &tm)
		assert.Equal(t, "port", tm.Name)

		_, err = dependor.Get[int](h, "missing")
		assert.True(t, dependor.IsNotFound(err))
	})

	t.Run("Check", func(t *testing.T) {
		assert.NoError(t, dependor.Check[*testutil.TestService](h, nil))

		err := dependor.Check[*abc](h, dependor.Overrides{"b": "B"})
		assert.Len(t, multierr.Errors(err), 2)
	})
}

func TestKey(t *testing.T) {
	h := newInjectHost(t)
	portKey := dependor.NewKey[int]("port")

	assert.Equal(t, "port", portKey.Name())

	port, err := portKey.From(h)
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	overrides := portKey.Set(nil, 9090)
	assert.Equal(t, 9090, overrides["port"])

	dep := portKey.Dependency()
	assert.Equal(t, "port", dep.Name)
	assert.Equal(t, reflect.TypeOf(0), dep.Type)
	assert.False(t, dep.Optional)

	target, err := dependor.NewTarget(reflect.TypeOf(0), []dependor.Dependency{dep}, func(args dependor.Args) (any, error) {
		return args["port"].(int) + 1, nil
	})
	require.NoError(t, err)

	next, err := dependor.InjectTarget[int](h, target, overrides)
	require.NoError(t, err)
	assert.Equal(t, 9091, next)
}

func TestNilHost(t *testing.T) {
	var in *dependor.Injectable

	_, err := in.Get("x")
	assert.ErrorIs(t, err, dependor.ErrHostNil)
	assert.False(t, in.Resolvable("x"))
	assert.Nil(t, in.AutoResolver())

	_, err = in.Inject(nil, nil)
	assert.ErrorIs(t, err, dependor.ErrHostNil)
	assert.ErrorIs(t, in.Check(nil, nil), dependor.ErrHostNil)

	_, err = dependor.Inject[*testutil.TestService](nil, nil)
	assert.ErrorIs(t, err, dependor.ErrHostNil)
	_, err = dependor.Get[int](nil, "port")
	assert.ErrorIs(t, err, dependor.ErrHostNil)
	assert.ErrorIs(t, dependor.Check[*testutil.TestService](nil, nil), dependor.ErrHostNil)
}

type loggedHost struct {
	*dependor.Injectable
}

func TestInjectableEvents(t *testing.T) {
	require.NoError(t, dependor.LookInModules[*loggedHost](
		dependor.NewFactory("infra").Provide("logger", func() (any, error) { return "L", nil }),
	))

	core, logs := observer.New(zapcore.DebugLevel)
	h := &loggedHost{}
	h.Injectable = dependor.Attach(h, dependor.WithZap(zap.New(core)))

	_, err := dependor.Inject[*loggerService](h, nil)
	require.NoError(t, err)
	_, err = dependor.Inject[*loggerService](h, dependor.Overrides{"logger": "X"})
	require.NoError(t, err)
	_, err = h.Get("missing")
	require.Error(t, err)

	built := logs.FilterMessage("resolver built").All()
	require.Len(t, built, 1)
	assert.Equal(t, map[string]any{
		"host":    "*loggedHost",
		"modules": `Factory("infra")`,
	}, built[0].ContextMap())

	resolved := logs.FilterMessage("resolved").All()
	require.Len(t, resolved, 1)
	assert.Equal(t, `Factory("infra")`, resolved[0].ContextMap()["module"])

	assert.Equal(t, 1, logs.FilterMessage("overridden").Len())
	assert.Equal(t, 1, logs.FilterMessage("dependency not found").Len())

	instantiated := logs.FilterMessage("instantiated").All()
	require.Len(t, instantiated, 2)
	assert.Equal(t, zapcore.InfoLevel, instantiated[0].Level)
	assert.Equal(t, "*loggerService", instantiated[0].ContextMap()["target"])
	assert.NotEqual(t, instantiated[0].ContextMap()["pass"], instantiated[1].ContextMap()["pass"])
}
