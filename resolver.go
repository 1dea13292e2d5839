package dependor

import (
	"maps"
	"reflect"

	"github.com/junioryono/dependor/depevent"
)

// Resolver turns dependency names into values.
type Resolver interface {
	// Get returns the value for name, or an error when it cannot be
	// resolved.
	Get(name string) (any, error)

	// Resolvable reports whether Get would find name. It never fails and
	// does not build values for modules that implement Prober.
	Resolvable(name string) bool
}

var (
	_ Resolver = (*AutoResolver)(nil)
	_ Resolver = (*OverrideResolver)(nil)
)

// AutoResolver resolves names strictly through the module chain of its host
// type. It is the only resolver that turns absence into an error.
type AutoResolver struct {
	host     any
	hostType reflect.Type
	chain    *Chain
	logger   depevent.Logger
}

// NewAutoResolver binds chain to host and freezes the chain. A nil chain
// selects the chain declared for host's type.
func NewAutoResolver(host any, chain *Chain, opts ...Option) *AutoResolver {
	o := newOptions(opts)
	hostType := reflect.TypeOf(host)
	if chain == nil {
		chain = ChainOf(hostType)
	}
	chain.Freeze()

	r := &AutoResolver{
		host:     host,
		hostType: hostType,
		chain:    chain,
		logger:   o.logger,
	}

	modules := chain.Modules()
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = describeModule(m)
	}
	r.logger.LogEvent(&depevent.ResolverBuilt{Host: formatType(hostType), Modules: names})

	return r
}

// Host returns the instance the resolver is bound to.
func (r *AutoResolver) Host() any {
	return r.host
}

// Chain returns the module chain the resolver searches.
func (r *AutoResolver) Chain() *Chain {
	return r.chain
}

// Get returns the value of the first module that provides name. It fails
// with DependencyNotFoundError when no module does.
func (r *AutoResolver) Get(name string) (any, error) {
	m, value, found, err := r.chain.lookup(name)
	if !found {
		r.logger.LogEvent(&depevent.Missing{Host: formatType(r.hostType), Name: name})
		return nil, DependencyNotFoundError{Name: name, Requester: r.hostType}
	}

	r.logger.LogEvent(&depevent.LookedUp{
		Host:   formatType(r.hostType),
		Name:   name,
		Module: describeModule(m),
		Err:    err,
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Resolvable reports whether any module in the chain provides name.
func (r *AutoResolver) Resolvable(name string) bool {
	return r.chain.Provides(name)
}

// Overrides maps dependency names to explicit values for one injection.
type Overrides map[string]any

// Set records value under name and returns o, allocating o when it is nil.
func (o Overrides) Set(name string, value any) Overrides {
	if o == nil {
		o = make(Overrides)
	}
	o[name] = value
	return o
}

// OverrideResolver answers from its overrides first and delegates every
// other name to a base resolver. An override always wins, even when its
// value is nil.
type OverrideResolver struct {
	base      Resolver
	overrides Overrides
	logger    depevent.Logger
}

// NewOverrideResolver layers overrides on top of base. The overrides are
// copied; later changes to the map do not affect the resolver.
func NewOverrideResolver(base Resolver, overrides Overrides, opts ...Option) *OverrideResolver {
	o := newOptions(opts)
	return &OverrideResolver{
		base:      base,
		overrides: maps.Clone(overrides),
		logger:    o.logger,
	}
}

// Get returns the override for name if there is one, otherwise the base
// resolver's value.
func (r *OverrideResolver) Get(name string) (any, error) {
	if value, ok := r.overrides[name]; ok {
		r.logger.LogEvent(&depevent.Overridden{Name: name})
		return value, nil
	}
	if r.base == nil {
		return nil, DependencyNotFoundError{Name: name}
	}
	return r.base.Get(name)
}

// Resolvable reports whether name is overridden or resolvable by the base.
func (r *OverrideResolver) Resolvable(name string) bool {
	if _, ok := r.overrides[name]; ok {
		return true
	}
	return r.base != nil && r.base.Resolvable(name)
}
