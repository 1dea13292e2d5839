package dependor

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/junioryono/dependor/depevent"
	"go.uber.org/multierr"
)

// Instantiator builds targets from the values of a resolver.
//
// It keeps no state between calls: every Instantiate call is a separate
// resolution pass that resolves each dependency again. Caching, if any,
// belongs to the search modules.
type Instantiator struct {
	resolver Resolver
	logger   depevent.Logger
}

// NewInstantiator returns an instantiator that resolves through r.
func NewInstantiator(r Resolver, opts ...Option) *Instantiator {
	o := newOptions(opts)
	return &Instantiator{resolver: r, logger: o.logger}
}

// pass is a single resolution pass. A name requested twice within the pass
// yields the value returned the first time.
type pass struct {
	id       string
	resolver Resolver
	memo     map[string]any
}

func newPass(r Resolver) *pass {
	return &pass{
		id:       uuid.NewString(),
		resolver: r,
		memo:     make(map[string]any),
	}
}

func (p *pass) Get(name string) (any, error) {
	if value, ok := p.memo[name]; ok {
		return value, nil
	}
	value, err := p.resolver.Get(name)
	if err != nil {
		return nil, err
	}
	p.memo[name] = value
	return value, nil
}

func (p *pass) Resolvable(name string) bool {
	if _, ok := p.memo[name]; ok {
		return true
	}
	return p.resolver.Resolvable(name)
}

// Instantiate resolves every dependency of target in order and builds it.
//
// Resolution fails fast: the first dependency that cannot be resolved
// aborts the pass with an InstantiationError naming it and the target, and
// Build is never called. Optional dependencies that are not resolvable are
// skipped.
func (i *Instantiator) Instantiate(target Target) (instance any, err error) {
	if target == nil {
		return nil, ErrTargetNil
	}
	if i.resolver == nil {
		return nil, InstantiationError{Target: target.Type(), Cause: ErrResolverNil}
	}

	p := newPass(i.resolver)
	deps := target.Dependencies()
	names := make([]string, len(deps))
	for n, dep := range deps {
		names[n] = dep.Name
	}

	start := time.Now()
	defer func() {
		i.logger.LogEvent(&depevent.Instantiated{
			PassID:  p.id,
			Target:  formatType(target.Type()),
			Names:   names,
			Runtime: time.Since(start),
			Err:     err,
		})
	}()

	args := make(Args, len(deps))
	for _, dep := range deps {
		if dep.Optional && !p.Resolvable(dep.Name) {
			continue
		}

		value, err := p.Get(dep.Name)
		if err != nil {
			return nil, InstantiationError{Target: target.Type(), Name: dep.Name, Cause: err}
		}
		args[dep.Name] = value
	}

	instance, err = target.Build(args)
	if err != nil {
		return nil, InstantiationError{Target: target.Type(), Cause: err}
	}
	return instance, nil
}

// Check reports, without building anything, every required dependency of
// target that the resolver cannot resolve. The returned error combines one
// InstantiationError per missing name; use multierr.Errors to split it.
func (i *Instantiator) Check(target Target) error {
	if target == nil {
		return ErrTargetNil
	}
	if i.resolver == nil {
		return InstantiationError{Target: target.Type(), Cause: ErrResolverNil}
	}

	var err error
	for _, dep := range target.Dependencies() {
		if dep.Optional || i.resolver.Resolvable(dep.Name) {
			continue
		}
		err = multierr.Append(err, InstantiationError{
			Target: target.Type(),
			Name:   dep.Name,
			Cause:  DependencyNotFoundError{Name: dep.Name, Requester: requester(i.resolver)},
		})
	}
	return err
}

// requester returns the host type behind r, if r is bound to one.
func requester(r Resolver) reflect.Type {
	switch r := r.(type) {
	case *AutoResolver:
		return r.hostType
	case *OverrideResolver:
		return requester(r.base)
	}
	return nil
}
