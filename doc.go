// Package dependor resolves dependencies by name for the types that ask for
// them.
//
// # Overview
//
// A host type declares where its dependencies come from by attaching search
// modules to its type. Each host instance resolves names through that chain
// of modules and can instantiate other types, resolving their dependencies
// the same way, with explicit per-call overrides taking precedence:
//   - Search modules: constant namespaces, factories, method namespaces and
//     dig containers, or any type implementing Module
//   - One module chain per host type, shared by all its instances
//   - A lazily built auto resolver per host instance
//   - Per-call overrides that never touch the shared registration
//   - Struct field, constructor and hand-written targets
//
// # Basic Usage
//
// Declare the modules of a host type, attach the host, inject:
//
//	func init() {
//	    dependor.LookInModules[*App](
//	        dependor.Values{"logger": logger},
//	        infra, // a *dependor.Factory
//	    )
//	}
//
//	type App struct {
//	    *dependor.Injectable
//	}
//
//	func NewApp() *App {
//	    app := &App{}
//	    app.Injectable = dependor.Attach(app)
//	    return app
//	}
//
//	type Service struct {
//	    Logger *zap.Logger `inject:"logger"`
//	    DB     *sql.DB     `inject:"db"`
//	}
//
//	svc, err := dependor.Inject[*Service](app, nil)
//
// # Resolution Order
//
// Modules are searched in the order they were declared and the first module
// that provides a name wins. Overrides passed to Inject are consulted before
// any module, and an override always wins, even when its value is nil:
//
//	svc, err := dependor.Inject[*Service](app, dependor.Overrides{"logger": zap.NewNop()})
//
// # Missing Dependencies
//
// Absence only becomes an error when a name must be resolved: Get fails with
// DependencyNotFoundError, and instantiation stops at the first missing name
// with an InstantiationError naming both the dependency and the target.
// Resolvable never fails and is the way to probe a host:
//
//	if app.Resolvable("cache") {
//	    cache, err := dependor.Get[Cache](app, "cache")
//	}
//
// Check reports every missing name of a target at once without building it.
//
// # Declaration Phase
//
// A chain is append-only and freezes when the first host of its type builds
// its resolver. Declare modules during program setup; LookInModules fails
// with ErrChainFrozen afterwards.
//
// # Thread Safety
//
// Chains, hosts and the built-in modules are safe for concurrent use. Each
// host builds its resolver exactly once even when first used from many
// goroutines. Override resolvers and instantiation passes live for a single
// call.
//
// # Logging
//
// Resolution events are sent to a depevent.Logger; see WithLogger and
// WithZap.
package dependor
