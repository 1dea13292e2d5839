package dependor

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/junioryono/dependor/internal/reflection"
)

// analyzer caches the introspection of every target type and constructor.
var analyzer = reflection.New()

// Target describes a type that can be instantiated from named dependencies.
type Target interface {
	// Type returns the type of the values Build produces.
	Type() reflect.Type

	// Dependencies returns the dependency names the target requires, in a
	// stable order. Names are unique.
	Dependencies() []Dependency

	// Build constructs a new instance, binding each argument to the
	// dependency of the same name.
	Build(args Args) (any, error)
}

// Dependency is a single named requirement of a target.
type Dependency struct {
	Name string
	// Type is the type the value is bound to. Nil accepts any value.
	Type reflect.Type
	// Optional dependencies are left at their zero value when nothing
	// resolves them.
	Optional bool
}

// Args binds dependency names to resolved values.
type Args map[string]any

// Has reports whether name is bound.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// structTarget builds a struct by setting its inject-tagged fields.
type structTarget struct {
	typ  reflect.Type // T or *T
	elem reflect.Type // the struct type
	info *reflection.StructInfo
	deps []Dependency
}

// Struct returns a target for T, which must be a struct or a pointer to a
// struct. Fields tagged inject:"name" are its dependencies:
//
//	type Service struct {
//	    Logger *zap.Logger `inject:"logger"`
//	    DB     *sql.DB     `inject:""`               // name "dB"
//	    Cache  Cache       `inject:"cache" optional:"true"`
//	    Clock  Clock       `inject:"-"`              // not injected
//	}
//
// Build returns a T.
func Struct[T any]() (Target, error) {
	return StructOf(reflect.TypeOf((*T)(nil)).Elem())
}

// StructOf is the reflect.Type form of Struct.
func StructOf(t reflect.Type) (Target, error) {
	if t == nil {
		return nil, ErrTargetNil
	}

	elem := t
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	info, err := analyzer.AnalyzeStruct(elem)
	if err != nil {
		return nil, targetError(t, err)
	}

	deps := make([]Dependency, len(info.Fields))
	for i, f := range info.Fields {
		deps[i] = Dependency{Name: f.Name, Type: f.Type, Optional: f.Optional}
	}

	return &structTarget{typ: t, elem: elem, info: info, deps: deps}, nil
}

func (s *structTarget) Type() reflect.Type { return s.typ }

func (s *structTarget) Dependencies() []Dependency {
	return append([]Dependency(nil), s.deps...)
}

func (s *structTarget) Build(args Args) (any, error) {
	values, err := bindAll(s.deps, args)
	if err != nil {
		return nil, err
	}

	ptr := reflect.New(s.elem)
	fillStruct(ptr.Elem(), s.info, values)

	if s.typ.Kind() == reflect.Pointer {
		return ptr.Interface(), nil
	}
	return ptr.Elem().Interface(), nil
}

func fillStruct(v reflect.Value, info *reflection.StructInfo, values []reflect.Value) {
	for i, f := range info.Fields {
		if values[i].IsValid() {
			v.Field(f.Index).Set(values[i])
		}
	}
}

// funcTarget builds a value by calling a constructor function.
type funcTarget struct {
	fn     reflect.Value
	info   *reflection.FuncInfo
	deps   []Dependency
	object bool // deps come from the parameter object
}

// Func returns a target that calls constructor fn. fn returns the instance,
// or the instance and an error.
//
// Go does not keep parameter names at run time, so names[i] names
// parameter i:
//
//	dependor.Func(NewService, "logger", "db")
//
// When no names are given and fn takes a single struct with inject-tagged
// fields, that struct is a parameter object and its fields name the
// dependencies, as for Struct.
func Func(fn any, names ...string) (Target, error) {
	info, err := analyzer.AnalyzeFunc(fn)
	if err != nil {
		return nil, targetError(reflect.TypeOf(fn), err)
	}

	t := &funcTarget{fn: reflect.ValueOf(fn), info: info}

	if info.ParamObject != nil && len(names) == 0 {
		t.object = true
		for _, f := range info.ParamObject.Fields {
			t.deps = append(t.deps, Dependency{Name: f.Name, Type: f.Type, Optional: f.Optional})
		}
		return t, nil
	}

	if len(names) != len(info.Params) {
		return nil, TargetError{
			Target: info.Type,
			Cause:  fmt.Errorf("constructor takes %d parameters, %d names given", len(info.Params), len(names)),
		}
	}

	t.deps = make([]Dependency, len(names))
	for i, name := range names {
		t.deps[i] = Dependency{Name: name, Type: info.Params[i]}
	}
	if err := checkNames(info.Result, t.deps); err != nil {
		return nil, err
	}
	return t, nil
}

func (f *funcTarget) Type() reflect.Type { return f.info.Result }

func (f *funcTarget) Dependencies() []Dependency {
	return append([]Dependency(nil), f.deps...)
}

func (f *funcTarget) Build(args Args) (any, error) {
	values, err := bindAll(f.deps, args)
	if err != nil {
		return nil, err
	}

	var in []reflect.Value
	if f.object {
		param := reflect.New(f.info.ParamObject.Type).Elem()
		fillStruct(param, f.info.ParamObject, values)
		in = []reflect.Value{param}
	} else {
		in = make([]reflect.Value, len(values))
		for i, v := range values {
			if !v.IsValid() {
				v = reflect.Zero(f.info.Params[i])
			}
			in[i] = v
		}
	}

	out := f.fn.Call(in)
	if f.info.HasErrorReturn && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// customTarget is a Target assembled from plain values.
type customTarget struct {
	typ   reflect.Type
	deps  []Dependency
	build func(Args) (any, error)
}

// NewTarget returns a target with hand-written introspection. build
// receives every resolved dependency; optional ones that could not be
// resolved are absent from args.
func NewTarget(typ reflect.Type, deps []Dependency, build func(Args) (any, error)) (Target, error) {
	if build == nil {
		return nil, TargetError{Target: typ, Cause: errors.New("build function cannot be nil")}
	}
	if err := checkNames(typ, deps); err != nil {
		return nil, err
	}
	return &customTarget{typ: typ, deps: append([]Dependency(nil), deps...), build: build}, nil
}

func (c *customTarget) Type() reflect.Type { return c.typ }

func (c *customTarget) Dependencies() []Dependency {
	return append([]Dependency(nil), c.deps...)
}

func (c *customTarget) Build(args Args) (any, error) {
	if _, err := bindAll(c.deps, args); err != nil {
		return nil, err
	}
	return c.build(args)
}

// bindAll converts every argument to its dependency type before anything is
// constructed. Missing optional arguments yield an invalid Value.
func bindAll(deps []Dependency, args Args) ([]reflect.Value, error) {
	values := make([]reflect.Value, len(deps))
	for i, dep := range deps {
		value, ok := args[dep.Name]
		if !ok {
			if dep.Optional {
				continue
			}
			return nil, DependencyNotFoundError{Name: dep.Name}
		}

		v, err := bind(dep, value)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func bind(dep Dependency, value any) (reflect.Value, error) {
	if dep.Type == nil {
		if value == nil {
			return reflect.Value{}, nil
		}
		return reflect.ValueOf(value), nil
	}

	if value == nil {
		switch dep.Type.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(dep.Type), nil
		}
		return reflect.Value{}, TypeMismatchError{Name: dep.Name, Expected: dep.Type}
	}

	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(dep.Type) {
		return reflect.Value{}, TypeMismatchError{Name: dep.Name, Expected: dep.Type, Actual: v.Type()}
	}
	if v.Type() != dep.Type {
		converted := reflect.New(dep.Type).Elem()
		converted.Set(v)
		v = converted
	}
	return v, nil
}

func checkNames(target reflect.Type, deps []Dependency) error {
	seen := make(map[string]struct{}, len(deps))
	for _, dep := range deps {
		if dep.Name == "" {
			return TargetError{Target: target, Cause: errors.New("dependency name cannot be empty")}
		}
		if _, dup := seen[dep.Name]; dup {
			return DuplicateDependencyError{Target: target, Name: dep.Name}
		}
		seen[dep.Name] = struct{}{}
	}
	return nil
}

func targetError(t reflect.Type, err error) error {
	var dup reflection.DuplicateNameError
	if errors.As(err, &dup) {
		return DuplicateDependencyError{Target: t, Name: dup.Name}
	}
	return TargetError{Target: t, Cause: err}
}
