package reflection

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unicode"
	"unicode/utf8"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

var (
	// ErrNotStruct is returned when a struct analysis is requested for a
	// non-struct type.
	ErrNotStruct = errors.New("type is not a struct")

	// ErrNotFunc is returned when a constructor is not a function.
	ErrNotFunc = errors.New("constructor must be a function")

	// ErrNilConstructor is returned for nil constructors.
	ErrNilConstructor = errors.New("constructor cannot be nil")
)

// DuplicateNameError indicates two parameters share a dependency name.
type DuplicateNameError struct {
	Name string
}

func (e DuplicateNameError) Error() string {
	return fmt.Sprintf("dependency %q declared more than once", e.Name)
}

// Analyzer performs reflection-based analysis of injection targets.
// Results are cached per type; analysis never depends on a particular value.
type Analyzer struct {
	mu      sync.RWMutex
	structs map[reflect.Type]*StructInfo
	funcs   map[reflect.Type]*FuncInfo
}

// FieldInfo describes a struct field that receives a dependency.
type FieldInfo struct {
	Name     string // dependency name
	Field    string // Go field name
	Index    int
	Type     reflect.Type
	Optional bool
}

// StructInfo contains the dependency fields of a struct type in declaration
// order.
type StructInfo struct {
	Type   reflect.Type
	Fields []FieldInfo
}

// Names returns the dependency names in declaration order.
func (s *StructInfo) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// FuncInfo contains analyzed information about a constructor function.
type FuncInfo struct {
	Type           reflect.Type
	Params         []reflect.Type
	Result         reflect.Type
	HasErrorReturn bool

	// ParamObject is set when the function takes a single struct whose
	// fields carry inject tags.
	ParamObject *StructInfo
}

// TagInfo contains parsed struct tag information.
type TagInfo struct {
	Name     string
	Tagged   bool
	Optional bool
	Ignore   bool
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		structs: make(map[reflect.Type]*StructInfo),
		funcs:   make(map[reflect.Type]*FuncInfo),
	}
}

// AnalyzeStruct returns the dependency fields of a struct type.
//
// A field is a dependency when it carries an inject tag. The tag value is
// the dependency name; an empty value uses the field name with a lower-case
// first letter, and "-" skips the field. optional:"true" marks the
// dependency optional.
func (a *Analyzer) AnalyzeStruct(t reflect.Type) (*StructInfo, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, ErrNotStruct
	}

	a.mu.RLock()
	if cached, ok := a.structs[t]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	info := &StructInfo{Type: t}
	seen := make(map[string]struct{})

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := ParseTag(field)
		if !tag.Tagged || tag.Ignore {
			continue
		}

		if !field.IsExported() {
			return nil, fmt.Errorf("field %s is tagged for injection but is not exported", field.Name)
		}

		if _, dup := seen[tag.Name]; dup {
			return nil, DuplicateNameError{Name: tag.Name}
		}
		seen[tag.Name] = struct{}{}

		info.Fields = append(info.Fields, FieldInfo{
			Name:     tag.Name,
			Field:    field.Name,
			Index:    i,
			Type:     field.Type,
			Optional: tag.Optional,
		})
	}

	a.mu.Lock()
	a.structs[t] = info
	a.mu.Unlock()

	return info, nil
}

// AnalyzeFunc analyzes a constructor function. It must return one value, or
// a value and an error.
func (a *Analyzer) AnalyzeFunc(fn any) (*FuncInfo, error) {
	if fn == nil {
		return nil, ErrNilConstructor
	}

	val := reflect.ValueOf(fn)
	if val.Kind() != reflect.Func {
		return nil, ErrNotFunc
	}
	if val.IsNil() {
		return nil, ErrNilConstructor
	}

	typ := val.Type()

	a.mu.RLock()
	if cached, ok := a.funcs[typ]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	if typ.IsVariadic() {
		return nil, fmt.Errorf("variadic constructor %s is not supported", typ)
	}

	info := &FuncInfo{Type: typ}

	switch typ.NumOut() {
	case 1:
		info.Result = typ.Out(0)
	case 2:
		if typ.Out(1) != errType {
			return nil, fmt.Errorf("second return value of %s must be error", typ)
		}
		info.Result = typ.Out(0)
		info.HasErrorReturn = true
	default:
		return nil, fmt.Errorf("constructor %s must return a value, or a value and an error", typ)
	}

	info.Params = make([]reflect.Type, typ.NumIn())
	for i := 0; i < typ.NumIn(); i++ {
		info.Params[i] = typ.In(i)
	}

	if len(info.Params) == 1 && info.Params[0].Kind() == reflect.Struct && hasInjectTags(info.Params[0]) {
		obj, err := a.AnalyzeStruct(info.Params[0])
		if err != nil {
			return nil, err
		}
		info.ParamObject = obj
	}

	a.mu.Lock()
	a.funcs[typ] = info
	a.mu.Unlock()

	return info, nil
}

// Clear clears the analysis cache.
func (a *Analyzer) Clear() {
	a.mu.Lock()
	a.structs = make(map[reflect.Type]*StructInfo)
	a.funcs = make(map[reflect.Type]*FuncInfo)
	a.mu.Unlock()
}

// CacheSize returns the number of cached analyses.
func (a *Analyzer) CacheSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.structs) + len(a.funcs)
}

// ParseTag parses the injection tags of a struct field.
func ParseTag(field reflect.StructField) TagInfo {
	info := TagInfo{}

	val, ok := field.Tag.Lookup("inject")
	if !ok {
		return info
	}
	info.Tagged = true

	switch val {
	case "-":
		info.Ignore = true
	case "":
		info.Name = LowerFirst(field.Name)
	default:
		info.Name = val
	}

	if opt, ok := field.Tag.Lookup("optional"); ok {
		info.Optional = opt == "true"
	}

	return info
}

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func hasInjectTags(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if _, ok := t.Field(i).Tag.Lookup("inject"); ok {
			return true
		}
	}
	return false
}
