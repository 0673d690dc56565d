package reflection

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

var (
	// ErrNotFunc is returned when a constructor is not a function.
	ErrNotFunc = errors.New("constructor must be a function")

	// ErrNilConstructor is returned for nil constructors.
	ErrNilConstructor = errors.New("constructor cannot be nil")

	// ErrBadReturns is returned when a constructor does not return T or (T, error).
	ErrBadReturns = errors.New("constructor must return T or (T, error)")

	// ErrVariadic is returned for variadic constructors.
	ErrVariadic = errors.New("variadic constructors are not supported")
)

// Analyzer performs reflection-based analysis of constructor functions.
// It caches the analyzed signature per function type.
type Analyzer struct {
	mu    sync.RWMutex
	cache map[reflect.Type]*ConstructorInfo
}

// ConstructorInfo contains analyzed information about a constructor function.
type ConstructorInfo struct {
	Type           reflect.Type
	Value          reflect.Value
	Parameters     []ParameterInfo
	Result         reflect.Type
	HasErrorReturn bool
}

// ParameterInfo describes a constructor parameter.
type ParameterInfo struct {
	Type  reflect.Type
	Index int
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		cache: make(map[reflect.Type]*ConstructorInfo),
	}
}

var defaultAnalyzer = New()

// Default returns the process-wide Analyzer.
func Default() *Analyzer {
	return defaultAnalyzer
}

// Analyze validates a constructor function and extracts its parameters.
func (a *Analyzer) Analyze(constructor any) (*ConstructorInfo, error) {
	if constructor == nil {
		return nil, ErrNilConstructor
	}

	val := reflect.ValueOf(constructor)
	typ := val.Type()

	if typ.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w, got %s", ErrNotFunc, typ)
	}

	if val.IsNil() {
		return nil, ErrNilConstructor
	}

	// Closures built from one literal share a code pointer, so only the
	// signature is cached and the value is bound per call.
	a.mu.RLock()
	cached, ok := a.cache[typ]
	a.mu.RUnlock()
	if ok {
		info := *cached
		info.Value = val
		return &info, nil
	}

	if typ.IsVariadic() {
		return nil, fmt.Errorf("%w: %s", ErrVariadic, typ)
	}

	info := &ConstructorInfo{
		Type: typ,
	}

	if err := analyzeReturns(info); err != nil {
		return nil, err
	}

	info.Parameters = make([]ParameterInfo, typ.NumIn())
	for i := 0; i < typ.NumIn(); i++ {
		info.Parameters[i] = ParameterInfo{
			Type:  typ.In(i),
			Index: i,
		}
	}

	a.mu.Lock()
	a.cache[typ] = info
	a.mu.Unlock()

	bound := *info
	bound.Value = val
	return &bound, nil
}

// analyzeReturns accepts T or (T, error).
func analyzeReturns(info *ConstructorInfo) error {
	typ := info.Type

	switch typ.NumOut() {
	case 1:
		if typ.Out(0) == errType {
			return fmt.Errorf("%w: %s", ErrBadReturns, typ)
		}
	case 2:
		if typ.Out(1) != errType || typ.Out(0) == errType {
			return fmt.Errorf("%w: %s", ErrBadReturns, typ)
		}
		info.HasErrorReturn = true
	default:
		return fmt.Errorf("%w: %s", ErrBadReturns, typ)
	}

	info.Result = typ.Out(0)
	return nil
}

// Invoke calls the constructor with args in positional order.
// A nil arg is passed as the zero value of its parameter type.
func (info *ConstructorInfo) Invoke(args []any) (any, error) {
	if len(args) != len(info.Parameters) {
		return nil, fmt.Errorf("constructor %s expects %d arguments, got %d",
			info.Type, len(info.Parameters), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		paramType := info.Parameters[i].Type
		if arg == nil {
			in[i] = reflect.Zero(paramType)
			continue
		}

		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(paramType) {
			return nil, fmt.Errorf("argument %d of %s: %s is not assignable to %s",
				i, info.Type, v.Type(), paramType)
		}

		in[i] = v
	}

	out := info.Value.Call(in)

	if info.HasErrorReturn && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}

	return out[0].Interface(), nil
}
