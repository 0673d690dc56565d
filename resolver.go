package tokendi

import (
	"fmt"
	"reflect"

	"github.com/junioryono/tokendi/internal/graph"
)

// Resolver is the view of a container handed to factories. Every request
// made through it extends the resolution path of the call that invoked the
// factory, so re-entrant requests are reported as circular dependencies.
//
// *Container implements Resolver; each call on a Container starts a new
// path.
type Resolver interface {
	// Get resolves token and returns its instance.
	Get(token any) (any, error)

	// Has reports whether token is registered in the container's own
	// table. Parents are not consulted.
	Has(token any) bool

	// GetTagged resolves every registration carrying tag, in
	// registration order.
	GetTagged(tag string) ([]any, error)

	// CreateScope creates a child container sharing the same table with
	// its own singleton cache.
	CreateScope() *Container
}

var (
	_ Resolver = (*Container)(nil)
	_ Resolver = (*pathResolver)(nil)
)

// pathResolver binds a container to the resolution path of an in-flight
// request.
type pathResolver struct {
	container *Container
	path      *graph.Path
}

func (r *pathResolver) Get(token any) (any, error) {
	return r.container.resolve(r.path, token)
}

func (r *pathResolver) Has(token any) bool {
	return r.container.Has(token)
}

func (r *pathResolver) GetTagged(tag string) ([]any, error) {
	return r.container.getTagged(r.path, tag)
}

func (r *pathResolver) CreateScope() *Container {
	return r.container.CreateScope()
}

// Resolve resolves token and asserts the instance to T.
// A lazy registration is materialized unless T is *Lazy[any].
//
// Example:
//
//	db, err := tokendi.Resolve[*Database](c, "db")
func Resolve[T any](r Resolver, token any) (T, error) {
	var zero T

	if r == nil {
		return zero, ErrContainerNil
	}

	instance, err := r.Get(token)
	if err != nil {
		return zero, err
	}

	return assertInstance[T](instance, "type assertion")
}

// ResolveType resolves the TypeToken of T.
//
// Example:
//
//	logger, err := tokendi.ResolveType[*Logger](c)
func ResolveType[T any](r Resolver) (T, error) {
	return Resolve[T](r, TypeOf[T]())
}

// MustResolve is like Resolve but panics if the token cannot be resolved.
// This is useful for application initialization where missing
// dependencies are fatal.
func MustResolve[T any](r Resolver, token any) T {
	instance, err := Resolve[T](r, token)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %v: %v", token, err))
	}

	return instance
}

// ResolveTagged resolves every registration carrying tag and asserts each
// instance to T.
//
// Example:
//
//	handlers, err := tokendi.ResolveTagged[http.Handler](c, "routes")
func ResolveTagged[T any](r Resolver, tag string) ([]T, error) {
	if r == nil {
		return nil, ErrContainerNil
	}

	instances, err := r.GetTagged(tag)
	if err != nil {
		return nil, err
	}

	results := make([]T, 0, len(instances))
	for i, instance := range instances {
		result, err := assertInstance[T](instance, fmt.Sprintf("type assertion for tagged item %d", i))
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, nil
}

// ResolveLazy resolves token as a typed lazy value. A lazy registration
// stays unbuilt until the returned Lazy is used; any other registration is
// resolved immediately and returned already materialized.
//
// Example:
//
//	mailer, err := tokendi.ResolveLazy[*Mailer](c, "mailer")
//	...
//	m, err := mailer.Get()
func ResolveLazy[T any](r Resolver, token any) (*Lazy[T], error) {
	if r == nil {
		return nil, ErrContainerNil
	}

	instance, err := r.Get(token)
	if err != nil {
		return nil, err
	}

	lazy, ok := instance.(*Lazy[any])
	if !ok {
		value, err := assertInstance[T](instance, "type assertion")
		if err != nil {
			return nil, err
		}
		return resolvedLazy(value), nil
	}

	return NewLazy(func() (T, error) {
		value, err := lazy.Get()
		if err != nil {
			var zero T
			return zero, err
		}
		return assertInstance[T](value, "type assertion for lazy value")
	}), nil
}

func assertInstance[T any](instance any, context string) (T, error) {
	var zero T

	if lazy, ok := instance.(*Lazy[any]); ok && !wantsLazy[T]() {
		value, err := lazy.Get()
		if err != nil {
			return zero, err
		}
		instance = value
	}

	if result, ok := instance.(T); ok {
		return result, nil
	}

	return zero, &TypeMismatchError{
		Expected: reflect.TypeOf((*T)(nil)).Elem(),
		Actual:   reflect.TypeOf(instance),
		Context:  context,
	}
}

// wantsLazy reports whether T is exactly *Lazy[any].
func wantsLazy[T any]() bool {
	_, ok := any((*T)(nil)).(**Lazy[any])
	return ok
}
