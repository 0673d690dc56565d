package tokendi

import (
	"fmt"
	"reflect"

	"github.com/junioryono/tokendi/internal/reflection"
)

var resolverType = reflect.TypeOf((*Resolver)(nil)).Elem()

// normalizeDefinition converts any accepted definition shape into a
// Registration:
//
//   - Registration or *Registration: passed through (copied)
//   - *DefinitionBuilder or *ClassBuilder: built
//   - Constructor, *Constructor or any other func: wrapped in a factory
//     that resolves the constructor's dependencies, transient by default
//   - Factory, or any func taking a single Resolver and returning T or
//     (T, error): used as the factory, transient by default
//   - any other non-nil value: a literal, always singleton
func normalizeDefinition(definition any) (Registration, error) {
	switch d := definition.(type) {
	case nil:
		return Registration{}, &DefinitionError{Definition: definition, Reason: "definition cannot be nil"}

	case Registration:
		return validateRegistration(d)

	case *Registration:
		if d == nil {
			return Registration{}, &DefinitionError{Definition: definition, Reason: "registration pointer is nil"}
		}
		return validateRegistration(*d)

	case Constructor:
		return d.registration()

	case *Constructor:
		if d == nil {
			return Registration{}, &DefinitionError{Definition: definition, Reason: "constructor pointer is nil"}
		}
		return d.registration()

	case definer:
		if reflect.ValueOf(d).IsNil() {
			return Registration{}, &DefinitionError{Definition: definition, Reason: "builder is nil"}
		}
		return d.definition()

	case Factory:
		return factoryRegistration(definition, d)

	case func(Resolver) (any, error):
		return factoryRegistration(definition, d)

	case func(Resolver) any:
		if d == nil {
			return Registration{}, &DefinitionError{Definition: definition, Reason: "factory cannot be nil"}
		}
		return Registration{
			Factory: func(r Resolver) (any, error) {
				return d(r), nil
			},
			Lifetime: Transient,
		}, nil
	}

	if typ := reflect.TypeOf(definition); typ.Kind() == reflect.Func {
		if typ.NumIn() == 1 && typ.In(0) == resolverType {
			return typedFactoryRegistration(definition)
		}
		return Class(definition).registration()
	}

	return literalRegistration(definition), nil
}

func validateRegistration(reg Registration) (Registration, error) {
	if !reg.Lifetime.IsValid() {
		return Registration{}, &DefinitionError{
			Definition: reg,
			Reason:     fmt.Sprintf("invalid lifetime %s", reg.Lifetime),
		}
	}

	return reg.clone(), nil
}

func factoryRegistration(definition any, fn Factory) (Registration, error) {
	if fn == nil {
		return Registration{}, &DefinitionError{Definition: definition, Reason: "factory cannot be nil"}
	}

	return Registration{Factory: fn, Lifetime: Transient}, nil
}

// typedFactoryRegistration wraps func(Resolver) T and
// func(Resolver) (T, error).
func typedFactoryRegistration(definition any) (Registration, error) {
	info, err := reflection.Default().Analyze(definition)
	if err != nil {
		return Registration{}, &DefinitionError{Definition: definition, Reason: err.Error()}
	}

	return Registration{
		Factory: func(r Resolver) (any, error) {
			return info.Invoke([]any{r})
		},
		Lifetime: Transient,
	}, nil
}

// literalRegistration wraps a pre-built value. Literals are always
// singletons; register a factory to get a fresh value per resolution.
func literalRegistration(value any) Registration {
	return Registration{
		Factory: func(Resolver) (any, error) {
			return value, nil
		},
		Lifetime: Singleton,
	}
}
