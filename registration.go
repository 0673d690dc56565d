package tokendi

import "slices"

// Factory builds an instance. It receives a Resolver bound to the current
// resolution path; dependencies must be requested through it so that
// cycles are detected.
type Factory func(r Resolver) (any, error)

// Registration is the canonical record describing how to build, scope and
// tear down the instance for one token.
type Registration struct {
	// Factory builds the instance. A Registration without a factory can be
	// stored but fails with ErrDefinitionNotFound when resolved.
	Factory Factory

	// Lifetime controls instance reuse. The zero value is Transient.
	Lifetime Lifetime

	// Tags group registrations for Container.GetTagged.
	Tags []string

	// Lazy defers construction until the returned *Lazy[any] is first used.
	Lazy bool

	// OnDestroy is called by Container.Close for each cached singleton.
	// The engine never calls it while resolving.
	OnDestroy func(instance any) error

	// Dependencies lists the tokens the factory is known to request.
	// Constructors fill it in; it only feeds Builder.Validate and the
	// graph writers and never affects resolution.
	Dependencies []Token
}

// HasTag reports whether the registration carries tag.
func (r Registration) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// clone returns a copy that shares no mutable state with r.
func (r Registration) clone() Registration {
	r.Tags = slices.Clone(r.Tags)
	r.Dependencies = slices.Clone(r.Dependencies)
	return r
}
