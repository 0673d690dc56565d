package tokendi

import "slices"

// definer is implemented by the fluent builders so that they can be
// passed to Builder.Set without calling Build first.
type definer interface {
	definition() (Registration, error)
}

var (
	_ definer = (*DefinitionBuilder)(nil)
	_ definer = (*ClassBuilder)(nil)
)

// DefinitionBuilder configures a factory definition.
//
// Example:
//
//	b.MustSet("mailer", tokendi.Define(NewMailer).
//	    Singleton().
//	    Lazy().
//	    Tag("notifier"))
type DefinitionBuilder struct {
	reg Registration
}

// Define starts a transient definition around factory.
func Define(factory Factory) *DefinitionBuilder {
	return &DefinitionBuilder{reg: Registration{Factory: factory, Lifetime: Transient}}
}

// Singleton builds the instance once per container and reuses it.
func (d *DefinitionBuilder) Singleton() *DefinitionBuilder {
	d.reg.Lifetime = Singleton
	return d
}

// Transient builds a new instance on every resolution. It is the default.
func (d *DefinitionBuilder) Transient() *DefinitionBuilder {
	d.reg.Lifetime = Transient
	return d
}

// Lazy makes resolution return a *Lazy[any] that builds on first Get.
func (d *DefinitionBuilder) Lazy() *DefinitionBuilder {
	d.reg.Lazy = true
	return d
}

// Tag appends tags.
func (d *DefinitionBuilder) Tag(tags ...string) *DefinitionBuilder {
	d.reg.Tags = append(d.reg.Tags, tags...)
	return d
}

// OnDestroy sets the teardown hook called by Container.Close.
func (d *DefinitionBuilder) OnDestroy(fn func(instance any) error) *DefinitionBuilder {
	d.reg.OnDestroy = fn
	return d
}

// Build returns the configured Registration.
func (d *DefinitionBuilder) Build() (Registration, error) {
	return d.definition()
}

func (d *DefinitionBuilder) definition() (Registration, error) {
	if d.reg.Factory == nil {
		return Registration{}, &DefinitionError{Definition: d, Reason: "factory cannot be nil"}
	}
	return d.reg.clone(), nil
}

// ClassBuilder configures a constructor definition.
//
// Example:
//
//	b.MustSet(tokendi.TypeOf[*UserService](), tokendi.Create(NewUserService).
//	    Inject("db", tokendi.TypeOf[*Logger]()).
//	    Singleton())
type ClassBuilder struct {
	fn       any
	deps     []any
	autowire bool
	reg      Registration
}

// Create starts a transient definition around the constructor fn. Without
// Inject or Autowire, fn must take no parameters.
func Create(fn any) *ClassBuilder {
	return &ClassBuilder{fn: fn, reg: Registration{Lifetime: Transient}}
}

// Inject sets the dependency tokens passed to the constructor, in order.
// It replaces any earlier Inject or Autowire.
func (c *ClassBuilder) Inject(deps ...any) *ClassBuilder {
	c.deps = slices.Clone(deps)
	c.autowire = false
	return c
}

// Autowire derives the dependency tokens from the constructor's parameter
// types. It replaces any earlier Inject.
func (c *ClassBuilder) Autowire() *ClassBuilder {
	c.deps = nil
	c.autowire = true
	return c
}

// Singleton builds the instance once per container and reuses it.
func (c *ClassBuilder) Singleton() *ClassBuilder {
	c.reg.Lifetime = Singleton
	return c
}

// Transient builds a new instance on every resolution. It is the default.
func (c *ClassBuilder) Transient() *ClassBuilder {
	c.reg.Lifetime = Transient
	return c
}

// Lazy makes resolution return a *Lazy[any] that builds on first Get.
func (c *ClassBuilder) Lazy() *ClassBuilder {
	c.reg.Lazy = true
	return c
}

// Tag appends tags.
func (c *ClassBuilder) Tag(tags ...string) *ClassBuilder {
	c.reg.Tags = append(c.reg.Tags, tags...)
	return c
}

// OnDestroy sets the teardown hook called by Container.Close.
func (c *ClassBuilder) OnDestroy(fn func(instance any) error) *ClassBuilder {
	c.reg.OnDestroy = fn
	return c
}

// Build returns the configured Registration.
func (c *ClassBuilder) Build() (Registration, error) {
	return c.definition()
}

func (c *ClassBuilder) definition() (Registration, error) {
	ctor := Class(c.fn, c.deps...)
	if c.autowire {
		ctor = Autowire(c.fn)
	}

	factory, err := ctor.Factory()
	if err != nil {
		return Registration{}, err
	}

	reg := c.reg.clone()
	reg.Factory = factory
	reg.Dependencies = ctor.Dependencies()
	return reg, nil
}

// Value registers v itself as a singleton literal. Use it for values that
// would otherwise be taken as constructors or factories, such as funcs.
func Value(v any) Registration {
	return literalRegistration(v)
}

// Ref returns a factory that resolves token. It aliases one token to
// another.
//
// Example:
//
//	b.MustSet(tokendi.TypeOf[Logger](), tokendi.Ref("logger.json"))
func Ref(token any) Factory {
	return func(r Resolver) (any, error) {
		return r.Get(token)
	}
}

// SingletonOf returns a singleton registration around factory.
func SingletonOf(factory Factory) Registration {
	return Registration{Factory: factory, Lifetime: Singleton}
}
