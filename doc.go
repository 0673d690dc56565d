// Package tokendi is a token-keyed inversion-of-control container.
//
// Dependencies are identified by tokens: a string name, an opaque marker
// created with NewMarker, or a Go type from TypeOf. Each token is bound to
// a definition, which tokendi normalizes into a Registration describing
// how to build, scope and tear down the instance.
//
// # Basic Usage
//
// Create a builder, register definitions, build a container and resolve:
//
//	b := tokendi.NewBuilder()
//	b.MustSet("db", &Database{DSN: "postgres://localhost"})
//	b.MustSet(tokendi.TypeOf[*Logger](), tokendi.Class(NewLogger, "db"))
//
//	c, err := b.Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	logger, err := tokendi.ResolveType[*Logger](c)
//
// # Definitions
//
// Builder.Set accepts four shapes of definition:
//
//   - A Registration, or a fluent builder from Define or Create
//   - A constructor: Class(fn, deps...), Autowire(fn) or a bare func
//     taking no parameters. Dependencies are resolved in order and passed
//     positionally.
//   - A Factory: any func taking a single Resolver and returning T or
//     (T, error), such as func(Resolver) (*Database, error)
//   - Any other value, registered as a singleton literal
//
// Constructors and factories are transient unless configured otherwise.
//
// # Lifetimes
//
//   - Transient: a new instance on every Get
//   - Singleton: one instance per container, built at most once even
//     under concurrent resolution
//
// CreateScope returns a child container sharing the table with its own
// singletons, which makes it suitable for per-request state.
//
// # Lazy Registrations
//
// A registration marked Lazy resolves to a *Lazy[any] that builds the
// instance on its first Get. ResolveLazy wraps it in a typed *Lazy[T].
//
//	b.MustSet("report", tokendi.Define(buildReport).Singleton().Lazy())
//
//	report, _ := tokendi.ResolveLazy[*Report](c, "report")
//	r, err := report.Get()
//
// # Circular Dependencies
//
// Factories must resolve their dependencies through the Resolver they
// receive. A token requested again on the same resolution path fails with
// a *CircularDependencyError listing the chain. Independent resolutions
// never interfere with each other's detection.
//
// # Parent Containers
//
// WithParent chains containers built from different tables. A token missing
// from the child's table is looked up in its ancestors. Singletons already
// cached by the owning ancestor are shared; otherwise the ancestor builds
// its registration from its own table without caching it, so a child never
// writes into its parent.
//
// # Teardown
//
// Close disposes cached singletons in reverse construction order, calling
// the registration's OnDestroy hook or the instance's Close method.
//
// # Error Handling
//
// Errors wrap sentinel values for errors.Is:
//
//	_, err := c.Get("missing")
//	if tokendi.IsNotFound(err) {
//	    // ...
//	}
//
//	var cycle *tokendi.CircularDependencyError
//	if errors.As(err, &cycle) {
//	    fmt.Println(cycle.Chain())
//	}
//
// Errors returned by factories are passed through unchanged.
package tokendi
