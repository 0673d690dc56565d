package tokendi

// Module groups related registrations.
type Module func(b *Builder) error

// NewModule creates a module that applies entries in order. Errors are
// wrapped in ModuleError carrying name; nested modules wrap again.
//
// Example:
//
//	var DatabaseModule = tokendi.NewModule("database",
//	    tokendi.Set("db", tokendi.SingletonOf(NewDatabase)),
//	    tokendi.Set(tokendi.TypeOf[*UserRepository](), tokendi.Autowire(NewUserRepository)),
//	)
//
//	var AppModule = tokendi.NewModule("app",
//	    DatabaseModule,
//	    tokendi.Set("clock", time.Now),
//	)
func NewModule(name string, entries ...Module) Module {
	return func(b *Builder) error {
		for _, entry := range entries {
			if entry == nil {
				continue
			}

			if err := entry(b); err != nil {
				return ModuleError{Module: name, Cause: err}
			}
		}

		return nil
	}
}

// Set creates a module entry registering definition under token.
func Set(token any, definition any) Module {
	return func(b *Builder) error {
		return b.Set(token, definition)
	}
}
