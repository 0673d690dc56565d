package benchmarks

import (
	"testing"

	"github.com/samber/do/v2"
	"go.uber.org/dig"

	"github.com/junioryono/tokendi"
)

// =============================================================================
// Shared Test Types
// =============================================================================

type Logger struct {
	Name string
}

func NewLogger() *Logger {
	return &Logger{Name: "logger"}
}

type Config struct {
	Value string
}

func NewConfig() *Config {
	return &Config{Value: "config"}
}

type Database struct {
	Logger *Logger
	Config *Config
}

func NewDatabase(logger *Logger, config *Config) *Database {
	return &Database{Logger: logger, Config: config}
}

type Cache struct {
	Logger   *Logger
	Config   *Config
	Database *Database
}

func NewCache(logger *Logger, config *Config, db *Database) *Cache {
	return &Cache{Logger: logger, Config: config, Database: db}
}

type UserService struct {
	Logger   *Logger
	Config   *Config
	Database *Database
	Cache    *Cache
}

func NewUserService(logger *Logger, config *Config, db *Database, cache *Cache) *UserService {
	return &UserService{Logger: logger, Config: config, Database: db, Cache: cache}
}

// =============================================================================
// Graph Setup
// =============================================================================

func newTokendi(tb testing.TB, lifetime tokendi.Lifetime) *tokendi.Container {
	tb.Helper()

	define := func(fn any) *tokendi.ClassBuilder {
		c := tokendi.Create(fn).Autowire()
		if lifetime == tokendi.Singleton {
			c.Singleton()
		}
		return c
	}

	b := tokendi.NewBuilder()
	b.MustSet(tokendi.TypeOf[*Logger](), define(NewLogger))
	b.MustSet(tokendi.TypeOf[*Config](), define(NewConfig))
	b.MustSet(tokendi.TypeOf[*Database](), define(NewDatabase))
	b.MustSet(tokendi.TypeOf[*Cache](), define(NewCache))
	b.MustSet(tokendi.TypeOf[*UserService](), define(NewUserService))

	c, err := b.Build()
	if err != nil {
		tb.Fatal(err)
	}
	return c
}

func newDig(tb testing.TB) *dig.Container {
	tb.Helper()

	c := dig.New()
	for _, ctor := range []any{NewLogger, NewConfig, NewDatabase, NewCache, NewUserService} {
		if err := c.Provide(ctor); err != nil {
			tb.Fatal(err)
		}
	}
	return c
}

func provideDo[T any](injector do.Injector, transient bool, fn func(do.Injector) (T, error)) {
	if transient {
		do.ProvideTransient(injector, fn)
		return
	}
	do.Provide(injector, fn)
}

func newDo(transient bool) *do.RootScope {
	injector := do.New()

	provideDo(injector, transient, func(i do.Injector) (*Logger, error) { return NewLogger(), nil })
	provideDo(injector, transient, func(i do.Injector) (*Config, error) { return NewConfig(), nil })
	provideDo(injector, transient, func(i do.Injector) (*Database, error) {
		return NewDatabase(do.MustInvoke[*Logger](i), do.MustInvoke[*Config](i)), nil
	})
	provideDo(injector, transient, func(i do.Injector) (*Cache, error) {
		return NewCache(do.MustInvoke[*Logger](i), do.MustInvoke[*Config](i), do.MustInvoke[*Database](i)), nil
	})
	provideDo(injector, transient, func(i do.Injector) (*UserService, error) {
		return NewUserService(
			do.MustInvoke[*Logger](i),
			do.MustInvoke[*Config](i),
			do.MustInvoke[*Database](i),
			do.MustInvoke[*Cache](i),
		), nil
	})

	return injector
}

// =============================================================================
// Graph Sanity
// =============================================================================

func TestGraphsAgree(t *testing.T) {
	c := newTokendi(t, tokendi.Singleton)
	defer c.Close()

	svc, err := tokendi.ResolveType[*UserService](c)
	if err != nil {
		t.Fatal(err)
	}
	if svc.Cache.Database != svc.Database {
		t.Error("singleton graph should share the database")
	}

	var fromDig *UserService
	if err := newDig(t).Invoke(func(u *UserService) { fromDig = u }); err != nil {
		t.Fatal(err)
	}

	fromDo := do.MustInvoke[*UserService](newDo(false))

	if svc.Config.Value != fromDig.Config.Value || svc.Config.Value != fromDo.Config.Value {
		t.Error("graphs should produce equal configs")
	}
}

// =============================================================================
// Build Benchmarks
// =============================================================================

func BenchmarkBuild_Tokendi(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c := newTokendi(b, tokendi.Singleton)
		c.Close()
	}
}

func BenchmarkBuild_Dig(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		newDig(b)
	}
}

func BenchmarkBuild_Do(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		newDo(false).Shutdown()
	}
}

// =============================================================================
// Singleton Resolution Benchmarks
// =============================================================================

func BenchmarkResolve_Singleton_Tokendi(b *testing.B) {
	c := newTokendi(b, tokendi.Singleton)
	defer c.Close()

	// Warm up
	tokendi.MustResolve[*UserService](c, tokendi.TypeOf[*UserService]())
	token := tokendi.TypeOf[*UserService]()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = tokendi.MustResolve[*UserService](c, token)
	}
}

func BenchmarkResolve_Singleton_Dig(b *testing.B) {
	c := newDig(b)

	// Warm up
	c.Invoke(func(u *UserService) {})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Invoke(func(u *UserService) {})
	}
}

func BenchmarkResolve_Singleton_Do(b *testing.B) {
	injector := newDo(false)
	defer injector.Shutdown()

	// Warm up
	do.MustInvoke[*UserService](injector)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = do.MustInvoke[*UserService](injector)
	}
}

// =============================================================================
// Transient Resolution Benchmarks
// =============================================================================

func BenchmarkResolve_Transient_Tokendi(b *testing.B) {
	c := newTokendi(b, tokendi.Transient)
	defer c.Close()
	token := tokendi.TypeOf[*UserService]()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = tokendi.MustResolve[*UserService](c, token)
	}
}

func BenchmarkResolve_Transient_Do(b *testing.B) {
	injector := newDo(true)
	defer injector.Shutdown()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = do.MustInvoke[*UserService](injector)
	}
}

// =============================================================================
// Concurrent Resolution Benchmarks
// =============================================================================

func BenchmarkResolve_Concurrent_Tokendi(b *testing.B) {
	c := newTokendi(b, tokendi.Singleton)
	defer c.Close()
	token := tokendi.TypeOf[*UserService]()

	// Warm up
	tokendi.MustResolve[*UserService](c, token)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = tokendi.MustResolve[*UserService](c, token)
		}
	})
}

func BenchmarkResolve_Concurrent_Dig(b *testing.B) {
	c := newDig(b)

	// Warm up
	c.Invoke(func(u *UserService) {})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Invoke(func(u *UserService) {})
		}
	})
}

func BenchmarkResolve_Concurrent_Do(b *testing.B) {
	injector := newDo(false)
	defer injector.Shutdown()

	// Warm up
	do.MustInvoke[*UserService](injector)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = do.MustInvoke[*UserService](injector)
		}
	})
}

// =============================================================================
// Scope Benchmarks
// =============================================================================

func BenchmarkScope_Create_Tokendi(b *testing.B) {
	c := newTokendi(b, tokendi.Singleton)
	defer c.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		scope := c.CreateScope()
		scope.Close()
	}
}

func BenchmarkScope_CreateAndResolve_Tokendi(b *testing.B) {
	c := newTokendi(b, tokendi.Singleton)
	defer c.Close()
	token := tokendi.TypeOf[*UserService]()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		scope := c.CreateScope()
		_ = tokendi.MustResolve[*UserService](scope, token)
		scope.Close()
	}
}

func BenchmarkScope_CreateAndResolve_Do(b *testing.B) {
	injector := newDo(false)
	defer injector.Shutdown()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		scope := injector.Scope("request")
		_ = do.MustInvoke[*UserService](scope)
	}
}
