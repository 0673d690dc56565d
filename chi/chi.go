// Package chi provides tokendi integration for the Chi router.
//
// ScopeMiddleware gives every request its own child container created with
// Container.CreateScope, so singletons registered on the root are built
// once per request. Handle resolves a controller from that scope.
//
// Example usage:
//
//	c, _ := builder.Build()
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID)
//	r.Use(tokendichi.ScopeMiddleware(c))
//
//	r.Post("/login", tokendichi.Handle(AuthController.Login, "auth"))
//	r.Get("/users/{id}", tokendichi.HandleType(UserController.GetByID))
package chi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/junioryono/tokendi"
)

// ErrNoScope is returned by FromContext when the request carries no scope.
var ErrNoScope = errors.New("no tokendi scope in request context")

type scopeKey struct{}

// NewContext returns a copy of ctx carrying scope.
func NewContext(ctx context.Context, scope *tokendi.Container) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// FromContext returns the scope attached by ScopeMiddleware.
func FromContext(ctx context.Context) (*tokendi.Container, error) {
	scope, ok := ctx.Value(scopeKey{}).(*tokendi.Container)
	if !ok || scope == nil {
		return nil, ErrNoScope
	}
	return scope, nil
}

// Config holds the configuration for the scope middleware.
type Config struct {
	// Logger receives scope lifecycle events. Defaults to a no-op logger.
	Logger zerolog.Logger

	// ErrorHandler is called when a middleware fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// CloseErrorHandler is called when scope closing fails.
	// If nil, errors are logged.
	CloseErrorHandler func(*http.Request, error)

	// Middlewares are functions that run after scope creation.
	// They can be used to initialize request context, set user data, etc.
	Middlewares []func(*tokendi.Container, *http.Request) error
}

// Option configures the scope middleware.
type Option func(*Config)

// WithLogger sets the logger for scope events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithErrorHandler sets the error handler for middleware failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithCloseErrorHandler sets the error handler for scope close failures.
func WithCloseErrorHandler(h func(*http.Request, error)) Option {
	return func(c *Config) {
		c.CloseErrorHandler = h
	}
}

// WithMiddleware adds a middleware function that runs after scope creation.
// Multiple middlewares are executed in the order they are added.
func WithMiddleware(mw func(*tokendi.Container, *http.Request) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		Logger: zerolog.Nop(),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// ScopeMiddleware creates a Chi middleware that creates a request-scoped
// container for each request. The scope is attached to the request context
// and can be retrieved using FromContext.
//
// The scope is closed when the request completes. When Chi's RequestID
// middleware runs first, the request ID is added to scope log events.
func ScopeMiddleware(root *tokendi.Container, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.CloseErrorHandler == nil {
		logger := cfg.Logger
		cfg.CloseErrorHandler = func(r *http.Request, err error) {
			logger.Error().
				Err(err).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("failed to close scope")
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := root.CreateScope()
			cfg.Logger.Debug().
				Str("scope", scope.ID()).
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("path", r.URL.Path).
				Msg("request scope opened")

			defer func() {
				if err := scope.Close(); err != nil {
					cfg.CloseErrorHandler(r, err)
				}
			}()

			r = r.WithContext(NewContext(r.Context(), scope))

			for _, mw := range cfg.Middlewares {
				if err := mw(scope, r); err != nil {
					cfg.ErrorHandler(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// Logger receives handler failures. Defaults to a no-op logger.
	Logger zerolog.Logger

	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(http.ResponseWriter, *http.Request, any)

	// ScopeErrorHandler is called when scope retrieval fails.
	ScopeErrorHandler func(http.ResponseWriter, *http.Request, error)

	// ResolutionErrorHandler is called when controller resolution fails.
	ResolutionErrorHandler func(http.ResponseWriter, *http.Request, error)
}

// HandlerOption configures the Handle wrapper.
type HandlerOption func(*HandlerConfig)

// WithHandlerLogger sets the logger used by the default error handlers.
func WithHandlerLogger(logger zerolog.Logger) HandlerOption {
	return func(c *HandlerConfig) {
		c.Logger = logger
	}
}

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics.
func WithPanicHandler(h func(http.ResponseWriter, *http.Request, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithScopeErrorHandler sets the error handler for scope retrieval failures.
func WithScopeErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ScopeErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for controller resolution failures.
func WithResolutionErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

func defaultHandlerConfig(opts []HandlerOption) *HandlerConfig {
	cfg := &HandlerConfig{Logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.Logger
	if cfg.PanicHandler == nil {
		cfg.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
			logger.Error().
				Interface("panic", v).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("panic in handler")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
	if cfg.ScopeErrorHandler == nil {
		cfg.ScopeErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error().Err(err).Msg("failed to get scope from context")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
	if cfg.ResolutionErrorHandler == nil {
		cfg.ResolutionErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error().Err(err).Msg("failed to resolve controller")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}

	return cfg
}

// Handle wraps a controller method for type-safe resolution from the
// request scope. The controller registered under token is resolved from
// the scope attached to the request context and asserted to T.
//
// The method signature should be: func(T, http.ResponseWriter, *http.Request)
//
// Example:
//
//	r.Get("/users/{id}", tokendichi.Handle((*UserController).GetByID, "users"))
func Handle[T any](method func(T, http.ResponseWriter, *http.Request), token any, opts ...HandlerOption) http.HandlerFunc {
	cfg := defaultHandlerConfig(opts)

	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					cfg.PanicHandler(w, r, v)
				}
			}()
		}

		scope, err := FromContext(r.Context())
		if err != nil {
			cfg.ScopeErrorHandler(w, r, err)
			return
		}

		controller, err := tokendi.Resolve[T](scope, token)
		if err != nil {
			cfg.ResolutionErrorHandler(w, r, err)
			return
		}

		method(controller, w, r)
	}
}

// HandleType is Handle using the TypeToken of T.
func HandleType[T any](method func(T, http.ResponseWriter, *http.Request), opts ...HandlerOption) http.HandlerFunc {
	return Handle(method, tokendi.TypeOf[T](), opts...)
}
