package testutil

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Common test errors
var (
	ErrTest        = errors.New("test error")
	ErrIntentional = errors.New("intentional error")
	ErrDisposal    = errors.New("disposal error")
)

// Database is a literal-style dependency
type Database struct {
	DSN string
}

// Logger depends on Database
type Logger struct {
	ID string
	DB *Database
}

// NewLogger creates a Logger with a fresh ID
func NewLogger(db *Database) *Logger {
	return &Logger{ID: uuid.NewString(), DB: db}
}

// Greeter is a test interface
type Greeter interface {
	Greet(name string) string
}

// EnglishGreeter implements Greeter
type EnglishGreeter struct{}

func (EnglishGreeter) Greet(name string) string { return "hello " + name }

// Counter counts constructions
type Counter struct {
	n atomic.Int64
}

// Inc increments and returns the new count
func (c *Counter) Inc() int64 { return c.n.Add(1) }

// Load returns the current count
func (c *Counter) Load() int64 { return c.n.Load() }

// CloseLog records the order in which resources are closed
type CloseLog struct {
	mu    sync.Mutex
	names []string
}

func (l *CloseLog) Record(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, name)
}

func (l *CloseLog) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.names...)
}

// Resource implements tokendi.Disposable
type Resource struct {
	Name     string
	Log      *CloseLog
	CloseErr error
	closed   atomic.Bool
}

func (r *Resource) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("%s: already closed", r.Name)
	}
	if r.Log != nil {
		r.Log.Record(r.Name)
	}
	return r.CloseErr
}

// Closed reports whether Close was called
func (r *Resource) Closed() bool { return r.closed.Load() }
