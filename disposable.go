package tokendi

import "context"

// Disposable is implemented by singletons that release resources when
// their container is closed.
//
// Example:
//
//	type Database struct {
//	    conn *sql.DB
//	}
//
//	func (d *Database) Close() error {
//	    return d.conn.Close()
//	}
type Disposable interface {
	Close() error
}

// DisposableWithContext is the context-aware form of Disposable. It is
// used by Container.CloseContext for graceful shutdown.
//
// Example:
//
//	func (d *Database) Close(ctx context.Context) error {
//	    done := make(chan error, 1)
//	    go func() {
//	        done <- d.conn.Close()
//	    }()
//
//	    select {
//	    case err := <-done:
//	        return err
//	    case <-ctx.Done():
//	        return ctx.Err()
//	    }
//	}
type DisposableWithContext interface {
	Close(ctx context.Context) error
}
