package loom

import "context"

// Disposable is the synchronous teardown capability. During disposal it is
// invoked before DisposableWithContext when an instance carries both.
//
// Example:
//
//	type FileStore struct {
//	    f *os.File
//	}
//
//	func (s *FileStore) Close() error {
//	    return s.f.Close()
//	}
type Disposable interface {
	Close() error
}

// DisposableWithContext is the asynchronous teardown capability. The context
// passed to Container.Close is handed through; implementations should respect
// its cancellation for graceful shutdown.
//
// Example:
//
//	type DatabaseConnection struct {
//	    conn *sql.DB
//	}
//
//	func (dc *DatabaseConnection) Close(ctx context.Context) error {
//	    done := make(chan error, 1)
//	    go func() {
//	        done <- dc.conn.Close()
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
