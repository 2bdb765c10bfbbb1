// Package workers runs the long-lived background loops of a process, such as
// the remote stream session of a client, as one unit bound to a context.
package workers

import "context"

// Worker is a background loop. Run blocks until ctx is done or the worker
// fails; a nil error means a clean stop.
//
// Example implementation:
//
//	type Ticker struct{}
//
//	func (w *Ticker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to Worker.
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
