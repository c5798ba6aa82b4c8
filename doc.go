// Package respool provides a fixed-capacity pool of reusable resources shared
// across goroutines.
//
// Every resource is created when the pool is created and lives as long as the
// pool. A resource is either available in the pool or checked out by exactly
// one caller. The pool never grows or shrinks.
//
// Basic usage:
//
//	pool, err := respool.New(ctx, 3, func(ctx context.Context, index int) (*Conn, error) {
//		return dial(ctx, index)
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close(ctx)
//
//	// Non-blocking: exhaustion is a normal outcome, not an error.
//	resource, ok := pool.TryAcquire()
//	if !ok {
//		return errBusy
//	}
//	defer resource.Close() // or defer resource.Release(ctx)
//
//	// Use the resource
//	fmt.Printf("Using resource %d\n", resource.Index())
//
// Callers that prefer to wait use Acquire, which blocks until a resource is
// released, the context ends or the pool is closed.
//
// A Resource can only be released into the pool it came from, and releasing it
// more than once is a no-op. Using a resource's value after releasing it is a
// programming error that the pool does not detect.
package respool
