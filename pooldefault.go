package nchwc

import "github.com/tensorkit/nchwc/workerpool"

// ownedPool wraps a workerpool.Pool created and owned by a single
// Conv/Pool call when the caller supplies no ThreadPool of its own, so
// that call still exercises real fork-join concurrency rather than
// falling back to a single-threaded path.
type ownedPool struct {
	*workerpool.Pool
}

func newOwnedPool() *ownedPool {
	return &ownedPool{Pool: workerpool.New(0)}
}
