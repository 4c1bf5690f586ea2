// Package arena provides a free-list pool allocator over a caller-owned
// byte region, the allocation strategy that backs every jsonvalue.Value
// tree built by the parser.
package arena

import "sync"

// Allocator is the abstract allocation interface every jsonvalue container
// allocates its children through. Copies, moves and re-typing of a Value
// all go through the allocator that owns it so that arena affinity is
// preserved no matter how the Value is passed around.
type Allocator interface {
	// Allocate returns size bytes of zeroed memory, or nil if the
	// allocator is exhausted.
	Allocate(size int) []byte
	// Free releases memory previously returned by Allocate. Freeing a
	// slice not obtained from this allocator, or freeing it twice, is a
	// programming error and may corrupt the allocator's bookkeeping.
	Free(b []byte)
	// Lock and Unlock exist so an allocator shared across goroutines can
	// serialize Allocate/Free. The default Pool implementation leaves
	// both as no-ops; callers that share a Pool across goroutines must
	// wrap it (see LockedPool) or otherwise synchronize access themselves.
	Lock()
	Unlock()
}

// LockedPool wraps a Pool with a mutex so it can be shared across
// goroutines. Most callers don't need this — a parser invocation should
// use a dedicated Pool, as the client does for each response and the
// server does for each request.
type LockedPool struct {
	*Pool
	mu sync.Mutex
}

// NewLockedPool wraps pool so its Lock/Unlock hooks actually serialize.
func NewLockedPool(pool *Pool) *LockedPool {
	return &LockedPool{Pool: pool}
}

func (l *LockedPool) Lock()   { l.mu.Lock() }
func (l *LockedPool) Unlock() { l.mu.Unlock() }

// Allocate overrides Pool.Allocate to take the lock for the duration of
// the call.
func (l *LockedPool) Allocate(size int) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Pool.allocateLocked(size)
}

// Free overrides Pool.Free to take the lock for the duration of the call.
func (l *LockedPool) Free(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Pool.freeLocked(b)
}
