// Package locks coordinates writers: at most one upload may write a given
// canonical file path at a time.
//
// A Coordinator is an ordinary value owned by the server component that
// creates it; independent servers (tests, several roots in one process) use
// independent coordinators.
package locks

import (
	"sync"
	"sync/atomic"
)

// Coordinator is a concurrent registry of paths currently being written.
type Coordinator struct {
	held  sync.Map // canonical path -> *Lease
	count atomic.Int64
}

// Lease is the proof of a successful acquisition. Release is idempotent, so
// it can be deferred right after acquisition and also called early.
type Lease struct {
	path  string
	owner *Coordinator
	once  sync.Once
}

// New returns an empty Coordinator.
func New() *Coordinator {
	return &Coordinator{}
}

// TryAcquire locks path if nobody holds it. The insert-if-absent is a single
// atomic operation; there is no separate existence check. The loser gets
// (nil, false) immediately and never queues.
func (c *Coordinator) TryAcquire(path string) (*Lease, bool) {
	l := &Lease{path: path, owner: c}
	if _, loaded := c.held.LoadOrStore(path, l); loaded {
		return nil, false
	}
	c.count.Add(1)
	return l, true
}

// Release unlocks path regardless of which lease holds it. Releasing a path
// that is not held is a no-op.
func (c *Coordinator) Release(path string) {
	v, ok := c.held.Load(path)
	if !ok {
		return
	}
	v.(*Lease).Release()
}

// Held reports whether path is currently locked.
func (c *Coordinator) Held(path string) bool {
	_, ok := c.held.Load(path)
	return ok
}

// Len returns the number of locked paths.
func (c *Coordinator) Len() int {
	return int(c.count.Load())
}

// Path returns the locked path.
func (l *Lease) Path() string {
	return l.path
}

// Release unlocks the path exactly once. Later calls do nothing.
func (l *Lease) Release() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		// only remove our own entry; a later lease on the same path is untouched
		if l.owner.held.CompareAndDelete(l.path, l) {
			l.owner.count.Add(-1)
		}
	})
}
