package aiologic

import (
	"context"
	"time"

	"go.uber.org/atomic"

	"github.com/vizonex/aiologic-go/internal/errs"
	"github.com/vizonex/aiologic-go/internal/identity"
)

// RLock is a re-entrant Lock: the owning goroutine may acquire it
// repeatedly, each acquisition incrementing a recursion counter that
// must be unwound one release at a time.
type RLock struct {
	lock  *Lock
	count atomic.Int64 // meaningful only while locked
}

// NewRLock returns a ready-to-use, unlocked RLock.
func NewRLock(opts ...Option) *RLock {
	return &RLock{lock: NewLock(opts...)}
}

// Locked reports whether the lock is currently held.
func (r *RLock) Locked() bool { return r.lock.Locked() }

// Owner returns the current owner identity, or identity.None if
// unlocked.
func (r *RLock) Owner() identity.Identity { return r.lock.Owner() }

// Owned reports whether the calling goroutine is the current owner.
func (r *RLock) Owned() bool { return r.lock.Owned() }

// Count returns the current recursion depth (0 when unlocked).
func (r *RLock) Count() int64 { return r.count.Load() }

// Acquire acquires one unit of recursion. If the caller already owns
// the lock, this just adds to the recursion counter without touching
// the underlying queue; callers that want to add more than one unit in
// a single call should use AcquireN.
func (r *RLock) Acquire() error {
	return r.AcquireN(1)
}

// AcquireN is Acquire with an explicit recursion count.
func (r *RLock) AcquireN(count int64) error {
	id := identity.Current()
	if r.lock.Owner() == id && !id.IsNone() {
		r.count.Add(count)
		return nil
	}
	if err := r.lock.Acquire(); err != nil {
		return err
	}
	r.count.Store(count)
	return nil
}

// AcquireTimeout blocks for up to timeout, returning true iff the lock
// (or an added recursion unit) was acquired.
func (r *RLock) AcquireTimeout(timeout time.Duration) (bool, error) {
	id := identity.Current()
	if r.lock.Owner() == id && !id.IsNone() {
		r.count.Add(1)
		return true, nil
	}
	ok, err := r.lock.AcquireTimeout(timeout)
	if err != nil || !ok {
		return ok, err
	}
	r.count.Store(1)
	return true, nil
}

// AcquireContext is the cooperative "async_acquire" form.
func (r *RLock) AcquireContext(ctx context.Context, shield bool) error {
	id := identity.Current()
	if r.lock.Owner() == id && !id.IsNone() {
		r.count.Add(1)
		return nil
	}
	if err := r.lock.AcquireContext(ctx, shield); err != nil {
		return err
	}
	r.count.Store(1)
	return nil
}

// Release releases one unit of recursion (ReleaseN(1)).
func (r *RLock) Release() error {
	return r.ReleaseN(1)
}

// ReleaseN releases count units of recursion. Requires ownership
// (ErrOwnership) and count <= the current recursion counter
// (ErrUnderflow). When the counter reaches zero, the underlying Lock
// is released, performing its usual FIFO handoff.
func (r *RLock) ReleaseN(count int64) error {
	id := identity.Current()
	if r.lock.Owner() != id {
		return errs.Ownership("release attempted by non-owner")
	}
	cur := r.count.Load()
	if count > cur {
		return errs.Underflow("release count exceeds held recursion count")
	}
	remaining := cur - count
	r.count.Store(remaining)
	if remaining == 0 {
		return r.lock.Release()
	}
	return nil
}

// Guard acquires the lock and returns a function that releases it, for
// a defer-friendly scoped-acquire pattern.
func (r *RLock) Guard() func() {
	if err := r.Acquire(); err != nil {
		panic(err)
	}
	return func() { _ = r.Release() }
}

// MarshalJSON always fails: these primitives are process-local and
// refuse serialization.
func (r *RLock) MarshalJSON() ([]byte, error) {
	return nil, errs.ErrStateCapture
}
