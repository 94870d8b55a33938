package aiologic

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vizonex/aiologic-go/internal/errs"
	"github.com/vizonex/aiologic-go/internal/identity"
	"github.com/vizonex/aiologic-go/internal/waitqueue"
)

// Lock is a non-reentrant, owner-tracked mutual-exclusion primitive.
// Re-acquiring it from the goroutine that already owns it is a
// programming error (ErrRecursion), not a block — use RLock when
// re-entrant acquisition by the same owner is needed.
//
// unlocked ⇔ owner == identity.None is the sole invariant; rather than
// track a redundant boolean alongside owner, Lock derives "locked"
// from owner directly.
type Lock struct {
	mu      sync.Mutex
	owner   identity.Identity
	waiters waitqueue.Queue
	log     *zap.Logger
}

// NewLock returns a ready-to-use, unlocked Lock.
func NewLock(opts ...Option) *Lock {
	o := resolveOptions(opts)
	return &Lock{log: o.logger}
}

// Locked reports whether the lock is currently held.
func (l *Lock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.owner.IsNone()
}

// Owner returns the current owner identity, or identity.None if
// unlocked.
func (l *Lock) Owner() identity.Identity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owner
}

// Owned reports whether the calling goroutine is the current owner.
func (l *Lock) Owned() bool {
	return l.Owner() == identity.Current()
}

// Acquire blocks until the lock is held by the caller. Returns
// ErrRecursion if the caller already owns the lock.
func (l *Lock) Acquire() error {
	id := identity.Current()
	if ok, err := l.tryAcquire(id); ok || err != nil {
		return err
	}
	tok := l.park(id)
	tok.Event.WaitTimeout(0)
	return nil
}

// AcquireTimeout blocks for up to timeout, returning true iff the lock
// was acquired.
func (l *Lock) AcquireTimeout(timeout time.Duration) (bool, error) {
	id := identity.Current()
	if ok, err := l.tryAcquire(id); ok || err != nil {
		return ok, err
	}
	tok := l.park(id)
	if tok.Event.WaitTimeout(timeout) {
		return true, nil
	}
	l.giveUp(tok)
	return false, nil
}

// AcquireContext is the cooperative form: it blocks until the lock is
// held by the caller or ctx is done. If shield is true, the wait
// ignores ctx cancellation until it completes; the caller remains
// responsible for honoring cancellation (i.e. calling Release)
// afterward.
func (l *Lock) AcquireContext(ctx context.Context, shield bool) error {
	id := identity.Current()
	if ok, err := l.tryAcquire(id); ok || err != nil {
		return err
	}
	tok := l.park(id)
	waitCtx := ctx
	if shield {
		waitCtx = context.Background()
	}
	if tok.Event.WaitContext(waitCtx) {
		return nil
	}
	l.giveUp(tok)
	return ctx.Err()
}

// tryAcquire implements the fast path and the recursion check.
func (l *Lock) tryAcquire(id identity.Identity) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner.IsNone() {
		l.owner = id
		return true, nil
	}
	if l.owner == id {
		return false, errs.Recursion("lock already held by this goroutine")
	}
	return false, nil
}

// park enqueues a token carrying id as its would-be owner.
func (l *Lock) park(id identity.Identity) *waitqueue.Token {
	tok := waitqueue.NewToken(id)
	l.waiters.Enqueue(tok)
	l.log.Debug("aiologic: lock parked waiter", zap.Int("waiting", l.waiters.Len()))
	return tok
}

// giveUp abandons a parked token after its waiter timed out or was
// cancelled. If the token is still unclaimed, cancelling it removes it
// from the queue and there is nothing further to do. If a releaser won
// the race and already handed it ownership, that ownership is declined
// on the waiter's behalf and handed off again — to the next queued
// waiter if any, otherwise cleared — so the lock never ends up held by
// a goroutine that believes its acquire failed.
func (l *Lock) giveUp(tok *waitqueue.Token) {
	if l.waiters.Cancel(tok) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.releaseLocked()
}

// Release requires that the caller currently owns the lock, then hands
// off to the next queued waiter (setting owner to that waiter's
// identity) or clears ownership if the queue is empty.
func (l *Lock) Release() error {
	id := identity.Current()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner != id {
		return errs.Ownership("release attempted by non-owner")
	}
	return l.releaseLocked()
}

// releaseLocked performs the handoff. Called with l.mu held.
func (l *Lock) releaseLocked() error {
	if tok := l.waiters.DequeueHead(); tok != nil {
		l.owner = tok.Owner.(identity.Identity)
		tok.Event.Set()
		l.log.Debug("aiologic: lock handed off", zap.Int("waiting", l.waiters.Len()))
		return nil
	}
	l.owner = identity.None
	return nil
}

// Guard acquires the lock and returns a function that releases it, for
// a defer-friendly scoped-acquire pattern. Panics if acquisition fails
// with a recursion error, since Guard has no error return; call
// Acquire directly when recursion must be handled.
func (l *Lock) Guard() func() {
	if err := l.Acquire(); err != nil {
		panic(err)
	}
	return func() { _ = l.Release() }
}

// Park is an internal-use hook, exposed for a future condition-variable
// implementation outside this package: it enqueues a new token carrying
// id and blocks the calling goroutine until a Release hands the lock to
// that token. The token is returned only after the wake.
func (l *Lock) Park(id identity.Identity) *waitqueue.Token {
	tok := l.park(id)
	tok.Event.WaitTimeout(0)
	return tok
}

// Unpark hands the lock directly to tok's owner, bypassing the normal
// queue order. A condition variable uses this when migrating a waiter
// it woke via Broadcast/Signal from its own queue into the lock's
// waiting set. The caller must hold no conflicting expectations about
// current ownership; Unpark does not check it.
func (l *Lock) Unpark(tok *waitqueue.Token) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.owner = tok.Owner.(identity.Identity)
	tok.Event.Set()
}

// AfterPark reasserts that id is the current owner, the post-wake
// finalization step a condition variable calls once a migrated waiter
// resumes.
func (l *Lock) AfterPark(id identity.Identity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.owner = id
}

// MarshalJSON always fails: these primitives are process-local and
// refuse serialization.
func (l *Lock) MarshalJSON() ([]byte, error) {
	return nil, errs.ErrStateCapture
}
