// Package aiologic implements the synchronization primitives that let
// a blocking goroutine and a cooperative-context waiter contend for
// the same counter or lock with fair, FIFO waiter-parking.
//
// The counting primitive here is Semaphore; Lock (lock.go) shares the
// same internal wait queue rather than a Semaphore, and RLock
// (rlock.go) wraps a Lock. Bounded and binary variants are the same
// type with different construction-time invariants rather than
// separate types, matching the teacher ordermutex's preference for one
// concrete type over a type per variant.
package aiologic

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/vizonex/aiologic-go/internal/errs"
	"github.com/vizonex/aiologic-go/internal/waitqueue"
)

// Option configures a primitive at construction time.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

func resolveOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithLogger attaches a structured logger for diagnostics (currently
// only the PLock/BLock deprecation warning, plus optional debug-level
// park/handoff tracing). The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Semaphore is an unbounded counting semaphore. Use NewBoundedSemaphore
// for the capped variant and NewBinarySemaphore /
// NewBoundedBinarySemaphore for the binary forms; all four share this
// type.
type Semaphore struct {
	mu       sync.Mutex
	value    atomic.Int64
	initial  int64
	maxValue *int64 // nil: unbounded
	binary   bool
	waiters  waitqueue.Queue
	log      *zap.Logger
}

// NewSemaphore constructs an unbounded Semaphore with the given
// initial value. Panics if initialValue < 0.
func NewSemaphore(initialValue int64, opts ...Option) *Semaphore {
	if initialValue < 0 {
		panic("aiologic: initial_value must be >= 0")
	}
	o := resolveOptions(opts)
	s := &Semaphore{initial: initialValue, log: o.logger}
	s.value.Store(initialValue)
	return s
}

// NewBoundedSemaphore constructs a Semaphore whose value can never
// exceed maxValue. Panics if initialValue < 0 or initialValue >
// maxValue.
func NewBoundedSemaphore(initialValue, maxValue int64, opts ...Option) *Semaphore {
	if initialValue < 0 {
		panic("aiologic: initial_value must be >= 0")
	}
	if initialValue > maxValue {
		panic("aiologic: initial_value must be <= max_value")
	}
	o := resolveOptions(opts)
	s := &Semaphore{initial: initialValue, maxValue: &maxValue, log: o.logger}
	s.value.Store(initialValue)
	return s
}

// NewBinarySemaphore constructs an unbounded semaphore marked as binary.
// It behaves exactly as NewSemaphore: value starts at initialValue and
// is not capped, so an uncontested Release may push it past 1.
func NewBinarySemaphore(initialValue int64, opts ...Option) *Semaphore {
	s := NewSemaphore(initialValue, opts...)
	s.binary = true
	return s
}

// NewBoundedBinarySemaphore constructs a binary semaphore capped at 1:
// a second Release while already at 1 raises the overflow error.
func NewBoundedBinarySemaphore(initialValue int64, opts ...Option) *Semaphore {
	s := NewBoundedSemaphore(initialValue, 1, opts...)
	s.binary = true
	return s
}

// Value returns the current permit count.
func (s *Semaphore) Value() int64 { return s.value.Load() }

// InitialValue returns the value the semaphore was constructed with.
func (s *Semaphore) InitialValue() int64 { return s.initial }

// MaxValue returns the configured upper bound and whether the
// semaphore is bounded.
func (s *Semaphore) MaxValue() (int64, bool) {
	if s.maxValue == nil {
		return 0, false
	}
	return *s.maxValue, true
}

// Waiting returns the current parked-token count. A waiter that timed
// out or was cancelled is removed from the count as it gives up.
func (s *Semaphore) Waiting() int { return s.waiters.Len() }

// TryAcquire attempts the non-blocking fast path only: it never parks.
func (s *Semaphore) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tryAcquireLocked()
}

// tryAcquireLocked succeeds only when value > 0 AND no waiter is
// already parked, so a late arriver can never cut ahead of a queued
// waiter.
func (s *Semaphore) tryAcquireLocked() bool {
	if s.value.Load() > 0 && s.waiters.Empty() {
		s.value.Dec()
		return true
	}
	return false
}

// Acquire blocks the calling goroutine until a permit is available.
func (s *Semaphore) Acquire() {
	if s.TryAcquire() {
		return
	}
	tok := s.park()
	tok.Event.WaitTimeout(0)
}

// AcquireTimeout blocks for up to timeout, returning true iff a permit
// was acquired.
func (s *Semaphore) AcquireTimeout(timeout time.Duration) bool {
	if s.TryAcquire() {
		return true
	}
	tok := s.park()
	if tok.Event.WaitTimeout(timeout) {
		return true
	}
	s.giveUp(tok)
	return false
}

// AcquireContext blocks until a permit is available or ctx is done. If
// shield is true, the wait ignores ctx cancellation until it
// completes; the caller remains responsible for honoring cancellation
// (releasing any permit it holds) afterward.
func (s *Semaphore) AcquireContext(ctx context.Context, shield bool) error {
	if s.TryAcquire() {
		return nil
	}
	tok := s.park()
	waitCtx := ctx
	if shield {
		waitCtx = context.Background()
	}
	if tok.Event.WaitContext(waitCtx) {
		return nil
	}
	s.giveUp(tok)
	return ctx.Err()
}

// park builds a fresh token, enqueues it, and returns it for the
// caller to wait on.
func (s *Semaphore) park() *waitqueue.Token {
	tok := waitqueue.NewToken(nil)
	s.waiters.Enqueue(tok)
	s.log.Debug("aiologic: semaphore parked waiter", zap.Int("waiting", s.waiters.Len()))
	return tok
}

// giveUp abandons a parked token after its waiter timed out or was
// cancelled. If the token is still unclaimed, cancelling it removes it
// from the queue and there is nothing further to do. If a releaser won
// the race and already handed it a permit, that permit is declined on
// the waiter's behalf and restored by releasing one unit — to the next
// queued waiter if any, otherwise back onto value — so the total
// permit count is preserved either way.
func (s *Semaphore) giveUp(tok *waitqueue.Token) {
	if s.waiters.Cancel(tok) {
		return
	}
	_ = s.releaseOne()
}

// Release credits count permits back to the semaphore, handing each
// one off directly to a parked waiter (FIFO) before incrementing the
// counter. For a bounded semaphore, a unit that would push value above
// max_value is rejected with ErrOverflow and leaves state unchanged;
// prior units in the same call are not rolled back, since each unit is
// applied atomically one at a time under the lock.
func (s *Semaphore) Release(count int64) error {
	if count <= 0 {
		return nil
	}
	for i := int64(0); i < count; i++ {
		if err := s.releaseOne(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Semaphore) releaseOne() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok := s.waiters.DequeueHead(); tok != nil {
		tok.Event.Set()
		s.log.Debug("aiologic: semaphore handed off permit", zap.Int("waiting", s.waiters.Len()))
		return nil
	}

	if s.maxValue != nil && s.value.Load()+1 > *s.maxValue {
		return errs.Overflow("semaphore release would exceed max_value")
	}
	s.value.Inc()
	return nil
}

// Guard acquires the semaphore and returns a function that releases
// it, for a defer-friendly scoped-acquire pattern.
func (s *Semaphore) Guard() func() {
	s.Acquire()
	return func() { _ = s.Release(1) }
}

// MarshalJSON always fails: these primitives are process-local and
// refuse serialization.
func (s *Semaphore) MarshalJSON() ([]byte, error) {
	return nil, errs.ErrStateCapture
}
