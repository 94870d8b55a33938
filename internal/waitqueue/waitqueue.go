// Package waitqueue implements the fair FIFO parking queue shared by
// every primitive in this module.
//
// It is a direct generalization of the teacher's ordermutex ticket
// lock (sawdustofmind-adv-sync/pkg/ordermutex): that lock hands out
// monotonically increasing tickets from an atomic counter, parks each
// ticket behind a per-ticket channel in a map, and advances a "cur"
// cursor over the map on release, skipping any ticket that was
// "burned" (cancelled) along the way. This package keeps that exact
// shape — atomic ticket counter, map of per-ticket channels, a
// skip-burned-tickets advance loop — but generalizes the ticket's
// payload from a bare uint64 to a Token carrying an owner identity and
// a reserved handoff count, and replaces the single "burn" bit with a
// QUEUED/CLAIMED/CANCELLED race-resolution state machine (the
// ordermutex has no such race: its tickets only ever represent turn
// order, never a contended permit that a releaser and a canceling
// waiter can both reach for at once).
package waitqueue

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/vizonex/aiologic-go/internal/event"
)

// state is the per-token handoff state machine: QUEUED -> CLAIMED
// (releaser wins) or QUEUED -> CANCELLED (waiter wins). Exactly one
// transition out of QUEUED ever succeeds.
type state int32

const (
	stateQueued state = iota
	stateClaimed
	stateCancelled
)

// Token is an element parked in a Queue. Owner and Count are opaque
// payload the caller attaches; the queue itself never inspects them
// beyond the race-resolution state machine.
type Token struct {
	Event event.Event
	Owner any   // optional owner identity for lock-style queues
	Count int64 // reserved handoff count for semaphore-style queues, default 1

	seq uint64 // arrival order, assigned by Queue.Enqueue

	mu    sync.Mutex
	state state
}

// NewToken returns a fresh, unenqueued Token with Count defaulted to 1.
func NewToken(owner any) *Token {
	return &Token{Event: event.New(), Owner: owner, Count: 1, state: stateQueued}
}

// claim attempts the QUEUED -> CLAIMED transition. Called by a
// releaser handing this token its permit. Returns false if the waiter
// already cancelled.
func (t *Token) claim() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != stateQueued {
		return false
	}
	t.state = stateClaimed
	return true
}

// tryCancel attempts the QUEUED -> CANCELLED transition. Called by the
// waiter abandoning the wait (timeout or cancellation). Returns false
// if a releaser already claimed the token first, in which case the
// waiter must honor the handoff instead.
func (t *Token) tryCancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != stateQueued {
		return false
	}
	t.state = stateCancelled
	return true
}

// Cancelled reports whether the token's terminal state is CANCELLED.
func (t *Token) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == stateCancelled
}

// Queue is a thread-safe FIFO of tokens, keyed by arrival sequence
// number the way ordermutex keys its waiters map by ticket id. cur is
// the sequence number of the oldest token that might still be
// claimable; DequeueHead advances it past any cancelled tokens it
// passes over, same as ordermutex's advanceAndWakeNext skipping burned
// tickets.
type Queue struct {
	next atomic.Uint64

	mu      sync.Mutex
	cur     uint64
	waiters map[uint64]*Token
	count   int // live waiter count; Enqueue, DequeueHead and Cancel
	// change it together with each insert into or delete from waiters,
	// so it always equals len(waiters).
}

func (q *Queue) init() {
	if q.waiters == nil {
		q.waiters = make(map[uint64]*Token)
	}
}

// Enqueue appends token to the tail in O(1), assigning it the next
// arrival sequence number.
func (q *Queue) Enqueue(t *Token) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.init()
	t.seq = q.next.Add(1) - 1
	q.waiters[t.seq] = t
	q.count++
}

// DequeueHead removes and returns the oldest non-cancelled token,
// claiming it on the releaser's behalf. It returns nil if the queue
// holds no claimable token. Stale cancelled tokens encountered at the
// head are dropped and scanning continues.
func (q *Queue) DequeueHead() *Token {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.init()
	for {
		tok, ok := q.waiters[q.cur]
		if !ok {
			if q.count == 0 {
				return nil
			}
			q.cur++
			continue
		}
		delete(q.waiters, q.cur)
		q.cur++
		q.count--
		if tok.claim() {
			return tok
		}
		// Already cancelled by its waiter; drop it and keep scanning.
	}
}

// Cancel marks token cancelled and unlinks it if it is still queued.
// It returns true iff this call won the race against a concurrent
// DequeueHead (i.e. the caller must treat the permit as never granted
// and, for semaphore-style queues, must not restore a unit it never
// held).
func (q *Queue) Cancel(t *Token) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.init()
	if !t.tryCancel() {
		return false
	}
	if _, ok := q.waiters[t.seq]; ok {
		delete(q.waiters, t.seq)
		q.count--
	}
	return true
}

// Len returns the current token count. Cancel unlinks a token in the
// same critical section that cancels it, so cancelled tokens are never
// counted.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Empty reports whether the queue currently holds no tokens.
func (q *Queue) Empty() bool {
	return q.Len() == 0
}
