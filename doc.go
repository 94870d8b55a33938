// Package aiologic unifies blocking-goroutine and cooperative-context
// waiters over one fair FIFO wait queue. It exposes four families of
// primitives:
//
//   - Semaphore / BoundedSemaphore / BinarySemaphore / BoundedBinarySemaphore
//     (all constructed by one underlying type, semaphore.go)
//   - Lock, a non-reentrant owner-tracked mutex (lock.go)
//   - RLock, a re-entrant wrapper over Lock keyed on owner identity (rlock.go)
//   - NewPLock / NewBLock, deprecated aliases resolving to the binary
//     semaphore forms (deprecated.go)
//
// Condition variables, priority inheritance, deadlock detection, and
// cross-process coordination are explicitly out of scope; Lock exposes
// Park/Unpark/AfterPark as the hooks a condition-variable
// implementation built on top of this package would need.
package aiologic
