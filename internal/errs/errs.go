// Package errs defines the error kinds raised by the primitives in this
// module. Each kind is a sentinel so callers can branch with errors.Is
// instead of matching strings. Ownership, recursion, overflow and
// underflow errors are wrapped with context via github.com/pkg/errors
// before they reach the caller; ErrStateCapture is returned as is.
package errs

import "github.com/pkg/errors"

// Sentinel error kinds raised by the primitives in this module.
var (
	// ErrOwnership is raised when release is attempted by a caller that
	// is not the current owner of a Lock or RLock.
	ErrOwnership = errors.New("aiologic: release by non-owner")

	// ErrRecursion is raised when a non-reentrant Lock is re-acquired by
	// its current owner.
	ErrRecursion = errors.New("aiologic: lock is not reentrant")

	// ErrOverflow is raised when a bounded semaphore's release would
	// push value above max_value.
	ErrOverflow = errors.New("aiologic: release would exceed max value")

	// ErrUnderflow is raised when an RLock release count exceeds the
	// current recursion counter.
	ErrUnderflow = errors.New("aiologic: release count exceeds held count")

	// ErrStateCapture is raised by MarshalJSON: these primitives are
	// process-local and refuse serialization.
	ErrStateCapture = errors.New("aiologic: primitive cannot be serialized")
)

// Ownership wraps ErrOwnership with diagnostic detail.
func Ownership(detail string) error {
	return errors.Wrap(ErrOwnership, detail)
}

// Recursion wraps ErrRecursion with diagnostic detail.
func Recursion(detail string) error {
	return errors.Wrap(ErrRecursion, detail)
}

// Overflow wraps ErrOverflow with diagnostic detail.
func Overflow(detail string) error {
	return errors.Wrap(ErrOverflow, detail)
}

// Underflow wraps ErrUnderflow with diagnostic detail.
func Underflow(detail string) error {
	return errors.Wrap(ErrUnderflow, detail)
}
