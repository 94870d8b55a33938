package aiologic

import (
	"sync"

	"go.uber.org/zap"
)

var (
	plockWarnOnce sync.Once
	blockWarnOnce sync.Once
)

// warnDeprecated logs the one-time deprecation diagnostic for a
// deprecated alias.
func warnDeprecated(once *sync.Once, log *zap.Logger, old, new string) {
	once.Do(func() {
		log.Warn("aiologic: deprecated alias in use",
			zap.String("alias", old),
			zap.String("replacement", new),
		)
	})
}

// NewPLock is a deprecated alias for NewBinarySemaphore.
//
// Deprecated: use NewBinarySemaphore.
func NewPLock(initialValue int64, opts ...Option) *Semaphore {
	o := resolveOptions(opts)
	warnDeprecated(&plockWarnOnce, o.logger, "PLock", "BinarySemaphore")
	return NewBinarySemaphore(initialValue, opts...)
}

// NewBLock is a deprecated alias for NewBoundedBinarySemaphore.
//
// Deprecated: use NewBoundedBinarySemaphore.
func NewBLock(initialValue int64, opts ...Option) *Semaphore {
	o := resolveOptions(opts)
	warnDeprecated(&blockWarnOnce, o.logger, "BLock", "BoundedBinarySemaphore")
	return NewBoundedBinarySemaphore(initialValue, opts...)
}
