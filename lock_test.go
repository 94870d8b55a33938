package aiologic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// S3: Lock(); thread T1 acquires; T1 calling acquire again raises
// recursion error.
func TestLockScenarioS3(t *testing.T) {
	l := NewLock()
	require.NoError(t, l.Acquire())
	err := l.Acquire()
	require.Error(t, err)
	require.NoError(t, l.Release())
}

func TestLockReleaseByNonOwner(t *testing.T) {
	l := NewLock()
	require.NoError(t, l.Acquire())

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Release()
	}()

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("release from other goroutine never returned")
	}
	require.NoError(t, l.Release())
}

func TestLockFIFOHandoff(t *testing.T) {
	l := NewLock()
	require.NoError(t, l.Acquire())

	order := make(chan int, 2)
	parked := make(chan struct{})
	go func() {
		close(parked)
		require.NoError(t, l.Acquire())
		order <- 1
		require.NoError(t, l.Release())
	}()
	<-parked
	require.Eventually(t, func() bool { return l.waiters.Len() == 1 }, time.Second, time.Millisecond)

	second := make(chan struct{})
	go func() {
		close(second)
		require.NoError(t, l.Acquire())
		order <- 2
		require.NoError(t, l.Release())
	}()
	<-second
	require.Eventually(t, func() bool { return l.waiters.Len() == 2 }, time.Second, time.Millisecond)

	require.NoError(t, l.Release())

	require.Equal(t, 1, <-order)
	require.Equal(t, 2, <-order)
}

func TestLockAcquireTimeout(t *testing.T) {
	l := NewLock()
	require.NoError(t, l.Acquire())

	ok, err := l.AcquireTimeout(10 * time.Millisecond)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, l.Release())
}

func TestLockOwnedAndOwner(t *testing.T) {
	l := NewLock()
	require.False(t, l.Locked())
	require.NoError(t, l.Acquire())
	require.True(t, l.Locked())
	require.True(t, l.Owned())
	require.NoError(t, l.Release())
	require.False(t, l.Locked())
}

func TestLockMarshalJSONRefused(t *testing.T) {
	l := NewLock()
	_, err := l.MarshalJSON()
	require.Error(t, err)
}
