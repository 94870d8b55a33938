package aiologic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// S4: RLock(); T1 acquires 3 times (count=3), releases twice (count=1),
// T2 acquire parks; T1 releases once; T2 now owns.
func TestRLockScenarioS4(t *testing.T) {
	r := NewRLock()

	require.NoError(t, r.Acquire())
	require.NoError(t, r.Acquire())
	require.NoError(t, r.Acquire())
	require.Equal(t, int64(3), r.Count())

	require.NoError(t, r.Release())
	require.NoError(t, r.Release())
	require.Equal(t, int64(1), r.Count())

	t2Owns := make(chan struct{})
	parked := make(chan struct{})
	go func() {
		close(parked)
		require.NoError(t, r.Acquire())
		close(t2Owns)
	}()
	<-parked
	require.Eventually(t, func() bool { return r.lock.waiters.Len() == 1 }, time.Second, time.Millisecond)

	select {
	case <-t2Owns:
		t.Fatal("T2 acquired before T1's final release")
	default:
	}

	require.NoError(t, r.Release())

	select {
	case <-t2Owns:
	case <-time.After(time.Second):
		t.Fatal("T2 never acquired after T1's final release")
	}
	require.Equal(t, int64(1), r.Count())
}

func TestRLockUnderflow(t *testing.T) {
	r := NewRLock()
	require.NoError(t, r.Acquire())
	err := r.ReleaseN(2)
	require.Error(t, err)
	require.NoError(t, r.Release())
}

func TestRLockOwnershipError(t *testing.T) {
	r := NewRLock()
	require.NoError(t, r.Acquire())

	errCh := make(chan error, 1)
	go func() { errCh <- r.Release() }()
	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("release from other goroutine never returned")
	}
	require.NoError(t, r.Release())
}

func TestRLockMarshalJSONRefused(t *testing.T) {
	r := NewRLock()
	_, err := r.MarshalJSON()
	require.Error(t, err)
}
