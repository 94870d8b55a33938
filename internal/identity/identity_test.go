package identity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurrentStableWithinGoroutine(t *testing.T) {
	first := Current()
	second := Current()
	require.Equal(t, first, second)
	require.Equal(t, KindGoroutine, first.Kind)
}

func TestCurrentDistinctAcrossGoroutines(t *testing.T) {
	const n = 50
	ids := make(chan Identity, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- Current()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[Identity]bool)
	for id := range ids {
		require.False(t, seen[id], "identity %v reused across live goroutines", id)
		seen[id] = true
	}
	require.Len(t, seen, n)
}

func TestNoneIsZeroValue(t *testing.T) {
	var zero Identity
	require.True(t, zero.IsNone())
	require.Equal(t, None, zero)
}
