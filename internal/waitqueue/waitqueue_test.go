package waitqueue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFIFOOrdering(t *testing.T) {
	var q Queue
	a := NewToken("a")
	b := NewToken("b")
	q.Enqueue(a)
	q.Enqueue(b)

	got := q.DequeueHead()
	require.Same(t, a, got)
	require.True(t, got.Cancelled() == false)

	got = q.DequeueHead()
	require.Same(t, b, got)

	require.Nil(t, q.DequeueHead())
}

func TestCancelAtHeadSkipped(t *testing.T) {
	var q Queue
	a := NewToken("a")
	b := NewToken("b")
	q.Enqueue(a)
	q.Enqueue(b)

	require.True(t, q.Cancel(a))
	require.Equal(t, 1, q.Len())

	got := q.DequeueHead()
	require.Same(t, b, got)
}

func TestCancelAfterClaimLoses(t *testing.T) {
	var q Queue
	a := NewToken("a")
	q.Enqueue(a)

	claimed := q.DequeueHead()
	require.Same(t, a, claimed)

	// The waiter tries to cancel after losing the race; it must fail.
	require.False(t, q.Cancel(a))
	require.False(t, a.Cancelled())
}

func TestCancelMidQueue(t *testing.T) {
	var q Queue
	a := NewToken("a")
	b := NewToken("b")
	c := NewToken("c")
	q.Enqueue(a)
	q.Enqueue(b)
	q.Enqueue(c)

	require.True(t, q.Cancel(b))
	require.Equal(t, 2, q.Len())

	require.Same(t, a, q.DequeueHead())
	require.Same(t, c, q.DequeueHead())
	require.Nil(t, q.DequeueHead())
}

func TestLenTracksLiveWaiters(t *testing.T) {
	var q Queue
	require.True(t, q.Empty())
	a := NewToken(nil)
	q.Enqueue(a)
	require.Equal(t, 1, q.Len())
	q.DequeueHead()
	require.True(t, q.Empty())
}
