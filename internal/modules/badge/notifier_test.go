package badge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounterClampsAtZero(t *testing.T) {
	n := NewNotifier()
	c := NewCounter(n)
	defer c.Close()

	n.PublishDelta(2)
	n.PublishDelta(-5)
	require.Equal(t, 0, c.Count())

	n.PublishDelta(3)
	require.Equal(t, 3, c.Count())
}

func TestSetOverwritesNeverAccumulates(t *testing.T) {
	n := NewNotifier()
	c := NewCounter(n)
	defer c.Close()

	n.PublishDelta(4)
	n.PublishSet(7)
	n.PublishSet(7) // duplicate set must be a no-op
	require.Equal(t, 7, c.Count())

	n.PublishSet(2)
	require.Equal(t, 2, c.Count())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	n := NewNotifier()

	got := 0
	stop := n.Subscribe(func(ev Event) { got++ })

	n.PublishDelta(1)
	stop()
	n.PublishDelta(1)
	n.PublishSet(9)

	require.Equal(t, 1, got)
}

func TestNoReplayForLateSubscribers(t *testing.T) {
	n := NewNotifier()
	n.PublishSet(5)

	late := NewCounter(n)
	defer late.Close()
	require.Equal(t, 0, late.Count())
}

func TestZeroDeltaNotDelivered(t *testing.T) {
	n := NewNotifier()

	calls := 0
	defer n.Subscribe(func(Event) { calls++ })()

	n.PublishDelta(0)
	require.Equal(t, 0, calls)
}

func TestRefreshRequestedLeavesCountAlone(t *testing.T) {
	n := NewNotifier()
	c := NewCounter(n)
	defer c.Close()

	n.PublishSet(3)
	n.RequestRefresh()
	require.Equal(t, 3, c.Count())
}
