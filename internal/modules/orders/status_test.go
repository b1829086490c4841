package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCanceled}

// The full 5x5 cross-product against the chain-plus-cancel rule.
func TestTransitionGrid(t *testing.T) {
	legal := map[[2]Status]bool{
		{StatusPending, StatusProcessing}:  true,
		{StatusPending, StatusCanceled}:    true,
		{StatusProcessing, StatusShipped}:  true,
		{StatusProcessing, StatusCanceled}: true,
		{StatusShipped, StatusDelivered}:   true,
		{StatusShipped, StatusCanceled}:    true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := legal[[2]Status{from, to}] || from == to
			got := CanTransition(from, to)
			require.Equalf(t, want, got, "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	require.True(t, StatusDelivered.Terminal())
	require.True(t, StatusCanceled.Terminal())
	require.False(t, StatusPending.Terminal())
	require.False(t, StatusProcessing.Terminal())
	require.False(t, StatusShipped.Terminal())
}

func TestNextInChain(t *testing.T) {
	n, ok := StatusPending.Next()
	require.True(t, ok)
	require.Equal(t, StatusProcessing, n)

	n, ok = StatusShipped.Next()
	require.True(t, ok)
	require.Equal(t, StatusDelivered, n)

	_, ok = StatusDelivered.Next()
	require.False(t, ok)
	_, ok = StatusCanceled.Next()
	require.False(t, ok)
}

func TestUnknownStatusNeverLegal(t *testing.T) {
	require.False(t, CanTransition(Status("Refunded"), StatusCanceled))
	require.False(t, CanTransition(StatusPending, Status("Refunded")))
	require.False(t, Status("Refunded").Valid())
}

func TestLegalTargetsExcludeSelf(t *testing.T) {
	require.ElementsMatch(t, []Status{StatusProcessing, StatusCanceled}, LegalTargets(StatusPending))
	require.Empty(t, LegalTargets(StatusDelivered))
}
