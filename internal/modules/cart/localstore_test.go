package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imrfidelz/djk-sub001/internal/modules/badge"
	"github.com/imrfidelz/djk-sub001/internal/storage"
)

type memBlob struct {
	m map[string][]byte
}

func newMemBlob() *memBlob { return &memBlob{m: make(map[string][]byte)} }

func (b *memBlob) Put(_ context.Context, key string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	b.m[key] = cp
	return nil
}

func (b *memBlob) Get(_ context.Context, key string) ([]byte, error) {
	d, ok := b.m[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return d, nil
}

func (b *memBlob) Delete(_ context.Context, key string) error {
	delete(b.m, key)
	return nil
}

func newTestStore(t *testing.T) (*LocalStore, *memBlob, *badge.Counter) {
	t.Helper()
	blob := newMemBlob()
	n := badge.NewNotifier()
	c := badge.NewCounter(n)
	t.Cleanup(c.Close)
	return NewLocalStore(blob, "guest-1", n), blob, c
}

func line(productID, size, color string, price int) Line {
	return Line{ProductID: productID, Name: "Item " + productID, UnitPriceCents: price, Size: size, Color: color}
}

func TestAddMergesByVariant(t *testing.T) {
	ctx := context.Background()
	s, _, c := newTestStore(t)

	require.NoError(t, s.Add(ctx, line("p1", "M", "noir", 10000), 2))
	require.NoError(t, s.Add(ctx, line("p1", "M", "noir", 10000), 1))
	require.NoError(t, s.Add(ctx, line("p1", "L", "noir", 10000), 1))

	lines, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, 3, lines[0].Quantity)
	require.Equal(t, 1, lines[1].Quantity)
	require.Equal(t, 4, c.Count())
}

func TestBadgeMatchesNonNegativeSum(t *testing.T) {
	ctx := context.Background()
	s, _, c := newTestStore(t)

	require.NoError(t, s.Add(ctx, line("p1", "", "", 100), 2))
	require.NoError(t, s.Add(ctx, line("p2", "", "", 200), 3))
	require.NoError(t, s.SetQuantity(ctx, Key{ProductID: "p2"}, 1))
	require.NoError(t, s.Remove(ctx, Key{ProductID: "p1"}))
	require.NoError(t, s.Add(ctx, line("p3", "", "", 300), 4))
	require.NoError(t, s.SetQuantity(ctx, Key{ProductID: "p3"}, 0))

	total, err := s.Total(ctx)
	require.NoError(t, err)
	require.Equal(t, total, c.Count())
	require.GreaterOrEqual(t, c.Count(), 0)
}

func TestSetQuantityIdempotent(t *testing.T) {
	ctx := context.Background()
	s, blob, c := newTestStore(t)

	require.NoError(t, s.Add(ctx, line("p1", "S", "ivory", 5000), 2))
	before := string(blob.m["guest-1"])
	countBefore := c.Count()

	require.NoError(t, s.SetQuantity(ctx, Key{ProductID: "p1", Size: "S", Color: "ivory"}, 2))

	require.Equal(t, before, string(blob.m["guest-1"]))
	require.Equal(t, countBefore, c.Count())
}

func TestSetQuantityZeroDeletesLine(t *testing.T) {
	ctx := context.Background()
	s, _, c := newTestStore(t)

	require.NoError(t, s.Add(ctx, line("p1", "", "", 100), 3))
	require.NoError(t, s.SetQuantity(ctx, Key{ProductID: "p1"}, 0))

	lines, err := s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)
	require.Equal(t, 0, c.Count())
}

func TestRemoveEmitsNegativeDelta(t *testing.T) {
	ctx := context.Background()
	s, _, c := newTestStore(t)

	require.NoError(t, s.Add(ctx, line("p1", "", "", 100), 2))
	require.NoError(t, s.Add(ctx, line("p2", "", "", 100), 5))
	require.NoError(t, s.Remove(ctx, Key{ProductID: "p2"}))

	require.Equal(t, 2, c.Count())
}

func TestClearSilentSuppressesBadge(t *testing.T) {
	ctx := context.Background()
	s, blob, c := newTestStore(t)

	require.NoError(t, s.Add(ctx, line("p1", "", "", 100), 3))
	require.NoError(t, s.Clear(ctx, true))

	lines, err := s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)
	// silent clear: badge untouched, a compensating Set follows elsewhere
	require.Equal(t, 3, c.Count())
	// cart key must be gone, not written as an empty list
	_, ok := blob.m["guest-1"]
	require.False(t, ok)
}

func TestClearLoudEmitsFullNegativeDelta(t *testing.T) {
	ctx := context.Background()
	s, _, c := newTestStore(t)

	require.NoError(t, s.Add(ctx, line("p1", "", "", 100), 2))
	require.NoError(t, s.Add(ctx, line("p2", "", "", 100), 1))
	require.NoError(t, s.Clear(ctx, false))

	require.Equal(t, 0, c.Count())
}

func TestWriteThroughSurvivesReload(t *testing.T) {
	ctx := context.Background()
	blob := newMemBlob()
	n := badge.NewNotifier()

	s := NewLocalStore(blob, "guest-1", n)
	require.NoError(t, s.Add(ctx, line("p1", "M", "", 100), 2))

	// a second store over the same blob sees the persisted lines
	s2 := NewLocalStore(blob, "guest-1", n)
	lines, err := s2.List(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
}
