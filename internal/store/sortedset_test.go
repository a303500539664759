package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestZAddAndRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.ZAdd(ctx, "set1", "a", 10, 0))
	require.NoError(t, s.ZAdd(ctx, "set1", "b", 30, 0))
	require.NoError(t, s.ZAdd(ctx, "set1", "c", 20, 0))

	asc, err := s.ZRangeAsc(ctx, "set1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, asc)

	desc, err := s.ZRangeDesc(ctx, "set1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, desc)
}

func TestZAddUpdatesScore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.ZAdd(ctx, "set1", "a", 10, 0))
	require.NoError(t, s.ZAdd(ctx, "set1", "a", 99, 0))

	card, err := s.ZCard(ctx, "set1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, card, "expected a single member after re-adding")
}

func TestZRemAndTrim(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i, member := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.ZAdd(ctx, "set1", member, int64(i), 0))
	}

	require.NoError(t, s.ZRem(ctx, "set1", "c"))
	card, err := s.ZCard(ctx, "set1")
	require.NoError(t, err)
	assert.EqualValues(t, 4, card)

	removed, err := s.TrimToMostRecent(ctx, "set1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	card, err = s.ZCard(ctx, "set1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, card)
}

func TestDeleteSet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.ZAdd(ctx, "set1", "a", 1, 0))
	require.NoError(t, s.ZAdd(ctx, "set1", "b", 2, 0))

	require.NoError(t, s.DeleteSet(ctx, "set1"))

	card, err := s.ZCard(ctx, "set1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, card)
}

func TestExpireSet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.ZAdd(ctx, "set1", "a", 1, 2*time.Second))
	require.NoError(t, s.ExpireSet(ctx, "set1", time.Hour))

	time.Sleep(2500 * time.Millisecond)
	card, err := s.ZCard(ctx, "set1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, card, "expected member to survive past its original short TTL")
}
