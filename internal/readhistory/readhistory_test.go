package readhistory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclight-news/newsline-core/internal/store"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	s, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewTracker(s)
}

func TestMarkReadAndListRead(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	require.NoError(t, tr.MarkRead(ctx, "user1", "article1"))
	require.NoError(t, tr.MarkRead(ctx, "user1", "article2"))

	read, err := tr.ListRead(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, read, 2)
}

func TestMarkReadTwiceLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	require.NoError(t, tr.MarkRead(ctx, "user1", "article1"))
	require.NoError(t, tr.MarkRead(ctx, "user1", "article1"))

	read, err := tr.ListRead(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, read, 1)
}

func TestFilter(t *testing.T) {
	ctx := context.Background()

	t.Run("removes read entries and preserves order", func(t *testing.T) {
		tr := newTestTracker(t)
		require.NoError(t, tr.MarkRead(ctx, "user1", "b"))

		filtered, removed, err := tr.Filter(ctx, "user1", []string{"a", "b", "c"})
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		assert.Equal(t, []string{"a", "c"}, filtered)
	})

	t.Run("keeps everything for a user with no read history", func(t *testing.T) {
		tr := newTestTracker(t)

		filtered, removed, err := tr.Filter(ctx, "newuser", []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, 0, removed)
		assert.Equal(t, []string{"a", "b"}, filtered)
	})
}
