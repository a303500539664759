package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/store"
)

func newTestLayer(t *testing.T) *Layer {
	t.Helper()
	s, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewLayer(s)
}

func TestPutThenGet(t *testing.T) {
	ctx := context.Background()
	l := newTestLayer(t)

	envelope := domain.Envelope[[]string]{Results: []string{"a", "b"}, Timestamp: time.Now(), Method: "test"}
	sidecar := domain.Sidecar{TotalCount: 2, Timestamp: envelope.Timestamp, Method: "test"}

	require.NoError(t, Put(ctx, l, "ns", "key1", envelope, sidecar, time.Hour))

	got, gotSidecar, ok, err := Get[[]string](ctx, l, "ns", "key1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got.Results)
	assert.EqualValues(t, 2, gotSidecar.TotalCount)
}

func TestGetMissWhenAbsent(t *testing.T) {
	ctx := context.Background()
	l := newTestLayer(t)

	_, _, ok, err := Get[[]string](ctx, l, "ns", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidateRemovesEntry(t *testing.T) {
	ctx := context.Background()
	l := newTestLayer(t)

	envelope := domain.Envelope[[]string]{Results: []string{"a"}, Timestamp: time.Now()}
	sidecar := domain.Sidecar{TotalCount: 1, Timestamp: envelope.Timestamp}
	require.NoError(t, Put(ctx, l, "ns", "subject1", envelope, sidecar, time.Hour))

	require.NoError(t, l.Invalidate(ctx, "ns", "subject1"))

	_, _, ok, err := Get[[]string](ctx, l, "ns", "subject1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidatePrefixCascades(t *testing.T) {
	ctx := context.Background()
	l := newTestLayer(t)

	envelope := domain.Envelope[[]string]{Results: []string{"a"}, Timestamp: time.Now()}
	sidecar := domain.Sidecar{TotalCount: 1, Timestamp: envelope.Timestamp}
	require.NoError(t, Put(ctx, l, "ns", "user1:10:0", envelope, sidecar, time.Hour))
	require.NoError(t, Put(ctx, l, "ns", "user1:10:10", envelope, sidecar, time.Hour))
	require.NoError(t, Put(ctx, l, "ns", "user2:10:0", envelope, sidecar, time.Hour))

	removed, err := l.InvalidatePrefix(ctx, "ns", "user1:")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, _, ok, err := Get[[]string](ctx, l, "ns", "user2:10:0")
	require.NoError(t, err)
	assert.True(t, ok, "expected unrelated user's cache entry to survive")
}

func TestStatsBumpAndHitRate(t *testing.T) {
	ctx := context.Background()
	l := newTestLayer(t)

	require.NoError(t, l.StatsBump(ctx, "ns", "subject1", EventTotal))
	require.NoError(t, l.StatsBump(ctx, "ns", "subject1", EventHit))
	require.NoError(t, l.StatsBump(ctx, "ns", "subject1", EventTotal))
	require.NoError(t, l.StatsBump(ctx, "ns", "subject1", EventMiss))

	rate, err := l.HitRate(ctx, "ns", "subject1")
	require.NoError(t, err)
	assert.Equal(t, 0.5, rate)
}

func TestMarkSeenRecently(t *testing.T) {
	ctx := context.Background()
	l := newTestLayer(t)

	wasSeen, err := l.MarkSeenRecently(ctx, "ns", "article1")
	require.NoError(t, err)
	assert.False(t, wasSeen, "expected first mark to report not previously seen")

	wasSeen, err = l.MarkSeenRecently(ctx, "ns", "article1")
	require.NoError(t, err)
	assert.True(t, wasSeen, "expected second mark to report previously seen")
}

func TestTempScoredSetTopNAndDiscard(t *testing.T) {
	ctx := context.Background()
	l := newTestLayer(t)

	temp := l.NewTempScoredSet("target1")
	require.NoError(t, temp.Add(ctx, "a", 0.2))
	require.NoError(t, temp.Add(ctx, "b", 0.9))
	require.NoError(t, temp.Add(ctx, "c", 0.5))

	top, err := temp.TopN(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, top)

	require.NoError(t, temp.Discard(ctx))

	remaining, err := temp.TopN(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestFallbackTombstoneRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := newTestLayer(t)

	envelope := domain.Envelope[[]string]{Results: []string{"x", "y"}, Timestamp: time.Now()}
	require.NoError(t, PutFallback(ctx, l, "ns", "subject1", envelope))

	got, ok, err := GetFallback[[]string](ctx, l, "ns", "subject1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, got.Results)
}
