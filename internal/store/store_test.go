package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPutDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "k", []byte("v"), 0))

	val, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", string(val))

	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIncr(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	v, err := s.Incr(ctx, "counter", 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)

	v, err = s.Incr(ctx, "counter", 5, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 6, v)
}

func TestBatchGetAndBatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ops := []Op{
		{Key: "a", Value: []byte("1")},
		{Key: "b", Value: []byte("2")},
	}
	require.NoError(t, s.Batch(ctx, ops))

	got, err := s.BatchGet(ctx, []string{"a", "b", "missing"})
	require.NoError(t, err)
	assert.Equal(t, "1", string(got["a"]))
	assert.Equal(t, "2", string(got["b"]))
	_, ok := got["missing"]
	assert.False(t, ok, "expected absent key to be omitted from batchget result")
}

func TestScanAndDeletePrefix(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Put(ctx, "ns:a", []byte("1"), 0))
	require.NoError(t, s.Put(ctx, "ns:b", []byte("2"), 0))
	require.NoError(t, s.Put(ctx, "other:c", []byte("3"), 0))

	count, err := s.CountPrefix(ctx, "ns:")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	removed, err := s.DeletePrefix(ctx, "ns:")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, ok, err := s.Get(ctx, "other:c")
	require.NoError(t, err)
	assert.True(t, ok, "expected unrelated key to survive prefix delete")
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Put(ctx, "short", []byte("v"), 5*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, ok, err := s.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok, "expected key to have expired")
}
