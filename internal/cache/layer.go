// Package cache implements the CacheLayer: a read-through/write-through
// cache keyed by (namespace, key), with metadata sidecars, hit/miss
// statistics, an LRU scored set per namespace, and admin-triggered bulk
// invalidation. Built on the embedded backing store rather than a
// teacher pattern directly, since none of the teacher's own code caches
// anything; its cache-shaped primitives are instead borrowed from the
// pack's tomtom215-cartographus internal/cache package and re-expressed
// atop internal/store.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/store"
)

// Layer is the CacheLayer.
type Layer struct {
	store *store.Store
}

// NewLayer wraps a backing store.
func NewLayer(s *store.Store) *Layer {
	return &Layer{store: s}
}

func mainKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

func sidecarKey(namespace, key string) string {
	return fmt.Sprintf("%s_meta:%s", namespace, key)
}

// lruKey returns the LRU scored-set key for namespace.
func lruKey(namespace string) string {
	return store.NamespaceLRUKey(namespace)
}

// Get reads the envelope stored at (namespace, key) along with its
// sidecar. ok is false on a miss (absent, or the sidecar is absent).
func Get[T any](ctx context.Context, l *Layer, namespace, key string) (domain.Envelope[T], domain.Sidecar, bool, error) {
	mk, sk := mainKey(namespace, key), sidecarKey(namespace, key)

	raw, err := l.store.BatchGet(ctx, []string{mk, sk})
	if err != nil {
		return domain.Envelope[T]{}, domain.Sidecar{}, false, fmt.Errorf("%w: cache get %s/%s: %v", domain.ErrStoreUnavailable, namespace, key, err)
	}

	payload, ok := raw[mk]
	sidecarRaw, sidecarOK := raw[sk]
	if !ok || !sidecarOK {
		return domain.Envelope[T]{}, domain.Sidecar{}, false, nil
	}

	var envelope domain.Envelope[T]
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return domain.Envelope[T]{}, domain.Sidecar{}, false, fmt.Errorf("decoding cache payload %s/%s: %w", namespace, key, err)
	}
	var sidecar domain.Sidecar
	if err := json.Unmarshal(sidecarRaw, &sidecar); err != nil {
		return domain.Envelope[T]{}, domain.Sidecar{}, false, fmt.Errorf("decoding cache sidecar %s/%s: %w", namespace, key, err)
	}

	return envelope, sidecar, true, nil
}

// Put writes envelope and its sidecar at (namespace, key) with ttl, and
// appends key to the namespace's LRU scored set, trimming it to 1000
// most-recent entries and extending its TTL to 24*ttl.
func Put[T any](ctx context.Context, l *Layer, namespace, key string, envelope domain.Envelope[T], sidecar domain.Sidecar, ttl time.Duration) error {
	mk, sk := mainKey(namespace, key), sidecarKey(namespace, key)

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encoding cache payload %s/%s: %w", namespace, key, err)
	}
	sidecarPayload, err := json.Marshal(sidecar)
	if err != nil {
		return fmt.Errorf("encoding cache sidecar %s/%s: %w", namespace, key, err)
	}

	ops := []store.Op{
		{Key: mk, Value: payload, TTL: ttl},
		{Key: sk, Value: sidecarPayload, TTL: ttl},
	}
	if err := l.store.Batch(ctx, ops); err != nil {
		return fmt.Errorf("%w: cache put %s/%s: %v", domain.ErrStoreUnavailable, namespace, key, err)
	}

	lru := lruKey(namespace)
	if err := l.store.ZAdd(ctx, lru, mk, time.Now().UnixNano(), 24*ttl); err != nil {
		return fmt.Errorf("appending %s to LRU set %s: %w", mk, lru, err)
	}
	if _, err := l.store.TrimToMostRecent(ctx, lru, 1000); err != nil {
		return fmt.Errorf("trimming LRU set %s: %w", lru, err)
	}
	return nil
}

// Invalidate removes the main payload, sidecar, LRU entry, and
// hit/miss/total stats for (namespace, subject). The namespace's bloom
// filter is left unchanged: a single member cannot be removed from it.
func (l *Layer) Invalidate(ctx context.Context, namespace, subject string) error {
	mk, sk := mainKey(namespace, subject), sidecarKey(namespace, subject)

	if err := l.store.Delete(ctx, mk); err != nil {
		return fmt.Errorf("invalidating %s: %w", mk, err)
	}
	if err := l.store.Delete(ctx, sk); err != nil {
		return fmt.Errorf("invalidating %s: %w", sk, err)
	}
	if err := l.store.ZRem(ctx, lruKey(namespace), mk); err != nil {
		return fmt.Errorf("removing %s from LRU set: %w", mk, err)
	}

	for _, event := range []Event{EventHit, EventMiss, EventTotal} {
		statsKey := fmt.Sprintf("cache_stats:%s:%s:%s", namespace, subject, event)
		if err := l.store.Delete(ctx, statsKey); err != nil {
			return fmt.Errorf("invalidating %s: %w", statsKey, err)
		}
	}

	bloomKey := fmt.Sprintf("%s_bloom", namespace)
	if exists, err := l.store.Exists(ctx, bloomKey); err == nil && exists {
		// Bloom filters cannot remove a single member; invalidation here
		// only means the main entry is gone, so the bloom hint is left as
		// a (harmless) stale positive. The filter blob is stored without a
		// TTL, so the bit stays set until the blob itself is deleted.
		_ = exists
	}

	return nil
}

// InvalidatePrefix invalidates every key matching namespace:subjectPrefix*
// across the main and sidecar spaces, used for cascade invalidation such
// as "delete all (personalized, userId, *) keys".
func (l *Layer) InvalidatePrefix(ctx context.Context, namespace, subjectPrefix string) (int, error) {
	mainPrefix := mainKey(namespace, subjectPrefix)
	sidecarPrefix := sidecarKey(namespace, subjectPrefix)

	var removed []string
	if err := l.store.ScanPrefix(ctx, mainPrefix, func(key string, _ []byte) error {
		removed = append(removed, key)
		return nil
	}); err != nil {
		return 0, fmt.Errorf("scanning %s for invalidation: %w", mainPrefix, err)
	}

	n1, err := l.store.DeletePrefix(ctx, mainPrefix)
	if err != nil {
		return 0, err
	}
	if _, err := l.store.DeletePrefix(ctx, sidecarPrefix); err != nil {
		return 0, err
	}

	for _, key := range removed {
		if err := l.store.ZRem(ctx, lruKey(namespace), key); err != nil {
			return n1, fmt.Errorf("removing %s from LRU set during cascade invalidation: %w", key, err)
		}
	}

	return n1, nil
}

// ListAndPurge calls fn for every key under namespace, purging it
// (main + sidecar + LRU entry) when fn returns true. Used by admin
// actions.
func (l *Layer) ListAndPurge(ctx context.Context, namespace string, fn func(key string, value []byte) bool) (int, error) {
	prefix := namespace + ":"
	var toPurge []string

	if err := l.store.ScanPrefix(ctx, prefix, func(key string, value []byte) error {
		if fn(key, value) {
			toPurge = append(toPurge, key)
		}
		return nil
	}); err != nil {
		return 0, fmt.Errorf("scanning %s for purge: %w", namespace, err)
	}

	for _, key := range toPurge {
		subject := key[len(prefix):]
		if err := l.Invalidate(ctx, namespace, subject); err != nil {
			return len(toPurge), err
		}
	}
	return len(toPurge), nil
}
