package cache

import (
	"context"
	"fmt"
)

// Event is the kind of cache access statsBump records.
type Event string

const (
	EventHit   Event = "hit"
	EventMiss  Event = "miss"
	EventTotal Event = "total"
)

// StatsBump increments the hit/miss/total counter for (namespace,
// subject) and, for a non-empty subject, the namespace-wide counter that
// Stats and HitRate read under subject "". Callers typically bump
// EventTotal once per request and exactly one of EventHit/EventMiss.
func (l *Layer) StatsBump(ctx context.Context, namespace, subject string, event Event) error {
	key := fmt.Sprintf("cache_stats:%s:%s:%s", namespace, subject, event)
	if _, err := l.store.Incr(ctx, key, 1, TTLFor(namespace)); err != nil {
		return fmt.Errorf("bumping %s: %w", key, err)
	}
	if subject == "" {
		return nil
	}
	nsKey := fmt.Sprintf("cache_stats:%s::%s", namespace, event)
	if _, err := l.store.Incr(ctx, nsKey, 1, TTLFor(namespace)); err != nil {
		return fmt.Errorf("bumping %s: %w", nsKey, err)
	}
	return nil
}

// HitRate returns the fraction of requests for (namespace, subject)
// that were hits, or 0 if there have been no requests.
func (l *Layer) HitRate(ctx context.Context, namespace, subject string) (float64, error) {
	hits, _, total, err := l.Stats(ctx, namespace, subject)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return float64(hits) / float64(total), nil
}

// Stats returns the raw hit/miss/total counters for (namespace,
// subject), the admin surface's view into StatsBump's accumulation.
func (l *Layer) Stats(ctx context.Context, namespace, subject string) (hits, misses, total int64, err error) {
	hits, err = l.store.ReadInt64(ctx, fmt.Sprintf("cache_stats:%s:%s:%s", namespace, subject, EventHit))
	if err != nil {
		return 0, 0, 0, err
	}
	misses, err = l.store.ReadInt64(ctx, fmt.Sprintf("cache_stats:%s:%s:%s", namespace, subject, EventMiss))
	if err != nil {
		return 0, 0, 0, err
	}
	total, err = l.store.ReadInt64(ctx, fmt.Sprintf("cache_stats:%s:%s:%s", namespace, subject, EventTotal))
	if err != nil {
		return 0, 0, 0, err
	}
	return hits, misses, total, nil
}
