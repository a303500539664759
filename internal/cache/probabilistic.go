package cache

import (
	"context"
	"fmt"
	"time"
)

// MarkSeenRecently sets the "seen recently" bloom-filter bit for
// subject under namespace and reports whether it was possibly already
// set. Used as a best-effort miss-tracking hint; callers should ignore
// errors here rather than fail the request.
func (l *Layer) MarkSeenRecently(ctx context.Context, namespace, subject string) (wasSeen bool, err error) {
	key := fmt.Sprintf("%s_bloom", namespace)
	wasSeen, err = l.store.BloomAddAndTest(ctx, key, subject, 10000)
	if err != nil {
		return false, fmt.Errorf("marking %s/%s seen recently: %w", namespace, subject, err)
	}
	return wasSeen, nil
}

// RecordDailyUnique adds subject to the day's HyperLogLog sketch for
// namespace and returns the updated unique-count estimate.
func (l *Layer) RecordDailyUnique(ctx context.Context, namespace, subject string, day time.Time) (int64, error) {
	key := fmt.Sprintf("%s_unique_articles:%s", namespace, day.Format("2006-01-02"))
	estimate, err := l.store.HLLAdd(ctx, key, subject)
	if err != nil {
		return 0, fmt.Errorf("recording daily unique %s/%s: %w", namespace, subject, err)
	}
	return estimate, nil
}
