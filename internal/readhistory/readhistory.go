// Package readhistory implements ReadHistory: per-user "already viewed"
// tracking used to filter articles a user has already seen out of
// personalized feeds and personalized search results.
package readhistory

import (
	"context"
	"fmt"
	"time"

	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/store"
)

// Tracker is ReadHistory.
type Tracker struct {
	store *store.Store
}

// NewTracker wraps a backing store.
func NewTracker(s *store.Store) *Tracker {
	return &Tracker{store: s}
}

// MarkRead records that userID viewed articleID, with a TTL on both the
// per-article marker and the user's read set.
func (t *Tracker) MarkRead(ctx context.Context, userID, articleID string) error {
	now := time.Now()
	markerKey := store.ReadMarkerKey(userID, articleID)
	if err := t.store.Put(ctx, markerKey, []byte(now.Format(time.RFC3339Nano)), domain.ReadTTL); err != nil {
		return fmt.Errorf("marking %s/%s read: %w", userID, articleID, err)
	}

	setKey := store.ReadSetKey(userID)
	if err := t.store.ZAdd(ctx, setKey, articleID, now.UnixNano(), domain.ReadTTL); err != nil {
		return fmt.Errorf("adding %s to read set for %s: %w", articleID, userID, err)
	}
	if err := t.store.ExpireSet(ctx, setKey, domain.ReadTTL); err != nil {
		return fmt.Errorf("extending read set TTL for %s: %w", userID, err)
	}
	return nil
}

// ListRead returns every article ID in userID's read set.
func (t *Tracker) ListRead(ctx context.Context, userID string) ([]string, error) {
	ids, err := t.store.ZRangeAsc(ctx, store.ReadSetKey(userID))
	if err != nil {
		return nil, fmt.Errorf("listing read set for %s: %w", userID, err)
	}
	return ids, nil
}

// Filter removes every candidate already in userID's read set,
// preserving the original order, and returns the survivors alongside
// the count removed.
func (t *Tracker) Filter(ctx context.Context, userID string, candidates []string) (filtered []string, removed int, err error) {
	read, err := t.ListRead(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	readSet := make(map[string]struct{}, len(read))
	for _, id := range read {
		readSet[id] = struct{}{}
	}

	filtered = make([]string, 0, len(candidates))
	for _, id := range candidates {
		if _, seen := readSet[id]; seen {
			removed++
			continue
		}
		filtered = append(filtered, id)
	}
	return filtered, removed, nil
}

// FilterArticles is Filter specialized to domain.Article slices, for
// callers that hold hydrated articles rather than bare IDs.
func (t *Tracker) FilterArticles(ctx context.Context, userID string, candidates []domain.Article) (filtered []domain.Article, removed int, err error) {
	read, err := t.ListRead(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	readSet := make(map[string]struct{}, len(read))
	for _, id := range read {
		readSet[id] = struct{}{}
	}

	filtered = make([]domain.Article, 0, len(candidates))
	for _, a := range candidates {
		if _, seen := readSet[a.ID]; seen {
			removed++
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered, removed, nil
}
