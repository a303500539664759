package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/arclight-news/newsline-core/internal/domain"
)

// PutFallback stores envelope as the tombstone "last known good" result
// for subject under namespace, with no expiry: it is only overwritten by
// a later successful computation, never by TTL.
func PutFallback[T any](ctx context.Context, l *Layer, namespace, subject string, envelope domain.Envelope[T]) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encoding fallback %s/%s: %w", namespace, subject, err)
	}
	key := fmt.Sprintf("%s:%s:fallback", namespace, subject)
	if err := l.store.Put(ctx, key, payload, 0); err != nil {
		return fmt.Errorf("storing fallback %s/%s: %w", namespace, subject, err)
	}
	return nil
}

// GetFallback reads the tombstone result for subject under namespace,
// if one exists.
func GetFallback[T any](ctx context.Context, l *Layer, namespace, subject string) (domain.Envelope[T], bool, error) {
	key := fmt.Sprintf("%s:%s:fallback", namespace, subject)
	raw, ok, err := l.store.Get(ctx, key)
	if err != nil || !ok {
		return domain.Envelope[T]{}, false, err
	}
	var envelope domain.Envelope[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return domain.Envelope[T]{}, false, fmt.Errorf("decoding fallback %s/%s: %w", namespace, subject, err)
	}
	return envelope, true, nil
}

// TempScoredSet exposes the backing sorted-set primitives for ephemeral
// rank-fusion accumulation (the "temporary scored set" the similarity
// blender accumulates fused scores into before extracting a page).
// Entries expire after ttl so an abandoned fusion never lingers.
type TempScoredSet struct {
	layer *Layer
	key   string
}

// NewTempScoredSet returns a scored set scoped to targetID, named so
// concurrent requests for different targets never collide.
func (l *Layer) NewTempScoredSet(targetID string) *TempScoredSet {
	return &TempScoredSet{layer: l, key: fmt.Sprintf("temp:similarity:%s:%d", targetID, time.Now().UnixNano())}
}

// Add records member's fused score, overwriting any prior score for the
// same member.
func (t *TempScoredSet) Add(ctx context.Context, member string, score float64) error {
	return t.layer.store.ZAdd(ctx, t.key, member, int64(score*1e9), 5*time.Minute)
}

// TopN returns the top n members by score, descending.
func (t *TempScoredSet) TopN(ctx context.Context, n int) ([]string, error) {
	desc, err := t.layer.store.ZRangeDesc(ctx, t.key)
	if err != nil {
		return nil, err
	}
	if len(desc) > n {
		desc = desc[:n]
	}
	return desc, nil
}

// Discard removes every entry in the set once the caller is done with
// it, rather than waiting on its TTL.
func (t *TempScoredSet) Discard(ctx context.Context) error {
	return t.layer.store.DeleteSet(ctx, t.key)
}
