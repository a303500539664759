// Package personalization implements PersonalizationEngine: per-user
// feeds and per-user filtered search built by fanning a vector query
// out across each of a user's preferences and fusing the results.
package personalization

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/store"
)

// PreferencesStore is the preference-persistence slice of the engine's
// collaborators, kept separate from the cache/index/readhistory
// collaborators since preferences are a small, directly-addressed
// record rather than a cached computation.
type PreferencesStore struct {
	store *store.Store
}

// NewPreferencesStore wraps a backing store.
func NewPreferencesStore(s *store.Store) *PreferencesStore {
	return &PreferencesStore{store: s}
}

// Get returns userID's stored preferences, or ok=false if none are set.
func (p *PreferencesStore) Get(ctx context.Context, userID string) (domain.UserPreferences, bool, error) {
	var prefs domain.UserPreferences
	ok, err := p.store.GetJSON(ctx, store.PreferencesKey(userID), &prefs)
	if err != nil {
		return domain.UserPreferences{}, false, fmt.Errorf("%w: loading preferences for %s: %v", domain.ErrStoreUnavailable, userID, err)
	}
	return prefs, ok, nil
}

// Update normalizes and stores raw as userID's preference list.
func (p *PreferencesStore) Update(ctx context.Context, userID string, raw []string) (domain.UserPreferences, error) {
	normalized := domain.NormalizePreferences(raw)
	if len(normalized) == 0 {
		return domain.UserPreferences{}, fmt.Errorf("%w: preferences must contain at least one topic", domain.ErrBadInput)
	}

	existing, ok, err := p.Get(ctx, userID)
	now := time.Now()
	created := now
	if err == nil && ok {
		created = existing.CreatedAt
	}

	prefs := domain.UserPreferences{
		UserID:      userID,
		Preferences: normalized,
		CreatedAt:   created,
		UpdatedAt:   now,
	}
	if err := p.store.PutJSON(ctx, store.PreferencesKey(userID), prefs, 0); err != nil {
		return domain.UserPreferences{}, fmt.Errorf("%w: storing preferences for %s: %v", domain.ErrStoreUnavailable, userID, err)
	}
	return prefs, nil
}

// VersionHash returns the md5 hash of the JSON-encoded preference list,
// the cheap fingerprint a cached personalized feed is validated against
// so a preference update is visible to the next read without an
// explicit cache-busting round trip to every cached page.
func VersionHash(prefs []string) (string, error) {
	encoded, err := json.Marshal(prefs)
	if err != nil {
		return "", fmt.Errorf("encoding preferences for version hash: %w", err)
	}
	sum := md5.Sum(encoded)
	return hex.EncodeToString(sum[:]), nil
}
