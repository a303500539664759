package cache

import (
	"context"
	"fmt"
)

// PutVersion stores version as the current fingerprint for subject
// under namespace, used to guard a cached computation against a change
// in its inputs (preference updates invalidating a personalized feed)
// without a round trip through every cached page.
func (l *Layer) PutVersion(ctx context.Context, namespace, subject, version string) error {
	key := fmt.Sprintf("%s:%s", namespace, subject)
	if err := l.store.Put(ctx, key, []byte(version), TTLFor(namespace)); err != nil {
		return fmt.Errorf("storing version %s/%s: %w", namespace, subject, err)
	}
	return nil
}

// GetVersion returns the current fingerprint stored for subject under
// namespace, or ok=false if none is set.
func (l *Layer) GetVersion(ctx context.Context, namespace, subject string) (string, bool, error) {
	key := fmt.Sprintf("%s:%s", namespace, subject)
	raw, ok, err := l.store.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	return string(raw), true, nil
}
