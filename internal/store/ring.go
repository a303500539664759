package store

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// RingPush appends entry (JSON-encoded) to the bounded list at key,
// trimming the oldest entries once the list exceeds maxLen — the
// LPUSH+LTRIM pattern used for an article's engagement buffer. The
// whole list is re-marshaled on every push; acceptable since maxLen
// caps it at a small, fixed size.
func (s *Store) RingPush(ctx context.Context, key string, entry interface{}, maxLen int, ttl time.Duration) error {
	var raw []json.RawMessage
	if existing, ok, err := s.Get(ctx, key); err != nil {
		return err
	} else if ok {
		if err := json.Unmarshal(existing, &raw); err != nil {
			return fmt.Errorf("ring %s: decoding existing entries: %w", key, err)
		}
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("ring %s: encoding new entry: %w", key, err)
	}
	raw = append(raw, encoded)

	if len(raw) > maxLen {
		raw = raw[len(raw)-maxLen:]
	}

	out, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("ring %s: re-encoding list: %w", key, err)
	}
	return s.Put(ctx, key, out, ttl)
}

// RingRead decodes the bounded list at key into dst, a pointer to a
// slice of the element type. Absent keys leave dst untouched.
func (s *Store) RingRead(ctx context.Context, key string, dst interface{}) error {
	existing, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return err
	}
	if err := json.Unmarshal(existing, dst); err != nil {
		return fmt.Errorf("ring %s: decoding: %w", key, err)
	}
	return nil
}
