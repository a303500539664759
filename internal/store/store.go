// Package store provides the embedded backing store for the core: a
// single Badger instance standing in for the Redis-shaped substrate
// described in spec.md (counters, sorted sets, bloom filters, HLLs, and
// TTL'd blobs), grounded on the teacher pack's own Badger-backed session
// and write-ahead-log stores (tomtom215-cartographus internal/auth,
// internal/wal).
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Store wraps a Badger database and exposes the small set of primitives
// (get/put with TTL, scan-by-prefix, atomic counters) the rest of the
// core composes into sorted sets, bloom filters, and HLLs.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) a Badger database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger store at %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a Badger database with no disk backing, used by
// tests that need a real Store without a temp directory.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening in-memory badger store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get reads the raw bytes stored at key. ok is false if the key is
// absent or expired.
func (s *Store) Get(_ context.Context, key string) (value []byte, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get([]byte(key))
		if getErr == badger.ErrKeyNotFound {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		ok = true
		return item.Value(func(val []byte) error {
			value = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("store get %s: %w", key, err)
	}
	return value, ok, nil
}

// Put stores value at key. ttl of zero means no expiry.
func (s *Store) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("store put %s: %w", key, err)
	}
	return nil
}

// PutJSON marshals v and stores it at key with the given TTL.
func (s *Store) PutJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal value for %s: %w", key, err)
	}
	return s.Put(ctx, key, b, ttl)
}

// GetJSON reads and unmarshals the value at key into v. ok is false if
// absent.
func (s *Store) GetJSON(ctx context.Context, key string, v interface{}) (ok bool, err error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("unmarshal value for %s: %w", key, err)
	}
	return true, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("store delete %s: %w", key, err)
	}
	return nil
}

// Exists reports whether key is present and unexpired.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

// ScanPrefix calls fn for every key with the given prefix, in key order.
// fn returning an error stops the scan and is returned to the caller.
func (s *Store) ScanPrefix(_ context.Context, prefix string, fn func(key string, value []byte) error) error {
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			var value []byte
			if valErr := item.Value(func(val []byte) error {
				value = append([]byte(nil), val...)
				return nil
			}); valErr != nil {
				return valErr
			}
			if fnErr := fn(key, value); fnErr != nil {
				return fnErr
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store scan prefix %s: %w", prefix, err)
	}
	return nil
}

// CountPrefix returns the number of keys under prefix.
func (s *Store) CountPrefix(ctx context.Context, prefix string) (int, error) {
	n := 0
	err := s.ScanPrefix(ctx, prefix, func(string, []byte) error {
		n++
		return nil
	})
	return n, err
}

// DeletePrefix removes every key under prefix, returning the count
// deleted.
func (s *Store) DeletePrefix(_ context.Context, prefix string) (int, error) {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("store delete prefix %s (scan): %w", prefix, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if delErr := txn.Delete(k); delErr != nil {
				return delErr
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("store delete prefix %s (delete): %w", prefix, err)
	}
	return len(keys), nil
}

// Incr atomically increments the integer counter at key by delta,
// creating it at delta if absent, and returns the new value.
func (s *Store) Incr(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	var result int64
	err := s.db.Update(func(txn *badger.Txn) error {
		var current int64
		item, getErr := txn.Get([]byte(key))
		switch {
		case getErr == nil:
			if valErr := item.Value(func(val []byte) error {
				current = decodeInt64(val)
				return nil
			}); valErr != nil {
				return valErr
			}
		case getErr == badger.ErrKeyNotFound:
			current = 0
		default:
			return getErr
		}

		result = current + delta
		entry := badger.NewEntry([]byte(key), encodeInt64(result))
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return 0, fmt.Errorf("store incr %s: %w", key, err)
	}
	return result, nil
}

// ReadInt64 reads the counter at key, returning 0 if absent.
func (s *Store) ReadInt64(ctx context.Context, key string) (int64, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return 0, err
	}
	return decodeInt64(raw), nil
}

func encodeInt64(v int64) []byte {
	return []byte(fmt.Sprintf("%d", v))
}

func decodeInt64(b []byte) int64 {
	var v int64
	_, _ = fmt.Sscanf(string(b), "%d", &v)
	return v
}

// Expire sets (or refreshes) the TTL on an existing key without
// modifying its value.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) error {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return s.Put(ctx, key, raw, ttl)
}

// BatchGet fetches multiple keys in a single Badger transaction (one
// round-trip), letting a caller probe a cached payload and its sidecar
// together before deciding whether to fall through to a rebuild.
func (s *Store) BatchGet(_ context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, key := range keys {
			item, getErr := txn.Get([]byte(key))
			if getErr == badger.ErrKeyNotFound {
				continue
			}
			if getErr != nil {
				return getErr
			}
			if valErr := item.Value(func(val []byte) error {
				result[key] = append([]byte(nil), val...)
				return nil
			}); valErr != nil {
				return valErr
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store batch get: %w", err)
	}
	return result, nil
}

// Op is a single write in a Batch.
type Op struct {
	Key   string
	Value []byte
	TTL   time.Duration
}

// Batch writes every op in a single transaction, letting a caller apply
// a best-effort pipelined write-back without a round trip per key.
func (s *Store) Batch(_ context.Context, ops []Op) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, op := range ops {
			entry := badger.NewEntry([]byte(op.Key), op.Value)
			if op.TTL > 0 {
				entry = entry.WithTTL(op.TTL)
			}
			if setErr := txn.SetEntry(entry); setErr != nil {
				return setErr
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store batch write: %w", err)
	}
	return nil
}
