package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
)

// bloomFilter is a fixed-size Bloom filter serialized to a single store
// blob, adapted from the teacher pack's in-process probabilistic
// deduplication cache (tomtom215-cartographus internal/cache/bloom.go)
// to a persisted form: one Get/Put round trip per check-and-set instead
// of an in-memory struct, since the miss-tracking filter needs to
// survive process restarts.
type bloomFilter struct {
	bits    []uint64
	size    uint64
	hashFns int
}

func newBloomFilter(expectedItems int, falsePositiveRate float64) *bloomFilter {
	if expectedItems <= 0 {
		expectedItems = 10000
	}
	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		falsePositiveRate = 0.01
	}

	ln2 := math.Ln2
	lnP := math.Log(falsePositiveRate)
	m := int(-float64(expectedItems) * lnP / (ln2 * ln2))
	if m < 64 {
		m = 64
	}
	k := int(float64(m) / float64(expectedItems) * ln2)
	if k < 1 {
		k = 1
	}
	if k > 10 {
		k = 10
	}
	words := (m + 63) / 64

	return &bloomFilter{
		bits:    make([]uint64, words),
		size:    uint64(words * 64),
		hashFns: k,
	}
}

func (bf *bloomFilter) hashes(key string) []uint64 {
	h1 := fnv.New64a()
	_, _ = h1.Write([]byte(key))
	base := h1.Sum64()

	h2 := fnv.New64()
	_, _ = h2.Write([]byte(key))
	step := h2.Sum64()
	if step == 0 {
		step = 1
	}

	out := make([]uint64, bf.hashFns)
	for i := 0; i < bf.hashFns; i++ {
		out[i] = base + uint64(i)*step
	}
	return out
}

func (bf *bloomFilter) add(key string) {
	for _, h := range bf.hashes(key) {
		idx := h % bf.size
		bf.bits[idx/64] |= 1 << (idx % 64)
	}
}

func (bf *bloomFilter) test(key string) bool {
	for _, h := range bf.hashes(key) {
		idx := h % bf.size
		if bf.bits[idx/64]&(1<<(idx%64)) == 0 {
			return false
		}
	}
	return true
}

func (bf *bloomFilter) marshal() []byte {
	out := make([]byte, 16+8*len(bf.bits))
	binary.LittleEndian.PutUint64(out[0:8], bf.size)
	binary.LittleEndian.PutUint64(out[8:16], uint64(bf.hashFns))
	for i, word := range bf.bits {
		binary.LittleEndian.PutUint64(out[16+8*i:24+8*i], word)
	}
	return out
}

func unmarshalBloomFilter(b []byte) (*bloomFilter, error) {
	if len(b) < 16 || (len(b)-16)%8 != 0 {
		return nil, fmt.Errorf("malformed bloom filter blob of length %d", len(b))
	}
	size := binary.LittleEndian.Uint64(b[0:8])
	hashFns := int(binary.LittleEndian.Uint64(b[8:16]))
	words := make([]uint64, (len(b)-16)/8)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(b[16+8*i : 24+8*i])
	}
	return &bloomFilter{bits: words, size: size, hashFns: hashFns}, nil
}

// BloomAddAndTest loads the bloom filter blob at key (creating one sized
// for expectedItems if absent), adds member, and returns whether member
// was possibly already present before the add. This backs the
// miss-tracking step used to decide whether a cache miss is novel or a
// repeat before falling through to a rebuild.
func (s *Store) BloomAddAndTest(ctx context.Context, key, member string, expectedItems int) (wasPresent bool, err error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}

	var bf *bloomFilter
	if ok {
		bf, err = unmarshalBloomFilter(raw)
		if err != nil {
			return false, fmt.Errorf("bloom %s: %w", key, err)
		}
	} else {
		bf = newBloomFilter(expectedItems, 0.01)
	}

	wasPresent = bf.test(member)
	bf.add(member)

	if err := s.Put(ctx, key, bf.marshal(), 0); err != nil {
		return false, fmt.Errorf("bloom %s: persisting after add: %w", key, err)
	}
	return wasPresent, nil
}
