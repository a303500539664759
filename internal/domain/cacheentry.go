package domain

import "time"

// Envelope is the cache payload carried for every cached computation:
// the results, when they were computed, which method produced them, and
// a version tag (preference-version hash for personalization, otherwise
// empty).
type Envelope[T any] struct {
	Results   T         `json:"results"`
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	Version   string    `json:"version,omitempty"`
}

// Sidecar carries the metadata that travels alongside an Envelope but is
// fetched/updated independently.
type Sidecar struct {
	TotalCount  int       `json:"totalCount"`
	Timestamp   time.Time `json:"timestamp"`
	Method      string    `json:"method"`
	LastUpdated time.Time `json:"lastUpdated"`
}
