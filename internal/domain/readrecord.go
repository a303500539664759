package domain

import "time"

// ReadTTL is the lifetime of a single read-history entry.
const ReadTTL = 2 * time.Hour

// ReadRecord is a single "user viewed article" event, kept per (user,
// article) with a TTL and also indexed in a scored set for bulk
// enumeration.
type ReadRecord struct {
	UserID    string
	ArticleID string
	ViewedAt  time.Time
}
