package domain

import "time"

// CacheEntry is the metadata-index record for one cached payload. The payload
// itself lives in a sibling file addressed by the hashed key.
type CacheEntry struct {
	Namespace     string    `json:"namespace"`
	Key           string    `json:"key"`
	CreatedAt     time.Time `json:"created"`
	ExpiresAt     time.Time `json:"expires"`
	Serialization string    `json:"serialization"`
	Size          int64     `json:"size"`
}

// Expired reports whether the entry's TTL has elapsed at the given instant.
func (e CacheEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// CacheStats summarizes on-disk cache usage.
type CacheStats struct {
	TotalEntries int
	TotalBytes   int64
	MaxBytes     int64
	Namespaces   map[string]NamespaceStats
}

// NamespaceStats breaks usage down per namespace.
type NamespaceStats struct {
	Count int
	Bytes int64
}
