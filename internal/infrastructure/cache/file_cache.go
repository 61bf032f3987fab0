// Package cache implements the namespaced file-backed response cache.
//
// Payloads are JSON blobs addressed by a hash of namespace and key; a single
// metadata index file tracks creation time, expiry and size so eviction can
// run without re-reading payloads. Keys are normalized (lower-cased, trimmed)
// before hashing, so lookups ignore casing and surrounding whitespace.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

const metadataFile = "cache_metadata.json"

// FileCache stores JSON payloads under a single directory with a shared
// metadata index. All operations are safe for concurrent use.
type FileCache struct {
	dir          string
	maxBytes     int64
	recentWindow int

	mu    sync.Mutex
	index indexFile
}

type indexFile struct {
	Entries map[string]domain.CacheEntry `json:"entries"`
	// Recent keeps the raw keys of the newest writes per namespace,
	// newest first, for similarity lookup.
	Recent map[string][]string `json:"recent"`
}

// New opens (or creates) a cache rooted at dir with the given size budget.
func New(dir string, maxBytes int64, recentWindow int) (*FileCache, error) {
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	c := &FileCache{
		dir:          dir,
		maxBytes:     maxBytes,
		recentWindow: recentWindow,
		index:        indexFile{Entries: map[string]domain.CacheEntry{}, Recent: map[string][]string{}},
	}
	c.loadIndex()
	return c, nil
}

// Get retrieves a payload by exact key. Expired entries are removed on read.
func (c *FileCache) Get(namespace, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(namespace, normalizeKey(key), out)
}

func (c *FileCache) getLocked(namespace, key string, out any) (bool, error) {
	hash := hashKey(namespace, key)
	entry, ok := c.index.Entries[hash]
	if !ok {
		return false, nil
	}
	if entry.Expired(time.Now()) {
		c.removeLocked(hash)
		c.saveIndex()
		return false, nil
	}
	data, err := os.ReadFile(c.pathFor(hash))
	if err != nil {
		if os.IsNotExist(err) {
			c.removeLocked(hash)
			c.saveIndex()
			return false, nil
		}
		return false, err
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return false, fmt.Errorf("decode cached payload: %w", err)
		}
	}
	return true, nil
}

// Set stores a payload and records the key in the namespace's recent window.
func (c *FileCache) Set(namespace, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache payload: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key = normalizeKey(key)
	hash := hashKey(namespace, key)
	if err := os.WriteFile(c.pathFor(hash), data, 0o644); err != nil {
		return err
	}
	now := time.Now()
	c.index.Entries[hash] = domain.CacheEntry{
		Namespace:     namespace,
		Key:           key,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
		Serialization: "json",
		Size:          int64(len(data)),
	}
	c.recordRecent(namespace, key)
	c.evictLocked()
	c.saveIndex()
	return nil
}

// GetSimilar looks for a cached payload whose key is a near-duplicate of the
// given one. It scans the namespace's recent window newest first and reuses
// the first candidate whose word-overlap similarity exceeds the threshold.
func (c *FileCache) GetSimilar(namespace, key string, threshold float64, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key = normalizeKey(key)
	for _, candidate := range c.index.Recent[namespace] {
		if candidate == key {
			continue
		}
		if Similarity(key, candidate) <= threshold {
			continue
		}
		ok, err := c.getLocked(namespace, candidate, out)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate removes a single entry.
func (c *FileCache) Invalidate(namespace, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(hashKey(namespace, normalizeKey(key)))
	c.saveIndex()
	return nil
}

// Clear removes every entry in a namespace; an empty namespace clears all.
func (c *FileCache) Clear(namespace string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for hash, entry := range c.index.Entries {
		if namespace == "" || entry.Namespace == namespace {
			c.removeLocked(hash)
		}
	}
	if namespace == "" {
		c.index.Recent = map[string][]string{}
	} else {
		delete(c.index.Recent, namespace)
	}
	c.saveIndex()
	return nil
}

// Stats summarizes current usage from the metadata index.
func (c *FileCache) Stats() (domain.CacheStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := domain.CacheStats{
		MaxBytes:   c.maxBytes,
		Namespaces: map[string]domain.NamespaceStats{},
	}
	for _, entry := range c.index.Entries {
		stats.TotalEntries++
		stats.TotalBytes += entry.Size
		ns := stats.Namespaces[entry.Namespace]
		ns.Count++
		ns.Bytes += entry.Size
		stats.Namespaces[entry.Namespace] = ns
	}
	return stats, nil
}

// Dir exposes the cache directory path.
func (c *FileCache) Dir() string {
	return c.dir
}

func (c *FileCache) recordRecent(namespace, key string) {
	recent := c.index.Recent[namespace]
	filtered := recent[:0]
	for _, k := range recent {
		if k != key {
			filtered = append(filtered, k)
		}
	}
	recent = append([]string{key}, filtered...)
	if c.recentWindow > 0 && len(recent) > c.recentWindow {
		recent = recent[:c.recentWindow]
	}
	c.index.Recent[namespace] = recent
}

// evictLocked trims the cache to the eviction target when the size budget is
// exceeded, removing oldest-created entries first.
func (c *FileCache) evictLocked() {
	if c.maxBytes <= 0 {
		return
	}
	var total int64
	for _, entry := range c.index.Entries {
		total += entry.Size
	}
	if total <= c.maxBytes {
		return
	}

	type aged struct {
		hash  string
		entry domain.CacheEntry
	}
	var all []aged
	for hash, entry := range c.index.Entries {
		all = append(all, aged{hash: hash, entry: entry})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].entry.CreatedAt.Before(all[j].entry.CreatedAt)
	})

	target := int64(float64(c.maxBytes) * domain.EvictionTargetRatio)
	for _, a := range all {
		if total <= target {
			break
		}
		total -= a.entry.Size
		c.removeLocked(a.hash)
	}
}

func (c *FileCache) removeLocked(hash string) {
	delete(c.index.Entries, hash)
	_ = os.Remove(c.pathFor(hash))
}

func (c *FileCache) loadIndex() {
	data, err := os.ReadFile(filepath.Join(c.dir, metadataFile))
	if err != nil {
		return
	}
	var idx indexFile
	if err := json.Unmarshal(data, &idx); err != nil {
		return
	}
	if idx.Entries == nil {
		idx.Entries = map[string]domain.CacheEntry{}
	}
	if idx.Recent == nil {
		idx.Recent = map[string][]string{}
	}
	c.index = idx
}

func (c *FileCache) saveIndex() {
	data, err := json.Marshal(c.index)
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(c.dir, metadataFile), data, 0o644)
}

func (c *FileCache) pathFor(hash string) string {
	return filepath.Join(c.dir, hash+".json")
}

// normalizeKey lower-cases and trims keys so lookups are insensitive to
// casing and surrounding whitespace.
func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func hashKey(namespace, key string) string {
	sum := md5.Sum([]byte(namespace + ":" + key))
	return hex.EncodeToString(sum[:])
}

var _ ports.ResponseCache = (*FileCache)(nil)
