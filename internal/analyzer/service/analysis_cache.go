package service

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/kvstore"
	"golang-market-analyzer/pkg/logger"
)

// cacheEntry is the stored payload for one fingerprint. The timestamp
// drives logical freshness independently of file modification time.
type cacheEntry struct {
	Timestamp string `json:"timestamp"`
	Analysis  string `json:"analysis"`
}

// AnalysisCache memoizes narratives by dataset fingerprint so identical
// market snapshots never re-run the rule engine. Cache failures are treated
// as misses and never fail an analysis run.
type AnalysisCache struct {
	store  kvstore.Store
	log    *logger.Logger
	maxAge time.Duration
}

// NewAnalysisCache creates a cache over the given store with the given
// logical freshness window.
func NewAnalysisCache(store kvstore.Store, log *logger.Logger, maxAge time.Duration) *AnalysisCache {
	return &AnalysisCache{
		store:  store,
		log:    log,
		maxAge: maxAge,
	}
}

// Fingerprint derives a stable key for a dataset. The dataset is first
// round-tripped through generic JSON so that map-key ordering and struct
// field order cannot influence the digest.
func (c *AnalysisCache) Fingerprint(dataset entity.AnalysisDataset) (string, error) {
	raw, err := json.Marshal(dataset)
	if err != nil {
		return "", fmt.Errorf("failed to marshal dataset: %w", err)
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("failed to canonicalize dataset: %w", err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("failed to marshal canonical dataset: %w", err)
	}

	sum := md5.Sum(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the cached narrative for a fingerprint, or ok=false on a
// miss. Unreadable, corrupt or stale entries all count as misses.
func (c *AnalysisCache) Get(fingerprint string) (string, bool) {
	data, err := c.store.Read(fingerprint)
	if err != nil {
		return "", false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.log.Warn("Discarding corrupt cache entry",
			logger.StringField("fingerprint", fingerprint), logger.ErrorField(err))
		return "", false
	}

	storedAt, err := time.Parse(time.RFC3339, entry.Timestamp)
	if err != nil {
		c.log.Warn("Discarding cache entry with invalid timestamp",
			logger.StringField("fingerprint", fingerprint), logger.ErrorField(err))
		return "", false
	}

	if time.Since(storedAt) > c.maxAge {
		return "", false
	}

	c.log.Debug("Analysis cache hit", logger.StringField("fingerprint", fingerprint))
	return entry.Analysis, true
}

// Put stores a narrative under a fingerprint. Write failures are logged
// and swallowed.
func (c *AnalysisCache) Put(fingerprint, narrative string) {
	entry := cacheEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Analysis:  narrative,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		c.log.Error("Failed to marshal cache entry", logger.ErrorField(err))
		return
	}

	if err := c.store.Write(fingerprint, data); err != nil {
		c.log.Error("Failed to write cache entry",
			logger.StringField("fingerprint", fingerprint), logger.ErrorField(err))
	}
}

// Sweep deletes entries whose modification time is older than maxAge and
// returns how many were removed.
func (c *AnalysisCache) Sweep(maxAge time.Duration) int {
	entries, err := c.store.Entries()
	if err != nil {
		c.log.Error("Failed to list cache entries for sweep", logger.ErrorField(err))
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.ModTime.Before(cutoff) {
			continue
		}
		if err := c.store.Delete(entry.Key); err != nil {
			c.log.Warn("Failed to delete expired cache entry",
				logger.StringField("key", entry.Key), logger.ErrorField(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		c.log.Info("Swept expired cache entries", logger.IntField("removed", removed))
	}
	return removed
}
