package service

import (
	"encoding/json"
	"testing"
	"time"

	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/kvstore"
	"golang-market-analyzer/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset(t *testing.T) entity.AnalysisDataset {
	t.Helper()
	ts := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	quote, err := entity.NewStockQuote("600519", "Kweichow Moutai", 2.35, 1700, 32000, 5.4e6, 30.2, 2.1e12, ts)
	require.NoError(t, err)
	return entity.AnalysisDataset{
		HotStocks: []entity.StockQuote{quote},
		ThemeRanking: []entity.ThemePopularity{
			{Name: "AI", PopularityScore: 6.0, AvgChange: 4.0},
		},
	}
}

func TestFingerprintStable(t *testing.T) {
	cache := NewAnalysisCache(kvstore.NewMemoryStore(), logger.NewNop(), 6*time.Hour)

	first, err := cache.Fingerprint(testDataset(t))
	require.NoError(t, err)
	second, err := cache.Fingerprint(testDataset(t))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
}

func TestFingerprintDiffers(t *testing.T) {
	cache := NewAnalysisCache(kvstore.NewMemoryStore(), logger.NewNop(), 6*time.Hour)

	base, err := cache.Fingerprint(testDataset(t))
	require.NoError(t, err)

	changed := testDataset(t)
	changed.ThemeRanking[0].PopularityScore = 6.5
	other, err := cache.Fingerprint(changed)
	require.NoError(t, err)

	assert.NotEqual(t, base, other)
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewAnalysisCache(kvstore.NewMemoryStore(), logger.NewNop(), 6*time.Hour)

	fingerprint, err := cache.Fingerprint(testDataset(t))
	require.NoError(t, err)

	_, ok := cache.Get(fingerprint)
	assert.False(t, ok)

	cache.Put(fingerprint, "narrative body")

	narrative, ok := cache.Get(fingerprint)
	require.True(t, ok)
	assert.Equal(t, "narrative body", narrative)
}

func TestCacheStaleEntryIsMiss(t *testing.T) {
	store := kvstore.NewMemoryStore()
	cache := NewAnalysisCache(store, logger.NewNop(), 6*time.Hour)

	stale, err := json.Marshal(cacheEntry{
		Timestamp: time.Now().Add(-7 * time.Hour).Format(time.RFC3339),
		Analysis:  "old narrative",
	})
	require.NoError(t, err)
	require.NoError(t, store.Write("abc", stale))

	_, ok := cache.Get("abc")
	assert.False(t, ok)

	fresh, err := json.Marshal(cacheEntry{
		Timestamp: time.Now().Add(-5 * time.Hour).Format(time.RFC3339),
		Analysis:  "recent narrative",
	})
	require.NoError(t, err)
	require.NoError(t, store.Write("def", fresh))

	narrative, ok := cache.Get("def")
	require.True(t, ok)
	assert.Equal(t, "recent narrative", narrative)
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	store := kvstore.NewMemoryStore()
	cache := NewAnalysisCache(store, logger.NewNop(), 6*time.Hour)

	require.NoError(t, store.Write("abc", []byte("{not json")))
	_, ok := cache.Get("abc")
	assert.False(t, ok)

	require.NoError(t, store.Write("def", []byte(`{"timestamp":"yesterday","analysis":"x"}`)))
	_, ok = cache.Get("def")
	assert.False(t, ok)
}

func TestCacheSweep(t *testing.T) {
	store := kvstore.NewMemoryStore()
	cache := NewAnalysisCache(store, logger.NewNop(), 6*time.Hour)

	cache.Put("old", "a")
	cache.Put("older", "b")
	cache.Put("recent", "c")
	store.SetModTime("old", time.Now().Add(-8*24*time.Hour))
	store.SetModTime("older", time.Now().Add(-30*24*time.Hour))

	removed := cache.Sweep(7 * 24 * time.Hour)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, store.Len())

	_, err := store.Read("recent")
	assert.NoError(t, err)
	_, err = store.Read("old")
	assert.Error(t, err)
}
