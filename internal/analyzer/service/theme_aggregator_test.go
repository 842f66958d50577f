package service

import (
	"fmt"
	"testing"
	"time"

	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTheme(t *testing.T, source, name string, change float64, leading string) entity.Theme {
	t.Helper()
	kind := entity.ThemeKindSector
	if leading == "" {
		kind = entity.ThemeKindTopic
	}
	theme, err := entity.NewTheme(source, name, "", change, leading, kind, time.Now())
	require.NoError(t, err)
	return theme
}

func mustNews(t *testing.T, title, summary string) entity.NewsItem {
	t.Helper()
	item, err := entity.NewNewsItem(title, summary, "http://example.com", "", "sina")
	require.NoError(t, err)
	return item
}

func TestAggregateEmpty(t *testing.T) {
	aggregator := NewThemeAggregator(logger.NewNop())
	assert.Nil(t, aggregator.Aggregate(nil, nil))
}

func TestAggregateSingleMentionScore(t *testing.T) {
	aggregator := NewThemeAggregator(logger.NewNop())

	ranking := aggregator.Aggregate([]entity.Theme{
		mustTheme(t, "xueqiu", "robotics", 0, ""),
	}, nil)

	require.Len(t, ranking, 1)
	// 1*0.4 + 0*0.3 + 0*0.2 + 1*0.1
	assert.Equal(t, 0.5, ranking[0].PopularityScore)
	assert.Equal(t, 1, ranking[0].Count)
	assert.Equal(t, 1, ranking[0].SourceCount)
}

func TestAggregateMergesAcrossSources(t *testing.T) {
	aggregator := NewThemeAggregator(logger.NewNop())

	ranking := aggregator.Aggregate([]entity.Theme{
		mustTheme(t, "eastmoney", "semiconductor", 4.0, "SMIC"),
		mustTheme(t, "xueqiu", "semiconductor", 2.0, ""),
		mustTheme(t, "eastmoney", "semiconductor", 6.0, "SMIC"),
	}, nil)

	require.Len(t, ranking, 1)
	top := ranking[0]
	assert.Equal(t, 3, top.Count)
	assert.Equal(t, 4.0, top.AvgChange)
	assert.Equal(t, 2, top.SourceCount)
	// duplicate leading stock kept once
	assert.Equal(t, []string{"SMIC"}, top.LeadingStocks)
}

func TestAggregateNewsMatching(t *testing.T) {
	aggregator := NewThemeAggregator(logger.NewNop())

	themes := []entity.Theme{mustTheme(t, "eastmoney", "Semiconductor", 1.0, "SMIC")}
	news := []entity.NewsItem{
		mustNews(t, "semiconductor equipment orders jump", ""),
		mustNews(t, "New fab announced", "a semiconductor plant breaks ground"),
		mustNews(t, "SEMICONDUCTOR subsidies extended", ""),
		mustNews(t, "Fourth semiconductor headline", ""),
		mustNews(t, "unrelated liquor news", ""),
	}

	ranking := aggregator.Aggregate(themes, news)
	require.Len(t, ranking, 1)
	top := ranking[0]

	// matching is case-insensitive over title and summary; the count is
	// complete while the display list caps at three
	assert.Equal(t, 4, top.NewsCount)
	assert.Len(t, top.RelatedNews, 3)
	assert.Equal(t, "semiconductor equipment orders jump", top.RelatedNews[0].Title)
}

func TestAggregateRankingOrderAndCap(t *testing.T) {
	aggregator := NewThemeAggregator(logger.NewNop())

	var themes []entity.Theme
	// twelve distinct themes; theme i is mentioned i+1 times so later names
	// score higher
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("theme-%02d", i)
		for j := 0; j <= i; j++ {
			themes = append(themes, mustTheme(t, "xueqiu", name, 0, ""))
		}
	}

	ranking := aggregator.Aggregate(themes, nil)
	require.Len(t, ranking, 10)
	assert.Equal(t, "theme-11", ranking[0].Name)
	assert.Equal(t, "theme-02", ranking[9].Name)
	for i := 1; i < len(ranking); i++ {
		assert.GreaterOrEqual(t, ranking[i-1].PopularityScore, ranking[i].PopularityScore)
	}
}

func TestAggregateStableTieOrder(t *testing.T) {
	aggregator := NewThemeAggregator(logger.NewNop())

	ranking := aggregator.Aggregate([]entity.Theme{
		mustTheme(t, "xueqiu", "hydrogen", 0, ""),
		mustTheme(t, "xueqiu", "wind power", 0, ""),
		mustTheme(t, "xueqiu", "energy storage", 0, ""),
	}, nil)

	require.Len(t, ranking, 3)
	// identical scores keep first-seen input order
	assert.Equal(t, "hydrogen", ranking[0].Name)
	assert.Equal(t, "wind power", ranking[1].Name)
	assert.Equal(t, "energy storage", ranking[2].Name)
}

func TestAggregateLeadingStocksCapped(t *testing.T) {
	aggregator := NewThemeAggregator(logger.NewNop())

	ranking := aggregator.Aggregate([]entity.Theme{
		mustTheme(t, "eastmoney", "AI", 1, "alpha"),
		mustTheme(t, "eastmoney", "AI", 1, "beta"),
		mustTheme(t, "eastmoney", "AI", 1, "gamma"),
		mustTheme(t, "eastmoney", "AI", 1, "delta"),
	}, nil)

	require.Len(t, ranking, 1)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, ranking[0].LeadingStocks)
}
