package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"golang-market-analyzer/internal/analyzer/config"
	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/kvstore"
	"golang-market-analyzer/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStocksRepo struct {
	quotes []entity.StockQuote
	err    error
}

func (r *stubStocksRepo) GetHotStocks(context.Context) ([]entity.StockQuote, error) {
	return r.quotes, r.err
}

type stubTopicsRepo struct {
	topics []entity.Topic
	err    error
}

func (r *stubTopicsRepo) GetHotTopics(context.Context) ([]entity.Topic, error) {
	return r.topics, r.err
}

type stubThemesRepo struct {
	themes []entity.Theme
	err    error
}

func (r *stubThemesRepo) GetHotThemes(context.Context) ([]entity.Theme, error) {
	return r.themes, r.err
}

type stubNewsRepo struct {
	news []entity.NewsItem
	err  error
}

func (r *stubNewsRepo) GetIndustryNews(context.Context) ([]entity.NewsItem, error) {
	return r.news, r.err
}

type discardReportWriter struct {
	writes int
}

func (w *discardReportWriter) Write(*entity.AnalysisResult) error {
	w.writes++
	return nil
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) SendMessage(text string) error {
	n.messages = append(n.messages, text)
	return nil
}

type serviceFixture struct {
	svc      AnalyzerService
	reports  *discardReportWriter
	notifier *recordingNotifier
	store    *kvstore.MemoryStore
}

func newServiceFixture(t *testing.T, stocks *stubStocksRepo, topics *stubTopicsRepo, themes *stubThemesRepo, news *stubNewsRepo) *serviceFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Cache.MaxAge = 6 * time.Hour
	cfg.Cache.SweepMaxAge = 7 * 24 * time.Hour
	cfg.Sentiment.ThresholdLo = 0.4
	cfg.Sentiment.ThresholdHi = 0.6
	cfg.Strength.Strong = 7.0
	cfg.Strength.Choppy = 5.0

	log := logger.NewNop()
	store := kvstore.NewMemoryStore()
	reports := &discardReportWriter{}
	notifier := &recordingNotifier{}

	svc := NewAnalyzerService(cfg, log,
		stocks, topics, themes, news,
		NewSentimentClassifier(NewLexiconScorer(), log, cfg.Sentiment.ThresholdLo, cfg.Sentiment.ThresholdHi),
		NewThemeAggregator(log),
		NewMarketRuleEngine(log, cfg.Strength.Strong, cfg.Strength.Choppy),
		NewAnalysisCache(store, log, cfg.Cache.MaxAge),
		reports,
		notifier,
	)

	return &serviceFixture{svc: svc, reports: reports, notifier: notifier, store: store}
}

func TestRunWithAllSourcesFailing(t *testing.T) {
	fx := newServiceFixture(t,
		&stubStocksRepo{err: fmt.Errorf("eastmoney down")},
		&stubTopicsRepo{err: fmt.Errorf("xueqiu down")},
		&stubThemesRepo{err: fmt.Errorf("boards down")},
		&stubNewsRepo{err: fmt.Errorf("feed down")},
	)

	result, err := fx.svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, InsufficientDataNarrative, result.Narrative)
	assert.False(t, result.FromCache)
	assert.Empty(t, result.Dataset.HotStocks)
	assert.Nil(t, result.Dataset.Sentiment)
	assert.Equal(t, 1, fx.reports.writes)
	assert.Len(t, fx.notifier.messages, 1)
}

func TestRunSecondIdenticalDatasetHitsCache(t *testing.T) {
	quote, err := entity.NewStockQuote("600519", "Kweichow Moutai", 2.35, 1700, 32000, 5.4e6, 30.2, 2.1e12,
		time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	fx := newServiceFixture(t,
		&stubStocksRepo{quotes: []entity.StockQuote{quote}},
		&stubTopicsRepo{},
		&stubThemesRepo{},
		&stubNewsRepo{},
	)

	first, err := fx.svc.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	require.NotNil(t, first.Strength)
	require.NotNil(t, first.Risk)
	assert.NotEmpty(t, first.Strategy)

	second, err := fx.svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Narrative, second.Narrative)

	// cached results carry the narrative only
	assert.Nil(t, second.Strength)
	assert.Nil(t, second.Risk)
	assert.Empty(t, second.Strategy)
}

func TestRunUpdatesLatest(t *testing.T) {
	fx := newServiceFixture(t, &stubStocksRepo{}, &stubTopicsRepo{}, &stubThemesRepo{}, &stubNewsRepo{})

	assert.Nil(t, fx.svc.Latest())

	result, err := fx.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Same(t, result, fx.svc.Latest())
}

func TestAnalyzeFullPipeline(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	quote, err := entity.NewStockQuote("300750", "CATL", 4.1, 210, 9.2e5, 2.6e6, 25, 9.5e11, now)
	require.NoError(t, err)
	topic, err := entity.NewTopic("xueqiu", "lithium battery names surge on strong demand", "", 40, now)
	require.NoError(t, err)
	theme, err := entity.NewTheme("eastmoney", "lithium battery", "BK1033", 3.9, "CATL", entity.ThemeKindSector, now)
	require.NoError(t, err)
	news, err := entity.NewNewsItem("lithium battery capacity expands", "", "http://example.com", "", "sina")
	require.NoError(t, err)

	fx := newServiceFixture(t,
		&stubStocksRepo{quotes: []entity.StockQuote{quote}},
		&stubTopicsRepo{topics: []entity.Topic{topic}},
		&stubThemesRepo{themes: []entity.Theme{theme}},
		&stubNewsRepo{news: []entity.NewsItem{news}},
	)

	result, err := fx.svc.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, result.Dataset.Sentiment)
	assert.Equal(t, 1, result.Dataset.Sentiment.PositiveCount)

	require.Len(t, result.Dataset.ThemeRanking, 1)
	assert.Equal(t, "lithium battery", result.Dataset.ThemeRanking[0].Name)
	assert.Equal(t, 1, result.Dataset.ThemeRanking[0].NewsCount)

	assert.Contains(t, result.Narrative, "Market Intelligence Report")
	assert.Contains(t, result.Narrative, "lithium battery")
}
