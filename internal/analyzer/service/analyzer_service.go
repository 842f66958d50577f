package service

import (
	"context"
	"sync"

	"golang-market-analyzer/internal/analyzer/config"
	"golang-market-analyzer/internal/analyzer/repository"
	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/logger"
	"golang-market-analyzer/pkg/telegram"
	"golang-market-analyzer/pkg/utils"
)

// AnalyzerService runs the full acquisition and analysis pipeline.
type AnalyzerService interface {
	// Analyze evaluates one dataset, serving repeated identical datasets
	// from the cache.
	Analyze(ctx context.Context, dataset entity.AnalysisDataset) (*entity.AnalysisResult, error)
	// Run acquires a fresh dataset from all sources, analyzes it and
	// publishes the result.
	Run(ctx context.Context) (*entity.AnalysisResult, error)
	// Latest returns the most recent result, or nil before the first run.
	Latest() *entity.AnalysisResult
}

type analyzerService struct {
	cfg          *config.Config
	log          *logger.Logger
	stocksRepo   repository.HotStocksRepository
	topicsRepo   repository.HotTopicsRepository
	themesRepo   repository.HotThemesRepository
	newsRepo     repository.IndustryNewsRepository
	classifier   *SentimentClassifier
	aggregator   *ThemeAggregator
	engine       *MarketRuleEngine
	cache        *AnalysisCache
	reportWriter ReportWriter
	notifier     telegram.Notifier

	mu     sync.RWMutex
	latest *entity.AnalysisResult
}

// NewAnalyzerService creates a new AnalyzerService. The notifier may be nil
// when Telegram delivery is not configured.
func NewAnalyzerService(
	cfg *config.Config,
	log *logger.Logger,
	stocksRepo repository.HotStocksRepository,
	topicsRepo repository.HotTopicsRepository,
	themesRepo repository.HotThemesRepository,
	newsRepo repository.IndustryNewsRepository,
	classifier *SentimentClassifier,
	aggregator *ThemeAggregator,
	engine *MarketRuleEngine,
	cache *AnalysisCache,
	reportWriter ReportWriter,
	notifier telegram.Notifier,
) AnalyzerService {
	return &analyzerService{
		cfg:          cfg,
		log:          log,
		stocksRepo:   stocksRepo,
		topicsRepo:   topicsRepo,
		themesRepo:   themesRepo,
		newsRepo:     newsRepo,
		classifier:   classifier,
		aggregator:   aggregator,
		engine:       engine,
		cache:        cache,
		reportWriter: reportWriter,
		notifier:     notifier,
	}
}

func (s *analyzerService) Analyze(ctx context.Context, dataset entity.AnalysisDataset) (*entity.AnalysisResult, error) {
	s.cache.Sweep(s.cfg.Cache.SweepMaxAge)

	fingerprint, err := s.cache.Fingerprint(dataset)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fingerprint dataset, skipping cache", logger.ErrorField(err))
	} else if narrative, ok := s.cache.Get(fingerprint); ok {
		return &entity.AnalysisResult{
			Dataset:     dataset,
			Narrative:   narrative,
			FromCache:   true,
			GeneratedAt: utils.TimeNowShanghai(),
		}, nil
	}

	assessment := s.engine.Evaluate(dataset)
	if fingerprint != "" {
		s.cache.Put(fingerprint, assessment.Narrative)
	}

	return &entity.AnalysisResult{
		Dataset:     dataset,
		Strength:    &assessment.Strength,
		Risk:        &assessment.Risk,
		Strategy:    assessment.Strategy,
		Narrative:   assessment.Narrative,
		GeneratedAt: utils.TimeNowShanghai(),
	}, nil
}

func (s *analyzerService) Run(ctx context.Context) (*entity.AnalysisResult, error) {
	s.log.InfoContext(ctx, "Starting market analysis run")

	dataset := s.acquire(ctx)

	result, err := s.Analyze(ctx, dataset)
	if err != nil {
		return nil, err
	}

	if err := s.reportWriter.Write(result); err != nil {
		s.log.ErrorContext(ctx, "Failed to write reports", logger.ErrorField(err))
	}

	s.notify(result)

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	s.log.InfoContext(ctx, "Market analysis run completed",
		logger.IntField("hot_stocks", len(dataset.HotStocks)),
		logger.IntField("themes", len(dataset.ThemeRanking)),
		logger.IntField("news", len(dataset.IndustryNews)),
		logger.Field("from_cache", result.FromCache))

	return result, nil
}

func (s *analyzerService) Latest() *entity.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// acquire gathers all four inputs. Any source failure degrades that input
// to empty; the analysis proceeds with whatever was collected.
func (s *analyzerService) acquire(ctx context.Context) entity.AnalysisDataset {
	stocks, err := s.stocksRepo.GetHotStocks(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch hot stocks", logger.ErrorField(err))
		stocks = nil
	}

	topics, err := s.topicsRepo.GetHotTopics(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch hot topics", logger.ErrorField(err))
		topics = nil
	}

	themes, err := s.themesRepo.GetHotThemes(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch hot themes", logger.ErrorField(err))
		themes = nil
	}

	news, err := s.newsRepo.GetIndustryNews(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch industry news", logger.ErrorField(err))
		news = nil
	}

	return entity.AnalysisDataset{
		HotStocks:    stocks,
		Sentiment:    s.classifier.Classify(topics),
		ThemeRanking: s.aggregator.Aggregate(themes, news),
		IndustryNews: news,
	}
}

func (s *analyzerService) notify(result *entity.AnalysisResult) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(telegram.FormatAnalysisDigest(result)); err != nil {
		s.log.Error("Failed to send Telegram digest", logger.ErrorField(err))
	}
}
