package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang-market-analyzer/internal/analyzer/config"
	"golang-market-analyzer/internal/analyzer/dto"
	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/common"
	"golang-market-analyzer/pkg/logger"
	"golang-market-analyzer/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// HotTopicsRepository fetches crowd-sourced hot discussion topics.
type HotTopicsRepository interface {
	GetHotTopics(ctx context.Context) ([]entity.Topic, error)
}

type hotTopicsRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	inmemoryCache  *gocache.Cache
}

// NewHotTopicsRepository creates a new HotTopicsRepository.
func NewHotTopicsRepository(cfg *config.Config, log *logger.Logger) HotTopicsRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Xueqiu.MaxRequestPerMinute)
	return &hotTopicsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		inmemoryCache:  gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (r *hotTopicsRepository) GetHotTopics(ctx context.Context) ([]entity.Topic, error) {
	if cached, found := r.inmemoryCache.Get(common.HotTopicsCacheKey); found {
		return cached.([]entity.Topic), nil
	}

	params := url.Values{}
	params.Set("since_id", "-1")
	params.Set("max_id", "-1")
	params.Set("count", "20")

	reqURL := r.cfg.Xueqiu.BaseURL + "/statuses/hot/list.json?" + params.Encode()
	body, err := fetchJSON(ctx, r.httpClient, r.requestLimiter, r.log, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hot topics: %w", err)
	}

	var response dto.XueqiuHotListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode hot topics response: %w", err)
	}

	now := utils.TimeNowShanghai()
	var topics []entity.Topic
	for _, status := range response.List {
		text := status.Title
		if text == "" {
			text = status.Text
		}
		topic, err := entity.NewTopic(common.SourceXueqiu, text, status.User.ScreenName, status.ReplyCount, now)
		if err != nil {
			continue
		}
		topics = append(topics, topic)
	}

	r.inmemoryCache.Set(common.HotTopicsCacheKey, topics, gocache.DefaultExpiration)
	r.log.Debug("Fetched hot topics", logger.IntField("count", len(topics)))

	return topics, nil
}
