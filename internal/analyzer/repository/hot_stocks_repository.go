package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
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

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// HotStocksRepository fetches the day's top movers.
type HotStocksRepository interface {
	GetHotStocks(ctx context.Context) ([]entity.StockQuote, error)
}

type hotStocksRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	inmemoryCache  *gocache.Cache
}

// NewHotStocksRepository creates a new HotStocksRepository.
func NewHotStocksRepository(cfg *config.Config, log *logger.Logger) HotStocksRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Eastmoney.MaxRequestPerMinute)
	return &hotStocksRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		inmemoryCache:  gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (r *hotStocksRepository) GetHotStocks(ctx context.Context) ([]entity.StockQuote, error) {
	if cached, found := r.inmemoryCache.Get(common.HotStocksCacheKey); found {
		return cached.([]entity.StockQuote), nil
	}

	params := url.Values{}
	params.Set("fid", "f3")
	params.Set("po", "1")
	params.Set("pz", "10")
	params.Set("pn", "1")
	params.Set("np", "1")
	params.Set("fltt", "2")
	params.Set("invt", "2")
	params.Set("fs", "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23")
	params.Set("fields", "f12,f14,f3,f62,f8,f9,f16,f46")

	reqURL := r.cfg.Eastmoney.BaseURL + "/api/qt/clist/get?" + params.Encode()
	body, err := fetchJSON(ctx, r.httpClient, r.requestLimiter, r.log, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hot stocks: %w", err)
	}

	var response dto.EastmoneyListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode hot stocks response: %w", err)
	}
	if response.Data == nil {
		return nil, nil
	}

	now := utils.TimeNowShanghai()
	var quotes []entity.StockQuote
	for _, item := range response.Data.Diff {
		if len(quotes) >= 10 {
			break
		}
		quote, err := entity.NewStockQuote(
			item.Code,
			item.Name,
			utils.RoundTo(item.ChangePct, 2),
			item.Price,
			item.Volume,
			item.Amount,
			item.PE,
			item.MarketCap,
			now,
		)
		if err != nil {
			r.log.Warn("Skipping malformed quote", logger.ErrorField(err))
			continue
		}
		quotes = append(quotes, quote)
	}

	r.inmemoryCache.Set(common.HotStocksCacheKey, quotes, gocache.DefaultExpiration)
	r.log.Debug("Fetched hot stocks", logger.IntField("count", len(quotes)))

	return quotes, nil
}

// fetchJSON issues a rate-limited GET with browser headers and returns the
// response body.
func fetchJSON(ctx context.Context, client *http.Client, limiter *rate.Limiter, log *logger.Logger, reqURL string) ([]byte, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := client.Do(req)
	if err != nil {
		log.ErrorContext(ctx, "Failed to send request", logger.ErrorField(err), logger.StringField("url", reqURL))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.ErrorContext(ctx, "Received non-OK response", logger.IntField("status_code", resp.StatusCode), logger.StringField("url", reqURL))
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
