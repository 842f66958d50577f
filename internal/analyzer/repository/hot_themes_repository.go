package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-market-analyzer/internal/analyzer/config"
	"golang-market-analyzer/internal/analyzer/dto"
	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/common"
	"golang-market-analyzer/pkg/logger"
	"golang-market-analyzer/pkg/utils"

	"golang.org/x/time/rate"
)

// HotThemesRepository gathers theme mentions from concept boards and from
// keyword hits in hot topics.
type HotThemesRepository interface {
	GetHotThemes(ctx context.Context) ([]entity.Theme, error)
}

type hotThemesRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	topicsRepo     HotTopicsRepository
}

// NewHotThemesRepository creates a new HotThemesRepository.
func NewHotThemesRepository(cfg *config.Config, log *logger.Logger, topicsRepo HotTopicsRepository) HotThemesRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Eastmoney.MaxRequestPerMinute)
	return &hotThemesRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		topicsRepo:     topicsRepo,
	}
}

func (r *hotThemesRepository) GetHotThemes(ctx context.Context) ([]entity.Theme, error) {
	var themes []entity.Theme

	sectorThemes, err := r.getConceptBoards(ctx)
	if err != nil {
		r.log.Error("Failed to fetch concept boards", logger.ErrorField(err))
	} else {
		themes = append(themes, sectorThemes...)
	}

	topicThemes, err := r.getTopicThemes(ctx)
	if err != nil {
		r.log.Error("Failed to derive themes from topics", logger.ErrorField(err))
	} else {
		themes = append(themes, topicThemes...)
	}

	return themes, nil
}

// getConceptBoards fetches the concept board ranking from eastmoney.
func (r *hotThemesRepository) getConceptBoards(ctx context.Context) ([]entity.Theme, error) {
	params := url.Values{}
	params.Set("fid", "f3")
	params.Set("po", "1")
	params.Set("pz", "20")
	params.Set("pn", "1")
	params.Set("np", "1")
	params.Set("fltt", "2")
	params.Set("invt", "2")
	params.Set("fs", "m:90+t:2")
	params.Set("fields", "f12,f14,f3,f62,f136")

	reqURL := r.cfg.Eastmoney.BaseURL + "/api/qt/clist/get?" + params.Encode()
	body, err := fetchJSON(ctx, r.httpClient, r.requestLimiter, r.log, reqURL)
	if err != nil {
		return nil, err
	}

	var response dto.EastmoneyListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode concept board response: %w", err)
	}
	if response.Data == nil {
		return nil, nil
	}

	now := utils.TimeNowShanghai()
	var themes []entity.Theme
	for _, item := range response.Data.Diff {
		theme, err := entity.NewTheme(
			common.SourceEastmoney,
			item.Name,
			item.Code,
			utils.RoundTo(item.ChangePct, 2),
			item.LeadingStock,
			entity.ThemeKindSector,
			now,
		)
		if err != nil {
			r.log.Warn("Skipping malformed concept board", logger.ErrorField(err))
			continue
		}
		themes = append(themes, theme)
	}
	return themes, nil
}

// getTopicThemes derives themes by matching the configured keyword list
// against hot topic text. The first matching keyword claims the topic.
func (r *hotThemesRepository) getTopicThemes(ctx context.Context) ([]entity.Theme, error) {
	topics, err := r.topicsRepo.GetHotTopics(ctx)
	if err != nil {
		return nil, err
	}

	now := utils.TimeNowShanghai()
	var themes []entity.Theme
	for _, topic := range topics {
		topicText := strings.ToLower(topic.Text)
		for _, keyword := range r.cfg.Themes.Keywords {
			if !strings.Contains(topicText, strings.ToLower(keyword)) {
				continue
			}
			theme, err := entity.NewTheme(common.SourceXueqiu, keyword, "", 0, "", entity.ThemeKindTopic, now)
			if err != nil {
				break
			}
			themes = append(themes, theme)
			break
		}
	}
	return themes, nil
}
