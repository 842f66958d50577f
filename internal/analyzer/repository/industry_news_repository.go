package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang-market-analyzer/internal/analyzer/config"
	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/common"
	"golang-market-analyzer/pkg/logger"
	"golang-market-analyzer/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
)

// maxSummaryFetches caps per-run article page fetches for summary extraction.
const maxSummaryFetches = 3

// IndustryNewsRepository collects industry headlines from the RSS feed and
// the eastmoney industry news listing.
type IndustryNewsRepository interface {
	GetIndustryNews(ctx context.Context) ([]entity.NewsItem, error)
}

type industryNewsRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
	feedParser *gofeed.Parser
}

// NewIndustryNewsRepository creates a new IndustryNewsRepository.
func NewIndustryNewsRepository(cfg *config.Config, log *logger.Logger) IndustryNewsRepository {
	return &industryNewsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		feedParser: gofeed.NewParser(),
	}
}

func (r *industryNewsRepository) GetIndustryNews(ctx context.Context) ([]entity.NewsItem, error) {
	var news []entity.NewsItem

	rssNews, err := r.getFeedNews(ctx)
	if err != nil {
		r.log.Error("Failed to fetch RSS industry news", logger.ErrorField(err))
	} else {
		news = append(news, rssNews...)
	}

	listingNews, err := r.getListingNews(ctx)
	if err != nil {
		r.log.Error("Failed to scrape industry news listing", logger.ErrorField(err))
	} else {
		news = append(news, listingNews...)
	}

	return news, nil
}

// getFeedNews pulls the sina finance industry feed, filling missing
// summaries from the article pages for a bounded number of entries.
func (r *industryNewsRepository) getFeedNews(ctx context.Context) ([]entity.NewsItem, error) {
	feed, err := r.feedParser.ParseURLWithContext(r.cfg.Sina.RSSURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	fetched := 0
	var news []entity.NewsItem
	for _, item := range feed.Items {
		if len(news) >= 10 {
			break
		}
		summary := item.Description
		if utils.IsBlank(summary) && fetched < maxSummaryFetches {
			fetched++
			if extracted, err := r.extractSummary(ctx, item.Link); err != nil {
				r.log.Debug("Failed to extract article summary", logger.ErrorField(err), logger.StringField("link", item.Link))
			} else {
				summary = extracted
			}
		}

		entry, err := entity.NewNewsItem(item.Title, summary, item.Link, item.Published, common.SourceSina)
		if err != nil {
			continue
		}
		news = append(news, entry)
	}

	r.log.Debug("Fetched RSS industry news", logger.IntField("count", len(news)))
	return news, nil
}

// getListingNews scrapes the eastmoney industry news page. The selector
// chain degrades from the dedicated list markup to bare list items.
func (r *industryNewsRepository) getListingNews(ctx context.Context) ([]entity.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.Eastmoney.NewsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", "http://finance.eastmoney.com/")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news listing returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news listing: %w", err)
	}

	items := doc.Find(".list-item")
	if items.Length() == 0 {
		items = doc.Find(".news-item")
	}
	if items.Length() == 0 {
		items = doc.Find("li")
	}

	var news []entity.NewsItem
	items.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(news) >= 10 {
			return false
		}

		title := strings.TrimSpace(sel.Find(".title").Text())
		link, _ := sel.Find("a").First().Attr("href")
		published := strings.TrimSpace(sel.Find(".time").Text())

		entry, err := entity.NewNewsItem(title, "", link, published, common.SourceEastmoney)
		if err != nil {
			return true
		}
		news = append(news, entry)
		return true
	})

	r.log.Debug("Scraped industry news listing", logger.IntField("count", len(news)))
	return news, nil
}

// extractSummary fetches an article page and extracts a short readable
// summary of its main content.
func (r *industryNewsRepository) extractSummary(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read article body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to extract article content: %w", err)
	}

	contentDoc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse extracted content: %w", err)
	}

	text := strings.Join(strings.Fields(contentDoc.Text()), " ")
	return utils.TruncateRunes(text, 200), nil
}
