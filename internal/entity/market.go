package entity

import (
	"fmt"
	"time"

	"golang-market-analyzer/pkg/utils"
)

// ThemeKind distinguishes sector boards from topic-derived themes.
type ThemeKind string

const (
	ThemeKindSector ThemeKind = "sector"
	ThemeKindTopic  ThemeKind = "topic"
)

// maxDailyChangePct bounds A-share daily moves with headroom for new listings.
const maxDailyChangePct = 30.0

// maxTopicTextRunes caps topic text length; longer upstream text is truncated.
const maxTopicTextRunes = 100

// StockQuote is an immutable snapshot of a traded stock, created once per
// acquisition cycle.
type StockQuote struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	ChangePct float64   `json:"change_pct"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
	Amount    float64   `json:"amount"`
	PE        float64   `json:"pe"`
	MarketCap float64   `json:"market_cap"`
	Timestamp time.Time `json:"timestamp"`
}

// NewStockQuote validates and builds a StockQuote.
func NewStockQuote(code, name string, changePct, price, volume, amount, pe, marketCap float64, ts time.Time) (StockQuote, error) {
	if utils.IsBlank(code) {
		return StockQuote{}, fmt.Errorf("stock quote: empty code")
	}
	if utils.IsBlank(name) {
		return StockQuote{}, fmt.Errorf("stock quote %s: empty name", code)
	}
	if changePct < -maxDailyChangePct || changePct > maxDailyChangePct {
		return StockQuote{}, fmt.Errorf("stock quote %s: change_pct %.2f out of range", code, changePct)
	}
	return StockQuote{
		Code:      code,
		Name:      name,
		ChangePct: changePct,
		Price:     price,
		Volume:    volume,
		Amount:    amount,
		PE:        pe,
		MarketCap: marketCap,
		Timestamp: ts,
	}, nil
}

// Topic is an immutable crowd-sourced discussion item.
type Topic struct {
	Source     string    `json:"source"`
	Text       string    `json:"topic"`
	Author     string    `json:"user"`
	ReplyCount int       `json:"replies"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewTopic validates and builds a Topic, truncating text to 100 runes.
func NewTopic(source, text, author string, replyCount int, ts time.Time) (Topic, error) {
	if utils.IsBlank(source) {
		return Topic{}, fmt.Errorf("topic: empty source")
	}
	if utils.IsBlank(text) {
		return Topic{}, fmt.Errorf("topic: empty text")
	}
	if replyCount < 0 {
		replyCount = 0
	}
	return Topic{
		Source:     source,
		Text:       utils.TruncateRunes(text, maxTopicTextRunes),
		Author:     author,
		ReplyCount: replyCount,
		Timestamp:  ts,
	}, nil
}

// Theme is one mention of a market theme by one source. Multiple Theme
// records may share a name across sources and time; the aggregator fans
// them in.
type Theme struct {
	Source       string    `json:"source"`
	Name         string    `json:"theme_name"`
	Code         string    `json:"theme_code"`
	ChangePct    float64   `json:"change_pct"`
	LeadingStock string    `json:"leading_stock"`
	Kind         ThemeKind `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewTheme validates and builds a Theme.
func NewTheme(source, name, code string, changePct float64, leadingStock string, kind ThemeKind, ts time.Time) (Theme, error) {
	if utils.IsBlank(source) {
		return Theme{}, fmt.Errorf("theme: empty source")
	}
	if utils.IsBlank(name) {
		return Theme{}, fmt.Errorf("theme: empty name")
	}
	if kind != ThemeKindSector && kind != ThemeKindTopic {
		return Theme{}, fmt.Errorf("theme %s: unknown kind %q", name, kind)
	}
	return Theme{
		Source:       source,
		Name:         name,
		Code:         code,
		ChangePct:    changePct,
		LeadingStock: leadingStock,
		Kind:         kind,
		Timestamp:    ts,
	}, nil
}

// NewsItem is a headline with optional summary from a news source.
type NewsItem struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Source    string `json:"source"`
}

// NewNewsItem validates and builds a NewsItem.
func NewNewsItem(title, summary, link, published, source string) (NewsItem, error) {
	if utils.IsBlank(title) {
		return NewsItem{}, fmt.Errorf("news item: empty title")
	}
	return NewsItem{
		Title:     title,
		Summary:   summary,
		Link:      link,
		Published: published,
		Source:    source,
	}, nil
}
