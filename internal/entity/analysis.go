package entity

import "time"

// SentimentClass is the discrete classification of a sentiment value.
type SentimentClass string

const (
	SentimentPositive SentimentClass = "positive"
	SentimentNegative SentimentClass = "negative"
	SentimentNeutral  SentimentClass = "neutral"
)

// SentimentScore holds the continuous and discrete sentiment of one topic.
type SentimentScore struct {
	Topic          string         `json:"topic"`
	Source         string         `json:"source"`
	Value          float64        `json:"sentiment"`
	Classification SentimentClass `json:"classification"`
}

// SentimentSummary aggregates per-topic sentiment into a market-level view.
// A nil summary means no topics were available; consumers fall back to a
// neutral 0.5 instead of computing on an empty set.
type SentimentSummary struct {
	Scores        []SentimentScore `json:"sentiment_scores"`
	AvgSentiment  float64          `json:"avg_sentiment"`
	MarketEffect  string           `json:"market_effect"`
	EffectLevel   string           `json:"effect_level"`
	PositiveCount int              `json:"positive_count"`
	NegativeCount int              `json:"negative_count"`
	NeutralCount  int              `json:"neutral_count"`
}

// NewsRef is the display slice of a news item attached to a theme.
type NewsRef struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Link   string `json:"link"`
}

// ThemePopularity is the ranked popularity record derived per theme name.
type ThemePopularity struct {
	Name            string    `json:"theme_name"`
	PopularityScore float64   `json:"popularity_score"`
	Count           int       `json:"count"`
	AvgChange       float64   `json:"avg_change"`
	NewsCount       int       `json:"news_count"`
	SourceCount     int       `json:"source_count"`
	LeadingStocks   []string  `json:"leading_stocks"`
	RelatedNews     []NewsRef `json:"related_news"`
}

// StrengthLevel grades overall market strength.
type StrengthLevel string

const (
	StrengthStrong StrengthLevel = "strong"
	StrengthChoppy StrengthLevel = "choppy"
	StrengthWeak   StrengthLevel = "weak"
)

// MarketStrength is the composite strength assessment.
type MarketStrength struct {
	Level    StrengthLevel `json:"level"`
	Score    float64       `json:"score"`
	Features string        `json:"features"`
}

// RiskLevel grades overall market risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAssessment lists identified risks and opportunities with a position
// sizing recommendation.
type RiskAssessment struct {
	Level              RiskLevel `json:"level"`
	Risks              []string  `json:"risks"`
	Opportunities      []string  `json:"opportunities"`
	PositionSuggestion string    `json:"position_suggestion"`
}

// AnalysisDataset is the full input tuple fingerprinted by the cache.
type AnalysisDataset struct {
	HotStocks    []StockQuote      `json:"hot_stocks"`
	Sentiment    *SentimentSummary `json:"sentiment_analysis"`
	ThemeRanking []ThemePopularity `json:"theme_analysis"`
	IndustryNews []NewsItem        `json:"industry_news"`
}

// AnalysisResult is the pipeline output handed to the rendering layer.
// Strength, Risk and Strategy are only populated on a fresh evaluation; a
// cache hit carries the stored narrative alone.
type AnalysisResult struct {
	Dataset     AnalysisDataset `json:"dataset"`
	Strength    *MarketStrength `json:"market_strength,omitempty"`
	Risk        *RiskAssessment `json:"risk_assessment,omitempty"`
	Strategy    string          `json:"strategy,omitempty"`
	Narrative   string          `json:"narrative"`
	FromCache   bool            `json:"from_cache"`
	GeneratedAt time.Time       `json:"generated_at"`
}
