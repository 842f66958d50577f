package telegram

import (
	"testing"
	"time"

	"golang-market-analyzer/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestFormatAnalysisDigest(t *testing.T) {
	result := &entity.AnalysisResult{
		Dataset: entity.AnalysisDataset{
			Sentiment: &entity.SentimentSummary{AvgSentiment: 0.7, MarketEffect: "pronounced profit-taking effect"},
			ThemeRanking: []entity.ThemePopularity{
				{Name: "AI", PopularityScore: 6.2},
				{Name: "robotics", PopularityScore: 4.1},
				{Name: "hydrogen", PopularityScore: 2.0},
				{Name: "liquor", PopularityScore: 1.5},
			},
		},
		Strength: &entity.MarketStrength{Level: entity.StrengthChoppy, Score: 6.0},
		Risk: &entity.RiskAssessment{
			Level:              entity.RiskMedium,
			PositionSuggestion: "moderate, 50–70%",
			Risks:              []string{"short-term gains overextended"},
		},
		GeneratedAt: time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC),
	}

	digest := FormatAnalysisDigest(result)

	assert.Contains(t, digest, "*Market Analysis Digest*")
	assert.Contains(t, digest, "choppy (6.0/10)")
	assert.Contains(t, digest, "*Position:* moderate, 50–70%")
	assert.Contains(t, digest, "AI (6.20)")
	assert.Contains(t, digest, "short-term gains overextended")
	// only the top three themes make the digest
	assert.NotContains(t, digest, "liquor")
	assert.NotContains(t, digest, "reused from cache")
}

func TestFormatAnalysisDigestCacheHit(t *testing.T) {
	result := &entity.AnalysisResult{
		Narrative:   "cached",
		FromCache:   true,
		GeneratedAt: time.Now(),
	}

	digest := FormatAnalysisDigest(result)
	assert.Contains(t, digest, "reused from cache")
	assert.NotContains(t, digest, "*Strength:*")
}
