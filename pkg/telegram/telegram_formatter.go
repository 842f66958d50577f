package telegram

import (
	"fmt"
	"strings"

	"golang-market-analyzer/internal/entity"
)

// FormatAnalysisDigest formats an analysis result into a Markdown digest for
// Telegram. The full narrative lives in the report files; the digest carries
// only the headline assessment.
func FormatAnalysisDigest(result *entity.AnalysisResult) string {
	var sb strings.Builder

	sb.WriteString("📊 *Market Analysis Digest*\n\n")

	if result.FromCache {
		sb.WriteString("♻️ _Unchanged market snapshot, assessment reused from cache._\n\n")
	}

	if result.Strength != nil {
		var icon string
		switch result.Strength.Level {
		case entity.StrengthStrong:
			icon = "🟢"
		case entity.StrengthChoppy:
			icon = "🟡"
		default:
			icon = "🔴"
		}
		sb.WriteString(fmt.Sprintf("%s *Strength:* %s (%.1f/10)\n", icon, result.Strength.Level, result.Strength.Score))
	}

	if result.Risk != nil {
		var icon string
		switch result.Risk.Level {
		case entity.RiskHigh:
			icon = "⚠️"
		case entity.RiskMedium:
			icon = "🔶"
		default:
			icon = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s *Risk:* %s\n", icon, result.Risk.Level))
		sb.WriteString(fmt.Sprintf("💼 *Position:* %s\n", result.Risk.PositionSuggestion))
	}

	if sentiment := result.Dataset.Sentiment; sentiment != nil {
		var icon string
		switch {
		case sentiment.AvgSentiment > 0.6:
			icon = "😊"
		case sentiment.AvgSentiment < 0.4:
			icon = "😟"
		default:
			icon = "😐"
		}
		sb.WriteString(fmt.Sprintf("%s *Sentiment:* %.3f (%s)\n", icon, sentiment.AvgSentiment, sentiment.MarketEffect))
	}

	if len(result.Dataset.ThemeRanking) > 0 {
		sb.WriteString("\n🔥 *Top Themes:*\n")
		for i, theme := range result.Dataset.ThemeRanking {
			if i >= 3 {
				break
			}
			sb.WriteString(fmt.Sprintf("• %s (%.2f)\n", theme.Name, theme.PopularityScore))
		}
	}

	if result.Risk != nil && len(result.Risk.Risks) > 0 {
		sb.WriteString("\n🚨 *Key Risks:*\n")
		for _, risk := range result.Risk.Risks {
			sb.WriteString(fmt.Sprintf("• %s\n", risk))
		}
	}

	sb.WriteString(fmt.Sprintf("\n📅 _%s_\n", result.GeneratedAt.Format("2006-01-02 15:04:05")))

	return sb.String()
}
