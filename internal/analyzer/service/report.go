package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/logger"
	"golang-market-analyzer/pkg/utils"
)

const reportDisclaimer = "---\n*Automated analysis for reference only, not investment advice.*\n"

// ReportWriter persists an analysis result as dated report files.
type ReportWriter interface {
	Write(result *entity.AnalysisResult) error
}

type reportWriter struct {
	dir string
	log *logger.Logger
}

// NewReportWriter creates a ReportWriter rooted at dir.
func NewReportWriter(dir string, log *logger.Logger) ReportWriter {
	return &reportWriter{dir: dir, log: log}
}

// Write renders the narrative report, the structured companion report and
// the raw dataset dump, then refreshes the directory index. Files for the
// same date are overwritten.
func (w *reportWriter) Write(result *entity.AnalysisResult) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	date := utils.TimeNowShanghai().Format("20060102")

	narrativePath := filepath.Join(w.dir, fmt.Sprintf("comprehensive_report_%s.md", date))
	if err := os.WriteFile(narrativePath, []byte(result.Narrative), 0o644); err != nil {
		return fmt.Errorf("failed to write narrative report: %w", err)
	}

	structuredPath := filepath.Join(w.dir, fmt.Sprintf("enhanced_analysis_%s.md", date))
	if err := os.WriteFile(structuredPath, []byte(w.structuredReport(result)), 0o644); err != nil {
		return fmt.Errorf("failed to write structured report: %w", err)
	}

	data, err := json.MarshalIndent(result.Dataset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	dataPath := filepath.Join(w.dir, fmt.Sprintf("market_data_%s.json", date))
	if err := os.WriteFile(dataPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset dump: %w", err)
	}

	if err := w.refreshIndex(); err != nil {
		w.log.Warn("Failed to refresh report index", logger.ErrorField(err))
	}

	w.log.Info("Reports written",
		logger.StringField("dir", w.dir),
		logger.StringField("date", date))
	return nil
}

// structuredReport renders the machine-derived sections. On a cache hit
// only the dataset overview is available.
func (w *reportWriter) structuredReport(result *entity.AnalysisResult) string {
	var b strings.Builder

	b.WriteString("# Market Analysis Overview\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", result.GeneratedAt.Format("2006-01-02 15:04"))

	fmt.Fprintf(&b, "## Data Coverage\n- Hot stocks: %d\n- Ranked themes: %d\n- Industry news: %d\n\n",
		len(result.Dataset.HotStocks), len(result.Dataset.ThemeRanking), len(result.Dataset.IndustryNews))

	if len(result.Dataset.HotStocks) > 0 {
		b.WriteString("## Hot Stocks\n")
		b.WriteString("| # | Code | Name | Change | Amount |\n")
		b.WriteString("|---|------|------|--------|--------|\n")
		for i, quote := range result.Dataset.HotStocks {
			fmt.Fprintf(&b, "| %d | %s | %s | %.2f%% | %.0f |\n",
				i+1, quote.Code, quote.Name, quote.ChangePct, quote.Amount)
		}
		b.WriteString("\n")
	}

	if result.Dataset.Sentiment != nil {
		s := result.Dataset.Sentiment
		fmt.Fprintf(&b, "## Sentiment\n- Average: %.3f (%s, %s)\n- Positive/negative/neutral: %d/%d/%d\n\n",
			s.AvgSentiment, s.MarketEffect, s.EffectLevel,
			s.PositiveCount, s.NegativeCount, s.NeutralCount)
	}

	if len(result.Dataset.ThemeRanking) > 0 {
		b.WriteString("## Theme Ranking\n")
		b.WriteString("| # | Theme | Popularity | Avg change | News | Sources |\n")
		b.WriteString("|---|-------|------------|------------|------|--------|\n")
		for i, theme := range result.Dataset.ThemeRanking {
			fmt.Fprintf(&b, "| %d | %s | %.2f | %.2f%% | %d | %d |\n",
				i+1, theme.Name, theme.PopularityScore, theme.AvgChange,
				theme.NewsCount, theme.SourceCount)
		}
		b.WriteString("\n")
	}

	if len(result.Dataset.IndustryNews) > 0 {
		b.WriteString("## News Digest\n")
		for i, item := range result.Dataset.IndustryNews {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&b, "- [%s](%s) (%s)\n", item.Title, item.Link, item.Source)
		}
		b.WriteString("\n")
	}

	if result.FromCache {
		b.WriteString("## Assessment\nServed from cache; see the comprehensive report for the full narrative.\n\n")
		b.WriteString(reportDisclaimer)
		return b.String()
	}

	if result.Strength != nil {
		fmt.Fprintf(&b, "## Market Strength\n- Level: %s\n- Score: %.1f/10\n- Features: %s\n\n",
			result.Strength.Level, result.Strength.Score, result.Strength.Features)
	}

	if result.Risk != nil {
		fmt.Fprintf(&b, "## Risk\n- Level: %s\n- Position: %s\n", result.Risk.Level, result.Risk.PositionSuggestion)
		for _, risk := range result.Risk.Risks {
			fmt.Fprintf(&b, "- Risk: %s\n", risk)
		}
		for _, opp := range result.Risk.Opportunities {
			fmt.Fprintf(&b, "- Opportunity: %s\n", opp)
		}
		b.WriteString("\n")
	}

	if result.Strategy != "" {
		b.WriteString("## Strategy\n")
		b.WriteString(result.Strategy)
		b.WriteString("\n")
	}

	b.WriteString(reportDisclaimer)
	return b.String()
}

// refreshIndex rewrites README.md listing the report files currently in
// the directory, newest first.
func (w *reportWriter) refreshIndex() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == "README.md" {
			continue
		}
		names = append(names, entry.Name())
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	var b strings.Builder
	b.WriteString("# Market Analysis Reports\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- [%s](%s)\n", name, name)
	}

	return os.WriteFile(filepath.Join(w.dir, "README.md"), []byte(b.String()), 0o644)
}
