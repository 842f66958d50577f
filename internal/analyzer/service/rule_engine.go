package service

import (
	"fmt"
	"strings"

	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/logger"
	"golang-market-analyzer/pkg/utils"
)

// defaultSentiment substitutes for an absent sentiment summary.
const defaultSentiment = 0.5

// topQuoteWindow is the number of leading quotes feeding strength and
// liquidity checks.
const topQuoteWindow = 5

// InsufficientDataNarrative is the fixed assessment produced when no stock
// quotes are available. It must stay constant so repeated degraded runs are
// byte-identical.
const InsufficientDataNarrative = `# Market Intelligence Report

## Market Strength
**Level**: insufficient data
**Score**: 5.0/10
**Features**: incomplete market data, trade with caution

## Theme Deep Dive
Theme data is unavailable; wait for the next acquisition cycle.

## Risk Assessment
**Risk level**: medium
**Position**: light, 30–50%

**Key risks**:
- incomplete data limits the reliability of this assessment
- wait for a complete market snapshot before committing capital

## Strategy
**Wait-and-see strategy**
- data is incomplete, stay on the sidelines
- re-enter once acquisition recovers
- keep positions light and risk controlled

---
*rule engine*`

// Assessment bundles everything the rule engine derives for one dataset.
type Assessment struct {
	Strength  entity.MarketStrength
	Risk      entity.RiskAssessment
	Strategy  string
	Narrative string
}

// MarketRuleEngine derives market strength, risk and strategy from an
// aggregated dataset. Pure decision logic, no I/O.
type MarketRuleEngine struct {
	log             *logger.Logger
	strongThreshold float64
	choppyThreshold float64
}

// NewMarketRuleEngine creates a rule engine with the given strength level
// thresholds.
func NewMarketRuleEngine(log *logger.Logger, strongThreshold, choppyThreshold float64) *MarketRuleEngine {
	return &MarketRuleEngine{
		log:             log,
		strongThreshold: strongThreshold,
		choppyThreshold: choppyThreshold,
	}
}

// sentimentValue extracts the average sentiment, defaulting to neutral when
// the summary is absent.
func sentimentValue(sentiment *entity.SentimentSummary) float64 {
	if sentiment == nil {
		return defaultSentiment
	}
	return sentiment.AvgSentiment
}

func topWindow(quotes []entity.StockQuote) []entity.StockQuote {
	if len(quotes) > topQuoteWindow {
		return quotes[:topQuoteWindow]
	}
	return quotes
}

func meanChange(quotes []entity.StockQuote) float64 {
	var total float64
	for _, q := range quotes {
		total += q.ChangePct
	}
	return total / float64(len(quotes))
}

func meanAmount(quotes []entity.StockQuote) float64 {
	var total float64
	for _, q := range quotes {
		total += q.Amount
	}
	return total / float64(len(quotes))
}

// MarketStrength computes the composite strength score from the leading
// quotes, sentiment and turnover.
func (e *MarketRuleEngine) MarketStrength(quotes []entity.StockQuote, sentiment *entity.SentimentSummary) entity.MarketStrength {
	if len(quotes) == 0 {
		return entity.MarketStrength{
			Level:    entity.StrengthWeak,
			Score:    3,
			Features: "no active theme",
		}
	}

	top := topWindow(quotes)
	avgChange := meanChange(top)
	sentimentScore := sentimentValue(sentiment)

	volumeNormalized := meanAmount(top) / 1_000_000
	if volumeNormalized > 1 {
		volumeNormalized = 1
	}

	score := (avgChange/10)*4 + sentimentScore*3 + volumeNormalized*3

	switch {
	case score >= e.strongThreshold:
		return entity.MarketStrength{
			Level:    entity.StrengthStrong,
			Score:    utils.RoundTo(score, 1),
			Features: "broad advance, active capital, pronounced profit effect",
		}
	case score >= e.choppyThreshold:
		return entity.MarketStrength{
			Level:    entity.StrengthChoppy,
			Score:    utils.RoundTo(score, 1),
			Features: "structural market, visible divergence, localized hot spots",
		}
	default:
		return entity.MarketStrength{
			Level:    entity.StrengthWeak,
			Score:    utils.RoundTo(score, 1),
			Features: "corrective pattern, caution first, defense preferred",
		}
	}
}

// RiskAssessment runs the four independent risk/opportunity checks and
// grades overall risk by the number of risk notes.
func (e *MarketRuleEngine) RiskAssessment(quotes []entity.StockQuote, sentiment *entity.SentimentSummary, rankings []entity.ThemePopularity) entity.RiskAssessment {
	var risks, opportunities []string

	if len(quotes) > 0 {
		topGain := quotes[0].ChangePct
		if topGain > 8 {
			risks = append(risks, "short-term gains overextended, profit-taking pressure is building")
		} else if topGain > 5 {
			risks = append(risks, "several leaders are up sharply, watch for divergence")
		}
	}

	sentimentScore := sentimentValue(sentiment)
	if sentimentScore > 0.8 {
		risks = append(risks, "market sentiment is overheated, beware of a blow-off reversal")
	} else if sentimentScore < 0.3 {
		opportunities = append(opportunities, "sentiment is washed out, oversold rebound candidates may emerge")
	}

	if len(quotes) > 0 {
		avgAmount := meanAmount(topWindow(quotes))
		if avgAmount < 500_000 {
			risks = append(risks, "turnover is too thin to sustain an advance")
		} else if avgAmount > 2_000_000 {
			opportunities = append(opportunities, "turnover is active, market participation is broad")
		}
	}

	if len(rankings) > 0 {
		top := rankings[0]
		if top.PopularityScore > 9 {
			risks = append(risks, fmt.Sprintf("%s theme is crowded, chasing strength is risky", top.Name))
		} else if top.AvgChange > 5 {
			opportunities = append(opportunities, fmt.Sprintf("%s theme momentum is strong, worth continued attention", top.Name))
		}
	}

	var level entity.RiskLevel
	switch {
	case len(risks) >= 3:
		level = entity.RiskHigh
	case len(risks) >= 1:
		level = entity.RiskMedium
	default:
		level = entity.RiskLow
	}

	return entity.RiskAssessment{
		Level:              level,
		Risks:              risks,
		Opportunities:      opportunities,
		PositionSuggestion: positionSuggestion(level),
	}
}

// positionSuggestion is fixed per risk level, in percentage-of-capital terms.
func positionSuggestion(level entity.RiskLevel) string {
	switch level {
	case entity.RiskHigh:
		return "light, 30–50%"
	case entity.RiskMedium:
		return "moderate, 50–70%"
	default:
		return "active, 70–80%"
	}
}

// Strategy selects one of four canned templates from the strength/risk pair
// and appends a theme focus note when at least two themes are ranked.
func (e *MarketRuleEngine) Strategy(strength entity.MarketStrength, risk entity.RiskAssessment, rankings []entity.ThemePopularity) string {
	var b strings.Builder

	switch {
	case strength.Level == entity.StrengthStrong && risk.Level == entity.RiskLow:
		b.WriteString(`**Aggressive strategy**
- Position: 70-80%, participate actively
- Selection: leaders of strong themes, volume breakouts
- Execution: buy dips, let winners run, moderate chasing allowed
- Stop-loss: 5-8%, let profits run
`)
	case strength.Level == entity.StrengthStrong && risk.Level == entity.RiskMedium:
		b.WriteString(`**Structural strategy**
- Position: 50-70%, pick stocks selectively
- Selection: laggards within hot themes, low-base starters
- Execution: sell strength, buy weakness, swing trade, never chase
- Stop-loss: 5%, take profits promptly
`)
	case strength.Level == entity.StrengthChoppy:
		b.WriteString(`**Range-bound strategy**
- Position: 30-50%, stay flexible
- Selection: oversold rebounds, event-driven names
- Execution: quick in, quick out, preset exits both ways
- Stop-loss: 3-5%, enforced strictly
`)
	default:
		b.WriteString(`**Defensive strategy**
- Position: 20-30%, observe cautiously
- Selection: defensive names that resist drawdowns
- Execution: watch more, trade less, wait for stabilization
- Stop-loss: 3%, capital preservation first
`)
	}

	if len(rankings) >= 2 {
		b.WriteString(fmt.Sprintf(`
**Theme focus**
Watch closely: %s, %s
Approach: accumulate on pullbacks, never chase, keep stops in place
`, rankings[0].Name, rankings[1].Name))
	}

	return b.String()
}

// ThemeInsights grades the top three themes on sustainability, momentum and
// heat for the narrative.
func (e *MarketRuleEngine) ThemeInsights(rankings []entity.ThemePopularity) string {
	if len(rankings) == 0 {
		return "No clear theme is leading; the market lacks a main direction."
	}

	var b strings.Builder
	for i, theme := range rankings {
		if i >= 3 {
			break
		}

		sustainability := "low"
		if theme.PopularityScore > 7 {
			sustainability = "high"
		} else if theme.PopularityScore > 4 {
			sustainability = "medium"
		}

		momentum := "weak"
		if theme.AvgChange > 3 {
			momentum = "strong"
		} else if theme.AvgChange > 0 {
			momentum = "moderate"
		}

		heat := "ordinary"
		if theme.PopularityScore > 8 {
			heat = "hot"
		} else if theme.PopularityScore > 5 {
			heat = "active"
		}

		leaders := "no leader yet"
		if len(theme.LeadingStocks) > 0 {
			display := theme.LeadingStocks
			if len(display) > 2 {
				display = display[:2]
			}
			leaders = strings.Join(display, ", ")
		}

		b.WriteString(fmt.Sprintf(`**%d. %s**
- Sustainability: %s | Momentum: %s | Heat: %s
- Popularity: %.2f | Avg change: %.2f%%
- Leaders: %s
- Coverage: %d platforms | %d related news items

`, i+1, theme.Name, sustainability, momentum, heat,
			theme.PopularityScore, theme.AvgChange, leaders,
			theme.SourceCount, theme.NewsCount))
	}

	return strings.TrimRight(b.String(), "\n")
}

// Evaluate derives the full assessment for a dataset. With no quotes the
// narrative degrades to the fixed insufficient-data template.
func (e *MarketRuleEngine) Evaluate(dataset entity.AnalysisDataset) Assessment {
	strength := e.MarketStrength(dataset.HotStocks, dataset.Sentiment)
	risk := e.RiskAssessment(dataset.HotStocks, dataset.Sentiment, dataset.ThemeRanking)
	strategy := e.Strategy(strength, risk, dataset.ThemeRanking)

	if len(dataset.HotStocks) == 0 {
		e.log.Warn("No hot stock data, using insufficient-data narrative")
		return Assessment{
			Strength:  strength,
			Risk:      risk,
			Strategy:  strategy,
			Narrative: InsufficientDataNarrative,
		}
	}

	return Assessment{
		Strength:  strength,
		Risk:      risk,
		Strategy:  strategy,
		Narrative: e.narrative(strength, risk, strategy, dataset.ThemeRanking),
	}
}

func (e *MarketRuleEngine) narrative(strength entity.MarketStrength, risk entity.RiskAssessment, strategy string, rankings []entity.ThemePopularity) string {
	riskLines := "- market risk appears contained"
	if len(risk.Risks) > 0 {
		riskLines = "- " + strings.Join(risk.Risks, "\n- ")
	}

	opportunityLines := "- wait patiently for a better entry"
	if len(risk.Opportunities) > 0 {
		opportunityLines = "- " + strings.Join(risk.Opportunities, "\n- ")
	}

	return fmt.Sprintf(`# Market Intelligence Report

## Market Strength
**Level**: %s
**Score**: %.1f/10
**Features**: %s

## Theme Deep Dive
%s

## Risk Assessment
**Risk level**: %s
**Position**: %s

**Key risks**:
%s

**Opportunities**:
%s

## Strategy
%s
---
*rule engine*`,
		strength.Level, strength.Score, strength.Features,
		e.ThemeInsights(rankings),
		risk.Level, risk.PositionSuggestion,
		riskLines, opportunityLines, strategy)
}
