package service

import (
	"sort"
	"strings"

	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/logger"
	"golang-market-analyzer/pkg/utils"
)

const (
	maxRankedThemes   = 10
	maxDisplayedItems = 3

	popularityWeightCount   = 0.4
	popularityWeightChange  = 0.3
	popularityWeightNews    = 0.2
	popularityWeightSources = 0.1
)

// themeStat accumulates mentions of one theme name across sources. Counts
// are kept for the full sets even though display lists are capped.
type themeStat struct {
	count         int
	totalChange   float64
	sources       map[string]struct{}
	leadingSeen   map[string]struct{}
	leadingStocks []string
	relatedNews   []entity.NewsRef
	newsCount     int
}

// ThemeAggregator merges theme mentions from multiple sources into a ranked
// popularity list, cross-referencing news coverage.
type ThemeAggregator struct {
	log *logger.Logger
}

// NewThemeAggregator creates a new ThemeAggregator.
func NewThemeAggregator(log *logger.Logger) *ThemeAggregator {
	return &ThemeAggregator{log: log}
}

// Aggregate groups themes by name, attaches matching news, scores each theme
// and returns the top 10 by popularity. Ties keep the order in which theme
// names first appeared in the input.
func (a *ThemeAggregator) Aggregate(themes []entity.Theme, news []entity.NewsItem) []entity.ThemePopularity {
	if len(themes) == 0 {
		return nil
	}

	stats := make(map[string]*themeStat)
	var order []string

	for _, theme := range themes {
		stat, ok := stats[theme.Name]
		if !ok {
			stat = &themeStat{
				sources:     make(map[string]struct{}),
				leadingSeen: make(map[string]struct{}),
			}
			stats[theme.Name] = stat
			order = append(order, theme.Name)
		}

		stat.count++
		stat.totalChange += theme.ChangePct
		stat.sources[theme.Source] = struct{}{}

		if !utils.IsBlank(theme.LeadingStock) {
			if _, seen := stat.leadingSeen[theme.LeadingStock]; !seen {
				stat.leadingSeen[theme.LeadingStock] = struct{}{}
				stat.leadingStocks = append(stat.leadingStocks, theme.LeadingStock)
			}
		}
	}

	// A news item may corroborate several themes; matches are counted in
	// full while only the first three are retained for display.
	for _, item := range news {
		newsText := strings.ToLower(item.Title + " " + item.Summary)
		for _, name := range order {
			if !strings.Contains(newsText, strings.ToLower(name)) {
				continue
			}
			stat := stats[name]
			stat.newsCount++
			if len(stat.relatedNews) < maxDisplayedItems {
				stat.relatedNews = append(stat.relatedNews, entity.NewsRef{
					Title:  item.Title,
					Source: item.Source,
					Link:   item.Link,
				})
			}
		}
	}

	ranking := make([]entity.ThemePopularity, 0, len(order))
	for _, name := range order {
		stat := stats[name]
		avgChange := stat.totalChange / float64(stat.count)
		sourceCount := len(stat.sources)

		score := float64(stat.count)*popularityWeightCount +
			(avgChange/10)*popularityWeightChange +
			float64(stat.newsCount)*popularityWeightNews +
			float64(sourceCount)*popularityWeightSources

		leading := stat.leadingStocks
		if len(leading) > maxDisplayedItems {
			leading = leading[:maxDisplayedItems]
		}

		ranking = append(ranking, entity.ThemePopularity{
			Name:            name,
			PopularityScore: utils.RoundTo(score, 2),
			Count:           stat.count,
			AvgChange:       utils.RoundTo(avgChange, 2),
			NewsCount:       stat.newsCount,
			SourceCount:     sourceCount,
			LeadingStocks:   leading,
			RelatedNews:     stat.relatedNews,
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].PopularityScore > ranking[j].PopularityScore
	})

	if len(ranking) > maxRankedThemes {
		ranking = ranking[:maxRankedThemes]
	}

	a.log.Debug("Aggregated theme popularity",
		logger.IntField("themes", len(themes)),
		logger.IntField("ranked", len(ranking)))

	return ranking
}
