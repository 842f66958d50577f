package service

import (
	"fmt"
	"strings"

	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/logger"
	"golang-market-analyzer/pkg/utils"
)

// TopicScorer maps topic text to a continuous sentiment value in [0,1].
type TopicScorer interface {
	Score(text string) (float64, error)
}

// LexiconScorer is the default TopicScorer. It tallies bullish and bearish
// term occurrences and maps the balance onto [0,1], with 0.5 when no term
// matches.
type LexiconScorer struct {
	bullish []string
	bearish []string
}

// NewLexiconScorer returns a scorer with the built-in term lists.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{
		bullish: []string{
			"surge", "rally", "gain", "breakout", "record high", "bullish",
			"upside", "rebound", "strong", "buy", "limit up", "advance",
		},
		bearish: []string{
			"plunge", "slump", "loss", "breakdown", "record low", "bearish",
			"downside", "sell-off", "weak", "sell", "limit down", "decline",
		},
	}
}

// Score computes the sentiment of text.
func (s *LexiconScorer) Score(text string) (float64, error) {
	if utils.IsBlank(text) {
		return 0, fmt.Errorf("empty text")
	}

	lowered := strings.ToLower(text)
	var pos, neg int
	for _, term := range s.bullish {
		pos += strings.Count(lowered, term)
	}
	for _, term := range s.bearish {
		neg += strings.Count(lowered, term)
	}

	if pos+neg == 0 {
		return 0.5, nil
	}
	return 0.5 + 0.5*float64(pos-neg)/float64(pos+neg), nil
}

// SentimentClassifier scores topics and aggregates them into a market-level
// sentiment summary.
type SentimentClassifier struct {
	scorer TopicScorer
	log    *logger.Logger
	lo     float64
	hi     float64
}

// NewSentimentClassifier creates a classifier with the given thresholds.
// Values at exactly lo or hi classify as neutral.
func NewSentimentClassifier(scorer TopicScorer, log *logger.Logger, lo, hi float64) *SentimentClassifier {
	return &SentimentClassifier{
		scorer: scorer,
		log:    log,
		lo:     lo,
		hi:     hi,
	}
}

func (c *SentimentClassifier) classify(value float64) entity.SentimentClass {
	switch {
	case value > c.hi:
		return entity.SentimentPositive
	case value < c.lo:
		return entity.SentimentNegative
	default:
		return entity.SentimentNeutral
	}
}

// ScoreTopic scores a single topic. A scorer failure degrades to a neutral
// 0.5 and is logged, never propagated.
func (c *SentimentClassifier) ScoreTopic(topic entity.Topic) entity.SentimentScore {
	value, err := c.scorer.Score(topic.Text)
	if err != nil {
		c.log.Warn("Sentiment scoring failed, using neutral default",
			logger.ErrorField(err), logger.StringField("topic", topic.Text))
		return entity.SentimentScore{
			Topic:          topic.Text,
			Source:         topic.Source,
			Value:          0.5,
			Classification: entity.SentimentNeutral,
		}
	}

	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	return entity.SentimentScore{
		Topic:          topic.Text,
		Source:         topic.Source,
		Value:          value,
		Classification: c.classify(value),
	}
}

// Classify scores all topics and builds the aggregate summary. Zero topics
// yield a nil summary; consumers treat that as a neutral 0.5 default.
func (c *SentimentClassifier) Classify(topics []entity.Topic) *entity.SentimentSummary {
	if len(topics) == 0 {
		c.log.Debug("No topics available, skipping sentiment analysis")
		return nil
	}

	scores := make([]entity.SentimentScore, 0, len(topics))
	var total float64
	var positive, negative, neutral int
	for _, topic := range topics {
		score := c.ScoreTopic(topic)
		scores = append(scores, score)
		total += score.Value
		switch score.Classification {
		case entity.SentimentPositive:
			positive++
		case entity.SentimentNegative:
			negative++
		default:
			neutral++
		}
	}

	avg := total / float64(len(scores))
	effect, level := marketEffect(avg)

	return &entity.SentimentSummary{
		Scores:        scores,
		AvgSentiment:  utils.RoundTo(avg, 3),
		MarketEffect:  effect,
		EffectLevel:   level,
		PositiveCount: positive,
		NegativeCount: negative,
		NeutralCount:  neutral,
	}
}

// marketEffect maps average sentiment onto a market effect description.
func marketEffect(avg float64) (string, string) {
	switch {
	case avg > 0.6:
		return "pronounced profit-taking effect", "high"
	case avg > 0.5:
		return "mild profit effect", "medium"
	case avg > 0.4:
		return "mild loss effect", "medium"
	default:
		return "pronounced loss effect", "high"
	}
}
