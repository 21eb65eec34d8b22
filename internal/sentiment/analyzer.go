// Package sentiment scores the emotional tone of inbound lead messages
// and tracks how it moves across a conversation.
package sentiment

import (
	"strings"
)

// Category buckets a sentiment score.
type Category string

const (
	CategoryPositive Category = "positive"
	CategoryNegative Category = "negative"
	CategoryNeutral  Category = "neutral"
)

// Trend describes the direction of a lead's recent sentiment.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
	TrendUnknown   Trend = "unknown"
)

// Snapshot is the per-turn sentiment summary handed to context assembly.
type Snapshot struct {
	Score    float64  `json:"score"`
	Category Category `json:"category"`
	Trend    Trend    `json:"trend"`
}

// Config carries the classification thresholds and trend window.
type Config struct {
	PositiveThreshold float64
	NegativeThreshold float64
	TrendWindow       int
	TrendDelta        float64
}

// DefaultConfig returns the standard thresholds: scores above 0.1 are
// positive, below -0.1 negative, trend over the last 5 scored messages.
func DefaultConfig() Config {
	return Config{
		PositiveThreshold: 0.1,
		NegativeThreshold: -0.1,
		TrendWindow:       5,
		TrendDelta:        0.1,
	}
}

// Analyzer is a lexicon-based sentiment scorer. Scoring never fails:
// empty or unscorable text yields 0.0 / neutral.
type Analyzer struct {
	cfg Config

	positive map[string]struct{}
	negative map[string]struct{}
}

// NewAnalyzer builds an analyzer with the supplied config, filling
// zero-valued fields from DefaultConfig.
func NewAnalyzer(cfg Config) *Analyzer {
	def := DefaultConfig()
	if cfg.PositiveThreshold == 0 {
		cfg.PositiveThreshold = def.PositiveThreshold
	}
	if cfg.NegativeThreshold == 0 {
		cfg.NegativeThreshold = def.NegativeThreshold
	}
	if cfg.TrendWindow <= 0 {
		cfg.TrendWindow = def.TrendWindow
	}
	if cfg.TrendDelta == 0 {
		cfg.TrendDelta = def.TrendDelta
	}
	return &Analyzer{
		cfg:      cfg,
		positive: toSet(positiveLexicon),
		negative: toSet(negativeLexicon),
	}
}

// Analyze returns a score in [-1.0, 1.0]. The score is the balance of
// positive and negative lexicon hits; text with no hits scores 0.0.
func (a *Analyzer) Analyze(text string) float64 {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return 0.0
	}

	var pos, neg int
	for _, phrase := range positivePhrases {
		if strings.Contains(normalized, phrase) {
			pos++
		}
	}
	for _, phrase := range negativePhrases {
		if strings.Contains(normalized, phrase) {
			neg++
		}
	}
	for _, token := range tokenize(normalized) {
		if _, ok := a.positive[token]; ok {
			pos++
		}
		if _, ok := a.negative[token]; ok {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return 0.0
	}
	return (float64(pos) - float64(neg)) / float64(total)
}

// Classify buckets a score using the configured thresholds. The
// boundaries are exclusive: exactly threshold is neutral.
func (a *Analyzer) Classify(score float64) Category {
	switch {
	case score > a.cfg.PositiveThreshold:
		return CategoryPositive
	case score < a.cfg.NegativeThreshold:
		return CategoryNegative
	default:
		return CategoryNeutral
	}
}

// HistoryTrend compares the most recent half of the score window
// against the earlier half. Scores are expected oldest first. Fewer
// than two scores yields TrendUnknown.
func (a *Analyzer) HistoryTrend(scores []float64) Trend {
	if len(scores) > a.cfg.TrendWindow {
		scores = scores[len(scores)-a.cfg.TrendWindow:]
	}
	if len(scores) < 2 {
		return TrendUnknown
	}

	mid := len(scores) / 2
	earlyAvg := average(scores[:mid])
	recentAvg := average(scores[mid:])

	switch {
	case recentAvg > earlyAvg+a.cfg.TrendDelta:
		return TrendImproving
	case recentAvg < earlyAvg-a.cfg.TrendDelta:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Snapshot computes the full per-turn summary for one score and the
// lead's prior score history.
func (a *Analyzer) Snapshot(score float64, history []float64) Snapshot {
	return Snapshot{
		Score:    score,
		Category: a.Classify(score),
		Trend:    a.HistoryTrend(history),
	}
}

func average(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'':
			return false
		}
		return true
	})
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
