package enrich

import "github.com/jonreiter/govader"

// VaderScorer scores text with the VADER lexicon model. Its compound score is
// already normalized to [-1, 1], matching the polarity contract of Scorer.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer builds a scorer with the default VADER lexicon.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns the compound sentiment score for text.
func (s *VaderScorer) Polarity(text string) float64 {
	return s.analyzer.PolarityScores(text).Compound
}
