package analysis

import "time"

// EmotionalSnapshot is the 4-axis sentiment score computed for one caller
// utterance. Axes are bounded 0..1; Overall is a signed weighted combination
// bounded -1..1. Consumers rescale for display.
type EmotionalSnapshot struct {
	Anxiety    float64   `json:"anxiety"`
	Agitation  float64   `json:"agitation"`
	Confusion  float64   `json:"confusion"`
	Positivity float64   `json:"positivity"`
	Overall    float64   `json:"overall"`
	Timestamp  time.Time `json:"timestamp"`
}

// Scorer maps free text to an EmotionalSnapshot using the injected lexicon.
// It is pure and never fails: unscoreable text degrades to all-zero.
type Scorer struct {
	lex     *Lexicon
	weights SentimentWeights
}

func NewScorer(lex *Lexicon, weights SentimentWeights) *Scorer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Scorer{lex: lex, weights: weights}
}

func (s *Scorer) Analyze(text string, at time.Time) EmotionalSnapshot {
	snap := EmotionalSnapshot{Timestamp: at}

	normalized := normalize(text)
	words := len(tokens(text))
	if normalized == "" || words == 0 {
		return snap
	}

	// Marker hits normalized by utterance length so a long ramble does not
	// out-score a short direct statement.
	axis := func(markers []string) float64 {
		return clamp(float64(countMarkers(normalized, markers))/float64(words)*2, 0, 1)
	}

	snap.Anxiety = axis(s.lex.Anxiety)
	snap.Agitation = axis(s.lex.Agitation)
	snap.Confusion = axis(s.lex.Confusion)
	snap.Positivity = axis(s.lex.Positivity)

	snap.Overall = clamp(
		snap.Positivity*s.weights.Positivity-
			snap.Anxiety*s.weights.Anxiety-
			snap.Agitation*s.weights.Agitation-
			snap.Confusion*s.weights.Confusion,
		-1, 1)

	return snap
}
