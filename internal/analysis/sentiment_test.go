package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestScorer() *Scorer {
	return NewScorer(DefaultLexicon(), DefaultWeights())
}

func TestAnalyzeEmptyTextIsNeutral(t *testing.T) {
	s := newTestScorer()
	now := time.Now()

	for _, text := range []string{"", "   ", "\t\n", "..."} {
		snap := s.Analyze(text, now)
		assert.Zero(t, snap.Anxiety, "text=%q", text)
		assert.Zero(t, snap.Agitation, "text=%q", text)
		assert.Zero(t, snap.Confusion, "text=%q", text)
		assert.Zero(t, snap.Positivity, "text=%q", text)
		assert.Zero(t, snap.Overall, "text=%q", text)
	}
}

func TestAnalyzeAxesStayBounded(t *testing.T) {
	s := newTestScorer()
	now := time.Now()

	cases := []string{
		"scared scared scared scared",
		"I am so happy and glad, it was lovely, thank you",
		"angry mad furious upset hate",
		"confused lost confused lost confused",
		"a perfectly ordinary sentence about the garden",
	}
	for _, text := range cases {
		snap := s.Analyze(text, now)
		for name, v := range map[string]float64{
			"anxiety": snap.Anxiety, "agitation": snap.Agitation,
			"confusion": snap.Confusion, "positivity": snap.Positivity,
		} {
			assert.GreaterOrEqual(t, v, 0.0, "%s for %q", name, text)
			assert.LessOrEqual(t, v, 1.0, "%s for %q", name, text)
		}
		assert.GreaterOrEqual(t, snap.Overall, -1.0, "overall for %q", text)
		assert.LessOrEqual(t, snap.Overall, 1.0, "overall for %q", text)
	}
}

func TestAnalyzeSignOfOverall(t *testing.T) {
	s := newTestScorer()
	now := time.Now()

	anxious := s.Analyze("I'm scared and worried, something is wrong", now)
	assert.Positive(t, anxious.Anxiety)
	assert.Negative(t, anxious.Overall)

	pleased := s.Analyze("thank you, that was lovely", now)
	assert.Positive(t, pleased.Positivity)
	assert.Positive(t, pleased.Overall)
}

func TestAnalyzeAnxietyWeighsHeaviest(t *testing.T) {
	s := newTestScorer()
	now := time.Now()

	anxious := s.Analyze("I feel scared today honestly", now)
	confused := s.Analyze("I feel confused today honestly", now)
	assert.Less(t, anxious.Overall, confused.Overall)
}
