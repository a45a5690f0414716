package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoherenceContinuationScoresHigh(t *testing.T) {
	recent := []string{
		"do you remember your garden?",
		"I used to grow roses in the garden",
	}
	got := Coherence("the roses in my garden were beautiful", recent)
	assert.Greater(t, got, 0.5)
}

func TestCoherenceNonSequiturScoresLow(t *testing.T) {
	recent := []string{
		"do you remember your garden?",
		"I used to grow roses in the garden",
	}
	got := Coherence("someone took my car keys yesterday", recent)
	assert.Less(t, got, 0.3)
}

func TestCoherenceNeutralWithoutContext(t *testing.T) {
	assert.Equal(t, 0.5, Coherence("hello there, how are you", nil))
	assert.Equal(t, 0.5, Coherence("", []string{"some earlier turn"}))
}

func TestCoherenceBounded(t *testing.T) {
	recent := []string{"roses roses roses"}
	got := Coherence("roses roses roses roses", recent)
	assert.LessOrEqual(t, got, 1.0)
	assert.GreaterOrEqual(t, got, 0.0)
}
