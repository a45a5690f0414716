package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher() *Matcher {
	return NewMatcher(DefaultLexicon(), DefaultThresholds())
}

func categories(matches []PatternMatch) []PatternCategory {
	var out []PatternCategory
	for _, m := range matches {
		out = append(out, m.Category)
	}
	return out
}

func TestDetectPatternsMultipleCategoriesOneUtterance(t *testing.T) {
	m := newTestMatcher()
	now := time.Now()

	matches := m.DetectPatterns("I need to go to the hospital, my back hurts", now)
	cats := categories(matches)
	assert.Contains(t, cats, PatternHospitalRequest)
	assert.Contains(t, cats, PatternPain)

	matches = m.DetectPatterns("the nurses are being mean", now)
	cats = categories(matches)
	assert.Contains(t, cats, PatternStaffComplaint)
	assert.NotContains(t, cats, PatternHospitalRequest)
}

func TestDetectPatternsEmptyText(t *testing.T) {
	m := newTestMatcher()
	assert.Empty(t, m.DetectPatterns("", time.Now()))
	assert.Empty(t, m.DetectPatterns("   ", time.Now()))
}

func TestPainIntensityGrading(t *testing.T) {
	m := newTestMatcher()
	now := time.Now()

	plain := m.DetectPatterns("my back hurts a bit", now)
	require.Len(t, categories(plain), 1)
	assert.InDelta(t, 0.5, plain[0].Intensity, 1e-9)

	severe := m.DetectPatterns("the pain is unbearable, worst pain of my life", now)
	var painMatch *PatternMatch
	for i := range severe {
		if severe[i].Category == PatternPain {
			painMatch = &severe[i]
		}
	}
	require.NotNil(t, painMatch)
	assert.Greater(t, painMatch.Intensity, 0.5)
}

func TestDetectSundowningRiskLevels(t *testing.T) {
	m := newTestMatcher()

	low := m.DetectSundowningRisk(10, BehaviorFlags{})
	assert.Equal(t, RiskLow, low.Level)
	assert.Empty(t, low.Factors)

	moderate := m.DetectSundowningRisk(18, BehaviorFlags{Agitation: true})
	assert.Equal(t, RiskModerate, moderate.Level)
	assert.Len(t, moderate.Factors, 2)

	high := m.DetectSundowningRisk(18, BehaviorFlags{Agitation: true, Confusion: true, DesireToLeave: true})
	assert.Equal(t, RiskHigh, high.Level)
	assert.Len(t, high.Factors, 4)
}

func TestAssessUTISuddenOnsetOutweighsGradual(t *testing.T) {
	m := newTestMatcher()

	sudden := m.AssessUTIIndicators(0.8, OnsetSudden)
	gradual := m.AssessUTIIndicators(0.8, OnsetGradual)
	assert.Equal(t, RiskHigh, sudden.Risk)
	assert.Equal(t, RiskModerate, gradual.Risk)
	assert.NotEmpty(t, sudden.Indicators)

	mild := m.AssessUTIIndicators(0.1, OnsetSudden)
	assert.Equal(t, RiskLow, mild.Risk)
}

func TestRepetitionScoreMonotoneInDuplicates(t *testing.T) {
	m := newTestMatcher()

	utterances := []string{"the weather is nice today"}
	prev := m.RepetitionScore(utterances)
	for i := 0; i < 4; i++ {
		utterances = append(utterances, "where is ryan")
		score := m.RepetitionScore(utterances)
		assert.GreaterOrEqual(t, score, prev, "after %d duplicates", i+1)
		prev = score
	}
	assert.Greater(t, prev, DefaultThresholds().HighRepetition)
}

func TestRepetitionScoreNeedsTwoUtterances(t *testing.T) {
	m := newTestMatcher()
	assert.Zero(t, m.RepetitionScore(nil))
	assert.Zero(t, m.RepetitionScore([]string{"only one"}))
}
