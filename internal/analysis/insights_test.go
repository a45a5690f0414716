package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshots(overalls ...float64) []EmotionalSnapshot {
	out := make([]EmotionalSnapshot, len(overalls))
	for i, v := range overalls {
		out[i] = EmotionalSnapshot{Overall: v}
	}
	return out
}

func TestCalculateTrendDirections(t *testing.T) {
	th := DefaultThresholds()

	improving := CalculateTrend(snapshots(-0.5, -0.1, 0.2, 0.6), th.TrendMinPoints, th.StableTrendBand)
	assert.Equal(t, TrendImproving, improving.Direction)
	assert.Positive(t, improving.Strength)

	declining := CalculateTrend(snapshots(0.6, 0.2, -0.1, -0.5), th.TrendMinPoints, th.StableTrendBand)
	assert.Equal(t, TrendDeclining, declining.Direction)

	stable := CalculateTrend(snapshots(0.1, 0.1, 0.1, 0.1), th.TrendMinPoints, th.StableTrendBand)
	assert.Equal(t, TrendStable, stable.Direction)
}

func TestCalculateTrendTooFewPoints(t *testing.T) {
	th := DefaultThresholds()
	got := CalculateTrend(snapshots(0.9, -0.9), th.TrendMinPoints, th.StableTrendBand)
	assert.Equal(t, TrendIndeterminate, got.Direction)
}

func TestDetectEmotionalShift(t *testing.T) {
	th := DefaultThresholds()

	big := DetectEmotionalShift(EmotionalSnapshot{Overall: 0.5}, EmotionalSnapshot{Overall: -0.3}, th.SignificantShift)
	assert.InDelta(t, 0.8, big.Magnitude, 1e-9)
	assert.Equal(t, "negative", big.Direction)
	assert.True(t, big.Significant)

	small := DetectEmotionalShift(EmotionalSnapshot{Overall: 0.1}, EmotionalSnapshot{Overall: 0.2}, th.SignificantShift)
	assert.Equal(t, "positive", small.Direction)
	assert.False(t, small.Significant)

	flat := DetectEmotionalShift(EmotionalSnapshot{Overall: 0.1}, EmotionalSnapshot{Overall: 0.1}, th.SignificantShift)
	assert.Equal(t, "none", flat.Direction)
}

func TestInsightsSurfaceSignificantShifts(t *testing.T) {
	s, start := newTestSession(t)

	require.NoError(t, s.TrackUserUtterance("what a lovely morning, thank you", start, 0))
	require.NoError(t, s.TrackUserUtterance("help me, I'm scared and terrified, something is wrong", start.Add(time.Minute), 0))
	require.NoError(t, s.End(start.Add(2*time.Minute)))

	insights := s.GenerateCaregiverInsights()
	require.Len(t, insights.SignificantShifts, 1)

	shift := insights.SignificantShifts[0]
	assert.Equal(t, "negative", shift.Direction)
	assert.True(t, shift.Significant)
	assert.Greater(t, shift.Magnitude, DefaultThresholds().SignificantShift)
	assert.Equal(t, start.Add(time.Minute), shift.At)
}

func TestInsightsNoShiftsForSteadyMood(t *testing.T) {
	s, start := newTestSession(t)

	require.NoError(t, s.TrackUserUtterance("we had tea this afternoon", start, 0))
	require.NoError(t, s.TrackUserUtterance("then we listened to the radio", start.Add(time.Minute), 0))
	require.NoError(t, s.End(start.Add(2*time.Minute)))

	insights := s.GenerateCaregiverInsights()
	assert.Empty(t, insights.SignificantShifts)
}

func TestRiskCriticalOnRepeatedHospitalRequests(t *testing.T) {
	s, start := newTestSession(t)

	require.NoError(t, s.TrackUserUtterance("I need to go to the hospital", start, 0))
	require.NoError(t, s.TrackUserUtterance("please, I need to go to the hospital right now", start.Add(time.Minute), 0))
	require.NoError(t, s.End(start.Add(2*time.Minute)))

	insights := s.GenerateCaregiverInsights()
	assert.Equal(t, RiskCritical, insights.Risk.Level)
	assert.Contains(t, insights.Risk.Factors, "repeated hospital requests")
}

func TestRiskElevatedOnSingleHospitalRequest(t *testing.T) {
	s, start := newTestSession(t)

	require.NoError(t, s.TrackUserUtterance("do I need a doctor for this?", start, 0))
	require.NoError(t, s.End(start.Add(time.Minute)))

	insights := s.GenerateCaregiverInsights()
	assert.Equal(t, RiskElevated, insights.Risk.Level)
}

func TestRiskRoutineForPleasantCall(t *testing.T) {
	s, start := newTestSession(t)

	require.NoError(t, s.TrackUserUtterance("good morning, what a lovely day", start, 0))
	require.NoError(t, s.TrackUserUtterance("we watched the birds in the garden", start.Add(time.Minute), 0))
	require.NoError(t, s.End(start.Add(2*time.Minute)))

	insights := s.GenerateCaregiverInsights()
	assert.Equal(t, RiskRoutine, insights.Risk.Level)
	assert.Empty(t, insights.Risk.Factors)
	assert.Empty(t, insights.ImmediateAlerts)
}

func TestAlertsMirrorRiskFactors(t *testing.T) {
	s, start := newTestSession(t)

	require.NoError(t, s.TrackUserUtterance("my back hurts", start, 0))
	require.NoError(t, s.TrackUserUtterance("the nurses are ignoring me", start.Add(time.Minute), 0))
	require.NoError(t, s.TrackUserUtterance("they won't help and the staff are rude to me", start.Add(2*time.Minute), 0))
	require.NoError(t, s.End(start.Add(3*time.Minute)))

	insights := s.GenerateCaregiverInsights()
	assert.Len(t, insights.ImmediateAlerts, len(insights.Risk.Factors))
	assert.NotEmpty(t, insights.ImmediateAlerts)
}

func TestSummaryDurationFloor(t *testing.T) {
	s, start := newTestSession(t)
	require.NoError(t, s.End(start))

	summary := s.GenerateSummary()
	assert.Equal(t, int64(1), summary.CallMetadata.DurationSeconds)
}
