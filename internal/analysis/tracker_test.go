package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*Session, time.Time) {
	t.Helper()
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return NewSession("call-1", start, DefaultLexicon(), DefaultWeights(), DefaultThresholds(), nil), start
}

func TestTrackUserUtteranceAppendsStateEveryTurn(t *testing.T) {
	s, start := newTestSession(t)

	require.NoError(t, s.TrackUserUtterance("good morning, I slept well", start, 120))
	require.NoError(t, s.TrackUserUtterance("I'm a little worried about my pills", start.Add(10*time.Second), 90))

	assert.Len(t, s.Interactions(), 2)
	assert.Len(t, s.MoodProgression(), 2)

	summary := s.GenerateSummary()
	assert.Equal(t, 2, summary.ConversationMetrics.UserTurns)
	assert.Equal(t, int64(105), summary.ConversationMetrics.AvgResponseLatencyMS)
	assert.NotEmpty(t, summary.ClinicalIndicators.MedicationMentions)
}

func TestDuplicateResponseSuppressedInsideWindow(t *testing.T) {
	s, start := newTestSession(t)

	recorded, err := s.TrackAssistantResponse("That sounds lovely, tell me more.", start)
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = s.TrackAssistantResponse("That sounds lovely, tell me more.", start.Add(2*time.Second))
	require.NoError(t, err)
	assert.False(t, recorded)

	assert.Len(t, s.Interactions(), 1)
}

func TestIdenticalResponseOutsideWindowIsNewTurn(t *testing.T) {
	s, start := newTestSession(t)

	recorded, err := s.TrackAssistantResponse("That sounds lovely.", start)
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = s.TrackAssistantResponse("That sounds lovely.", start.Add(2*time.Minute))
	require.NoError(t, err)
	assert.True(t, recorded)

	assert.Len(t, s.Interactions(), 2)
}

func TestCallerRepetitionIsNeverSuppressed(t *testing.T) {
	s, start := newTestSession(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.TrackUserUtterance("Where is Ryan?", start.Add(time.Duration(i)*time.Second), 0))
	}

	entry, ok := s.Repetitions()["where is ryan"]
	require.True(t, ok)
	assert.Equal(t, 3, entry.Count)
	assert.Len(t, entry.Timestamps, 3)

	summary := s.GenerateSummary()
	assert.Greater(t, summary.ClinicalIndicators.RepetitionScore, DefaultThresholds().HighRepetition)
}

func TestTrackInterruption(t *testing.T) {
	s, start := newTestSession(t)

	require.NoError(t, s.TrackInterruption(start))
	require.NoError(t, s.TrackInterruption(start.Add(time.Second)))

	summary := s.GenerateSummary()
	assert.Equal(t, 2, summary.ConversationMetrics.Interruptions)
}

func TestEscalationFunctionBumpsHospitalCounter(t *testing.T) {
	s, start := newTestSession(t)

	require.NoError(t, s.TrackFunctionCall("transfer_to_nurse", map[string]any{"reason": "caller request"}, start))
	require.NoError(t, s.TrackFunctionCall("play_music", nil, start.Add(time.Second)))

	summary := s.GenerateSummary()
	assert.Equal(t, 1, summary.ClinicalIndicators.HospitalRequests)
}

func TestFunctionCallWithoutNameRejected(t *testing.T) {
	s, start := newTestSession(t)

	err := s.TrackFunctionCall("", nil, start)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing name")
	assert.Empty(t, s.Interactions())
}

func TestClosedSessionRejectsAllTracking(t *testing.T) {
	s, start := newTestSession(t)
	require.NoError(t, s.TrackUserUtterance("hello", start, 0))
	require.NoError(t, s.End(start.Add(time.Minute)))

	assert.ErrorIs(t, s.TrackUserUtterance("hello again", start.Add(2*time.Minute), 0), ErrSessionClosed)
	_, err := s.TrackAssistantResponse("hi", start.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, s.TrackInterruption(start.Add(2*time.Minute)), ErrSessionClosed)
	assert.ErrorIs(t, s.TrackFunctionCall("play_music", nil, start.Add(2*time.Minute)), ErrSessionClosed)
	assert.ErrorIs(t, s.End(start.Add(3*time.Minute)), ErrSessionClosed)

	assert.Len(t, s.Interactions(), 1)
}

func TestHospitalPainStaffScenario(t *testing.T) {
	s, start := newTestSession(t)

	require.NoError(t, s.TrackUserUtterance("I need to go to the hospital, my back hurts", start, 0))
	require.NoError(t, s.TrackUserUtterance("the nurses are being mean", start.Add(30*time.Second), 0))

	summary := s.GenerateSummary()
	assert.Equal(t, 1, summary.ClinicalIndicators.HospitalRequests)
	assert.Len(t, summary.ClinicalIndicators.PainComplaints, 1)
	assert.Len(t, summary.ClinicalIndicators.StaffComplaints, 1)
}

func TestRedirectionEffectivenessTracking(t *testing.T) {
	s, start := newTestSession(t)

	require.NoError(t, s.TrackUserUtterance("I'm worried and scared today", start, 0))

	recorded, err := s.TrackAssistantResponse("Let's talk about your garden instead.", start.Add(5*time.Second))
	require.NoError(t, err)
	require.True(t, recorded)

	require.NoError(t, s.TrackUserUtterance("oh the garden was lovely, thank you", start.Add(10*time.Second), 0))

	insights := s.GenerateCaregiverInsights()
	assert.Contains(t, insights.Recommendations["effective_redirections"], "Let's talk about your garden instead.")
}
