package services

import (
	"context"
	"testing"
	"time"

	"github.com/hearthline/hearthline/internal/models"
	"github.com/hearthline/hearthline/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCallRepo struct {
	calls map[string]*models.Call
}

func (f *fakeCallRepo) Create(_ context.Context, c *models.Call) error {
	f.calls[c.CallID] = c
	return nil
}

func (f *fakeCallRepo) GetByCallID(_ context.Context, callID string) (*models.Call, error) {
	c, ok := f.calls[callID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return c, nil
}

func (f *fakeCallRepo) End(_ context.Context, callID string, endedAt time.Time, durationSeconds int64) error {
	c := f.calls[callID]
	c.Status = "ended"
	c.EndedAt = &endedAt
	c.DurationSeconds = durationSeconds
	return nil
}

func (f *fakeCallRepo) ListByResident(_ context.Context, residentID string, _ int64) ([]models.Call, error) {
	var out []models.Call
	for _, c := range f.calls {
		if c.ResidentID == residentID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeTranscriptRepo struct {
	entries []models.TranscriptEntry
}

func (f *fakeTranscriptRepo) InsertBatch(_ context.Context, entries []models.TranscriptEntry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeTranscriptRepo) ListByCall(_ context.Context, callID string, _ int) ([]models.TranscriptEntry, error) {
	var out []models.TranscriptEntry
	for _, e := range f.entries {
		if e.CallID == callID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeTranscriptRepo) SetEmbedding(_ context.Context, _ string, _ []float32) error {
	return nil
}

type fakeReportRepo struct {
	reports map[string]*models.CallReport
}

func (f *fakeReportRepo) Insert(_ context.Context, r *models.CallReport) error {
	f.reports[r.CallID] = r
	return nil
}

func (f *fakeReportRepo) GetByCallID(_ context.Context, callID string) (*models.CallReport, error) {
	r, ok := f.reports[callID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return r, nil
}

func (f *fakeReportRepo) ListByResident(_ context.Context, _ string, _ int) ([]models.CallReport, error) {
	return nil, nil
}

func (f *fakeReportRepo) ListByRiskLevel(_ context.Context, _ string, _ time.Time, _ int) ([]models.CallReport, error) {
	return nil, nil
}

func (f *fakeReportRepo) SetSecondOpinion(_ context.Context, callID string, opinion []byte, status string) error {
	if r, ok := f.reports[callID]; ok {
		r.SecondOpinion = opinion
		r.SecondOpinionStatus = status
	}
	return nil
}

func newTestCallService(t *testing.T) (CallService, *fakeTranscriptRepo, *fakeReportRepo) {
	t.Helper()
	transcripts := &fakeTranscriptRepo{}
	reports := &fakeReportRepo{reports: map[string]*models.CallReport{}}
	svc := NewCallService(
		&fakeCallRepo{calls: map[string]*models.Call{}},
		transcripts,
		reports,
		nil,
		DefaultEngineConfig(),
		nil,
	)
	return svc, transcripts, reports
}

func TestCallLifecycleProducesReportAndTranscript(t *testing.T) {
	svc, transcripts, reports := newTestCallService(t)
	ctx := context.Background()

	call, err := svc.Start(ctx, "resident-1", "phone", nil)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, svc.TrackUserUtterance(call.CallID, "I need to go to the hospital, my back hurts", now, 150))
	recorded, err := svc.TrackAssistantResponse(call.CallID, "I hear you. Let's talk about what hurts.", now.Add(2*time.Second))
	require.NoError(t, err)
	assert.True(t, recorded)
	require.NoError(t, svc.TrackInterruption(call.CallID, now.Add(3*time.Second)))

	report, err := svc.End(ctx, call.CallID)
	require.NoError(t, err)
	assert.Equal(t, call.CallID, report.CallID)
	assert.Equal(t, "elevated", report.RiskLevel)
	assert.NotEmpty(t, report.Summary)
	assert.NotEmpty(t, report.Insights)

	stored, err := reports.GetByCallID(ctx, call.CallID)
	require.NoError(t, err)
	assert.Equal(t, report.RiskLevel, stored.RiskLevel)

	entries, err := transcripts.ListByCall(ctx, call.CallID, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestTrackingUnknownCallFails(t *testing.T) {
	svc, _, _ := newTestCallService(t)

	err := svc.TrackUserUtterance("missing", "hello", time.Now(), 0)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestTrackingAfterEndRejected(t *testing.T) {
	svc, _, _ := newTestCallService(t)
	ctx := context.Background()

	call, err := svc.Start(ctx, "resident-1", "chat", nil)
	require.NoError(t, err)

	_, err = svc.End(ctx, call.CallID)
	require.NoError(t, err)

	// session removed at end: late events surface as not-found, never
	// silently tracked
	err = svc.TrackUserUtterance(call.CallID, "hello?", time.Now(), 0)
	assert.Error(t, err)
}
