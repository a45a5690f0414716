package workers

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthline/hearthline/internal/models"
)

type fakeTranscripts struct {
	embedded map[string][]float32
}

func (f *fakeTranscripts) InsertBatch(_ context.Context, _ []models.TranscriptEntry) error {
	return nil
}

func (f *fakeTranscripts) ListByCall(_ context.Context, _ string, _ int) ([]models.TranscriptEntry, error) {
	return nil, nil
}

func (f *fakeTranscripts) SetEmbedding(_ context.Context, id string, embedding []float32) error {
	f.embedded[id] = embedding
	return nil
}

type fakeEmbedder struct {
	failOn string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if text == f.failOn {
		return nil, errors.New("embed unavailable")
	}
	return []float32{float32(len(text)), 1}, nil
}

func TestParseSecondOpinionPlainJSON(t *testing.T) {
	raw := `{"anxiety":0.7,"agitation":0.1,"confusion":0.4,"positivity":0.2,"risk_level":"elevated","rationale":"anxious about pain"}`

	op, err := parseSecondOpinion(raw)
	require.NoError(t, err)
	assert.Equal(t, 0.7, op.Anxiety)
	assert.Equal(t, "elevated", op.RiskLevel)
}

func TestParseSecondOpinionStripsFences(t *testing.T) {
	raw := "Here is my assessment:\n```json\n{\"anxiety\":0.2,\"risk_level\":\"routine\"}\n```\n"

	op, err := parseSecondOpinion(raw)
	require.NoError(t, err)
	assert.Equal(t, "routine", op.RiskLevel)
}

func TestParseSecondOpinionRejectsGarbage(t *testing.T) {
	_, err := parseSecondOpinion("I cannot assess this call.")
	assert.Error(t, err)
}

func TestEmbedTranscriptStoresVectorsForSpokenTurns(t *testing.T) {
	transcripts := &fakeTranscripts{embedded: map[string][]float32{}}
	pool := &ReviewWorkerPool{
		Transcripts: transcripts,
		Embedder:    &fakeEmbedder{failOn: "the nurses are being mean"},
		Logger:      logrus.New(),
	}
	log := pool.Logger.WithField("call_id", "call-1")

	entries := []models.TranscriptEntry{
		{ID: "e1", Role: "user_utterance", Text: "where is ryan"},
		{ID: "e2", Role: "interruption"},
		{ID: "e3", Role: "user_utterance", Text: "the nurses are being mean"},
		{ID: "e4", Role: "assistant_response", Text: "let's talk about your garden"},
	}
	pool.embedTranscript(context.Background(), log, entries)

	assert.Contains(t, transcripts.embedded, "e1")
	assert.Contains(t, transcripts.embedded, "e4")
	assert.NotContains(t, transcripts.embedded, "e2", "no text to embed")
	assert.NotContains(t, transcripts.embedded, "e3", "embed failure skips the entry")
	assert.NotEmpty(t, transcripts.embedded["e1"])
}

func TestEmbedTranscriptNoopWithoutEmbedder(t *testing.T) {
	transcripts := &fakeTranscripts{embedded: map[string][]float32{}}
	pool := &ReviewWorkerPool{Transcripts: transcripts, Logger: logrus.New()}
	log := pool.Logger.WithField("call_id", "call-1")

	pool.embedTranscript(context.Background(), log, []models.TranscriptEntry{
		{ID: "e1", Role: "user_utterance", Text: "hello"},
	})
	assert.Empty(t, transcripts.embedded)
}
