package postgres

import (
	"context"

	"github.com/hearthline/hearthline/internal/models"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type TranscriptRepo interface {
	InsertBatch(ctx context.Context, entries []models.TranscriptEntry) error
	ListByCall(ctx context.Context, callID string, limit int) ([]models.TranscriptEntry, error)
	SetEmbedding(ctx context.Context, id string, embedding []float32) error
}

type transcriptRepo struct {
	db *gorm.DB
}

func NewTranscriptRepo(db *gorm.DB) TranscriptRepo {
	return &transcriptRepo{db: db}
}

func (r *transcriptRepo) InsertBatch(ctx context.Context, entries []models.TranscriptEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(entries, 100).Error
}

func (r *transcriptRepo) ListByCall(ctx context.Context, callID string, limit int) ([]models.TranscriptEntry, error) {
	if limit <= 0 {
		limit = 500
	}

	var rows []models.TranscriptEntry
	err := r.db.WithContext(ctx).
		Where("call_id = ?", callID).
		Order("timestamp ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *transcriptRepo) SetEmbedding(ctx context.Context, id string, embedding []float32) error {
	return r.db.WithContext(ctx).
		Model(&models.TranscriptEntry{}).
		Where("id = ?", id).
		Update("embedding", pgvector.NewVector(embedding)).Error
}
