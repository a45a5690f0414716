package services

import (
	"context"

	"github.com/hearthline/hearthline/internal/models"
	pgrepo "github.com/hearthline/hearthline/internal/repositories/postgres"
	"github.com/hearthline/hearthline/internal/utils"
)

type TranscriptService interface {
	ListByCall(ctx context.Context, callID string, limit int) ([]models.TranscriptEntry, error)
}

type transcriptService struct {
	transcripts pgrepo.TranscriptRepo
}

func NewTranscriptService(transcripts pgrepo.TranscriptRepo) TranscriptService {
	return &transcriptService{transcripts: transcripts}
}

func (s *transcriptService) ListByCall(ctx context.Context, callID string, limit int) ([]models.TranscriptEntry, error) {
	const op = "TranscriptService.ListByCall"

	if callID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "call_id is required", nil)
	}

	rows, err := s.transcripts.ListByCall(ctx, callID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list transcript", err)
	}
	return rows, nil
}
