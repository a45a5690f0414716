package services

import (
	"context"
	"errors"
	"time"

	"github.com/hearthline/hearthline/internal/cache"
	"github.com/hearthline/hearthline/internal/models"
	pgrepo "github.com/hearthline/hearthline/internal/repositories/postgres"
	"github.com/hearthline/hearthline/internal/utils"
)

const reportCacheTTL = 10 * time.Minute

type ReportService interface {
	GetByCallID(ctx context.Context, callID string) (*models.CallReport, error)
	ListByResident(ctx context.Context, residentID string, limit int) ([]models.CallReport, error)
	ListCritical(ctx context.Context, since time.Time, limit int) ([]models.CallReport, error)
}

type reportService struct {
	reports pgrepo.ReportRepo
	cache   cache.Cache
}

func NewReportService(reports pgrepo.ReportRepo, c cache.Cache) ReportService {
	return &reportService{reports: reports, cache: c}
}

func (s *reportService) GetByCallID(ctx context.Context, callID string) (*models.CallReport, error) {
	const op = "ReportService.GetByCallID"

	if callID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "call_id is required", nil)
	}

	key := "report:" + callID
	if s.cache != nil {
		var cached models.CallReport
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	row, err := s.reports.GetByCallID(ctx, callID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "report not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get report", err)
	}

	if s.cache != nil && row.SecondOpinionStatus != "pending" {
		_ = s.cache.SetJSON(ctx, key, row, reportCacheTTL)
	}
	return row, nil
}

func (s *reportService) ListByResident(ctx context.Context, residentID string, limit int) ([]models.CallReport, error) {
	const op = "ReportService.ListByResident"

	if residentID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resident_id is required", nil)
	}

	rows, err := s.reports.ListByResident(ctx, residentID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list reports", err)
	}
	return rows, nil
}

func (s *reportService) ListCritical(ctx context.Context, since time.Time, limit int) ([]models.CallReport, error) {
	const op = "ReportService.ListCritical"

	rows, err := s.reports.ListByRiskLevel(ctx, "critical", since, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list critical reports", err)
	}
	return rows, nil
}
