package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/hearthline/hearthline/internal/models"
	"github.com/hearthline/hearthline/internal/utils"
	"gorm.io/gorm"
)

type ReportRepo interface {
	Insert(ctx context.Context, report *models.CallReport) error
	GetByCallID(ctx context.Context, callID string) (*models.CallReport, error)
	ListByResident(ctx context.Context, residentID string, limit int) ([]models.CallReport, error)
	ListByRiskLevel(ctx context.Context, riskLevel string, since time.Time, limit int) ([]models.CallReport, error)
	SetSecondOpinion(ctx context.Context, callID string, opinion []byte, status string) error
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepo {
	return &reportRepo{db: db}
}

func (r *reportRepo) Insert(ctx context.Context, report *models.CallReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepo) GetByCallID(ctx context.Context, callID string) (*models.CallReport, error) {
	var row models.CallReport
	err := r.db.WithContext(ctx).Where("call_id = ?", callID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *reportRepo) ListByResident(ctx context.Context, residentID string, limit int) ([]models.CallReport, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.CallReport
	err := r.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *reportRepo) ListByRiskLevel(ctx context.Context, riskLevel string, since time.Time, limit int) ([]models.CallReport, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.CallReport
	err := r.db.WithContext(ctx).
		Where("risk_level = ? AND created_at >= ?", riskLevel, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *reportRepo) SetSecondOpinion(ctx context.Context, callID string, opinion []byte, status string) error {
	updates := map[string]any{
		"second_opinion_status": status,
		"updated_at":            time.Now().UTC(),
	}
	if len(opinion) > 0 {
		updates["second_opinion"] = opinion
	}
	return r.db.WithContext(ctx).
		Model(&models.CallReport{}).
		Where("call_id = ?", callID).
		Updates(updates).Error
}
