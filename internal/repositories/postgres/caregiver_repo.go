package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/hearthline/hearthline/internal/models"
	"github.com/hearthline/hearthline/internal/utils"
	"gorm.io/gorm"
)

type CaregiverRepo interface {
	GetByEmail(ctx context.Context, email string) (*models.Caregiver, error)
	GetByID(ctx context.Context, id string) (*models.Caregiver, error)
	TouchSignIn(ctx context.Context, id string, at time.Time) error
}

type caregiverRepo struct {
	db *gorm.DB
}

func NewCaregiverRepo(db *gorm.DB) CaregiverRepo {
	return &caregiverRepo{db: db}
}

func (r *caregiverRepo) GetByEmail(ctx context.Context, email string) (*models.Caregiver, error) {
	var row models.Caregiver
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *caregiverRepo) GetByID(ctx context.Context, id string) (*models.Caregiver, error) {
	var row models.Caregiver
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *caregiverRepo) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Caregiver{}).
		Where("id = ?", id).
		Update("last_sign_in_at", at.UTC()).Error
}
