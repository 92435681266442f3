package repository

import (
	"context"
	"errors"

	"studyhall/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MFAFactorRepository interface {
	Create(ctx context.Context, factor *entity.MFAFactor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MFAFactor, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]entity.MFAFactor, error)
	FindEnabledByUser(ctx context.Context, userID uuid.UUID) ([]entity.MFAFactor, error)
	Update(ctx context.Context, factor *entity.MFAFactor) error
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
}

type mfaFactorRepository struct {
	db *gorm.DB
}

func NewMFAFactorRepository(db *gorm.DB) MFAFactorRepository {
	return &mfaFactorRepository{db: db}
}

func (r *mfaFactorRepository) Create(ctx context.Context, factor *entity.MFAFactor) error {
	return r.db.WithContext(ctx).Create(factor).Error
}

func (r *mfaFactorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MFAFactor, error) {
	var factor entity.MFAFactor
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&factor).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &factor, nil
}

func (r *mfaFactorRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]entity.MFAFactor, error) {
	var factors []entity.MFAFactor
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&factors).Error
	if err != nil {
		return nil, err
	}
	return factors, nil
}

func (r *mfaFactorRepository) FindEnabledByUser(ctx context.Context, userID uuid.UUID) ([]entity.MFAFactor, error) {
	var factors []entity.MFAFactor
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND enabled = true", userID).
		Find(&factors).Error
	if err != nil {
		return nil, err
	}
	return factors, nil
}

func (r *mfaFactorRepository) Update(ctx context.Context, factor *entity.MFAFactor) error {
	return r.db.WithContext(ctx).Save(factor).Error
}

func (r *mfaFactorRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.MFAFactor{}).
		Error
}
