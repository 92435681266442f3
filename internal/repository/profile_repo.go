package repository

import (
	"context"
	"errors"

	"studyhall/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	CreatePeek(ctx context.Context, peek *entity.ProfilePeek) error
	CreateDetail(ctx context.Context, detail *entity.ProfileDetail) error
	FindPeekByUser(ctx context.Context, userID uuid.UUID) (*entity.ProfilePeek, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) CreatePeek(ctx context.Context, peek *entity.ProfilePeek) error {
	return r.db.WithContext(ctx).Create(peek).Error
}

func (r *profileRepository) CreateDetail(ctx context.Context, detail *entity.ProfileDetail) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

func (r *profileRepository) FindPeekByUser(ctx context.Context, userID uuid.UUID) (*entity.ProfilePeek, error) {
	var peek entity.ProfilePeek
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&peek).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &peek, nil
}

func (r *profileRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.ProfilePeek{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.ProfileDetail{}).
		Error
}
