package repository

import (
	"context"
	"errors"

	"studyhall/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error
	Find(ctx context.Context, userID, tokenID uuid.UUID) (*entity.RefreshToken, error)
	Delete(ctx context.Context, userID, tokenID uuid.UUID) error
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *refreshTokenRepository) Find(ctx context.Context, userID, tokenID uuid.UUID) (*entity.RefreshToken, error) {
	var token entity.RefreshToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ? AND expires_at > NOW()", userID, tokenID).
		First(&token).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) Delete(ctx context.Context, userID, tokenID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, tokenID).
		Delete(&entity.RefreshToken{}).
		Error
}

func (r *refreshTokenRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.RefreshToken{}).
		Error
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < NOW()").
		Delete(&entity.RefreshToken{}).
		Error
}
