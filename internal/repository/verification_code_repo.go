package repository

import (
	"context"
	"errors"

	"studyhall/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VerificationCodeRepository interface {
	// Replace deletes any live record for the same user before inserting
	// the new one, so at most one record per user exists.
	Replace(ctx context.Context, record *entity.VerificationCode) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.VerificationCode, error)
	UpdateTries(ctx context.Context, id uuid.UUID, tries int) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) error
}

type verificationCodeRepository struct {
	db *gorm.DB
}

func NewVerificationCodeRepository(db *gorm.DB) VerificationCodeRepository {
	return &verificationCodeRepository{db: db}
}

func (r *verificationCodeRepository) Replace(ctx context.Context, record *entity.VerificationCode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", record.UserID).
			Delete(&entity.VerificationCode{}).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
}

func (r *verificationCodeRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.VerificationCode, error) {
	var record entity.VerificationCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > NOW()", userID).
		First(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *verificationCodeRepository) UpdateTries(ctx context.Context, id uuid.UUID, tries int) error {
	return r.db.WithContext(ctx).
		Model(&entity.VerificationCode{}).
		Where("id = ?", id).
		Update("tries", tries).
		Error
}

func (r *verificationCodeRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.VerificationCode{}).
		Error
}

func (r *verificationCodeRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < NOW()").
		Delete(&entity.VerificationCode{}).
		Error
}
