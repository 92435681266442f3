package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted half of a refresh credential. The raw
// token is a signed JWT embedding this record's ID; only the hash of the
// raw token is stored.
type RefreshToken struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	TokenHash string `gorm:"type:text;not null"`

	ExpiresAt time.Time
	CreatedAt time.Time
}
