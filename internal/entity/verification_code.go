package entity

import (
	"time"

	"github.com/google/uuid"
)

// VerificationCode maps a user to the bcrypt hash of a 6-digit one-time
// code. At most one live record exists per user: creating a replacement
// deletes the old record first.
type VerificationCode struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	CodeHash string `gorm:"type:text;not null"`
	Tries    int    `gorm:"not null;default:0"`

	ExpiresAt time.Time
	CreatedAt time.Time
}
