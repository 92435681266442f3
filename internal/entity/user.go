package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus is the coarse lifecycle position of a user identity.
// Anonymous is never persisted; it only exists as a token claim.
type AccountStatus string

const (
	StatusAnonymous         AccountStatus = "anonymous"
	StatusEmailVerification AccountStatus = "email_verification"
	StatusOnboarding        AccountStatus = "onboarding"
	StatusOnboardingOAuth   AccountStatus = "onboarding_oauth"
	StatusActive            AccountStatus = "active"
	StatusLocked            AccountStatus = "locked"
	StatusBanned            AccountStatus = "banned"
	StatusSoftDeleted       AccountStatus = "soft_deleted"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username string    `gorm:"type:varchar(64);uniqueIndex;not null"`

	PasswordHash string        `gorm:"type:text;not null" json:"-"`
	Status       AccountStatus `gorm:"type:varchar(32);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
