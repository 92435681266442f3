package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MFAType string

const (
	MFATypeTOTP  MFAType = "totp"
	MFATypeEmail MFAType = "email"
)

// MFAFactor is a second factor registered by a user. A factor is usable
// for login-time verification only once Enabled is set; un-enabled
// factors exist only during setup. RecoveryCodes holds bcrypt hashes,
// written once on enable and overwritten on re-enable.
type MFAFactor struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Type    MFAType `gorm:"type:varchar(16);not null"`
	Secret  string  `gorm:"type:text;not null" json:"-"`
	Enabled bool    `gorm:"not null;default:false"`

	RecoveryCodes datatypes.JSON `json:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
