package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProfilePeek is the public card shown in classroom member lists.
type ProfilePeek struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	DisplayName string `gorm:"type:varchar(100);not null"`
	PhotoURL    string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileDetail is the full profile, visible to the owner.
type ProfileDetail struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	FullName string `gorm:"type:varchar(255)"`
	Bio      string `gorm:"type:text"`
	School   string `gorm:"type:varchar(255)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
