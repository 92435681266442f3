package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Classroom struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role carries a classroom-scoped permission set as an ordered pair of
// 32-bit words, low word first. The pair packs into a single wide
// integer for bit tests; see the permission package.
type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClassroomID uuid.UUID `gorm:"type:uuid;not null;index"`
	Classroom   Classroom `gorm:"constraint:OnDelete:CASCADE"`

	Name     string `gorm:"type:varchar(64);not null"`
	PermLow  uint32 `gorm:"not null;default:0"`
	PermHigh uint32 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PermissionWords returns the role's permission pair, low word first.
func (r *Role) PermissionWords() []uint32 {
	return []uint32{r.PermLow, r.PermHigh}
}

func (r *Role) SetPermissionWords(words []uint32) {
	r.PermLow, r.PermHigh = 0, 0
	if len(words) > 0 {
		r.PermLow = words[0]
	}
	if len(words) > 1 {
		r.PermHigh = words[1]
	}
}

// Membership links a user to a classroom through role ids, not through
// permission values; permissions are resolved at check time.
type Membership struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_membership_user_classroom,unique"`
	ClassroomID uuid.UUID `gorm:"type:uuid;not null;index:idx_membership_user_classroom,unique"`

	RoleIDs datatypes.JSON `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
