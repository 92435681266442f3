package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditRegister          AuditAction = "register"
	AuditEmailVerified     AuditAction = "email_verified"
	AuditRegistrationBurnt AuditAction = "registration_burnt"
	AuditLoginSuccess      AuditAction = "login_success"
	AuditLoginFailed       AuditAction = "login_failed"
	AuditMFAEnabled        AuditAction = "mfa_enabled"
	AuditMFAFailed         AuditAction = "mfa_failed"
	AuditRefreshRevoked    AuditAction = "refresh_revoked"
	AuditClassroomCreated  AuditAction = "classroom_created"
)

type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"constraint:OnDelete:SET NULL"`

	Action   AuditAction `gorm:"type:varchar(32);not null"`
	Metadata datatypes.JSON

	CreatedAt time.Time
}
