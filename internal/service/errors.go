package service

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidAccountStatus = errors.New("invalid account status")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrUserExists           = errors.New("email or username already taken")
	ErrUnauthorized         = errors.New("unauthorized")

	ErrVerificationCodeInvalid        = errors.New("verification code invalid")
	ErrVerificationInvalidID          = errors.New("no verification pending for subject")
	ErrVerificationTriesExceeded      = errors.New("verification tries exceeded")
	ErrEmailVerificationResendTooSoon = errors.New("verification email resent too soon")

	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenInvalid  = errors.New("refresh token mismatch")

	ErrMfaSetupNotInitiated = errors.New("mfa setup not initiated")
	ErrMfaAlreadyEnabled    = errors.New("mfa already enabled")
	ErrMfaInvalidUser       = errors.New("mfa factor belongs to another user")
	ErrMfaNotEnabled        = errors.New("mfa not enabled")
	ErrInvalidMfaType       = errors.New("invalid mfa type")
	ErrInvalidCode          = errors.New("invalid code")
	ErrInvalidRecoveryCode  = errors.New("invalid recovery code")

	ErrClassroomNotFound          = errors.New("classroom not found")
	ErrNotAMember                 = errors.New("not a member of classroom")
	ErrInsufficientPermission     = errors.New("insufficient permission")
	ErrClassroomNameAlreadyExists = errors.New("classroom name already exists")

	// ErrDatabase wraps persistence failures so storage details never
	// reach callers.
	ErrDatabase = errors.New("database error")
)
