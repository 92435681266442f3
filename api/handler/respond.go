package handler

import (
	"errors"
	"net/http"

	"studyhall/internal/service"

	"github.com/labstack/echo/v4"
)

func decodeJSON(c echo.Context, target any) error {
	if err := c.Bind(target); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error()})
}

// writeServiceError maps the named service outcomes onto HTTP statuses.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrUnauthorized):
		return writeError(c, http.StatusUnauthorized, err)
	case errors.Is(err, service.ErrInvalidAccountStatus),
		errors.Is(err, service.ErrNotAMember),
		errors.Is(err, service.ErrInsufficientPermission):
		return writeError(c, http.StatusForbidden, err)
	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrClassroomNameAlreadyExists),
		errors.Is(err, service.ErrMfaAlreadyEnabled):
		return writeError(c, http.StatusConflict, err)
	case errors.Is(err, service.ErrClassroomNotFound):
		return writeError(c, http.StatusNotFound, err)
	case errors.Is(err, service.ErrVerificationTriesExceeded):
		return writeError(c, http.StatusGone, err)
	case errors.Is(err, service.ErrEmailVerificationResendTooSoon):
		return writeError(c, http.StatusTooManyRequests, err)
	case errors.Is(err, service.ErrVerificationCodeInvalid),
		errors.Is(err, service.ErrVerificationInvalidID),
		errors.Is(err, service.ErrMfaSetupNotInitiated),
		errors.Is(err, service.ErrMfaInvalidUser),
		errors.Is(err, service.ErrMfaNotEnabled),
		errors.Is(err, service.ErrInvalidMfaType),
		errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrInvalidRecoveryCode),
		errors.Is(err, service.ErrRefreshTokenNotFound),
		errors.Is(err, service.ErrRefreshTokenInvalid):
		return writeError(c, http.StatusBadRequest, err)
	default:
		return writeError(c, http.StatusInternalServerError, errors.New("internal error"))
	}
}
