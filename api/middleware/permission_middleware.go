package middleware

import (
	"errors"
	"math/big"
	"net/http"

	"studyhall/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequirePermission authorizes the classroom named by the :id route
// parameter against the caller's role union.
func RequirePermission(classrooms *service.ClassroomService, required *big.Int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserIDFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			classroomID, err := uuid.Parse(c.Param("id"))
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid classroom id")
			}
			if err := classrooms.PermissionCheck(c.Request().Context(), classroomID, userID, required); err != nil {
				switch {
				case errors.Is(err, service.ErrNotAMember):
					return echo.NewHTTPError(http.StatusForbidden, "not a member")
				case errors.Is(err, service.ErrInsufficientPermission):
					return echo.NewHTTPError(http.StatusForbidden, "insufficient permission")
				default:
					return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
				}
			}
			return next(c)
		}
	}
}
