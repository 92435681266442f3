package middleware

import (
	"studyhall/internal/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contextUserIDKey = "auth_user_id"
	contextStatusKey = "auth_status"
)

func SetAuthContext(c echo.Context, userID uuid.UUID, status entity.AccountStatus) {
	c.Set(contextUserIDKey, userID)
	c.Set(contextStatusKey, status)
}

func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(contextUserIDKey)
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func StatusFromContext(c echo.Context) (entity.AccountStatus, bool) {
	value := c.Get(contextStatusKey)
	status, ok := value.(entity.AccountStatus)
	return status, ok
}
