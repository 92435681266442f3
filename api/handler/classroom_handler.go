package handler

import (
	"errors"
	"net/http"

	"studyhall/api/middleware"
	"studyhall/internal/dto"
	"studyhall/internal/permission"
	"studyhall/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ClassroomHandler struct {
	Classrooms *service.ClassroomService
	Validate   *validator.Validate
}

func NewClassroomHandler(classrooms *service.ClassroomService, validate *validator.Validate) *ClassroomHandler {
	return &ClassroomHandler{Classrooms: classrooms, Validate: validate}
}

func (h *ClassroomHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, service.ErrUnauthorized)
	}
	var req dto.ClassroomCreateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}
	classroom, err := h.Classrooms.Create(c.Request().Context(), userID, req.Name)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ClassroomResponseFromEntity(classroom))
}

// Rename runs behind the UpdateClassroom permission middleware.
func (h *ClassroomHandler) Rename(c echo.Context) error {
	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid classroom id"))
	}
	var req dto.ClassroomCreateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}
	classroom, err := h.Classrooms.Rename(c.Request().Context(), classroomID, req.Name)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ClassroomResponseFromEntity(classroom))
}

// CheckPermission answers whether the caller holds the named permission
// in the classroom.
func (h *ClassroomHandler) CheckPermission(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, service.ErrUnauthorized)
	}
	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid classroom id"))
	}
	required, ok := permission.ByName(c.QueryParam("permission"))
	if !ok {
		return writeError(c, http.StatusBadRequest, errors.New("unknown permission"))
	}
	if err := h.Classrooms.PermissionCheck(c.Request().Context(), classroomID, userID, required); err != nil {
		if errors.Is(err, service.ErrNotAMember) || errors.Is(err, service.ErrInsufficientPermission) {
			return c.JSON(http.StatusOK, dto.PermissionCheckResponse{Allowed: false})
		}
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PermissionCheckResponse{Allowed: true})
}
