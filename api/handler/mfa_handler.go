package handler

import (
	"net/http"

	"studyhall/api/middleware"
	"studyhall/internal/dto"
	"studyhall/internal/entity"
	"studyhall/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type MFAHandler struct {
	MFA      *service.MFAService
	Validate *validator.Validate
}

func NewMFAHandler(mfa *service.MFAService, validate *validator.Validate) *MFAHandler {
	return &MFAHandler{MFA: mfa, Validate: validate}
}

func (h *MFAHandler) Setup(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, service.ErrUnauthorized)
	}
	var req dto.MFASetupRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	setup, err := h.MFA.Setup(c.Request().Context(), userID, entity.MFAType(req.Type))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MFASetupResponse{
		FactorID: setup.FactorID.String(),
		Secret:   setup.Secret,
		URI:      setup.URI,
	})
}

func (h *MFAHandler) Enable(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, service.ErrUnauthorized)
	}
	var req dto.MFAEnableRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	factorID, err := uuid.Parse(req.FactorID)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	codes, err := h.MFA.VerifyAndEnable(c.Request().Context(), userID, req.Code, factorID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MFAEnableResponse{RecoveryCodes: codes})
}

func (h *MFAHandler) Verify(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, service.ErrUnauthorized)
	}
	var req dto.MFAVerifyRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	factorID, err := uuid.Parse(req.FactorID)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	valid, err := h.MFA.Verify(c.Request().Context(), userID, factorID, req.Code)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MFAVerifyResponse{Valid: valid})
}

func (h *MFAHandler) ValidateRecoveryCode(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, service.ErrUnauthorized)
	}
	var req dto.RecoveryCodeRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	valid, err := h.MFA.ValidateRecoveryCode(c.Request().Context(), userID, req.Code)
	if err != nil {
		return writeServiceError(c, err)
	}
	if !valid {
		return writeServiceError(c, service.ErrInvalidRecoveryCode)
	}
	return c.JSON(http.StatusOK, dto.MFAVerifyResponse{Valid: true})
}

func (h *MFAHandler) Disable(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, service.ErrUnauthorized)
	}
	if err := h.MFA.Disable(c.Request().Context(), userID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MFAHandler) Status(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, service.ErrUnauthorized)
	}
	statuses, err := h.MFA.Status(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	factors := make([]dto.MFAFactorStatus, 0, len(statuses))
	for _, status := range statuses {
		factors = append(factors, dto.MFAFactorStatus{ID: status.FactorID.String(), Type: string(status.Type)})
	}
	return c.JSON(http.StatusOK, dto.MFAStatusResponse{Factors: factors})
}

func (h *MFAHandler) validate(value any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(value)
}
