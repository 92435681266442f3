package handler

import (
	"net/http"

	"studyhall/api/middleware"
	"studyhall/internal/dto"
	"studyhall/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Accounts *service.AccountService
	Validate *validator.Validate
}

func NewAuthHandler(accounts *service.AccountService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{Accounts: accounts, Validate: validate}
}

func (h *AuthHandler) AnonymousToken(c echo.Context) error {
	token, err := h.Accounts.AnonymousToken()
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	token, err := h.Accounts.RegisterLocal(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req dto.VerifyEmailRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	token, err := h.Accounts.VerifyEmail(c.Request().Context(), req.Token, req.Code)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) ResendVerificationEmail(c echo.Context) error {
	var req dto.ResendEmailRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Accounts.ResendVerificationEmail(c.Request().Context(), req.Token); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *AuthHandler) Onboarding(c echo.Context) error {
	var req dto.OnboardingRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	token, err := h.Accounts.RegisterOnboarding(c.Request().Context(), req.Token, service.ProfileInput{
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		FullName:    req.FullName,
		Bio:         req.Bio,
		School:      req.School,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) OAuthOnboarding(c echo.Context) error {
	var req dto.OAuthOnboardingRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	token, err := h.Accounts.RegisterOnboardingOauth(c.Request().Context(), req.Token, req.Username, service.ProfileInput{
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		FullName:    req.FullName,
		Bio:         req.Bio,
		School:      req.School,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) OAuthEntry(c echo.Context) error {
	var req dto.OAuthEntryRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Accounts.OAuthEntry(c.Request().Context(), req.Email, req.Name, req.Photo)
	if err != nil {
		return writeServiceError(c, err)
	}
	response := dto.OAuthEntryResponse{NeedsOnboarding: result.NeedsOnboarding, OnboardingToken: result.OnboardingToken}
	if result.Login != nil {
		response.AccessToken = result.Login.AccessToken
		response.ExpiresIn = result.Login.ExpiresIn
		response.RefreshToken = result.Login.RefreshToken
		response.RefreshExpiresIn = result.Login.RefreshExpiresIn
	}
	return c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Accounts.ValidateUser(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, mapLoginResponse(result))
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req dto.RefreshRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Accounts.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, mapLoginResponse(result))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	var req dto.RefreshRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Accounts.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) LogoutAll(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, service.ErrUnauthorized)
	}
	if err := h.Accounts.LogoutAll(c.Request().Context(), userID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, service.ErrUnauthorized)
	}
	user, err := h.Accounts.GetUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	if user == nil {
		return writeError(c, http.StatusUnauthorized, service.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":       user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
		"status":   user.Status,
	})
}

func (h *AuthHandler) validate(value any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(value)
}

func mapLoginResponse(result *service.LoginResult) dto.LoginResponse {
	return dto.LoginResponse{
		AccessToken:      result.AccessToken,
		ExpiresIn:        result.ExpiresIn,
		RefreshToken:     result.RefreshToken,
		RefreshExpiresIn: result.RefreshExpiresIn,
	}
}
