package dto

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type ResendEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type OnboardingRequest struct {
	Token       string `json:"token" validate:"required"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,url"`
	FullName    string `json:"full_name" validate:"omitempty,max=255"`
	Bio         string `json:"bio" validate:"omitempty,max=2000"`
	School      string `json:"school" validate:"omitempty,max=255"`
}

type OAuthOnboardingRequest struct {
	Token       string `json:"token" validate:"required"`
	Username    string `json:"username" validate:"required,min=3,max=64,alphanum"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,url"`
	FullName    string `json:"full_name" validate:"omitempty,max=255"`
	Bio         string `json:"bio" validate:"omitempty,max=2000"`
	School      string `json:"school" validate:"omitempty,max=255"`
}

type OAuthEntryRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=255"`
	Photo string `json:"photo" validate:"omitempty,url"`
}

type OAuthEntryResponse struct {
	NeedsOnboarding  bool   `json:"needs_onboarding"`
	OnboardingToken  string `json:"onboarding_token,omitempty"`
	AccessToken      string `json:"access_token,omitempty"`
	ExpiresIn        int64  `json:"expires_in,omitempty"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	RefreshExpiresIn int64  `json:"refresh_expires_in,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	RefreshExpiresIn int64  `json:"refresh_expires_in,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
