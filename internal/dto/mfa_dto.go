package dto

type MFASetupRequest struct {
	Type string `json:"type" validate:"required,oneof=totp email"`
}

type MFASetupResponse struct {
	FactorID string `json:"factor_id"`
	Secret   string `json:"secret"`
	URI      string `json:"uri,omitempty"`
}

type MFAEnableRequest struct {
	FactorID string `json:"factor_id" validate:"required,uuid"`
	Code     string `json:"code" validate:"required"`
}

type MFAEnableResponse struct {
	RecoveryCodes []string `json:"recovery_codes"`
}

type MFAVerifyRequest struct {
	FactorID string `json:"factor_id" validate:"required,uuid"`
	Code     string `json:"code" validate:"required"`
}

type MFAVerifyResponse struct {
	Valid bool `json:"valid"`
}

type RecoveryCodeRequest struct {
	Code string `json:"code" validate:"required,len=10"`
}

type MFAStatusResponse struct {
	Factors []MFAFactorStatus `json:"factors"`
}

type MFAFactorStatus struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}
