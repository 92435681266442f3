package service

import (
	"context"
	"encoding/json"

	"studyhall/internal/entity"
	"studyhall/internal/repository"
	"studyhall/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const recoveryCodeCount = 10

type MFASetup struct {
	FactorID uuid.UUID
	Secret   string
	URI      string
}

type MFAStatus struct {
	FactorID uuid.UUID
	Type     entity.MFAType
}

// MFAService owns the per-user factor registry. Secrets and recovery
// codes never leave it except once, at setup and enable time.
type MFAService struct {
	factors  repository.MFAFactorRepository
	users    repository.UserRepository
	accounts *AccountService

	otp          OTPProvider
	passwordHash PasswordHasher
}

func NewMFAService(
	factors repository.MFAFactorRepository,
	users repository.UserRepository,
	accounts *AccountService,
	otp OTPProvider,
	passwordHash PasswordHasher,
) *MFAService {
	return &MFAService{
		factors:      factors,
		users:        users,
		accounts:     accounts,
		otp:          otp,
		passwordHash: passwordHash,
	}
}

// Setup creates a disabled factor. Email factors use the user's own
// email as the secret and push a code through the shared send path;
// TOTP factors get a generated secret and otpauth URI labelled with the
// username.
func (m *MFAService) Setup(ctx context.Context, userID uuid.UUID, mfaType entity.MFAType) (*MFASetup, error) {
	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapDB(err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	factor := &entity.MFAFactor{
		ID:     uuid.New(),
		UserID: userID,
		Type:   mfaType,
	}
	var uri string
	switch mfaType {
	case entity.MFATypeEmail:
		factor.Secret = user.Email
		if err := m.accounts.SendVerificationCode(ctx, userID, user.Email); err != nil {
			return nil, err
		}
	case entity.MFATypeTOTP:
		secret, url, err := m.otp.GenerateSecret(user.Username)
		if err != nil {
			return nil, err
		}
		factor.Secret = secret
		uri = url
	default:
		return nil, ErrInvalidMfaType
	}

	if err := m.factors.Create(ctx, factor); err != nil {
		return nil, wrapDB(err)
	}
	return &MFASetup{FactorID: factor.ID, Secret: factor.Secret, URI: uri}, nil
}

// VerifyAndEnable proves possession of the factor, enables it and
// returns the plaintext recovery codes — the only time they are ever
// visible.
func (m *MFAService) VerifyAndEnable(ctx context.Context, userID uuid.UUID, code string, factorID uuid.UUID) ([]string, error) {
	factor, err := m.loadFactor(ctx, userID, factorID)
	if err != nil {
		return nil, err
	}
	if factor.Enabled {
		return nil, ErrMfaAlreadyEnabled
	}

	ok, err := m.verifyFactorCode(ctx, factor, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCode
	}

	codes, hashes, err := m.generateRecoveryCodes()
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(hashes)
	if err != nil {
		return nil, err
	}

	factor.Enabled = true
	factor.RecoveryCodes = datatypes.JSON(encoded)
	if err := m.factors.Update(ctx, factor); err != nil {
		return nil, wrapDB(err)
	}
	return codes, nil
}

// Verify checks a login-time code against an already-enabled factor.
func (m *MFAService) Verify(ctx context.Context, userID, factorID uuid.UUID, code string) (bool, error) {
	factor, err := m.loadFactor(ctx, userID, factorID)
	if err != nil {
		return false, err
	}
	if !factor.Enabled {
		return false, ErrMfaNotEnabled
	}
	return m.verifyFactorCode(ctx, factor, code)
}

// ValidateRecoveryCode scans the user's pooled recovery codes. A match
// consumes the code: its hash is removed from the factor before
// returning.
func (m *MFAService) ValidateRecoveryCode(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	factors, err := m.factors.FindAllByUser(ctx, userID)
	if err != nil {
		return false, wrapDB(err)
	}
	for i := range factors {
		factor := &factors[i]
		hashes, err := decodeRecoveryHashes(factor.RecoveryCodes)
		if err != nil {
			return false, err
		}
		for j, hash := range hashes {
			if !m.passwordHash.Verify(hash, code) {
				continue
			}
			remaining := append(hashes[:j:j], hashes[j+1:]...)
			encoded, err := json.Marshal(remaining)
			if err != nil {
				return false, err
			}
			factor.RecoveryCodes = datatypes.JSON(encoded)
			if err := m.factors.Update(ctx, factor); err != nil {
				return false, wrapDB(err)
			}
			return true, nil
		}
	}
	return false, nil
}

// Disable wipes every factor of the user: enabled flag, type, secret
// and recovery codes are all gone.
func (m *MFAService) Disable(ctx context.Context, userID uuid.UUID) error {
	if err := m.factors.DeleteAllByUser(ctx, userID); err != nil {
		return wrapDB(err)
	}
	return nil
}

// Status lists enabled factors as {id, type} only.
func (m *MFAService) Status(ctx context.Context, userID uuid.UUID) ([]MFAStatus, error) {
	factors, err := m.factors.FindEnabledByUser(ctx, userID)
	if err != nil {
		return nil, wrapDB(err)
	}
	statuses := make([]MFAStatus, 0, len(factors))
	for _, factor := range factors {
		statuses = append(statuses, MFAStatus{FactorID: factor.ID, Type: factor.Type})
	}
	return statuses, nil
}

func (m *MFAService) loadFactor(ctx context.Context, userID, factorID uuid.UUID) (*entity.MFAFactor, error) {
	factor, err := m.factors.FindByID(ctx, factorID)
	if err != nil {
		return nil, wrapDB(err)
	}
	if factor == nil {
		return nil, ErrMfaSetupNotInitiated
	}
	if factor.UserID != userID {
		return nil, ErrMfaInvalidUser
	}
	return factor, nil
}

func (m *MFAService) verifyFactorCode(ctx context.Context, factor *entity.MFAFactor, code string) (bool, error) {
	switch factor.Type {
	case entity.MFATypeTOTP:
		return m.otp.ValidateCode(factor.Secret, code), nil
	case entity.MFATypeEmail:
		return m.accounts.VerifyCode(ctx, factor.UserID, code)
	default:
		return false, ErrInvalidMfaType
	}
}

func (m *MFAService) generateRecoveryCodes() ([]string, []string, error) {
	codes := make([]string, 0, recoveryCodeCount)
	hashes := make([]string, 0, recoveryCodeCount)
	seen := make(map[string]bool, recoveryCodeCount)
	for len(codes) < recoveryCodeCount {
		code, err := utils.GenerateRecoveryCode()
		if err != nil {
			return nil, nil, err
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		hash, err := m.passwordHash.Hash(code)
		if err != nil {
			return nil, nil, err
		}
		codes = append(codes, code)
		hashes = append(hashes, hash)
	}
	return codes, hashes, nil
}

func decodeRecoveryHashes(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var hashes []string
	if err := json.Unmarshal(raw, &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}
