package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studyhall/internal/entity"
	"studyhall/internal/repository"
	"studyhall/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

const (
	// A verification record survives up to 10 failed tries; the 11th
	// wrong submission burns it.
	maxVerificationTries = 10
	refreshCreateRetries = 5
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type ProfileInput struct {
	DisplayName string
	PhotoURL    string
	FullName    string
	Bio         string
	School      string
}

type LoginResult struct {
	AccessToken      string
	ExpiresIn        int64
	RefreshToken     string
	RefreshExpiresIn int64
}

// OAuthEntryResult is either a logged-in pair or, for an unknown email,
// an onboarding token carrying the provider profile.
type OAuthEntryResult struct {
	NeedsOnboarding bool
	OnboardingToken string
	Login           *LoginResult
}

// AccountService drives the account state machine: registration, email
// verification, onboarding, OAuth entry and refresh-token rotation.
type AccountService struct {
	users         repository.UserRepository
	codes         repository.VerificationCodeRepository
	refreshTokens repository.RefreshTokenRepository
	profiles      repository.ProfileRepository
	auditLogs     repository.AuditLogRepository

	codeSender   CodeSender
	passwordHash PasswordHasher
	tokens       *TokenService
	clock        Clock
	config       Config
}

func NewAccountService(
	users repository.UserRepository,
	codes repository.VerificationCodeRepository,
	refreshTokens repository.RefreshTokenRepository,
	profiles repository.ProfileRepository,
	auditLogs repository.AuditLogRepository,
	codeSender CodeSender,
	passwordHash PasswordHasher,
	tokens *TokenService,
	clock Clock,
	config Config,
) *AccountService {
	if clock == nil {
		clock = RealClock{}
	}
	return &AccountService{
		users:         users,
		codes:         codes,
		refreshTokens: refreshTokens,
		profiles:      profiles,
		auditLogs:     auditLogs,
		codeSender:    codeSender,
		passwordHash:  passwordHash,
		tokens:        tokens,
		clock:         clock,
		config:        config,
	}
}

// AnonymousToken issues a short-lived bearer token with no subject.
// Nothing is persisted.
func (s *AccountService) AnonymousToken() (string, error) {
	return s.tokens.Issue(Claims{Status: entity.StatusAnonymous}, s.anonymousTokenTTL())
}

// RegisterLocal creates an identity in EmailVerification status,
// dispatches a 6-digit code and returns a registration-scoped token.
func (s *AccountService) RegisterLocal(ctx context.Context, input RegisterInput) (string, error) {
	email := utils.NormalizeEmail(input.Email)

	existing, err := s.users.FindByEmailOrUsername(ctx, email, input.Username)
	if err != nil {
		return "", wrapDB(err)
	}
	if existing != nil {
		return "", ErrUserExists
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return "", err
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     input.Username,
		PasswordHash: hash,
		Status:       entity.StatusEmailVerification,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrUserExists
		}
		return "", wrapDB(err)
	}

	if err := s.SendVerificationCode(ctx, user.ID, user.Email); err != nil {
		// Registration is one operation from the caller's view: undo
		// the identity before surfacing the failure.
		_ = s.users.Delete(ctx, user.ID)
		return "", err
	}

	s.audit(ctx, &user.ID, entity.AuditRegister, map[string]any{"username": user.Username})
	return s.registrationToken(user)
}

// VerifyEmail consumes the 6-digit code and advances the identity from
// EmailVerification to Onboarding.
func (s *AccountService) VerifyEmail(ctx context.Context, token string, code string) (string, error) {
	user, err := s.registrationSubject(ctx, token)
	if err != nil {
		return "", err
	}
	if user.Status != entity.StatusEmailVerification {
		return "", ErrInvalidAccountStatus
	}

	ok, err := s.VerifyCode(ctx, user.ID, code)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrVerificationCodeInvalid
	}

	if err := s.users.UpdateStatus(ctx, user.ID, entity.StatusOnboarding); err != nil {
		return "", wrapDB(err)
	}
	user.Status = entity.StatusOnboarding

	s.audit(ctx, &user.ID, entity.AuditEmailVerified, nil)
	return s.registrationToken(user)
}

// VerifyCode checks a submitted code against the subject's live
// verification record. A mismatch increments the persisted tries
// counter; once tries exceed the cap the record is burnt — and, while
// the identity is still in EmailVerification, the identity with it.
func (s *AccountService) VerifyCode(ctx context.Context, subjectID uuid.UUID, code string) (bool, error) {
	record, err := s.codes.FindByUserID(ctx, subjectID)
	if err != nil {
		return false, wrapDB(err)
	}
	if record == nil {
		return false, ErrVerificationInvalidID
	}

	if s.passwordHash.Verify(record.CodeHash, code) {
		if err := s.codes.DeleteByUserID(ctx, subjectID); err != nil {
			return false, wrapDB(err)
		}
		return true, nil
	}

	tries := record.Tries + 1
	if tries > maxVerificationTries {
		return false, s.burnVerification(ctx, subjectID)
	}
	if err := s.codes.UpdateTries(ctx, record.ID, tries); err != nil {
		return false, wrapDB(err)
	}
	return false, nil
}

func (s *AccountService) burnVerification(ctx context.Context, subjectID uuid.UUID) error {
	if err := s.codes.DeleteByUserID(ctx, subjectID); err != nil {
		return wrapDB(err)
	}
	user, err := s.users.FindByID(ctx, subjectID)
	if err != nil {
		return wrapDB(err)
	}
	if user != nil && user.Status == entity.StatusEmailVerification {
		if err := s.users.Delete(ctx, subjectID); err != nil {
			return wrapDB(err)
		}
		s.audit(ctx, nil, entity.AuditRegistrationBurnt, map[string]any{"username": user.Username})
	}
	return ErrVerificationTriesExceeded
}

// CanResendEmail enforces the 60-second cooldown between verification
// emails for the same subject.
func (s *AccountService) CanResendEmail(ctx context.Context, subjectID uuid.UUID) error {
	record, err := s.codes.FindByUserID(ctx, subjectID)
	if err != nil {
		return wrapDB(err)
	}
	if record != nil && s.clock.Now().Sub(record.CreatedAt) < s.resendCooldown() {
		return ErrEmailVerificationResendTooSoon
	}
	return nil
}

func (s *AccountService) ResendVerificationEmail(ctx context.Context, token string) error {
	user, err := s.registrationSubject(ctx, token)
	if err != nil {
		return err
	}
	if user.Status != entity.StatusEmailVerification {
		return ErrInvalidAccountStatus
	}
	if err := s.CanResendEmail(ctx, user.ID); err != nil {
		return err
	}
	return s.SendVerificationCode(ctx, user.ID, user.Email)
}

// SendVerificationCode replaces the subject's live verification record
// with a fresh 6-digit code and dispatches it. Also used by the MFA
// registry for email-type factors.
func (s *AccountService) SendVerificationCode(ctx context.Context, subjectID uuid.UUID, destination string) error {
	code, err := utils.GenerateNumericCode()
	if err != nil {
		return err
	}
	hash, err := s.passwordHash.Hash(code)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	record := &entity.VerificationCode{
		ID:        uuid.New(),
		UserID:    subjectID,
		CodeHash:  hash,
		ExpiresAt: now.Add(s.verificationCodeTTL()),
		CreatedAt: now,
	}
	if err := s.codes.Replace(ctx, record); err != nil {
		return wrapDB(err)
	}
	return s.codeSender.SendCode(ctx, destination, code)
}

// RegisterOnboarding completes local registration: profile records are
// created and the identity becomes Active.
func (s *AccountService) RegisterOnboarding(ctx context.Context, token string, profile ProfileInput) (string, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return "", err
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", wrapDB(err)
	}
	if user == nil {
		return "", ErrInvalidToken
	}
	if user.Status != entity.StatusOnboarding {
		return "", ErrInvalidAccountStatus
	}

	if err := s.completeOnboarding(ctx, user, profile); err != nil {
		return "", err
	}
	return s.accessToken(user)
}

// RegisterOnboardingOauth is the single combined OAuth onboarding call:
// it creates the identity in OnboardingOAuth status with an unusable
// random password and immediately completes onboarding.
func (s *AccountService) RegisterOnboardingOauth(ctx context.Context, token string, username string, profile ProfileInput) (string, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return "", err
	}
	if claims.Status != entity.StatusOnboardingOAuth || claims.OAuth == nil {
		return "", ErrInvalidToken
	}

	// The password must never match any guess; a discarded random
	// token makes the hash unusable for local login.
	randomSecret, err := utils.GenerateRandomToken(32)
	if err != nil {
		return "", err
	}
	hash, err := s.passwordHash.Hash(randomSecret)
	if err != nil {
		return "", err
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        utils.NormalizeEmail(claims.OAuth.Email),
		Username:     username,
		PasswordHash: hash,
		Status:       entity.StatusOnboardingOAuth,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrUserExists
		}
		return "", wrapDB(err)
	}

	if profile.DisplayName == "" {
		profile.DisplayName = claims.OAuth.Name
	}
	if profile.PhotoURL == "" {
		profile.PhotoURL = claims.OAuth.Photo
	}
	if err := s.completeOnboarding(ctx, user, profile); err != nil {
		_ = s.users.Delete(ctx, user.ID)
		return "", err
	}

	s.audit(ctx, &user.ID, entity.AuditRegister, map[string]any{"username": username, "oauth": true})
	return s.accessToken(user)
}

// OAuthEntry routes a provider-asserted profile: unknown emails get an
// onboarding token carrying the profile, known emails get a login pair.
func (s *AccountService) OAuthEntry(ctx context.Context, email, name, photo string) (*OAuthEntryResult, error) {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, wrapDB(err)
	}
	if user == nil {
		token, err := s.tokens.Issue(Claims{
			Status: entity.StatusOnboardingOAuth,
			OAuth:  &OAuthProfile{Email: email, Name: name, Photo: photo},
		}, s.registrationTokenTTL())
		if err != nil {
			return nil, err
		}
		return &OAuthEntryResult{NeedsOnboarding: true, OnboardingToken: token}, nil
	}

	login, err := s.issueLoginPair(ctx, user)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, &user.ID, entity.AuditLoginSuccess, map[string]any{"oauth": true})
	return &OAuthEntryResult{Login: login}, nil
}

// ValidateUser is the password login. The compare always runs against a
// hash, real or dummy, so an unknown username costs the same as a
// wrong password.
func (s *AccountService) ValidateUser(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, wrapDB(err)
	}
	if user == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, password)
		s.audit(ctx, nil, entity.AuditLoginFailed, map[string]any{"username": username})
		return nil, ErrInvalidCredentials
	}
	if !s.passwordHash.Verify(user.PasswordHash, password) {
		s.audit(ctx, &user.ID, entity.AuditLoginFailed, nil)
		return nil, ErrInvalidCredentials
	}

	login, err := s.issueLoginPair(ctx, user)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, &user.ID, entity.AuditLoginSuccess, nil)
	return login, nil
}

// GenerateRefreshToken mints a new ledger-backed refresh token. The
// persist step retries a few times so an id collision or a transient
// store failure does not fail the login.
func (s *AccountService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	var lastErr error
	for attempt := 0; attempt < refreshCreateRetries; attempt++ {
		tokenID := uuid.New()
		raw, err := s.tokens.Issue(Claims{
			TokenID:          tokenID.String(),
			RegisteredClaims: subjectClaims(userID),
		}, s.refreshTokenTTL())
		if err != nil {
			return "", err
		}

		record := &entity.RefreshToken{
			ID:        tokenID,
			UserID:    userID,
			TokenHash: utils.HashToken(raw),
			ExpiresAt: s.clock.Now().Add(s.refreshTokenTTL()),
			CreatedAt: s.clock.Now(),
		}
		if err := s.refreshTokens.Create(ctx, record); err != nil {
			lastErr = err
			continue
		}
		return raw, nil
	}
	return "", wrapDB(lastErr)
}

// ValidateRefreshToken checks the raw token against the ledger entry
// for (userID, tokenID), by hash.
func (s *AccountService) ValidateRefreshToken(ctx context.Context, userID, tokenID uuid.UUID, raw string) error {
	record, err := s.refreshTokens.Find(ctx, userID, tokenID)
	if err != nil {
		return wrapDB(err)
	}
	if record == nil {
		return ErrRefreshTokenNotFound
	}
	if record.TokenHash != utils.HashToken(raw) {
		return ErrRefreshTokenInvalid
	}
	return nil
}

// DeleteRefreshToken validates before deleting, so not-found and
// mismatch surface distinctly.
func (s *AccountService) DeleteRefreshToken(ctx context.Context, userID, tokenID uuid.UUID, raw string) error {
	if err := s.ValidateRefreshToken(ctx, userID, tokenID, raw); err != nil {
		return err
	}
	if err := s.refreshTokens.Delete(ctx, userID, tokenID); err != nil {
		return wrapDB(err)
	}
	return nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair. The
// presented token is rotated out: its ledger entry is deleted, so a
// replay fails.
func (s *AccountService) RefreshToken(ctx context.Context, raw string) (*LoginResult, error) {
	claims, err := s.tokens.Decode(raw)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if claims.TokenID == "" {
		return nil, ErrInvalidRefreshToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	tokenID, err := uuid.Parse(claims.TokenID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapDB(err)
	}
	if user == nil {
		return nil, ErrInvalidRefreshToken
	}

	if err := s.ValidateRefreshToken(ctx, userID, tokenID, raw); err != nil {
		if errors.Is(err, ErrDatabase) {
			return nil, err
		}
		return nil, ErrInvalidRefreshToken
	}
	if err := s.refreshTokens.Delete(ctx, userID, tokenID); err != nil {
		return nil, wrapDB(err)
	}

	return s.issueLoginPair(ctx, user)
}

// Logout revokes the presented refresh token.
func (s *AccountService) Logout(ctx context.Context, raw string) error {
	claims, err := s.tokens.Decode(raw)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return ErrInvalidRefreshToken
	}
	tokenID, err := uuid.Parse(claims.TokenID)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	if err := s.DeleteRefreshToken(ctx, userID, tokenID, raw); err != nil {
		return err
	}
	s.audit(ctx, &userID, entity.AuditRefreshRevoked, nil)
	return nil
}

// LogoutAll revokes every refresh token of the user.
func (s *AccountService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.refreshTokens.DeleteAllByUser(ctx, userID); err != nil {
		return wrapDB(err)
	}
	s.audit(ctx, &userID, entity.AuditRefreshRevoked, map[string]any{"scope": "all"})
	return nil
}

func (s *AccountService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapDB(err)
	}
	return user, nil
}

func (s *AccountService) completeOnboarding(ctx context.Context, user *entity.User, profile ProfileInput) error {
	peek := &entity.ProfilePeek{
		UserID:      user.ID,
		DisplayName: profile.DisplayName,
		PhotoURL:    profile.PhotoURL,
	}
	if err := s.profiles.CreatePeek(ctx, peek); err != nil {
		return wrapDB(err)
	}
	detail := &entity.ProfileDetail{
		UserID:   user.ID,
		FullName: profile.FullName,
		Bio:      profile.Bio,
		School:   profile.School,
	}
	if err := s.profiles.CreateDetail(ctx, detail); err != nil {
		_ = s.profiles.DeleteByUser(ctx, user.ID)
		return wrapDB(err)
	}
	if err := s.users.UpdateStatus(ctx, user.ID, entity.StatusActive); err != nil {
		_ = s.profiles.DeleteByUser(ctx, user.ID)
		return wrapDB(err)
	}
	user.Status = entity.StatusActive
	return nil
}

func (s *AccountService) issueLoginPair(ctx context.Context, user *entity.User) (*LoginResult, error) {
	access, err := s.accessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken:      access,
		ExpiresIn:        int64(s.accessTokenTTL().Seconds()),
		RefreshToken:     refresh,
		RefreshExpiresIn: int64(s.refreshTokenTTL().Seconds()),
	}, nil
}

func (s *AccountService) accessToken(user *entity.User) (string, error) {
	return s.tokens.Issue(Claims{
		Status:           user.Status,
		RegisteredClaims: subjectClaims(user.ID),
	}, s.accessTokenTTL())
}

func (s *AccountService) registrationToken(user *entity.User) (string, error) {
	return s.tokens.Issue(Claims{
		Status:           user.Status,
		RegisterID:       user.ID.String(),
		RegisteredClaims: subjectClaims(user.ID),
	}, s.registrationTokenTTL())
}

// registrationSubject decodes a registration-scoped token and loads its
// identity. Tokens without a register id are rejected outright.
func (s *AccountService) registrationSubject(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, err
	}
	if claims.RegisterID == "" {
		return nil, ErrInvalidToken
	}
	registerID, err := uuid.Parse(claims.RegisterID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, registerID)
	if err != nil {
		return nil, wrapDB(err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s *AccountService) audit(ctx context.Context, userID *uuid.UUID, action entity.AuditAction, metadata map[string]any) {
	if s.auditLogs == nil {
		return
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return
		}
		payload = datatypes.JSON(bytes)
	}
	_ = s.auditLogs.Log(ctx, &entity.AuditLog{
		UserID:   userID,
		Action:   action,
		Metadata: payload,
	})
}

func (s *AccountService) accessTokenTTL() time.Duration {
	if s.config.AccessTokenTTL > 0 {
		return s.config.AccessTokenTTL
	}
	return 15 * time.Minute
}

func (s *AccountService) anonymousTokenTTL() time.Duration {
	if s.config.AnonymousTokenTTL > 0 {
		return s.config.AnonymousTokenTTL
	}
	return 24 * time.Hour
}

func (s *AccountService) registrationTokenTTL() time.Duration {
	if s.config.RegistrationTokenTTL > 0 {
		return s.config.RegistrationTokenTTL
	}
	return time.Hour
}

func (s *AccountService) refreshTokenTTL() time.Duration {
	if s.config.RefreshTokenTTL > 0 {
		return s.config.RefreshTokenTTL
	}
	return 30 * 24 * time.Hour
}

func (s *AccountService) verificationCodeTTL() time.Duration {
	if s.config.VerificationCodeTTL > 0 {
		return s.config.VerificationCodeTTL
	}
	return 180 * time.Second
}

func (s *AccountService) resendCooldown() time.Duration {
	if s.config.ResendCooldown > 0 {
		return s.config.ResendCooldown
	}
	return 60 * time.Second
}

func wrapDB(err error) error {
	return fmt.Errorf("%w: %v", ErrDatabase, err)
}
