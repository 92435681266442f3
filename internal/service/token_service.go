package service

import (
	"time"

	"studyhall/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// OAuthProfile is the raw provider profile carried inside an
// onboarding token, so the client can hand it back when completing
// OAuth onboarding.
type OAuthProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// Claims is every token shape the platform issues. Status always gates
// the account state machine without a database round-trip; RegisterID
// scopes registration tokens; TokenID keys refresh tokens into the
// ledger.
type Claims struct {
	Status     entity.AccountStatus `json:"sts"`
	RegisterID string               `json:"rid,omitempty"`
	TokenID    string               `json:"tid,omitempty"`
	OAuth      *OAuthProfile        `json:"oauth,omitempty"`
	jwt.RegisteredClaims
}

func subjectClaims(id uuid.UUID) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: id.String()}
}

// UserID parses the subject claim. Anonymous tokens have no subject.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// TokenService is the sole source of trust for "who is asking". Tokens
// are stateless HS256 JWTs; only refresh tokens are additionally
// persisted, for revocability.
type TokenService struct {
	Secret []byte
	Issuer string
	Clock  Clock
}

func NewTokenService(secret []byte, issuer string, clock Clock) *TokenService {
	if clock == nil {
		clock = RealClock{}
	}
	return &TokenService{Secret: secret, Issuer: issuer, Clock: clock}
}

func (t *TokenService) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := t.Clock.Now()
	claims.Issuer = t.Issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.Secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Decode verifies signature and expiry. It does not consult any
// revocation list; callers combine it with a ledger lookup for
// revocable tokens.
func (t *TokenService) Decode(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.Secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
