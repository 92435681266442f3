package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	AccessTokenTTL       time.Duration // default 15m
	AnonymousTokenTTL    time.Duration // default 24h
	RegistrationTokenTTL time.Duration // default 1h
	RefreshTokenTTL      time.Duration // default 30d
	VerificationCodeTTL  time.Duration // default 180s
	ResendCooldown       time.Duration // default 60s
}

// CodeSender delivers a one-time code out of band. Fire and forget: the
// core never consumes a delivery result beyond the immediate error.
type CodeSender interface {
	SendCode(ctx context.Context, destination string, code string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
