package service

import (
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// OTPProvider generates and checks time-based one-time codes.
type OTPProvider interface {
	GenerateSecret(accountName string) (secret string, uri string, err error)
	ValidateCode(secret string, code string) bool
}

type TOTPProvider struct {
	Issuer    string
	Period    uint
	Skew      uint
	Digits    otp.Digits
	Algorithm otp.Algorithm
	Clock     Clock
}

func NewTOTPProvider(issuer string) *TOTPProvider {
	return &TOTPProvider{
		Issuer:    issuer,
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func (p *TOTPProvider) GenerateSecret(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.issuer(),
		AccountName: accountName,
		Period:      p.period(),
		Digits:      p.digits(),
		Algorithm:   p.algorithm(),
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func (p *TOTPProvider) ValidateCode(secret string, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, p.now(), totp.ValidateOpts{
		Period:    p.period(),
		Skew:      p.skew(),
		Digits:    p.digits(),
		Algorithm: p.algorithm(),
	})
	return err == nil && ok
}

func (p *TOTPProvider) issuer() string {
	if strings.TrimSpace(p.Issuer) == "" {
		return "StudyHall"
	}
	return p.Issuer
}

func (p *TOTPProvider) now() time.Time {
	if p.Clock == nil {
		return time.Now()
	}
	return p.Clock.Now()
}

func (p *TOTPProvider) period() uint {
	if p.Period == 0 {
		return 30
	}
	return p.Period
}

func (p *TOTPProvider) skew() uint {
	if p.Skew == 0 {
		return 1
	}
	return p.Skew
}

func (p *TOTPProvider) digits() otp.Digits {
	if p.Digits == 0 {
		return otp.DigitsSix
	}
	return p.Digits
}

func (p *TOTPProvider) algorithm() otp.Algorithm {
	if p.Algorithm == 0 {
		return otp.AlgorithmSHA1
	}
	return p.Algorithm
}
