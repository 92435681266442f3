package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"math/big"
	"strconv"
	"strings"
)

const recoveryAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ0123456789"

func GenerateRandomToken(size int) (string, error) {
	buffer := make([]byte, size)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// GenerateNumericCode samples a 6-digit code uniformly from
// [100000, 999999].
func GenerateNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// GenerateRecoveryCode produces a 10-character code from an alphabet
// without the easily-confused characters I, L, O and U.
func GenerateRecoveryCode() (string, error) {
	var builder strings.Builder
	max := big.NewInt(int64(len(recoveryAlphabet)))
	for i := 0; i < 10; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(recoveryAlphabet[n.Int64()])
	}
	return builder.String(), nil
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
