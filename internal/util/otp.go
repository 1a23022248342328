package util

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strings"
)

// GenerateNumericOTP draws a code of the given length from a cryptographically
// secure source, uniform over the full digit space with leading zeros kept.
func GenerateNumericOTP(digits int) (string, error) {
	if digits <= 0 {
		digits = 6
	}
	var builder strings.Builder
	builder.Grow(digits)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		builder.WriteByte(byte('0' + n.Int64()))
	}
	return builder.String(), nil
}

// HashResetCode hashes a reset code with plain SHA-256. Unlike passwords the
// code is already random and expires within minutes, so a slow KDF is not
// needed here.
func HashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// MatchResetCode compares a submitted code against a stored hash in constant
// time.
func MatchResetCode(code, codeHash string) bool {
	calculated := HashResetCode(code)
	return subtle.ConstantTimeCompare([]byte(calculated), []byte(codeHash)) == 1
}
