package util

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Password hashing parameters. The round count is a security property, not a
// tunable: lowering it weakens brute-force resistance.
const (
	pbkdf2Rounds    = 36000
	passwordSaltLen = 16
	passwordKeyLen  = 32
	passwordScheme  = "pbkdf2_sha256"
)

// MinPasswordLength is enforced by callers before hashing.
const MinPasswordLength = 6

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	return nil
}

// HashPassword derives a salted PBKDF2-SHA256 digest and serializes it as
// scheme$rounds$salt$key with base64-encoded salt and key.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password cannot be empty")
	}
	salt := make([]byte, passwordSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(password), salt, pbkdf2Rounds, passwordKeyLen, sha256.New)
	return strings.Join([]string{
		passwordScheme,
		strconv.Itoa(pbkdf2Rounds),
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	}, "$"), nil
}

// VerifyPassword re-derives the key from the stored salt and round count and
// compares it in constant time. Any malformed digest verifies as false.
func VerifyPassword(password, digest string) bool {
	if len(password) == 0 || len(digest) == 0 {
		return false
	}
	parts := strings.Split(digest, "$")
	if len(parts) != 4 || parts[0] != passwordScheme {
		return false
	}
	rounds, err := strconv.Atoi(parts[1])
	if err != nil || rounds <= 0 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil || len(expected) == 0 {
		return false
	}
	candidate := pbkdf2.Key([]byte(password), salt, rounds, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(candidate, expected) == 1
}
