package util

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	digest, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(digest, "pbkdf2_sha256$36000$") {
		t.Fatalf("unexpected digest format: %q", digest)
	}
	if !VerifyPassword("secret1", digest) {
		t.Fatal("expected correct password to verify")
	}
	if VerifyPassword("secret2", digest) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatal("expected two hashes of the same password to differ")
	}
	if !VerifyPassword("secret1", first) || !VerifyPassword("secret1", second) {
		t.Fatal("expected both salted digests to verify")
	}
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	digests := []string{
		"",
		"plain",
		"pbkdf2_sha256$36000$onlythree",
		"bcrypt$12$c2FsdA$aGFzaA",
		"pbkdf2_sha256$notanumber$c2FsdA$aGFzaA",
		"pbkdf2_sha256$36000$!!$aGFzaA",
		"pbkdf2_sha256$36000$c2FsdA$!!",
	}
	for _, digest := range digests {
		if VerifyPassword("secret1", digest) {
			t.Fatalf("expected digest %q to fail verification", digest)
		}
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
	if VerifyPassword("", "pbkdf2_sha256$36000$c2FsdA$aGFzaA") {
		t.Fatal("expected empty password to fail verification")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); err == nil {
		t.Fatal("expected five characters to be rejected")
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Fatalf("expected six characters to be accepted, got %v", err)
	}
}
