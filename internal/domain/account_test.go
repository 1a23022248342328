package domain

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func strptr(s string) *string { return &s }

func TestNewAccount(t *testing.T) {
	account, err := NewAccount(strptr("foo@example.com"), nil, "hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Identifier() != "foo@example.com" {
		t.Fatalf("unexpected identifier %q", account.Identifier())
	}

	account, err = NewAccount(nil, strptr("0912345678"), "hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Identifier() != "0912345678" {
		t.Fatalf("unexpected identifier %q", account.Identifier())
	}

	if _, err := NewAccount(nil, nil, "hash"); err == nil {
		t.Fatal("expected error when no identifier is set")
	}
	if _, err := NewAccount(strptr("foo@example.com"), strptr("0912345678"), "hash"); err == nil {
		t.Fatal("expected error when both identifiers are set")
	}
}

func TestResetTokenExpiredAt(t *testing.T) {
	expiry := time.Now().Add(30 * time.Minute)
	token := ResetToken{ExpiresAt: expiry}

	if token.ExpiredAt(expiry.Add(-time.Second)) {
		t.Fatal("expected token to be live just before expiry")
	}
	// Exactly at the expiry instant the token is already expired.
	if !token.ExpiredAt(expiry) {
		t.Fatal("expected token to be expired at the expiry instant")
	}
	if !token.ExpiredAt(expiry.Add(time.Second)) {
		t.Fatal("expected token to be expired past the expiry instant")
	}
}

func TestDescriptionSummary(t *testing.T) {
	short := Description{Content: "A short description."}
	if short.Summary() != "A short description." {
		t.Fatalf("unexpected summary %q", short.Summary())
	}

	long := Description{Content: strings.Repeat("a", 250)}
	summary := long.Summary()
	if len(summary) != 203 || !strings.HasSuffix(summary, "...") {
		t.Fatalf("expected 200 characters plus ellipsis, got %d", len(summary))
	}

	multibyte := Description{Content: strings.Repeat("å", 250)}
	summary = multibyte.Summary()
	if !utf8.ValidString(summary) {
		t.Fatal("expected truncation to keep the summary valid UTF-8")
	}
	if utf8.RuneCountInString(summary) != 203 || !strings.HasSuffix(summary, "...") {
		t.Fatalf("expected 200 runes plus ellipsis, got %d runes", utf8.RuneCountInString(summary))
	}
}
