package util

import (
	"regexp"
	"strings"
)

// IdentifierKind is the closed classification of a login identifier.
type IdentifierKind int

const (
	IdentifierInvalid IdentifierKind = iota
	IdentifierEmail
	IdentifierPhone
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10,11}$`)
)

// ClassifyIdentifier decides whether a raw identifier is an email address, a
// 10-11 digit phone number, or neither. Deterministic and side-effect free.
func ClassifyIdentifier(identifier string) IdentifierKind {
	switch {
	case emailPattern.MatchString(identifier):
		return IdentifierEmail
	case phonePattern.MatchString(identifier):
		return IdentifierPhone
	default:
		return IdentifierInvalid
	}
}

// NormalizeIdentifier trims surrounding whitespace and lower-cases emails so
// store lookups and uniqueness checks are case-insensitive for email.
func NormalizeIdentifier(identifier string) (IdentifierKind, string) {
	trimmed := strings.TrimSpace(identifier)
	kind := ClassifyIdentifier(trimmed)
	if kind == IdentifierEmail {
		return kind, strings.ToLower(trimmed)
	}
	return kind, trimmed
}
