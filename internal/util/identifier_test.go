package util

import "testing"

func TestClassifyIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       IdentifierKind
	}{
		{name: "simple email", identifier: "foo@example.com", want: IdentifierEmail},
		{name: "email with plus and dots", identifier: "a.b+c_d%e-f@sub.example.co", want: IdentifierEmail},
		{name: "upper-case email", identifier: "Foo@Example.COM", want: IdentifierEmail},
		{name: "ten digit phone", identifier: "0912345678", want: IdentifierPhone},
		{name: "eleven digit phone", identifier: "09123456789", want: IdentifierPhone},
		{name: "nine digit string", identifier: "091234567", want: IdentifierInvalid},
		{name: "twelve digit string", identifier: "091234567890", want: IdentifierInvalid},
		{name: "phone with dashes", identifier: "091-234-5678", want: IdentifierInvalid},
		{name: "email without tld", identifier: "foo@example", want: IdentifierInvalid},
		{name: "email with one-letter tld", identifier: "foo@example.c", want: IdentifierInvalid},
		{name: "missing local part", identifier: "@example.com", want: IdentifierInvalid},
		{name: "plain text", identifier: "not an identifier", want: IdentifierInvalid},
		{name: "empty", identifier: "", want: IdentifierInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyIdentifier(tc.identifier); got != tc.want {
				t.Fatalf("ClassifyIdentifier(%q) = %v, want %v", tc.identifier, got, tc.want)
			}
			// Classification is pure: a second call must agree.
			if got := ClassifyIdentifier(tc.identifier); got != tc.want {
				t.Fatalf("ClassifyIdentifier(%q) not deterministic", tc.identifier)
			}
		})
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	kind, value := NormalizeIdentifier("  Foo@Example.COM ")
	if kind != IdentifierEmail {
		t.Fatalf("expected email kind, got %v", kind)
	}
	if value != "foo@example.com" {
		t.Fatalf("expected lower-cased email, got %q", value)
	}

	kind, value = NormalizeIdentifier(" 0912345678 ")
	if kind != IdentifierPhone {
		t.Fatalf("expected phone kind, got %v", kind)
	}
	if value != "0912345678" {
		t.Fatalf("expected trimmed phone, got %q", value)
	}

	if kind, _ := NormalizeIdentifier("nope"); kind != IdentifierInvalid {
		t.Fatalf("expected invalid kind, got %v", kind)
	}
}
