package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"alice@example.com", "a.b+tag@sub.example.org"}
	for _, e := range valid {
		if !ValidateEmail(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}

	invalid := []string{"", "not-an-email", "missing@tld", "@example.com"}
	for _, e := range invalid {
		if ValidateEmail(e) {
			t.Errorf("expected %q to be invalid", e)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Errorf("unexpected normalization: %q", got)
	}
	if got := NormalizeEmail("   "); got != "" {
		t.Errorf("expected blank to stay blank, got %q", got)
	}
}

func TestHasControlCharacters(t *testing.T) {
	if HasControlCharacters("plain text\nwith newline\tand tab") {
		t.Error("tab/newline should be allowed")
	}
	if !HasControlCharacters("bad\x00byte") {
		t.Error("null byte should be rejected")
	}
	if !HasControlCharacters("bell\x07") {
		t.Error("bell character should be rejected")
	}
}
