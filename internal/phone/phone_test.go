package phone

import (
	"errors"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	n, err := Parse("+48123456789")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.E164 != "+48123456789" {
		t.Errorf("E164 = %q, want %q", n.E164, "+48123456789")
	}
	if n.National != "123456789" {
		t.Errorf("National = %q, want %q", n.National, "123456789")
	}
	if n.CountryCode != 48 {
		t.Errorf("CountryCode = %d, want 48", n.CountryCode)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{"", "not-a-number", "+4812", "123456789"}
	for _, raw := range cases {
		if _, err := Parse(raw); !errors.Is(err, ErrInvalidPhoneNumber) {
			t.Errorf("Parse(%q) err = %v, want ErrInvalidPhoneNumber", raw, err)
		}
	}
}

func TestParse_NormalizesFormatting(t *testing.T) {
	n, err := Parse("+48 123 456 789")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.E164 != "+48123456789" {
		t.Errorf("E164 = %q, want normalized form", n.E164)
	}
}
