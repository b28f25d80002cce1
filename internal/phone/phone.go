// Package phone parses and validates phone numbers for enrollment.
package phone

import (
	"errors"
	"strconv"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidPhoneNumber is returned when input does not parse as a valid phone number.
var ErrInvalidPhoneNumber = errors.New("invalid phone number")

// Number is a parsed phone number split into the parts the verification
// provider expects (national number and numeric country code).
type Number struct {
	E164        string
	National    string
	CountryCode int
}

// Parse parses raw into a Number. raw must carry the country code
// (e.g. "+48123456789"); numbers without a region cannot be resolved.
func Parse(raw string) (Number, error) {
	if raw == "" {
		return Number{}, ErrInvalidPhoneNumber
	}
	parsed, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return Number{}, ErrInvalidPhoneNumber
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return Number{}, ErrInvalidPhoneNumber
	}
	return Number{
		E164:        phonenumbers.Format(parsed, phonenumbers.E164),
		National:    strconv.FormatUint(parsed.GetNationalNumber(), 10),
		CountryCode: int(parsed.GetCountryCode()),
	}, nil
}
