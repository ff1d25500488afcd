// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

// ErrInvalidNumber is returned when the input does not reduce to a ten-digit
// national number.
var ErrInvalidNumber = errors.New("phone number must contain exactly 10 digits")

// NormalizeNational reduces a free-form phone number to its ten-digit national
// form ("(631) 555-0123" -> "6315550123"). Leads are captured with whatever
// formatting the customer typed; storage holds digits only.
//
// Parsing goes through libphonenumber first so "+1 631 555 0123" and similar
// international spellings resolve correctly; unparseable input falls back to
// stripping non-digits. Anything that does not end up as 10 digits is rejected.
func NormalizeNational(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", ErrInvalidNumber
	}

	if number, err := phonenumbers.Parse(trimmed, defaultRegion); err == nil {
		if phonenumbers.IsValidNumber(number) {
			national := phonenumbers.GetNationalSignificantNumber(number)
			if len(national) == 10 {
				return national, nil
			}
		}
	}

	digits := stripNonDigits(trimmed)
	// Tolerate a dialed country code on otherwise-national numbers.
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", ErrInvalidNumber
	}

	return digits, nil
}

func stripNonDigits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
