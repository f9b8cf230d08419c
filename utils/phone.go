package utils

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

// NormalizePhone parses a phone number and returns it in E.164 format
// (+15551234567). Numbers without a country code are assumed to be US.
func NormalizePhone(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", fmt.Errorf("invalid phone number %q: %w", raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number %q", raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// FormatPhoneNational renders an E.164 number the way a person would
// read it, e.g. (555) 123-4567. Unparseable input is returned as-is.
func FormatPhoneNational(e164 string) string {
	num, err := phonenumbers.Parse(e164, defaultRegion)
	if err != nil {
		return e164
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}
