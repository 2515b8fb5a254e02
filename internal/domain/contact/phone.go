package contact

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	// number did not start with "+" or could not be parsed at all.
	ErrPhoneFormat = errors.New("invalid phone number format")
	// number parsed but is not valid in any numbering plan.
	ErrPhoneInvalid = errors.New("invalid phone number")
)

// NormalizePhone validates a phone number against the international
// numbering plan and reformats it to canonical E.164. The input must carry
// its country code, so a leading "+" is required and no default region is
// assumed.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	if !strings.HasPrefix(raw, "+") {
		return "", ErrPhoneFormat
	}

	parsed, err := phonenumbers.Parse(raw, "")

	if err != nil {
		return "", ErrPhoneFormat
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return "", ErrPhoneInvalid
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
