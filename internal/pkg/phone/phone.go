package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalid is returned for input that cannot be normalised to E.164.
var ErrInvalid = errors.New("invalid phone number")

var cleaner = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// Normalize cleans up user-entered phone input and returns it in E.164 form.
// Spaces, dashes and parentheses are stripped and a missing leading + is
// assumed to precede a country code, matching what the booking form collects.
// Numbers are checked for E.164 plausibility (length and country code), not
// carrier-level validity, so test ranges like +1555... are accepted.
func Normalize(raw string) (string, error) {
	cleaned := cleaner.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", ErrInvalid
	}
	if !strings.HasPrefix(cleaned, "+") {
		cleaned = "+" + cleaned
	}
	num, err := phonenumbers.Parse(cleaned, "")
	if err != nil {
		return "", ErrInvalid
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", ErrInvalid
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
