// Package identifier normalizes and classifies the user-supplied contact
// string. Anything containing '@' is treated as an email address; everything
// else as a phone number. Classification is a pure function of the
// normalized form, and the notifier channel follows it directly.
package identifier

import (
	"strings"

	"github.com/asaskevich/govalidator"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
	dErrors "github.com/BikashBaishnab/horibol-website-sub000/pkg/domain-errors"
)

// localMobileDigits is the length of a bare domestic mobile number that gets
// the country code prefixed during normalization.
const localMobileDigits = 10

// Normalize canonicalizes a raw identifier. Emails are trimmed and
// lower-cased; phones are stripped to digits and a bare 10-digit local
// mobile is prefixed with the given country code. Raw input never reaches
// the stores.
func Normalize(raw, countryCode string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identifier is required")
	}

	if strings.Contains(trimmed, "@") {
		email := strings.ToLower(trimmed)
		if !govalidator.IsEmail(email) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "invalid email address")
		}
		return email, nil
	}

	digits := stripNonDigits(trimmed)
	if len(digits) < localMobileDigits {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid phone number")
	}
	if len(digits) == localMobileDigits {
		digits = countryCode + digits
	}
	return digits, nil
}

// ChannelFor selects the delivery channel from the shape of a normalized
// identifier.
func ChannelFor(normalized string) models.Channel {
	if strings.Contains(normalized, "@") {
		return models.ChannelEmail
	}
	return models.ChannelChat
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
