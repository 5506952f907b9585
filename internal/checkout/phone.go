package checkout

import (
	"strings"

	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
)

// NormalizePhone brings a customer phone into country-code-prefixed form.
// Numbers already carrying a "+" prefix pass through unchanged; otherwise
// leading zeros are stripped first, then the country code is prepended unless
// the remaining digits already start with it.
func NormalizePhone(raw string, countryCode string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if strings.HasPrefix(value, "+") {
		return value, nil
	}

	cc := strings.TrimPrefix(countryCode, "+")
	digits := strings.TrimLeft(value, "0")
	if digits == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer phone has no significant digits")
	}

	if strings.HasPrefix(digits, cc) && len(digits) > len(cc) {
		return "+" + digits, nil
	}
	return "+" + cc + digits, nil
}
