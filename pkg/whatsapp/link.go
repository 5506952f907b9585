// Package whatsapp builds wa.me deep links used to hand a finished order
// off to the store's WhatsApp line.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

const baseURL = "https://wa.me/"

// normalizeDestination strips everything except digits from a phone number so
// it is acceptable as a wa.me path segment. A leading "+" is dropped too; wa.me
// expects the number in international format without the plus sign.
func normalizeDestination(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Link builds a wa.me deep link that opens a chat with the given phone number
// pre-filled with text.
func Link(phone string, text string) (string, error) {
	dest := normalizeDestination(phone)
	if dest == "" {
		return "", fmt.Errorf("destination phone %q has no digits", phone)
	}
	if text == "" {
		return "", fmt.Errorf("text is required")
	}
	return baseURL + dest + "?text=" + url.QueryEscape(text), nil
}
