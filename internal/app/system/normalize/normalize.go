// internal/app/system/normalize/normalize.go

// Package normalize provides canonical forms for user-entered field values.
// Keep these pure and total; handlers call them before validation so that
// comparisons and stored values never depend on how a value was typed.
package normalize

import (
	"strings"
	"unicode"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email case-folds and trims an email address; the folded form is the
// join key for login and OAuth account claiming.
func Email(s string) string {
	return text.Fold(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Category lowercases and trims a category slug (e.g. "ID-Cards" → "id-cards").
func Category(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ItemType uppercases a post type filter value ("lost" → "LOST").
func ItemType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// PhoneDigits strips everything but digits from a phone number.
// "+92 300-1234567" → "923001234567".
func PhoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
