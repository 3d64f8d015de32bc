// internal/app/system/rollnum/rollnum.go

// Package rollnum canonicalizes student roll numbers.
//
// Roll numbers arrive in inconsistent shapes (BSE-24F-623, bse24f623,
// "BSE 24F 623") from two independent entry points: account onboarding and
// third-party "found" reports. Normalize produces the single comparison key
// used for account uniqueness and for owner matching on found ID cards.
// Every function here is total: bad input degrades, it never errors.
package rollnum

import (
	"regexp"
	"strings"
	"unicode"
)

// displayPattern matches the common campus roll shape after normalization:
// 2-4 letters, 2-3 digits, one letter, 3-4 digits (e.g. bse24f623).
var displayPattern = regexp.MustCompile(`^([a-z]{2,4})(\d{2,3})([a-z])(\d{3,4})$`)

// Normalize maps a raw roll number to its canonical comparison form:
// lowercase with dashes, underscores, and whitespace removed. Empty input
// yields "". Normalize is idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Format re-inserts separators for display (bse24f623 → bse-24f-623).
// Input that does not match the common shape is returned in normalized
// form unchanged; callers must not rely on Format as a validator.
func Format(rollNumber string) string {
	normalized := Normalize(rollNumber)
	m := displayPattern.FindStringSubmatch(normalized)
	if m == nil {
		return normalized
	}
	return m[1] + "-" + m[2] + m[3] + "-" + m[4]
}

// IsValid reports whether the normalized form looks like a plausible roll
// number: at least one letter, at least one digit, and length ≥ 5.
func IsValid(rollNumber string) bool {
	normalized := Normalize(rollNumber)
	if len(normalized) < 5 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range normalized {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// Match reports whether two roll numbers refer to the same identity,
// ignoring case and separator placement.
func Match(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
