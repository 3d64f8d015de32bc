// Package htmlsanitize cleans user-submitted text before it is stored.
//
// Post titles, descriptions, and names are plain text fields, so the
// policy here strips all markup rather than allowing a safe subset.
// Entities introduced by the sanitizer are unescaped afterwards so that
// "5 < 10" survives a round trip unchanged.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripTags removes all HTML markup from s and trims surrounding
// whitespace. The result is safe to store and echo back as plain text.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	cleaned := strict.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
