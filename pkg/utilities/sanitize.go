package utilities

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripMarkup removes every HTML tag from s and trims it. Entities the policy
// escapes are turned back into plain text, the value is stored as text and
// escaped on output by whoever renders it.
func StripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
