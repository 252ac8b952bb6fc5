// Package policy scrubs secrets from strings before they reach logs or
// clients. Bot API URLs embed the token, so any transport error that echoes
// the request URL would otherwise leak it.
package policy

import (
	"regexp"
	"strings"
)

// botPathPattern matches the token segment of a Bot API URL regardless of
// where the error text picked it up.
var botPathPattern = regexp.MustCompile(`/bot[0-9]+:[A-Za-z0-9_\-]+/`)

// RedactToken masks the given token and any Bot API URL token segment.
func RedactToken(token, input string) (redacted string, changed bool) {
	out := input
	if token != "" {
		next := strings.ReplaceAll(out, token, "[REDACTED_TOKEN]")
		changed = next != out
		out = next
	}
	next := botPathPattern.ReplaceAllString(out, "/bot[REDACTED_TOKEN]/")
	changed = changed || next != out
	out = next
	return out, changed
}
