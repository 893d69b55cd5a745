// Package slug derives the URL-safe endpoint identifier used in storage
// keys and public retrieval paths.
package slug

import (
	"regexp"
	"strings"
)

var (
	reInvalid = regexp.MustCompile(`[^a-z0-9-_]+`)
	reRuns    = regexp.MustCompile(`-+`)
)

// Make lower-cases name, replaces any run of characters outside
// [a-z0-9-_] with a single hyphen, collapses hyphen runs and trims
// leading/trailing hyphens. Deterministic and idempotent.
func Make(name string) string {
	s := strings.ToLower(name)
	s = reInvalid.ReplaceAllString(s, "-")
	s = reRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}
