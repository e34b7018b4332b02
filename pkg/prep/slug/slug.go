package slug

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Make derives the per-owner unique key of a topic from its title.
func Make(title string) string {
	s := nonAlphanumeric.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

func IsValid(s string) bool {
	return s != "" && Make(s) == s
}
