package utils

import "strings"

const TruncationMarker = "\n[truncated]"

// Truncate cuts text to at most maxChars runes, marking the cut. maxChars <= 0 disables it.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + TruncationMarker
}

// JoinNonBlank joins the non-blank parts with sep, trimming each one.
func JoinNonBlank(parts []string, sep string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, sep)
}
