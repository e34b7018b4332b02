package response

import (
	"encoding/json"
	"regexp"
	"strings"

	"interview-prep-be/pkg/apperror"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Parse extracts a JSON object from a raw model answer.
func Parse(raw string) (map[string]any, error) {
	var obj map[string]any
	if err := Decode(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// Decode tries the whole answer as JSON first, then the first fenced code block.
// Any failure is reported as *apperror.ParseError carrying the raw text.
func Decode(raw string, v any) error {
	candidate, ok := extract(raw)
	if !ok {
		return &apperror.ParseError{Raw: raw}
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return &apperror.ParseError{Raw: raw, Err: err}
	}
	return nil
}

func extract(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if json.Valid([]byte(trimmed)) {
		return trimmed, true
	}

	match := fencedBlock.FindStringSubmatch(raw)
	if match == nil {
		return "", false
	}
	inner := strings.TrimSpace(match[1])
	if !json.Valid([]byte(inner)) {
		return "", false
	}
	return inner, true
}
