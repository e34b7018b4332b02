package response

import (
	"fmt"
	"strings"

	"interview-prep-be/internal/entity"
)

var (
	bulletKeys        = []string{"bullets", "key_points", "talking_points"}
	scriptKeys        = []string{"script", "narrative"}
	crossQuestionKeys = []string{"cross_questions", "questions", "follow_up_questions"}
)

var fallbackQuestionPatterns = []string{
	"What real-world problem have you solved using %s?",
	"What trade-offs do you weigh when choosing %s?",
	"How would you explain %s to a teammate who has never used it?",
	"What went wrong the last time you worked with %s, and what did you change?",
}

// NormalizeContent maps a parsed model answer onto the bullets/script/cross-questions
// triple. Missing fields become empty, except cross-questions which fall back to four
// questions about the title.
func NormalizeContent(obj map[string]any, title string) entity.GeneratedContent {
	content := entity.GeneratedContent{
		Bullets:        stringList(firstPresent(obj, bulletKeys)),
		Script:         stringValue(firstPresent(obj, scriptKeys)),
		CrossQuestions: crossQuestions(firstPresent(obj, crossQuestionKeys)),
	}

	if len(content.CrossQuestions) == 0 {
		content.CrossQuestions = FallbackQuestions(title)
		content.UsedFallback = true
	}
	return content
}

func FallbackQuestions(title string) []entity.CrossQuestion {
	subject := strings.ToLower(strings.TrimSpace(title))
	questions := make([]entity.CrossQuestion, len(fallbackQuestionPatterns))
	for i, pattern := range fallbackQuestionPatterns {
		questions[i] = entity.PlainQuestion(fmt.Sprintf(pattern, subject))
	}
	return questions
}

func firstPresent(obj map[string]any, keys []string) any {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := stringValue(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func crossQuestions(v any) []entity.CrossQuestion {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]entity.CrossQuestion, 0, len(items))
	for _, item := range items {
		switch q := item.(type) {
		case string:
			if s := strings.TrimSpace(q); s != "" {
				out = append(out, entity.PlainQuestion(s))
			}
		case map[string]any:
			question := stringValue(q["question"])
			if question == "" {
				continue
			}
			out = append(out, entity.QuestionAnswer(question, stringValue(q["answer"])))
		}
	}
	return out
}
