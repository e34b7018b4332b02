package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// QuestionKind is the stored shape of a cross-question.
type QuestionKind string

const (
	QuestionKindPlain QuestionKind = "plain" // JSON string
	QuestionKindPair  QuestionKind = "qa"    // {"question","answer"}, answer may be empty
)

// CrossQuestion is either a plain question or a question paired with a suggested answer.
// Kind decides the JSON shape; the zero Kind encodes as plain.
type CrossQuestion struct {
	Kind     QuestionKind
	Question string
	Answer   string
}

func PlainQuestion(q string) CrossQuestion {
	return CrossQuestion{Kind: QuestionKindPlain, Question: q}
}

func QuestionAnswer(q, a string) CrossQuestion {
	return CrossQuestion{Kind: QuestionKindPair, Question: q, Answer: a}
}

func (c CrossQuestion) IsPlain() bool {
	return c.Kind != QuestionKindPair
}

// As converts the question to kind. Converting to plain drops the answer.
func (c CrossQuestion) As(kind QuestionKind) CrossQuestion {
	if kind == QuestionKindPair {
		return QuestionAnswer(c.Question, c.Answer)
	}
	return PlainQuestion(c.Question)
}

// ConformQuestions returns the questions re-shaped so every entry has the same kind.
func ConformQuestions(questions []CrossQuestion, kind QuestionKind) []CrossQuestion {
	out := make([]CrossQuestion, len(questions))
	for i, q := range questions {
		out[i] = q.As(kind)
	}
	return out
}

type questionAnswerJSON struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (c CrossQuestion) MarshalJSON() ([]byte, error) {
	if c.IsPlain() {
		return json.Marshal(c.Question)
	}
	return json.Marshal(questionAnswerJSON{Question: c.Question, Answer: c.Answer})
}

func (c *CrossQuestion) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty cross question")
	}
	if data[0] == '"' {
		var q string
		if err := json.Unmarshal(data, &q); err != nil {
			return err
		}
		*c = PlainQuestion(q)
		return nil
	}
	var qa questionAnswerJSON
	if err := json.Unmarshal(data, &qa); err != nil {
		return err
	}
	*c = QuestionAnswer(qa.Question, qa.Answer)
	return nil
}

// GeneratedContent is the validated triple produced from one model answer.
type GeneratedContent struct {
	Bullets        []string
	Script         string
	CrossQuestions []CrossQuestion
	UsedFallback   bool // cross-questions were synthesized from the title
}

// ContentVersion is immutable once written; regeneration inserts a new one.
type ContentVersion struct {
	Id             uuid.UUID
	TopicId        uuid.UUID
	OwnerId        uuid.UUID
	SourceNotes    string
	Bullets        []string
	Script         string
	CrossQuestions []CrossQuestion
	Meta           map[string]interface{}
	IsFavorite     bool
	CreatedAt      time.Time
}

// CurrentVersion points a topic at its active ContentVersion.
type CurrentVersion struct {
	TopicId   uuid.UUID
	VersionId uuid.UUID
	OwnerId   uuid.UUID
	UpdatedAt time.Time
}
