package prompt

import (
	"strings"
	"testing"

	"interview-prep-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMeaningful(t *testing.T) {
	policy := DefaultPolicy()
	long := strings.Repeat("Ran a Kafka cluster with 40 brokers. ", 3)

	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{"empty", "", false},
		{"whitespace", "   \n\t", false},
		{"exactly min chars", strings.Repeat("a", 50), false},
		{"just above min chars", strings.Repeat("a", 51), true},
		{"real notes", long, true},
		{"cyrillic below min chars", strings.Repeat("я", 30), false},
		{"cyrillic at min chars", strings.Repeat("я", 50), false},
		{"cjk above min chars", strings.Repeat("数据", 26), true},
		{"placeholder note", "NOTE: this file could not be parsed. " + long, false},
		{"extraction error", long + " Error extracting text from PDF", false},
		{"integration stub", long + " requires integration with drive", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsMeaningful(tt.source))
		})
	}
}

func TestBuildContentLimitedSource(t *testing.T) {
	p := NewBuilder(DefaultPolicy()).BuildContent(ContentInput{Title: "Apache Kafka", SourceNotes: "", Style: StyleQA})

	assert.Contains(t, p.User, limitedGuidance)
	assert.NotContains(t, p.User, meaningfulGuidance)
	assert.Contains(t, p.User, "Apache Kafka")
}

func TestBuildContentMeaningfulSource(t *testing.T) {
	notes := "Migrated our order pipeline from RabbitMQ to Kafka, cutting p99 latency from 800ms to 90ms."
	p := NewBuilder(DefaultPolicy()).BuildContent(ContentInput{Title: "Apache Kafka", SourceNotes: notes, Style: StylePlain})

	assert.Contains(t, p.User, meaningfulGuidance)
	assert.NotContains(t, p.User, limitedGuidance)
	assert.Contains(t, p.User, notes)
	assert.Contains(t, p.User, "exactly 4 follow-up questions")
	assert.NotContains(t, p.User, `"answer"`)
}

func TestBuildContentIsDeterministic(t *testing.T) {
	b := NewBuilder(DefaultPolicy())
	in := ContentInput{Title: "Go", SourceNotes: "notes", Style: StyleQA}
	assert.Equal(t, b.BuildContent(in), b.BuildContent(in))
}

func TestMessagesOrder(t *testing.T) {
	msgs := Prompt{System: "sys", User: "usr"}.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: "sys"}, msgs[0])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "usr"}, msgs[1])
}

func TestBuildProposal(t *testing.T) {
	p := NewBuilder(DefaultPolicy()).BuildProposal(ProposalInput{
		Documents: []SourceDocument{
			{Name: "resume.pdf", Content: strings.Repeat("x", 100)},
			{Content: "short"},
		},
		MaxTopics:    8,
		MaxDocChars:  10,
		Style:        StyleQA,
		WithContents: true,
	})

	assert.Contains(t, p.User, `<document name="resume.pdf">`)
	assert.Contains(t, p.User, `<document name="document-2">`)
	assert.Contains(t, p.User, "[truncated]")
	assert.NotContains(t, p.User, strings.Repeat("x", 11))
	assert.Contains(t, p.User, "at most 8")
	assert.Contains(t, p.User, `"cross_questions": [{"question"`)
}

func TestParseStyle(t *testing.T) {
	assert.Equal(t, StylePlain, ParseStyle(" Plain "))
	assert.Equal(t, StyleQA, ParseStyle("qa"))
	assert.Equal(t, StyleQA, ParseStyle(""))
}
