package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"interview-prep-be/pkg/llm"
	"interview-prep-be/pkg/utils"
)

const (
	meaningfulGuidance = "Use the specific details from the source notes"
	limitedGuidance    = "create realistic, plausible content"
)

const systemPersona = "You are an experienced technical interview coach. " +
	"You help candidates turn their own experience into concise talking points, " +
	"a short spoken answer and the follow-up questions an interviewer is likely to ask. " +
	"You always answer with a single JSON object and nothing else."

// Style selects the cross-question shape requested from the model.
type Style string

const (
	StylePlain Style = "plain"
	StyleQA    Style = "qa"
)

func ParseStyle(s string) Style {
	if Style(strings.ToLower(strings.TrimSpace(s))) == StylePlain {
		return StylePlain
	}
	return StyleQA
}

// Policy decides whether source notes carry enough real material to ground the content.
// MinChars counts characters, not bytes.
type Policy struct {
	MinChars           int
	PlaceholderMarkers []string
}

func DefaultPolicy() Policy {
	return Policy{
		MinChars:           50,
		PlaceholderMarkers: []string{"note:", "error extracting", "requires integration"},
	}
}

func (p Policy) IsMeaningful(source string) bool {
	trimmed := strings.TrimSpace(source)
	if utf8.RuneCountInString(trimmed) <= p.MinChars {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range p.PlaceholderMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return false
		}
	}
	return true
}

// Prompt is a system/user instruction pair ready for a chat call.
type Prompt struct {
	System string
	User   string
}

func (p Prompt) Messages() []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: p.System},
		{Role: llm.RoleUser, Content: p.User},
	}
}

type ContentInput struct {
	Title       string
	SourceNotes string
	Style       Style
}

// Builder renders prompts under a fixed Policy.
type Builder struct {
	policy Policy
}

func NewBuilder(policy Policy) *Builder {
	return &Builder{policy: policy}
}

func (b *Builder) Policy() Policy {
	return b.policy
}

// BuildContent asks for bullets, a script and four cross-questions about one topic.
func (b *Builder) BuildContent(in ContentInput) Prompt {
	var user strings.Builder

	user.WriteString("<topic>\n")
	user.WriteString(in.Title)
	user.WriteString("\n</topic>\n\n")

	user.WriteString("<source_notes>\n")
	user.WriteString(in.SourceNotes)
	user.WriteString("\n</source_notes>\n\n")

	user.WriteString("<task>\n")
	if b.policy.IsMeaningful(in.SourceNotes) {
		user.WriteString(meaningfulGuidance)
		user.WriteString(": real projects, numbers, tools and outcomes the candidate mentioned. ")
		user.WriteString("Do not invent experience that contradicts them.\n")
	} else {
		user.WriteString("The source notes are missing or too thin to rely on. ")
		user.WriteString("Based on typical industry experience with this topic, ")
		user.WriteString(limitedGuidance)
		user.WriteString(" that a mid-level engineer could credibly talk about.\n")
	}
	user.WriteString("</task>\n\n")

	writeContentContract(&user, in.Style)

	return Prompt{System: systemPersona, User: user.String()}
}

func writeContentContract(sb *strings.Builder, style Style) {
	sb.WriteString("<output_format>\n")
	sb.WriteString("Return ONLY valid JSON with exactly this shape:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "bullets": ["5 to 7 short talking points"],` + "\n")
	sb.WriteString(`  "script": "one spoken paragraph in first person",` + "\n")
	if style == StylePlain {
		sb.WriteString(`  "cross_questions": ["exactly 4 follow-up questions an interviewer would ask"]` + "\n")
	} else {
		sb.WriteString(`  "cross_questions": [{"question": "follow-up question", "answer": "suggested answer"}]` + "\n")
	}
	sb.WriteString("}\n")
	if style != StylePlain {
		sb.WriteString("cross_questions must contain exactly 4 objects.\n")
	}
	sb.WriteString("</output_format>")
}

// SourceDocument is one named piece of material for topic proposals.
type SourceDocument struct {
	Name    string
	Content string
}

type ProposalInput struct {
	Documents    []SourceDocument
	MaxTopics    int
	MaxDocChars  int
	Style        Style
	WithContents bool // also ask for pre-generated content per topic
}

// BuildProposal asks the model to propose interview topics covered by the documents.
func (b *Builder) BuildProposal(in ProposalInput) Prompt {
	var user strings.Builder

	user.WriteString("<documents>\n")
	for i, doc := range in.Documents {
		name := strings.TrimSpace(doc.Name)
		if name == "" {
			name = fmt.Sprintf("document-%d", i+1)
		}
		user.WriteString(fmt.Sprintf("<document name=%q>\n", name))
		user.WriteString(utils.Truncate(doc.Content, in.MaxDocChars))
		user.WriteString("\n</document>\n")
	}
	user.WriteString("</documents>\n\n")

	user.WriteString("<task>\n")
	user.WriteString(fmt.Sprintf("Propose at most %d distinct interview topics the candidate can speak about, ", in.MaxTopics))
	user.WriteString("based on the documents above. Prefer concrete technologies and practices over generic soft skills.\n")
	user.WriteString("Slugs are lower-case words joined by hyphens.\n")
	user.WriteString("</task>\n\n")

	user.WriteString("<output_format>\n")
	user.WriteString("Return ONLY valid JSON with exactly this shape:\n")
	user.WriteString(`{"topics": [{"title": "...", "slug": "...", "category": "...", "icon": "...", "color": "#RRGGBB", "sort_order": 0`)
	if in.WithContents {
		user.WriteString(`, "bullets": ["..."], "script": "...", "cross_questions": [`)
		if in.Style == StylePlain {
			user.WriteString(`"..."`)
		} else {
			user.WriteString(`{"question": "...", "answer": "..."}`)
		}
		user.WriteString("]")
	}
	user.WriteString("}]}\n")
	user.WriteString("</output_format>")

	return Prompt{System: systemPersona, User: user.String()}
}
