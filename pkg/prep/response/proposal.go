package response

import (
	"strings"

	"interview-prep-be/internal/entity"
	"interview-prep-be/pkg/prep/slug"
)

const (
	DefaultCategory = "General"
	DefaultIcon     = "book-open"
	DefaultColor    = "#6366F1"
)

// TopicProposal is one topic suggested by the model from a set of documents.
type TopicProposal struct {
	Title     string
	Slug      string
	Category  string
	Icon      string
	Color     string
	SortOrder int
	Content   *entity.GeneratedContent // nil when the model did not pre-generate content
}

func (p TopicProposal) HasContent() bool {
	return p.Content != nil
}

// DecodeProposals parses {"topics":[...]} and normalizes every usable entry.
// Entries without a title are dropped.
func DecodeProposals(raw string) ([]TopicProposal, error) {
	obj, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	items, _ := obj["topics"].([]any)
	proposals := make([]TopicProposal, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if p, ok := normalizeProposal(fields, i); ok {
			proposals = append(proposals, p)
		}
	}
	return proposals, nil
}

func normalizeProposal(fields map[string]any, index int) (TopicProposal, bool) {
	title := stringValue(fields["title"])
	if title == "" {
		return TopicProposal{}, false
	}

	s := slug.Make(stringValue(fields["slug"]))
	if s == "" {
		s = slug.Make(title)
	}
	if s == "" {
		return TopicProposal{}, false
	}

	p := TopicProposal{
		Title:     title,
		Slug:      s,
		Category:  orDefault(stringValue(fields["category"]), DefaultCategory),
		Icon:      orDefault(stringValue(fields["icon"]), DefaultIcon),
		Color:     orDefault(stringValue(fields["color"]), DefaultColor),
		SortOrder: index,
	}
	if n, ok := fields["sort_order"].(float64); ok {
		p.SortOrder = int(n)
	}

	if carriesContent(fields) {
		content := NormalizeContent(fields, title)
		p.Content = &content
	}
	return p, true
}

func carriesContent(fields map[string]any) bool {
	if len(stringList(firstPresent(fields, bulletKeys))) > 0 {
		return true
	}
	return stringValue(firstPresent(fields, scriptKeys)) != ""
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
