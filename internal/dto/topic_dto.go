package dto

import (
	"time"

	"interview-prep-be/internal/entity"

	"github.com/google/uuid"
)

type CreateTopicRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Category    string `json:"category" validate:"max=100"`
	SourceNotes string `json:"source_notes"`
}

type SourceDocumentRequest struct {
	Name    string `json:"name" validate:"max=255"`
	Content string `json:"content" validate:"required"`
}

type CreateTopicsFromDocumentsRequest struct {
	Documents []SourceDocumentRequest `json:"documents" validate:"dive"`
	SessionId *uuid.UUID              `json:"session_id"`
}

type RegenerateContentRequest struct {
	Title       string `json:"title" validate:"max=255"`
	SourceNotes string `json:"source_notes"`
}

type SetCurrentVersionRequest struct {
	VersionId uuid.UUID `json:"version_id" validate:"required"`
}

type TopicResponse struct {
	Id               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Category         string     `json:"category"`
	Icon             string     `json:"icon"`
	Color            string     `json:"color"`
	SortOrder        int        `json:"sort_order"`
	State            string     `json:"state"`
	CurrentVersionId *uuid.UUID `json:"current_version_id"`
	CreatedAt        time.Time  `json:"created_at"`
}

type ContentVersionResponse struct {
	Id             uuid.UUID              `json:"id"`
	TopicId        uuid.UUID              `json:"topic_id"`
	SourceNotes    string                 `json:"source_notes"`
	Bullets        []string               `json:"bullets"`
	Script         string                 `json:"script"`
	CrossQuestions []entity.CrossQuestion `json:"cross_questions"`
	Meta           map[string]interface{} `json:"meta,omitempty"`
	IsFavorite     bool                   `json:"is_favorite"`
	IsCurrent      bool                   `json:"is_current"`
	CreatedAt      time.Time              `json:"created_at"`
}

type TopicDetailResponse struct {
	Topic   TopicResponse           `json:"topic"`
	Content *ContentVersionResponse `json:"content"`
}

// TopicResult is the outcome of one batch item.
type TopicResult struct {
	Title            string         `json:"title"`
	Slug             string         `json:"slug"`
	Topic            *TopicResponse `json:"topic,omitempty"`
	Created          bool           `json:"created"`
	ContentGenerated bool           `json:"content_generated"`
	Error            string         `json:"error,omitempty"`
}

type TopicFailure struct {
	Slug  string `json:"slug"`
	Stage string `json:"stage"`
	Error string `json:"error"`
}

type BatchSummaryResponse struct {
	TopicsCreated int             `json:"topics_created"`
	Topics        []TopicResponse `json:"topics"`
	Results       []TopicResult   `json:"results"`
	Failures      []TopicFailure  `json:"failures"`
}

func NewTopicResponse(t *entity.Topic, current *entity.CurrentVersion) TopicResponse {
	res := TopicResponse{
		Id:        t.Id,
		Title:     t.Title,
		Slug:      t.Slug,
		Category:  t.Category,
		Icon:      t.Icon,
		Color:     t.Color,
		SortOrder: t.SortOrder,
		State:     string(entity.StateOf(current)),
		CreatedAt: t.CreatedAt,
	}
	if current != nil {
		id := current.VersionId
		res.CurrentVersionId = &id
	}
	return res
}

func NewContentVersionResponse(v *entity.ContentVersion, isCurrent bool) *ContentVersionResponse {
	return &ContentVersionResponse{
		Id:             v.Id,
		TopicId:        v.TopicId,
		SourceNotes:    v.SourceNotes,
		Bullets:        v.Bullets,
		Script:         v.Script,
		CrossQuestions: v.CrossQuestions,
		Meta:           v.Meta,
		IsFavorite:     v.IsFavorite,
		IsCurrent:      isCurrent,
		CreatedAt:      v.CreatedAt,
	}
}
