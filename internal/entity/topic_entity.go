package entity

import (
	"time"

	"github.com/google/uuid"
)

type Topic struct {
	Id        uuid.UUID
	OwnerId   uuid.UUID
	Title     string
	Slug      string // unique per owner, derived once from Title
	Category  string
	Icon      string
	Color     string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// TopicState is the per-topic lifecycle: nonexistent -> created-no-content -> created-with-content.
type TopicState string

const (
	TopicStateNoContent   TopicState = "created-no-content"
	TopicStateWithContent TopicState = "created-with-content"
)

func StateOf(current *CurrentVersion) TopicState {
	if current == nil {
		return TopicStateNoContent
	}
	return TopicStateWithContent
}
