package mapper

import (
	"time"

	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/model"
)

type TopicMapper struct{}

func NewTopicMapper() *TopicMapper {
	return &TopicMapper{}
}

func (m *TopicMapper) ToEntity(t *model.Topic) *entity.Topic {
	if t == nil {
		return nil
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}

	return &entity.Topic{
		Id:        t.Id,
		OwnerId:   t.OwnerId,
		Title:     t.Title,
		Slug:      t.Slug,
		Category:  t.Category,
		Icon:      t.Icon,
		Color:     t.Color,
		SortOrder: t.SortOrder,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *TopicMapper) ToModel(t *entity.Topic) *model.Topic {
	if t == nil {
		return nil
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.Topic{
		Id:        t.Id,
		OwnerId:   t.OwnerId,
		Title:     t.Title,
		Slug:      t.Slug,
		Category:  t.Category,
		Icon:      t.Icon,
		Color:     t.Color,
		SortOrder: t.SortOrder,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *TopicMapper) ToEntities(topics []*model.Topic) []*entity.Topic {
	entities := make([]*entity.Topic, len(topics))
	for i, t := range topics {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
