package mapper

import (
	"encoding/json"
	"fmt"

	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/model"

	"gorm.io/datatypes"
)

type ContentVersionMapper struct{}

func NewContentVersionMapper() *ContentVersionMapper {
	return &ContentVersionMapper{}
}

func (m *ContentVersionMapper) ToEntity(v *model.TopicContentVersion) (*entity.ContentVersion, error) {
	if v == nil {
		return nil, nil
	}

	out := &entity.ContentVersion{
		Id:          v.Id,
		TopicId:     v.TopicId,
		OwnerId:     v.OwnerId,
		SourceNotes: v.SourceNotes,
		Script:      v.Script,
		IsFavorite:  v.IsFavorite,
		CreatedAt:   v.CreatedAt,
	}
	if err := decodeJSON(v.Bullets, &out.Bullets); err != nil {
		return nil, fmt.Errorf("bullets of version %s: %w", v.Id, err)
	}
	if err := decodeJSON(v.CrossQuestions, &out.CrossQuestions); err != nil {
		return nil, fmt.Errorf("cross questions of version %s: %w", v.Id, err)
	}
	if err := decodeJSON(v.Meta, &out.Meta); err != nil {
		return nil, fmt.Errorf("meta of version %s: %w", v.Id, err)
	}
	if out.Bullets == nil {
		out.Bullets = []string{}
	}
	return out, nil
}

func (m *ContentVersionMapper) ToModel(v *entity.ContentVersion) (*model.TopicContentVersion, error) {
	if v == nil {
		return nil, nil
	}

	bullets := v.Bullets
	if bullets == nil {
		bullets = []string{}
	}
	bulletsJSON, err := json.Marshal(bullets)
	if err != nil {
		return nil, err
	}
	questionsJSON, err := json.Marshal(v.CrossQuestions)
	if err != nil {
		return nil, err
	}
	var metaJSON datatypes.JSON
	if v.Meta != nil {
		if metaJSON, err = json.Marshal(v.Meta); err != nil {
			return nil, err
		}
	}

	return &model.TopicContentVersion{
		Id:             v.Id,
		TopicId:        v.TopicId,
		OwnerId:        v.OwnerId,
		SourceNotes:    v.SourceNotes,
		Bullets:        datatypes.JSON(bulletsJSON),
		Script:         v.Script,
		CrossQuestions: datatypes.JSON(questionsJSON),
		Meta:           metaJSON,
		IsFavorite:     v.IsFavorite,
		CreatedAt:      v.CreatedAt,
	}, nil
}

func (m *ContentVersionMapper) ToEntities(versions []*model.TopicContentVersion) ([]*entity.ContentVersion, error) {
	entities := make([]*entity.ContentVersion, len(versions))
	for i, v := range versions {
		e, err := m.ToEntity(v)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}

func (m *ContentVersionMapper) CurrentToEntity(c *model.TopicCurrentVersion) *entity.CurrentVersion {
	if c == nil {
		return nil
	}
	return &entity.CurrentVersion{
		TopicId:   c.TopicId,
		VersionId: c.VersionId,
		OwnerId:   c.OwnerId,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *ContentVersionMapper) CurrentToModel(c *entity.CurrentVersion) *model.TopicCurrentVersion {
	if c == nil {
		return nil
	}
	return &model.TopicCurrentVersion{
		TopicId:   c.TopicId,
		VersionId: c.VersionId,
		OwnerId:   c.OwnerId,
		UpdatedAt: c.UpdatedAt,
	}
}

func decodeJSON(raw datatypes.JSON, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
