package mapper

import (
	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:        d.Id,
		OwnerId:   d.OwnerId,
		SessionId: d.SessionId,
		Name:      d.Name,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:        d.Id,
		OwnerId:   d.OwnerId,
		SessionId: d.SessionId,
		Name:      d.Name,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

func (m *DocumentMapper) SessionToEntity(s *model.DocumentSession) *entity.DocumentSession {
	if s == nil {
		return nil
	}
	return &entity.DocumentSession{
		Id:        s.Id,
		OwnerId:   s.OwnerId,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}

func (m *DocumentMapper) SessionToModel(s *entity.DocumentSession) *model.DocumentSession {
	if s == nil {
		return nil
	}
	return &model.DocumentSession{
		Id:        s.Id,
		OwnerId:   s.OwnerId,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}

func (m *DocumentMapper) SessionsToEntities(sessions []*model.DocumentSession) []*entity.DocumentSession {
	entities := make([]*entity.DocumentSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.SessionToEntity(s)
	}
	return entities
}
