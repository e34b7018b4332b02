package specification

import (
	"interview-prep-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OwnedBy struct {
	OwnerID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(scope.Owner(s.OwnerID))
}

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

type ByTopicID struct {
	TopicID uuid.UUID
}

func (s ByTopicID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("topic_id = ?", s.TopicID)
}

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// TopicOrder sorts topics the way the dashboard shows them.
type TopicOrder struct{}

func (s TopicOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Scopes(scope.OrderByCreatedAsc)
}

type NewestFirst struct{}

func (s NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(scope.OrderByCreatedDesc)
}
