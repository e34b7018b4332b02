package model

import (
	"time"

	"github.com/google/uuid"
)

type Topic struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_topics_owner_slug,priority:1"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Slug      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_topics_owner_slug,priority:2"`
	Category  string    `gorm:"type:varchar(100);not null;default:'General'"`
	Icon      string    `gorm:"type:varchar(100)"`
	Color     string    `gorm:"type:varchar(20)"`
	SortOrder int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Topic) TableName() string {
	return "topics"
}
