package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TopicContentVersion rows are append-only.
type TopicContentVersion struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TopicId        uuid.UUID      `gorm:"type:uuid;not null;index:idx_versions_topic_created,priority:1"`
	OwnerId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	SourceNotes    string         `gorm:"type:text"`
	Bullets        datatypes.JSON `gorm:"type:jsonb;not null"`
	Script         string         `gorm:"type:text;not null;default:''"`
	CrossQuestions datatypes.JSON `gorm:"type:jsonb;not null"`
	Meta           datatypes.JSON `gorm:"type:jsonb"`
	IsFavorite     bool           `gorm:"not null;default:false"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index:idx_versions_topic_created,priority:2,sort:desc"`

	Topic *Topic `gorm:"foreignKey:TopicId;constraint:OnDelete:CASCADE"`
}

func (TopicContentVersion) TableName() string {
	return "topic_content_versions"
}

// TopicCurrentVersion holds at most one row per topic.
type TopicCurrentVersion struct {
	TopicId   uuid.UUID `gorm:"type:uuid;primaryKey"`
	VersionId uuid.UUID `gorm:"type:uuid;not null"`
	OwnerId   uuid.UUID `gorm:"type:uuid;not null;index"`
	UpdatedAt time.Time `gorm:"not null"`

	Topic   *Topic               `gorm:"foreignKey:TopicId;constraint:OnDelete:CASCADE"`
	Version *TopicContentVersion `gorm:"foreignKey:VersionId;constraint:OnDelete:RESTRICT"`
}

func (TopicCurrentVersion) TableName() string {
	return "topic_current_version"
}
