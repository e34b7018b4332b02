package model

import (
	"time"

	"github.com/google/uuid"
)

type DocumentSession struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (DocumentSession) TableName() string {
	return "document_sessions"
}

type Document struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId   uuid.UUID  `gorm:"type:uuid;not null;index"`
	SessionId *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"type:varchar(255);not null"`
	Content   string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`

	Session *DocumentSession `gorm:"foreignKey:SessionId;constraint:OnDelete:SET NULL"`
}

func (Document) TableName() string {
	return "documents"
}
