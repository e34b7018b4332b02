package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id        uuid.UUID
	OwnerId   uuid.UUID
	SessionId *uuid.UUID
	Name      string
	Content   string
	CreatedAt time.Time
}

type DocumentSession struct {
	Id        uuid.UUID
	OwnerId   uuid.UUID
	Name      string
	CreatedAt time.Time
}
