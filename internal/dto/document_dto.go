package dto

import (
	"time"

	"interview-prep-be/internal/entity"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Name      string     `json:"name" validate:"required,max=255"`
	Content   string     `json:"content" validate:"required"`
	SessionId *uuid.UUID `json:"session_id"`
}

type CreateDocumentSessionRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type DocumentResponse struct {
	Id        uuid.UUID  `json:"id"`
	SessionId *uuid.UUID `json:"session_id"`
	Name      string     `json:"name"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
}

type DocumentSessionResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func NewDocumentResponse(d *entity.Document) DocumentResponse {
	return DocumentResponse{
		Id:        d.Id,
		SessionId: d.SessionId,
		Name:      d.Name,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

func NewDocumentSessionResponse(s *entity.DocumentSession) DocumentSessionResponse {
	return DocumentSessionResponse{
		Id:        s.Id,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}
