package service

import (
	"context"
	"strings"
	"time"

	"interview-prep-be/internal/dto"
	"interview-prep-be/internal/entity"
	"interview-prep-be/internal/pkg/logger"
	"interview-prep-be/internal/repository/specification"
	"interview-prep-be/internal/repository/unitofwork"
	"interview-prep-be/pkg/apperror"

	"github.com/google/uuid"
)

type IDocumentService interface {
	CreateDocument(ctx context.Context, ownerId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	ListDocuments(ctx context.Context, ownerId uuid.UUID, sessionId *uuid.UUID) ([]dto.DocumentResponse, error)
	CreateSession(ctx context.Context, ownerId uuid.UUID, req *dto.CreateDocumentSessionRequest) (*dto.DocumentSessionResponse, error)
	ListSessions(ctx context.Context, ownerId uuid.UUID) ([]dto.DocumentSessionResponse, error)
}

type documentService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *documentService) CreateDocument(ctx context.Context, ownerId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, &apperror.ValidationError{Message: "Content is required"}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if req.SessionId != nil {
		if err := s.ensureSession(ctx, uow, ownerId, *req.SessionId); err != nil {
			return nil, err
		}
	}

	doc := &entity.Document{
		Id:        uuid.New(),
		OwnerId:   ownerId,
		SessionId: req.SessionId,
		Name:      strings.TrimSpace(req.Name),
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, apperror.Persistence("insert document", err)
	}

	s.logger.Info("DocumentService", "Document stored", map[string]interface{}{
		"document_id": doc.Id,
		"owner_id":    ownerId,
		"chars":       len(doc.Content),
	})
	res := dto.NewDocumentResponse(doc)
	return &res, nil
}

func (s *documentService) ListDocuments(ctx context.Context, ownerId uuid.UUID, sessionId *uuid.UUID) ([]dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OwnedBy{OwnerID: ownerId},
		specification.OrderBy{Field: "created_at"},
	}
	if sessionId != nil {
		if err := s.ensureSession(ctx, uow, ownerId, *sessionId); err != nil {
			return nil, err
		}
		specs = append(specs, specification.BySessionID{SessionID: *sessionId})
	}

	docs, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Persistence("list documents", err)
	}

	result := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		result = append(result, dto.NewDocumentResponse(d))
	}
	return result, nil
}

func (s *documentService) CreateSession(ctx context.Context, ownerId uuid.UUID, req *dto.CreateDocumentSessionRequest) (*dto.DocumentSessionResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &apperror.ValidationError{Message: "Name is required"}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session := &entity.DocumentSession{
		Id:        uuid.New(),
		OwnerId:   ownerId,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := uow.DocumentSessionRepository().Create(ctx, session); err != nil {
		return nil, apperror.Persistence("insert document session", err)
	}

	res := dto.NewDocumentSessionResponse(session)
	return &res, nil
}

func (s *documentService) ListSessions(ctx context.Context, ownerId uuid.UUID) ([]dto.DocumentSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.DocumentSessionRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: ownerId},
		specification.NewestFirst{},
	)
	if err != nil {
		return nil, apperror.Persistence("list document sessions", err)
	}

	result := make([]dto.DocumentSessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, dto.NewDocumentSessionResponse(sess))
	}
	return result, nil
}

func (s *documentService) ensureSession(ctx context.Context, uow unitofwork.UnitOfWork, ownerId, sessionId uuid.UUID) error {
	session, err := uow.DocumentSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{OwnerID: ownerId},
	)
	if err != nil {
		return apperror.Persistence("find document session", err)
	}
	if session == nil {
		return &apperror.NotFoundError{Resource: "document session"}
	}
	return nil
}
