package controller

import (
	"interview-prep-be/internal/dto"
	"interview-prep-be/internal/pkg/serverutils"
	"interview-prep-be/internal/service"
	"interview-prep-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	ListDocuments(ctx *fiber.Ctx) error
	CreateDocument(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/documents/v1")
	h.Use(authMiddleware)
	h.Get("", c.ListDocuments)
	h.Post("", c.CreateDocument)
	h.Get("/sessions", c.ListSessions)
	h.Post("/sessions", c.CreateSession)
}

func (c *documentController) ListDocuments(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	var sessionId *uuid.UUID
	if raw := ctx.Query("session_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return &apperror.ValidationError{Message: "session_id must be a valid UUID"}
		}
		sessionId = &id
	}

	res, err := c.service.ListDocuments(ctx.UserContext(), ownerId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *documentController) CreateDocument(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateDocument(ctx.UserContext(), ownerId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create document", res))
}

func (c *documentController) ListSessions(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListSessions(ctx.UserContext(), ownerId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list document sessions", res))
}

func (c *documentController) CreateSession(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateDocumentSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateSession(ctx.UserContext(), ownerId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create document session", res))
}
