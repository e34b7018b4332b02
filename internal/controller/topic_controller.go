package controller

import (
	"interview-prep-be/internal/dto"
	"interview-prep-be/internal/pkg/serverutils"
	"interview-prep-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITopicController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	ListTopics(ctx *fiber.Ctx) error
	CreateTopic(ctx *fiber.Ctx) error
	CreateDefaultTopics(ctx *fiber.Ctx) error
	CreateFromDocuments(ctx *fiber.Ctx) error
	GetTopic(ctx *fiber.Ctx) error
	ListVersions(ctx *fiber.Ctx) error
	Regenerate(ctx *fiber.Ctx) error
	SetCurrentVersion(ctx *fiber.Ctx) error
}

type topicController struct {
	service service.ITopicService
}

func NewTopicController(service service.ITopicService) ITopicController {
	return &topicController{service: service}
}

func (c *topicController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/topics/v1")
	h.Use(authMiddleware)
	h.Get("", c.ListTopics)
	h.Post("", c.CreateTopic)
	h.Post("/defaults", c.CreateDefaultTopics)
	h.Post("/from-documents", c.CreateFromDocuments)
	h.Get("/:id", c.GetTopic)
	h.Get("/:id/versions", c.ListVersions)
	h.Post("/:id/regenerate", c.Regenerate)
	h.Put("/:id/current-version", c.SetCurrentVersion)
}

func (c *topicController) ListTopics(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListTopics(ctx.UserContext(), ownerId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list topics", res))
}

func (c *topicController) CreateTopic(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateTopicRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateTopic(ctx.UserContext(), ownerId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create topic", res))
}

// Batch endpoints answer with the bare summary so topics_created is top level.
func (c *topicController) CreateDefaultTopics(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.CreateDefaultTopics(ctx.UserContext(), ownerId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *topicController) CreateFromDocuments(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateTopicsFromDocumentsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateTopicsFromDocuments(ctx.UserContext(), ownerId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *topicController) GetTopic(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.GetTopic(ctx.UserContext(), ownerId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show topic", res))
}

func (c *topicController) ListVersions(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.ListVersions(ctx.UserContext(), ownerId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list versions", res))
}

func (c *topicController) Regenerate(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.RegenerateContentRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.RegenerateContent(ctx.UserContext(), ownerId, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success regenerate content", res))
}

func (c *topicController) SetCurrentVersion(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SetCurrentVersionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetCurrentVersion(ctx.UserContext(), ownerId, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set current version", res))
}
