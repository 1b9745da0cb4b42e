package controller

import (
	"errors"

	"notecraft-be/internal/dto"
	"notecraft-be/internal/pkg/serverutils"
	"notecraft-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router, guard fiber.Handler)
	Generate(ctx *fiber.Ctx) error
	SubmitJob(ctx *fiber.Ctx) error
	GetJob(ctx *fiber.Ctx) error
	ModifyText(ctx *fiber.Ctx) error
	RegenerateImage(ctx *fiber.Ctx) error
	ResolveContext(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router, guard fiber.Handler) {
	h := r.Group("/notes/v1")
	h.Use(guard)
	h.Post("generate", c.Generate)
	h.Post("jobs", c.SubmitJob)
	h.Get("jobs/:id", c.GetJob)
	h.Post("modify-text", c.ModifyText)
	h.Post("regenerate-image", c.RegenerateImage)
	h.Post("context", c.ResolveContext)
}

func (c *noteController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Generate(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate notes", res))
}

func (c *noteController) SubmitJob(ctx *fiber.Ctx) error {
	var req dto.GenerateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.SubmitJob(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Note job queued", res))
}

func (c *noteController) GetJob(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.BadRequest("Invalid job id")
	}

	res, err := c.noteService.GetJob(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return serverutils.NotFound("Job not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show job", res))
}

func (c *noteController) ModifyText(ctx *fiber.Ctx) error {
	var req dto.ModifyTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.ModifyText(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success modify text", res))
}

func (c *noteController) RegenerateImage(ctx *fiber.Ctx) error {
	var req dto.RegenerateImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.RegenerateImage(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success regenerate image", res))
}

func (c *noteController) ResolveContext(ctx *fiber.Ctx) error {
	var req dto.ResolveContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.ResolveContext(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidNamespace) {
			return serverutils.BadRequest(err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolve context", res))
}
