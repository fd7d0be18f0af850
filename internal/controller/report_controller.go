// FILE: internal/controller/report_controller.go
package controller

import (
	"errors"
	"fmt"

	"infoex-agent-service/internal/dto"
	"infoex-agent-service/internal/pkg/serverutils"
	"infoex-agent-service/internal/service"
	"infoex-agent-service/pkg/infoex"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	ProcessReport(ctx *fiber.Ctx) error
	SubmitToInfoEx(ctx *fiber.Ctx) error
	SessionStatus(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	Locations(ctx *fiber.Ctx) error
}

type reportController struct {
	service  service.IReportService
	client   infoex.IClient
	validate *validator.Validate
}

func NewReportController(reportService service.IReportService, client infoex.IClient) IReportController {
	return &reportController{
		service:  reportService,
		client:   client,
		validate: validator.New(),
	}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	r.Post("/process-report", c.ProcessReport)
	r.Post("/submit-to-infoex", c.SubmitToInfoEx)
	r.Get("/session/:id/status", c.SessionStatus)
	r.Delete("/session/:id/clear", c.ClearSession)
	r.Get("/locations", c.Locations)
}

func (c *reportController) ProcessReport(ctx *fiber.Ctx) error {
	var req dto.ProcessReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := c.validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.ProcessReport(ctx.Context(), req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(res)
}

func (c *reportController) SubmitToInfoEx(ctx *fiber.Ctx) error {
	var req dto.SubmissionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := c.validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	for _, obsType := range req.SubmissionTypes {
		if !infoex.IsObservationType(obsType) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, fmt.Sprintf("unknown observation type: %s", obsType)))
		}
	}

	res, err := c.service.Submit(ctx.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(res)
}

func (c *reportController) SessionStatus(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("id")

	res, err := c.service.Status(ctx.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Session not found"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(res)
}

func (c *reportController) ClearSession(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("id")

	res, err := c.service.Clear(ctx.Context(), sessionID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(res)
}

func (c *reportController) Locations(ctx *fiber.Ctx) error {
	locations, err := c.client.Locations(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	options := make([]dto.LocationOption, 0, len(locations))
	for _, loc := range locations {
		options = append(options, dto.LocationOption{UUID: loc.UUID, Name: loc.Name, Type: loc.Type})
	}
	return ctx.JSON(dto.LocationsResponse{Locations: options, Count: len(options)})
}
