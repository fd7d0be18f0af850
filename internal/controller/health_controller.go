// FILE: internal/controller/health_controller.go
package controller

import (
	"time"

	"infoex-agent-service/internal/dto"
	"infoex-agent-service/internal/repository/contract"
	"infoex-agent-service/pkg/infoex"

	"github.com/gofiber/fiber/v2"
)

const serviceVersion = "1.0.0"

type IHealthController interface {
	RegisterRoutes(app *fiber.App)
	Health(ctx *fiber.Ctx) error
	Root(ctx *fiber.Ctx) error
}

type healthController struct {
	sessionRepo contract.SessionRepository
	client      infoex.IClient
	environment string
	llmReady    bool
}

func NewHealthController(sessionRepo contract.SessionRepository, client infoex.IClient, environment string, llmReady bool) IHealthController {
	return &healthController{
		sessionRepo: sessionRepo,
		client:      client,
		environment: environment,
		llmReady:    llmReady,
	}
}

func (c *healthController) RegisterRoutes(app *fiber.App) {
	app.Get("/health", c.Health)
	app.Get("/", c.Root)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	checks := map[string]bool{
		"redis":  c.sessionRepo.Ping(ctx.Context()) == nil,
		"llm":    c.llmReady,
		"infoex": c.client.TestConnection(ctx.Context()),
	}

	healthy := 0
	for _, ok := range checks {
		if ok {
			healthy++
		}
	}

	status := "unhealthy"
	if healthy == len(checks) {
		status = "healthy"
	} else if healthy > 0 {
		status = "degraded"
	}

	return ctx.JSON(dto.HealthCheckResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
		Version:   serviceVersion,
	})
}

func (c *healthController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"service":     "InfoEx Agent Service",
		"version":     serviceVersion,
		"status":      "running",
		"environment": c.environment,
		"endpoints": fiber.Map{
			"process_report": "/api/process-report",
			"submit":         "/api/submit-to-infoex",
			"session_status": "/api/session/{session_id}/status",
			"clear_session":  "/api/session/{session_id}/clear",
			"health":         "/health",
			"locations":      "/api/locations",
		},
	})
}
