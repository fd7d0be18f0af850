package serverutils

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware recovers panics from downstream handlers and turns
// them into a JSON 500 instead of dropping the connection.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PANIC RECOVERED] %v", r)
				_ = ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, "internal server error"))
			}
		}()
		return ctx.Next()
	}
}

// ServiceKeyMiddleware guards the API with a shared service key. The n8n
// workflow sends it in the X-Service-Key header. An empty configured key
// disables the check (local development).
func ServiceKeyMiddleware(serviceKey string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if serviceKey == "" {
			return ctx.Next()
		}
		if ctx.Get("X-Service-Key") != serviceKey {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "invalid service key"))
		}
		return ctx.Next()
	}
}
