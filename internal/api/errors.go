package api

import (
	"errors"

	"kma-weather-api/internal/services"
	"kma-weather-api/pkg/client"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the app-wide fiber error handler. Upstream and transport
// failures surface as 502 with the upstream message preserved; anything
// unexpected is a generic 500 with the cause logged, not exposed.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var upstreamErr *services.UpstreamAPIError
	var transportErr *client.TransportError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &upstreamErr):
		code = fiber.StatusBadGateway
		message = "KMA API error: " + upstreamErr.Message
	case errors.As(err, &transportErr):
		code = fiber.StatusBadGateway
		message = "failed to reach weather API"
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", code),
		zap.Error(err))

	return c.Status(code).JSON(fiber.Map{
		"error":   message,
		"success": false,
	})
}
