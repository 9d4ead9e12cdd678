package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"intake/internal/http/middleware"
)

// errorPayload is the JSON error body used by the API and probe routes.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func requestIDFromCtx(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.RequestIDLocalKey).(string)
	return id
}

// writeError writes a JSON error. message must be safe to show to clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// wantsHTML reports whether the error should be shown as a page rather than JSON:
// browser requests outside the API and probe routes.
func wantsHTML(c *fiber.Ctx) bool {
	p := c.Path()
	if strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/health") || p == "/metrics" {
		return false
	}
	return c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMETextHTML
}

// ErrorHandler returns the app-wide error handler. Internal error text never reaches the client.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		code, message := "INTERNAL_ERROR", "internal server error"
		switch status {
		case fiber.StatusBadRequest:
			code, message = "BAD_REQUEST", "bad request"
		case fiber.StatusNotFound:
			code, message = "NOT_FOUND", "resource not found"
		case fiber.StatusMethodNotAllowed:
			code, message = "METHOD_NOT_ALLOWED", "method not allowed"
		case fiber.StatusRequestEntityTooLarge:
			code, message = "PAYLOAD_TOO_LARGE", "request body too large"
		}

		if wantsHTML(c) {
			return c.Status(status).Render("error", fiber.Map{
				"Status":    status,
				"Message":   message,
				"RequestID": requestIDFromCtx(c),
			})
		}
		return writeError(c, status, code, message)
	}
}
