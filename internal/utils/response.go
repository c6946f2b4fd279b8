package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponseStruct is the envelope of every successful API response.
// Data is always present, null when an operation has nothing to return.
type SuccessResponseStruct struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Type      string `json:"type,omitempty"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
}

// SuccessResponse sends data wrapped in the success envelope
func SuccessResponse(c *fiber.Ctx, data any, message string, status int) error {
	return c.Status(status).JSON(SuccessResponseStruct{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse sends the failure envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(ErrorResponseStruct{
		Success:   false,
		Message:   message,
		Status:    status,
		Type:      errorType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       c.OriginalURL(),
	})
}

// NotFoundResponse sends a 404 failure envelope
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, "not_found")
}

// ValidationResponse sends a 400 failure envelope
func ValidationResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusBadRequest, "validation")
}
