package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"invdash/internal/http/middleware"
	"invdash/internal/repository"
	"invdash/internal/service"
	"invdash/internal/storage"
	"invdash/internal/store"
	"invdash/internal/validation"
)

// errorPayload is the error body of read endpoints and of requests that
// never reach a service.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes the standard error body. message must be safe to show.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

// classify maps a service error to its HTTP status, code and public message.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, validation.ErrValidation):
		return fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, storage.ErrPreviewNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "preview not found"
	case errors.Is(err, storage.ErrPreviewTooLarge):
		return fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "file too large for preview"
	case errors.Is(err, store.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "storage unavailable"
	case errors.Is(err, store.ErrCorruptData):
		return fiber.StatusInternalServerError, "CORRUPT_DATA", "stored data is corrupt"
	case errors.Is(err, service.ErrNoBlobStore):
		return fiber.StatusNotImplemented, "NOT_IMPLEMENTED", "file download is not configured"
	default:
		return fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}

func writeServiceError(c *fiber.Ctx, err error) error {
	status, code, msg := classify(err)
	return writeError(c, status, code, msg)
}

// writeResult writes a write-operation envelope. Failures keep the envelope
// body and take their status from the cause.
func writeResult[T any](c *fiber.Ctx, res service.Result[T], okStatus int) error {
	if res.Success {
		return c.Status(okStatus).JSON(res)
	}
	status, _, _ := classify(res.Err())
	return c.Status(status).JSON(res)
}

// ErrorHandler is the Fiber error handler for errors no route handled.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
