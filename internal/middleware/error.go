package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vertitrack/internal/domain"
	"vertitrack/internal/pkg/observability"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorHandler maps service errors onto HTTP statuses. Unexpected errors
// are logged with the trace id returned to the client.
func NewErrorHandler(logger *observability.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		errorCode := "INTERNAL_ERROR"

		var fe *fiber.Error
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
			errorCode = codeFor(code)
		case errors.As(err, &ve):
			code = fiber.StatusUnprocessableEntity
			message = ve.Error()
			errorCode = codeFor(code)
		case errors.Is(err, domain.ErrNotFound):
			code = fiber.StatusNotFound
			message = "Alert not found"
			errorCode = codeFor(code)
		case errors.Is(err, domain.ErrSourceUnavailable):
			code = fiber.StatusServiceUnavailable
			message = err.Error()
			errorCode = codeFor(code)
		}

		traceID := uuid.New().String()[:8]
		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"status", code,
				"trace_id", traceID,
				"error", err,
			)
		}

		return c.Status(code).JSON(ErrorResponse{
			Code:    errorCode,
			Message: message,
			TraceID: traceID,
		})
	}
}

func codeFor(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case fiber.StatusServiceUnavailable:
		return "SOURCE_UNAVAILABLE"
	}
	return "INTERNAL_ERROR"
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}
