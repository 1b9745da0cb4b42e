package serverutils

import (
	"errors"
	"fmt"

	"notecraft-be/pkg/llm"
	"notecraft-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
)

// AppError is an error with an HTTP status, raised by controllers.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *AppError) Error() string {
	return e.Message
}

func NotFound(message string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

func BadRequest(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
}

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON
// envelope. Pipeline errors keep their stage so clients can tell a model
// that answered garbage from one that could not be reached.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status, body := MapError(err)
		return ctx.Status(status).JSON(body)
	}
}

func MapError(err error) (int, Response[any]) {
	var (
		appErr   *AppError
		valErr   *ValidationError
		fiberErr *fiber.Error
		stageErr *rag.StageError
	)

	details := map[string]interface{}{}
	if errors.As(err, &stageErr) {
		details["stage"] = string(stageErr.Stage)
	}

	switch {
	case errors.As(err, &valErr):
		return fiber.StatusBadRequest, ErrorResponseWithData(fiber.StatusBadRequest, "Validation failed", map[string]interface{}{
			"error_code": "VALIDATION_ERROR",
			"fields":     valErr.Fields,
		})

	case errors.As(err, &appErr):
		data := map[string]interface{}{"error_code": appErr.Code}
		for k, v := range appErr.Details {
			data[k] = v
		}
		return appErr.Status, ErrorResponseWithData(appErr.Status, appErr.Message, data)

	case rag.IsMalformed(err):
		details["error_code"] = "MALFORMED_GENERATION_OUTPUT"
		return fiber.StatusUnprocessableEntity, ErrorResponseWithData(fiber.StatusUnprocessableEntity, err.Error(), details)

	case llm.IsTransport(err):
		details["error_code"] = "UPSTREAM_FAILURE"
		return fiber.StatusBadGateway, ErrorResponseWithData(fiber.StatusBadGateway, err.Error(), details)

	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorResponse(fiberErr.Code, fiberErr.Message)

	default:
		if stageErr != nil {
			details["error_code"] = "INTERNAL_ERROR"
			return fiber.StatusInternalServerError, ErrorResponseWithData(fiber.StatusInternalServerError, err.Error(), details)
		}
		return fiber.StatusInternalServerError, ErrorResponse(fiber.StatusInternalServerError, fmt.Sprintf("Internal server error: %v", err))
	}
}
