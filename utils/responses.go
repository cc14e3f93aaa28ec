package utils

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/finquest/finquest/models"
	"github.com/finquest/finquest/services"
)

// SendJSON sends a JSON response using Fiber
func SendJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// SendSuccess sends a successful JSON response
func SendSuccess(c *fiber.Ctx, data interface{}, message string) error {
	return SendJSON(c, http.StatusOK, webmodels.NewSuccessResponse(data, message))
}

// SendCreated sends a created resource JSON response
func SendCreated(c *fiber.Ctx, data interface{}, message string) error {
	return SendJSON(c, http.StatusCreated, webmodels.NewSuccessResponse(data, message))
}

// SendError sends an error JSON response
func SendError(c *fiber.Ctx, statusCode int, code, message string, details map[string]string) error {
	return SendJSON(c, statusCode, webmodels.NewErrorResponse(code, message, details))
}

// SendBadRequest sends a bad request error response
func SendBadRequest(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

// SendUnauthorized sends an unauthorized error response
func SendUnauthorized(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

// SendNotFound sends a not found error response
func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// SendConflict sends a conflict error response
func SendConflict(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusConflict, "CONFLICT", message, details)
}

// SendUnprocessableEntity sends a validation error response
func SendUnprocessableEntity(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", message, details)
}

// SendInternalServerError sends an internal server error response
func SendInternalServerError(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message, nil)
}

// SendNoContent sends a no content response
func SendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusNoContent)
}

// MapServiceError translates service-layer errors into HTTP responses.
func MapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return SendUnauthorized(c, "Authentication required")
	case errors.Is(err, services.ErrInvalidCredentials):
		return SendUnauthorized(c, "Invalid credentials")
	case errors.Is(err, services.ErrNotFound):
		return SendNotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		return SendConflict(c, err.Error(), nil)
	case errors.Is(err, services.ErrPrerequisiteNotMet):
		return SendError(c, http.StatusUnprocessableEntity, "PREREQUISITE_NOT_MET", "Prerequisite quest not completed", nil)
	case errors.Is(err, services.ErrInvalidState):
		return SendError(c, http.StatusConflict, "INVALID_STATE", err.Error(), nil)
	case errors.Is(err, services.ErrUnavailable):
		return SendError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable", nil)
	default:
		return SendInternalServerError(c, "Internal server error")
	}
}
