package response

import (
	"errors"

	"loanhub/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Error codes returned in the code field
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidState      = "INVALID_STATE"
	CodeConflict          = "CONCURRENT_UPDATE"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodeInvalidTerms      = "INVALID_TERMS"
	CodeTooManyRequests   = "TOO_MANY_REQUESTS"
	CodeInternal          = "INTERNAL_ERROR"
)

// CodeForStatus picks the error code for a bare HTTP status
func CodeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return CodeBadRequest
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusForbidden:
		return CodeForbidden
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusTooManyRequests:
		return CodeTooManyRequests
	case fiber.StatusInternalServerError:
		return CodeInternal
	}
	if status >= 500 {
		return CodeInternal
	}
	return CodeBadRequest
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, code, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Code:    code,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, CodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, CodeForbidden, message)
}

// FromError maps an engine error onto its HTTP status. Unknown errors are
// logged and reported as a bare 500.
func FromError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(Response{
			Success: false,
			Code:    CodeInsufficientFunds,
			Error:   err.Error(),
			Details: fiber.Map{
				"required":  insufficient.Required,
				"available": insufficient.Available,
				"shortfall": insufficient.Shortfall(),
			},
		})
	case errors.Is(err, domain.ErrNotFound):
		return Error(c, fiber.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return Error(c, fiber.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		return Error(c, fiber.StatusConflict, CodeInvalidState, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		return Error(c, fiber.StatusUnprocessableEntity, CodeInsufficientFunds, err.Error())
	case errors.Is(err, domain.ErrInvalidTerms):
		return Error(c, fiber.StatusBadRequest, CodeInvalidTerms, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return Error(c, fiber.StatusBadRequest, CodeBadRequest, err.Error())
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("❌ Unhandled error")
	return Error(c, fiber.StatusInternalServerError, CodeInternal, "Internal Server Error")
}
