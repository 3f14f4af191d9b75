package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tgienger/crm/internal/models"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidBody     = "INVALID_BODY"
	CodeValidation      = "VALIDATION"
	CodeNotFound        = "NOT_FOUND"
	CodeUnknownCustomer = "UNKNOWN_CUSTOMER"
	CodeInternal        = "INTERNAL"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponse{Code: code, Message: message})
}

func invalidBody(c *fiber.Ctx) error {
	return respondError(c, fiber.StatusBadRequest, CodeInvalidBody, "request body is not valid JSON")
}

// invalidInput maps a validation failure to 400.
func invalidInput(c *fiber.Ctx, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return respondError(c, fiber.StatusBadRequest, CodeValidation, verr.Error())
	}
	return respondError(c, fiber.StatusBadRequest, CodeValidation, err.Error())
}

func notFound(c *fiber.Ctx, kind string) error {
	return respondError(c, fiber.StatusNotFound, CodeNotFound, kind+" not found")
}

// errorHandler catches errors handlers return instead of responding, such
// as unmatched routes and recovered panics.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		if fe.Code == fiber.StatusNotFound {
			code = CodeNotFound
		}
		return respondError(c, fe.Code, code, fe.Message)
	}
	return respondError(c, fiber.StatusInternalServerError, CodeInternal, err.Error())
}
