package middleware

import (
	"errors"
	"net/http"

	"github.com/bilgisen/content-gateway/internal/cms"
	"github.com/bilgisen/content-gateway/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validator is a struct that holds the validator instance
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates the request body against the provided struct
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateBody parses the request body into out and validates it. On
// success the parsed value is stored under the "validated" local.
func ValidateBody(v *Validator, out func() interface{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := out()
		if err := c.BodyParser(s); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
				"msg":   err.Error(),
			})
		}

		if err := v.Validate(s); err != nil {
			fields := make(map[string]string)
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, ferr := range verrs {
					fields[ferr.Field()] = ferr.Tag()
				}
			}

			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fields,
			})
		}

		c.Locals("validated", s)
		return c.Next()
	}
}

// ErrorHandler maps errors to JSON responses in a consistent way. Upstream
// NotFound renders as 404 so pages can show a missing-content state instead
// of an error page; transport failures render as 502.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var notFound *cms.NotFoundError
	var transport *cms.TransportError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &notFound):
		code = fiber.StatusNotFound
	case errors.As(err, &transport):
		code = fiber.StatusBadGateway
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	}

	logger.Get().Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	return c.Status(code).JSON(fiber.Map{
		"error": http.StatusText(code),
	})
}
