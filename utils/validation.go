package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ParseAndValidate decodes the request body into dst and runs struct
// validation, writing the error response itself on failure. The returned
// bool reports whether the handler should continue.
func ParseAndValidate(c *fiber.Ctx, dst interface{}) bool {
	if err := c.BodyParser(dst); err != nil {
		_ = SendBadRequest(c, "Invalid request body", nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		details := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
		}
		_ = SendUnprocessableEntity(c, "Validation failed", details)
		return false
	}
	return true
}
