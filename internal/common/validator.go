package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator plugs go-playground/validator into echo's c.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// ValidationDetails maps failing json fields to a short reason.
func ValidationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if fe.Param() != "" {
			details[field] = fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		} else {
			details[field] = fmt.Sprintf("failed %s", fe.Tag())
		}
	}
	return details
}

// BindAndValidate decodes the request into dst and validates it.
func BindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request format", nil)
	}
	if err := c.Validate(dst); err != nil {
		return NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", ValidationDetails(err))
	}
	return nil
}
