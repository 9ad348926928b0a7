package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	TenantIDKey contextKey = "tenant_id"
)

// ErrorResponse is the envelope every failed request returns.
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// APIError is returned by handlers and rendered by ErrorHandler.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func NewAPIError(status int, code, message string, details map[string]string) *APIError {
	return &APIError{Status: status, Code: code, Message: message, Details: details}
}

func ValidationError(field, message string) *APIError {
	return NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", map[string]string{field: message})
}

func NotFoundError(resource string) *APIError {
	return NewAPIError(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), nil)
}

func UnauthorizedError() *APIError {
	return NewAPIError(http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized access", nil)
}

// ErrorHandler renders APIError and echo.HTTPError values as ErrorResponse.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var apiErr *APIError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &httpErr):
			apiErr = NewAPIError(httpErr.Code, strings.ToUpper(strings.ReplaceAll(http.StatusText(httpErr.Code), " ", "_")), fmt.Sprint(httpErr.Message), nil)
		default:
			apiErr = NewAPIError(http.StatusInternalServerError, "SERVER_ERROR", "Internal server error", nil)
		}
		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(apiErr.Status)
		} else {
			writeErr = c.JSON(apiErr.Status, CreateErrorResponse(apiErr.Code, apiErr.Message, apiErr.Details))
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("writing error response failed")
		}
	}
}

// ParseUUID parses an identifier from a path or query parameter.
func ParseUUID(value, fieldName string) (uuid.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", fieldName)
	}
	return id, nil
}

// ParseOptionalUUID returns nil for an empty value.
func ParseOptionalUUID(value, fieldName string) (*uuid.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := ParseUUID(value, fieldName)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseOptionalDate accepts YYYY-MM-DD or RFC3339. Dates are midnight in loc.
func ParseOptionalDate(value, fieldName string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD or RFC3339", fieldName)
	}
	return &t, nil
}

// ValidateDateRange rejects an end before the start.
func ValidateDateRange(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return fmt.Errorf("end date cannot be before start date")
	}
	return nil
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

// WithTenant stores the authenticated tenant and user on ctx.
func WithTenant(ctx context.Context, tenantID, userID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, TenantIDKey, tenantID)
	return context.WithValue(ctx, UserIDKey, userID)
}
