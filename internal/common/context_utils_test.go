package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalDate(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	got, err := ParseOptionalDate("", "from", loc)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalDate("2025-03-15", "from", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, loc), *got)

	got, err = ParseOptionalDate(" 2025-03-15T10:30:00Z ", "from", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)))

	_, err = ParseOptionalDate("15/03/2025", "to", loc)
	assert.EqualError(t, err, "to must be YYYY-MM-DD or RFC3339")
}

func TestValidateDateRange(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	assert.NoError(t, ValidateDateRange(nil, &to))
	assert.NoError(t, ValidateDateRange(&from, nil))
	assert.NoError(t, ValidateDateRange(&from, &from))
	assert.Error(t, ValidateDateRange(&from, &to))
}

func TestParseUUID(t *testing.T) {
	id := uuid.New()

	got, err := ParseUUID(" "+id.String()+" ", "id")
	assert.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUID("", "id")
	assert.EqualError(t, err, "id is required")

	_, err = ParseUUID("550e8400-e29b-41d4-g716-446655440000", "id")
	assert.EqualError(t, err, "id must be a valid UUID")

	optional, err := ParseOptionalUUID("  ", "warehouse_id")
	assert.NoError(t, err)
	assert.Nil(t, optional)
}

func TestWithTenant(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()

	_, ok := GetTenantIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithTenant(context.Background(), tenantID, userID)
	got, ok := GetTenantIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, tenantID, got)
	gotUser, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userID, gotUser)
}

type createRequest struct {
	Name   string `json:"name" validate:"required"`
	Amount int    `json:"amount" validate:"gt=0"`
}

func TestErrorHandler_Envelope(t *testing.T) {
	e := echo.New()
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = ErrorHandler(zerolog.Nop())
	e.POST("/items", func(c echo.Context) error {
		var req createRequest
		if err := BindAndValidate(c, &req); err != nil {
			return err
		}
		return c.NoContent(http.StatusCreated)
	})
	e.GET("/boom", func(c echo.Context) error { return assert.AnError })

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		want   string
	}{
		{"invalid field", http.MethodPost, "/items", `{"name":"","amount":0}`, http.StatusBadRequest, `"amount":"failed gt=0"`},
		{"malformed body", http.MethodPost, "/items", `{"name":`, http.StatusBadRequest, `"message":"Invalid request format"`},
		{"unknown route", http.MethodGet, "/missing", "", http.StatusNotFound, `"code":"NOT_FOUND"`},
		{"plain error", http.MethodGet, "/boom", "", http.StatusInternalServerError, `"code":"SERVER_ERROR"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}
