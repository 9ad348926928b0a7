package middleware

import (
	"time"

	"salonstock/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// TenantClaims carries the tenant the caller acts for. Tokens without a
// tenant_id claim use the subject as the tenant.
type TenantClaims struct {
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// LoadJWKS fetches the signing keys from url and keeps them refreshed.
func LoadJWKS(url string, logger zerolog.Logger) (*keyfunc.JWKS, error) {
	return keyfunc.Get(url, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn().Err(err).Msg("refreshing JWKS failed")
		},
	})
}

// JWTConfig verifies tokens with the JWKS when given, else with the shared secret.
func JWTConfig(secret string, jwks *keyfunc.JWKS) echojwt.Config {
	cfg := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(TenantClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return common.UnauthorizedError()
		},
	}
	if jwks != nil {
		cfg.KeyFunc = jwks.Keyfunc
	} else {
		cfg.SigningKey = []byte(secret)
	}
	return cfg
}

// TenantContext moves the verified tenant and user from the token into the request context.
func TenantContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return common.UnauthorizedError()
			}
			claims, ok := token.Claims.(*TenantClaims)
			if !ok {
				return common.UnauthorizedError()
			}

			raw := claims.TenantID
			if raw == "" {
				raw = claims.Subject
			}
			tenantID, err := uuid.Parse(raw)
			if err != nil {
				return common.UnauthorizedError()
			}
			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				userID = uuid.Nil
			}

			c.SetRequest(c.Request().WithContext(common.WithTenant(c.Request().Context(), tenantID, userID)))
			return next(c)
		}
	}
}
