package middleware

import (
	"loaner/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// authContextKey is where the resolved AuthContext lives on the echo context.
const authContextKey = "authContext"

// AuthMiddleware resolves the caller's bearer credential into an AuthContext.
// It deliberately never rejects the request itself: the authorization gate
// lives in the use-case layer, which short-circuits unauthenticated callers
// before any domain or storage work.
type AuthMiddleware struct {
	validator service.TokenValidator
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(validator service.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// ResolveAuthContext validates the Authorization header once per request
// and stores the outcome for handlers to pass into the use cases.
func (m *AuthMiddleware) ResolveAuthContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		c.Set(authContextKey, m.validator.Validate(c.Request().Context(), authHeader))

		return next(c)
	}
}

// AuthContextFrom retrieves the AuthContext resolved by the middleware.
// A request that skipped the middleware yields the unauthenticated zero value.
func AuthContextFrom(c echo.Context) service.AuthContext {
	if auth, ok := c.Get(authContextKey).(service.AuthContext); ok {
		return auth
	}

	return service.AuthContext{}
}
