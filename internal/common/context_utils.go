package common

import (
	"context"
	"log"
	"net/http"

	"parkmate/internal/models"

	"github.com/labstack/echo/v4"
)

type contextKey string

const AuthClaimsKey contextKey = "auth_claims"

// GetAuthClaims extracts the validated token claims from the request context.
func GetAuthClaims(ctx context.Context) (models.AuthClaims, bool) {
	claims, ok := ctx.Value(AuthClaimsKey).(models.AuthClaims)
	return claims, ok
}

// WithAuthClaims returns a context carrying the validated token claims.
func WithAuthClaims(ctx context.Context, claims models.AuthClaims) context.Context {
	return context.WithValue(ctx, AuthClaimsKey, claims)
}

// RespondError maps a service error to its HTTP status and a JSON {message}
// body. Internal faults get logged with full detail and collapse to a
// generic message for the caller.
func RespondError(c echo.Context, err error) error {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	return c.JSON(status, map[string]string{"message": PublicMessage(err)})
}

// RespondMessage sends a JSON {message} body with the given status.
func RespondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"message": message})
}
