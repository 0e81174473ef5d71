package handlers

import (
	"log"
	"net/http"
	"time"

	"parkmate/internal/caching"
	"parkmate/internal/common"
	"parkmate/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// AuthHandlers handles authentication-related HTTP requests.
type AuthHandlers struct {
	authService services.AuthService
	cacheSvc    caching.CacheService
}

// NewAuthHandlers creates a new auth handlers instance.
func NewAuthHandlers(authService services.AuthService, cacheSvc caching.CacheService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		cacheSvc:    cacheSvc,
	}
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Role    string `json:"role"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// Login handles user login with email and password.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondMessage(c, http.StatusBadRequest, "Invalid request format")
	}

	if h.cacheSvc != nil {
		limited, err := h.cacheSvc.IsRateLimited(ctx, "login:"+c.RealIP(), loginRateLimit, loginRateWindow)
		if err != nil {
			// Rate limiting is best effort; a cache fault never blocks login.
			log.Printf("WARN: login rate limit check failed: %v", err)
		} else if limited {
			return common.RespondMessage(c, http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
		}
	}

	result, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   result.Token,
		Role:    string(result.Role),
		Name:    result.Name,
		Email:   result.Email,
	})
}

// Me returns the identity asserted by the presented token.
func (h *AuthHandlers) Me(c echo.Context) error {
	claims, ok := common.GetAuthClaims(c.Request().Context())
	if !ok {
		return common.RespondMessage(c, http.StatusUnauthorized, "User not authenticated")
	}
	return c.JSON(http.StatusOK, claims)
}
