package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"parkmate/internal/common"
	"parkmate/internal/models"
	"parkmate/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// The 401 message is identical for unknown email and wrong password so the
// endpoint cannot be used to enumerate accounts.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgAccountDeactivated = "Your account has been deactivated. Please contact the administrator."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// TokenClaims is the session-token payload.
type TokenClaims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Name  string      `json:"name"`
	jwt.RegisteredClaims
}

// AuthService verifies credentials and issues session tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	ValidateToken(tokenString string) (*TokenClaims, error)
}

type authService struct {
	store     store.Store
	table     string
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(st store.Store, table string, jwtSecret []byte, tokenTTL time.Duration) AuthService {
	return &authService{
		store:     st,
		table:     table,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Login checks an email/password pair against the users table and returns a
// signed session token on success. The last-login write is observational
// only and happens off the request path.
func (s *authService) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	if email == "" || password == "" {
		return nil, common.NewValidationError("Email and password are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, common.NewValidationError("Invalid email format")
	}

	// Emails are stored lowercased; lookups normalize the same way.
	email = strings.ToLower(strings.TrimSpace(email))

	items, err := s.store.Scan(ctx, s.table, store.Item{"email": email})
	if err != nil {
		return nil, common.NewInternalError("failed to look up user", err)
	}
	if len(items) == 0 {
		return nil, common.NewAuthError(msgInvalidCredentials)
	}

	user, err := models.RecordFromItem(items[0])
	if err != nil {
		return nil, common.NewInternalError("failed to decode user record", err)
	}

	if user.Status != models.StatusActive {
		return nil, common.NewForbiddenError(msgAccountDeactivated)
	}

	if user.PasswordHash == "" {
		return nil, common.NewAuthError(msgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.NewAuthError(msgInvalidCredentials)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, common.NewInternalError("failed to sign session token", err)
	}

	go s.recordLastLogin(user.UserID)

	return &models.LoginResult{
		Token: token,
		Role:  user.Role,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

func (s *authService) signToken(user *models.UserRecord) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Email: user.Email,
		Role:  user.Role,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// recordLastLogin overwrites the lastLogin timestamp. Failure must not fail
// the login that triggered it, so it only gets logged.
func (s *authService) recordLastLogin(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := store.Item{"lastLogin": models.NowISO()}
	if err := s.store.UpdateItem(ctx, s.table, userID, update); err != nil {
		log.Printf("WARN: failed to record last login for %s: %v", userID, err)
	}
}

// ValidateToken parses and verifies a session token, returning its claims.
func (s *authService) ValidateToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, common.NewAuthError("Invalid token")
	}
	return claims, nil
}
