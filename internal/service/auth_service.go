package service

import (
	"context"
	"log/slog"

	"github.com/waterworks-ph/waterworks/internal/auth"
	"github.com/waterworks-ph/waterworks/internal/models"
)

// AuthService handles operator login and registration.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates an AuthService.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, jwtManager: jwtManager}
}

// LoginResult is a successful operator sign-in.
type LoginResult struct {
	Token string        `json:"token"`
	Staff *models.Staff `json:"staff"`
}

// Login verifies the operator's credentials and issues a session token
// carrying the role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	staff, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login rejected", "email", email)
		return nil, err
	}

	token, err := s.jwtManager.Generate(staff)
	if err != nil {
		return nil, err
	}

	slog.Info("Operator signed in", "email", staff.Email, "role", staff.Role)
	return &LoginResult{Token: token, Staff: staff}, nil
}

// Register creates a new operator account.
func (s *AuthService) Register(ctx context.Context, email, displayName, password, role string) (*models.Staff, error) {
	return s.authenticator.Register(ctx, email, displayName, password, role)
}
