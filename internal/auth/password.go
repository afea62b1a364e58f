package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/waterworks-ph/waterworks/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
	ErrUnknownRole        = errors.New("role must be teller or meter")
)

// StaffStorage defines the interface for operator persistence operations.
// This allows the authenticator to be independent of the storage
// implementation.
type StaffStorage interface {
	CreateStaff(ctx context.Context, staff *models.Staff) error
	GetStaffByEmail(ctx context.Context, email string) (*models.Staff, error)
	GetStaffByID(ctx context.Context, id string) (*models.Staff, error)
}

// PasswordAuthenticator implements password-based authentication using
// bcrypt.
type PasswordAuthenticator struct {
	storage StaffStorage
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage StaffStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{storage: storage}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new operator account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, displayName, credential, role string) (*models.Staff, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}
	if !models.ValidRole(role) {
		return nil, ErrUnknownRole
	}

	existing, err := a.storage.GetStaffByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := models.NewStaff(email, displayName, string(hashed), role)
	if err := a.storage.CreateStaff(ctx, staff); err != nil {
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}
	return staff, nil
}

// Authenticate verifies the email and password, returning the operator if
// valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.Staff, error) {
	staff, err := a.storage.GetStaffByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return staff, nil
}
