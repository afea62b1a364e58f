package auth

import (
	"context"

	"github.com/waterworks-ph/waterworks/internal/models"
)

// Authenticator defines the interface for staff authentication
// implementations. This abstraction allows swapping between different auth
// methods (password, SSO, etc.) without changing the service layer code.
type Authenticator interface {
	// Register creates a new operator account with the given email,
	// display name, credential and role.
	Register(ctx context.Context, email, displayName, credential, role string) (*models.Staff, error)

	// Authenticate verifies the operator's credentials and returns the
	// account if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.Staff, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
