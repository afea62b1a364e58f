package models

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles. Tellers manage accounts and record payments; meter readers
// may only record readings and view billing data.
const (
	RoleTeller = "teller"
	RoleMeter  = "meter"
)

// ValidRole reports whether role is a known staff role.
func ValidRole(role string) bool {
	return role == RoleTeller || role == RoleMeter
}

// Staff represents a console operator account.
type Staff struct {
	// ID is the unique identifier for the operator (UUID format).
	ID string `json:"id"`

	// Email is the login identifier (unique).
	Email string `json:"email"`

	DisplayName string `json:"display_name"`

	// PasswordHash is the bcrypt hash of the operator's password.
	PasswordHash string `json:"-"`

	// Role is teller or meter.
	Role string `json:"role"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`
}

// NewStaff creates a staff account with a fresh ID and timestamp.
func NewStaff(email, displayName, passwordHash, role string) *Staff {
	return &Staff{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().Unix(),
	}
}
