package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User-related domain errors.
var (
	ErrUserNotFound       = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrEmailTaken         = &Error{Code: ECONFLICT, Message: "An account with this email already exists"}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrInvalidToken       = &Error{Code: EUNAUTHORIZED, Message: "Invalid or expired token"}
)

// Role determines what a user may do.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDelivery Role = "delivery"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleDelivery, RoleAdmin:
		return true
	}
	return false
}

// User is an account holder: a customer, a delivery partner, or an admin.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TokenPair is an access token plus the refresh token that renews it.
// Both are opaque; only their SHA-256 hashes are persisted.
type TokenPair struct {
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// RegisterParams contains parameters for creating an account.
type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// AuthService provides registration, login, and token management.
type AuthService interface {
	// Register creates a customer account and returns a fresh token pair.
	// Returns ErrEmailTaken if the email is already registered.
	Register(ctx context.Context, params RegisterParams) (*User, *TokenPair, error)

	// Login verifies credentials and returns a fresh token pair.
	// Returns ErrInvalidCredentials on any mismatch.
	Login(ctx context.Context, email, password string) (*User, *TokenPair, error)

	// Refresh rotates a refresh token: the old token is revoked and a new
	// pair is issued. Returns ErrInvalidToken for unknown or expired tokens.
	Refresh(ctx context.Context, refreshToken string) (*User, *TokenPair, error)

	// Authenticate resolves an access token to its user.
	// Returns ErrInvalidToken for unknown or expired tokens.
	Authenticate(ctx context.Context, accessToken string) (*User, error)

	// Logout revokes an access token. Unknown tokens are a no-op.
	Logout(ctx context.Context, accessToken string) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*User, error)
}
