package domain

import (
	"context"

	"github.com/google/uuid"
)

// Address-related domain errors.
var (
	ErrAddressNotFound = &Error{Code: ENOTFOUND, Message: "Address not found"}
	ErrAddressNotOwned = &Error{Code: EFORBIDDEN, Message: "Address belongs to another user"}
)

// Address is a saved delivery address. Each user has at most one default
// address; the first address a user saves becomes the default.
type Address struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	Label       string    `json:"label"`
	AddressLine string    `json:"addressLine"`
	City        string    `json:"city"`
	Pincode     string    `json:"pincode"`
	IsDefault   bool      `json:"isDefault"`
}

// AddressParams contains the mutable fields of an address.
type AddressParams struct {
	Label       string
	AddressLine string
	City        string
	Pincode     string
	IsDefault   bool
}

// AddressService provides per-user address book operations.
type AddressService interface {
	// ListAddresses returns the user's addresses, default first.
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]Address, error)

	// GetAddress retrieves an address owned by the user.
	// Returns ErrAddressNotFound for missing addresses and
	// ErrAddressNotOwned when the address belongs to someone else.
	GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*Address, error)

	// CreateAddress saves a new address. The user's first address is
	// always made the default; an explicit default unsets the previous one.
	CreateAddress(ctx context.Context, userID uuid.UUID, params AddressParams) (*Address, error)

	// UpdateAddress replaces an address's fields.
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, params AddressParams) (*Address, error)

	// DeleteAddress removes an address. If it was the default, another of
	// the user's addresses (if any) is promoted.
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error

	// SetDefaultAddress makes the address the user's sole default.
	SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) (*Address, error)
}
