package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/shubhamkarande/PantryGo/internal/domain"
)

// AddressStore is the persistence surface the address book needs.
type AddressStore interface {
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error)
	GetAddress(ctx context.Context, id uuid.UUID) (*domain.Address, error)
	InsertAddress(ctx context.Context, addr *domain.Address, makeDefault bool) error
	UpdateAddress(ctx context.Context, addr *domain.Address, makeDefault bool) error
	DeleteAddress(ctx context.Context, id, userID uuid.UUID) error
	SetDefaultAddress(ctx context.Context, id, userID uuid.UUID) error
	CountAddresses(ctx context.Context, userID uuid.UUID) (int64, error)
}

type addressService struct {
	store AddressStore
}

var _ domain.AddressService = (*addressService)(nil)

// NewAddressService creates the address book service.
func NewAddressService(store AddressStore) domain.AddressService {
	return &addressService{store: store}
}

func (s *addressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	return s.store.ListAddresses(ctx, userID)
}

// GetAddress loads an address and checks ownership. Missing and
// not-yours are distinct errors so callers such as order placement can
// report them accurately.
func (s *addressService) GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*domain.Address, error) {
	addr, err := s.store.GetAddress(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if addr.UserID != userID {
		return nil, domain.ErrAddressNotOwned
	}
	return addr, nil
}

// CreateAddress adds an address to the user's book. The first address
// becomes the default regardless of the request, so a user with any
// addresses always has exactly one default.
func (s *addressService) CreateAddress(ctx context.Context, userID uuid.UUID, params domain.AddressParams) (*domain.Address, error) {
	if params.Label == "" {
		params.Label = "Home"
	}

	count, err := s.store.CountAddresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	makeDefault := params.IsDefault || count == 0

	addr := &domain.Address{
		ID:          uuid.New(),
		UserID:      userID,
		Label:       params.Label,
		AddressLine: params.AddressLine,
		City:        params.City,
		Pincode:     params.Pincode,
	}
	if err := s.store.InsertAddress(ctx, addr, makeDefault); err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *addressService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, params domain.AddressParams) (*domain.Address, error) {
	addr, err := s.GetAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if params.Label != "" {
		addr.Label = params.Label
	}
	addr.AddressLine = params.AddressLine
	addr.City = params.City
	addr.Pincode = params.Pincode

	// Promoting to default unsets the others. Demoting the current
	// default is allowed and leaves the book without one.
	makeDefault := params.IsDefault && !addr.IsDefault
	addr.IsDefault = params.IsDefault

	if err := s.store.UpdateAddress(ctx, addr, makeDefault); err != nil {
		return nil, err
	}
	return addr, nil
}

// DeleteAddress removes an address. If the default was deleted the
// store promotes another address so the invariant holds.
func (s *addressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.GetAddress(ctx, userID, addressID); err != nil {
		return err
	}
	return s.store.DeleteAddress(ctx, addressID, userID)
}

func (s *addressService) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) (*domain.Address, error) {
	if _, err := s.GetAddress(ctx, userID, addressID); err != nil {
		return nil, err
	}
	if err := s.store.SetDefaultAddress(ctx, addressID, userID); err != nil {
		return nil, err
	}
	return s.store.GetAddress(ctx, addressID)
}
