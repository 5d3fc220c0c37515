package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/shubhamkarande/PantryGo/internal/domain"
)

// mockAddressStore implements AddressStore with overridable functions.
type mockAddressStore struct {
	ListAddressesFunc     func(ctx context.Context, userID uuid.UUID) ([]domain.Address, error)
	GetAddressFunc        func(ctx context.Context, id uuid.UUID) (*domain.Address, error)
	InsertAddressFunc     func(ctx context.Context, addr *domain.Address, makeDefault bool) error
	UpdateAddressFunc     func(ctx context.Context, addr *domain.Address, makeDefault bool) error
	DeleteAddressFunc     func(ctx context.Context, id, userID uuid.UUID) error
	SetDefaultAddressFunc func(ctx context.Context, id, userID uuid.UUID) error
	CountAddressesFunc    func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *mockAddressStore) ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	if m.ListAddressesFunc != nil {
		return m.ListAddressesFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockAddressStore) GetAddress(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	if m.GetAddressFunc != nil {
		return m.GetAddressFunc(ctx, id)
	}
	return nil, domain.ErrAddressNotFound
}

func (m *mockAddressStore) InsertAddress(ctx context.Context, addr *domain.Address, makeDefault bool) error {
	if m.InsertAddressFunc != nil {
		return m.InsertAddressFunc(ctx, addr, makeDefault)
	}
	return errors.New("not implemented in mock")
}

func (m *mockAddressStore) UpdateAddress(ctx context.Context, addr *domain.Address, makeDefault bool) error {
	if m.UpdateAddressFunc != nil {
		return m.UpdateAddressFunc(ctx, addr, makeDefault)
	}
	return errors.New("not implemented in mock")
}

func (m *mockAddressStore) DeleteAddress(ctx context.Context, id, userID uuid.UUID) error {
	if m.DeleteAddressFunc != nil {
		return m.DeleteAddressFunc(ctx, id, userID)
	}
	return errors.New("not implemented in mock")
}

func (m *mockAddressStore) SetDefaultAddress(ctx context.Context, id, userID uuid.UUID) error {
	if m.SetDefaultAddressFunc != nil {
		return m.SetDefaultAddressFunc(ctx, id, userID)
	}
	return errors.New("not implemented in mock")
}

func (m *mockAddressStore) CountAddresses(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.CountAddressesFunc != nil {
		return m.CountAddressesFunc(ctx, userID)
	}
	return 0, nil
}

func validAddressParams() domain.AddressParams {
	return domain.AddressParams{
		Label:       "Office",
		AddressLine: "5 Residency Road",
		City:        "Bengaluru",
		Pincode:     "560025",
	}
}

func TestCreateAddress_FirstAddressBecomesDefault(t *testing.T) {
	store := &mockAddressStore{}
	store.CountAddressesFunc = func(_ context.Context, _ uuid.UUID) (int64, error) {
		return 0, nil
	}

	var gotDefault bool
	store.InsertAddressFunc = func(_ context.Context, _ *domain.Address, makeDefault bool) error {
		gotDefault = makeDefault
		return nil
	}
	svc := NewAddressService(store)

	// The request does not ask for default, but it is the first address.
	params := validAddressParams()
	params.IsDefault = false

	addr, err := svc.CreateAddress(context.Background(), testUserID, params)
	if err != nil {
		t.Fatalf("CreateAddress: %v", err)
	}
	if !gotDefault {
		t.Error("first address must be inserted as default")
	}
	if addr.UserID != testUserID {
		t.Errorf("address user = %s, want %s", addr.UserID, testUserID)
	}
}

func TestCreateAddress_SubsequentNonDefault(t *testing.T) {
	store := &mockAddressStore{}
	store.CountAddressesFunc = func(_ context.Context, _ uuid.UUID) (int64, error) {
		return 2, nil
	}

	var gotDefault bool
	store.InsertAddressFunc = func(_ context.Context, _ *domain.Address, makeDefault bool) error {
		gotDefault = makeDefault
		return nil
	}
	svc := NewAddressService(store)

	if _, err := svc.CreateAddress(context.Background(), testUserID, validAddressParams()); err != nil {
		t.Fatalf("CreateAddress: %v", err)
	}
	if gotDefault {
		t.Error("non-first address without isDefault must not become default")
	}
}

func TestCreateAddress_DefaultLabel(t *testing.T) {
	store := &mockAddressStore{}
	store.InsertAddressFunc = func(_ context.Context, _ *domain.Address, _ bool) error { return nil }
	svc := NewAddressService(store)

	params := validAddressParams()
	params.Label = ""

	addr, err := svc.CreateAddress(context.Background(), testUserID, params)
	if err != nil {
		t.Fatalf("CreateAddress: %v", err)
	}
	if addr.Label != "Home" {
		t.Errorf("label = %q, want Home", addr.Label)
	}
}

func TestGetAddress_DistinguishesMissingFromNotOwned(t *testing.T) {
	store := &mockAddressStore{}
	svc := NewAddressService(store)

	// Missing.
	_, err := svc.GetAddress(context.Background(), testUserID, testAddressID)
	if !errors.Is(err, domain.ErrAddressNotFound) {
		t.Errorf("missing: got %v, want ErrAddressNotFound", err)
	}

	// Exists but belongs to someone else.
	store.GetAddressFunc = func(_ context.Context, _ uuid.UUID) (*domain.Address, error) {
		addr := makeTestAddress()
		addr.UserID = testOtherUser
		return addr, nil
	}
	_, err = svc.GetAddress(context.Background(), testUserID, testAddressID)
	if !errors.Is(err, domain.ErrAddressNotOwned) {
		t.Errorf("not owned: got %v, want ErrAddressNotOwned", err)
	}
}

func TestUpdateAddress_PromoteToDefault(t *testing.T) {
	store := &mockAddressStore{}
	store.GetAddressFunc = func(_ context.Context, _ uuid.UUID) (*domain.Address, error) {
		addr := makeTestAddress()
		addr.IsDefault = false
		return addr, nil
	}

	var gotDefault bool
	store.UpdateAddressFunc = func(_ context.Context, addr *domain.Address, makeDefault bool) error {
		gotDefault = makeDefault
		if !addr.IsDefault {
			t.Error("updated address should carry the default flag")
		}
		return nil
	}
	svc := NewAddressService(store)

	params := validAddressParams()
	params.IsDefault = true

	if _, err := svc.UpdateAddress(context.Background(), testUserID, testAddressID, params); err != nil {
		t.Fatalf("UpdateAddress: %v", err)
	}
	if !gotDefault {
		t.Error("promotion should request the unset-others update")
	}
}

func TestUpdateAddress_AlreadyDefaultDoesNotReshuffle(t *testing.T) {
	store := &mockAddressStore{}
	store.GetAddressFunc = func(_ context.Context, _ uuid.UUID) (*domain.Address, error) {
		return makeTestAddress(), nil // already default
	}

	var gotDefault bool
	store.UpdateAddressFunc = func(_ context.Context, _ *domain.Address, makeDefault bool) error {
		gotDefault = makeDefault
		return nil
	}
	svc := NewAddressService(store)

	params := validAddressParams()
	params.IsDefault = true

	if _, err := svc.UpdateAddress(context.Background(), testUserID, testAddressID, params); err != nil {
		t.Fatalf("UpdateAddress: %v", err)
	}
	if gotDefault {
		t.Error("no reshuffle needed when the address is already default")
	}
}

func TestDeleteAddress_ChecksOwnership(t *testing.T) {
	store := &mockAddressStore{}
	store.GetAddressFunc = func(_ context.Context, _ uuid.UUID) (*domain.Address, error) {
		addr := makeTestAddress()
		addr.UserID = testOtherUser
		return addr, nil
	}
	store.DeleteAddressFunc = func(_ context.Context, _, _ uuid.UUID) error {
		t.Error("delete must not run for another user's address")
		return nil
	}
	svc := NewAddressService(store)

	err := svc.DeleteAddress(context.Background(), testUserID, testAddressID)
	if !errors.Is(err, domain.ErrAddressNotOwned) {
		t.Errorf("got %v, want ErrAddressNotOwned", err)
	}
}

func TestSetDefaultAddress_Success(t *testing.T) {
	store := &mockAddressStore{}
	store.GetAddressFunc = func(_ context.Context, _ uuid.UUID) (*domain.Address, error) {
		return makeTestAddress(), nil
	}

	var called bool
	store.SetDefaultAddressFunc = func(_ context.Context, id, userID uuid.UUID) error {
		called = true
		if id != testAddressID || userID != testUserID {
			t.Errorf("SetDefaultAddress(%s, %s), want (%s, %s)", id, userID, testAddressID, testUserID)
		}
		return nil
	}
	svc := NewAddressService(store)

	if _, err := svc.SetDefaultAddress(context.Background(), testUserID, testAddressID); err != nil {
		t.Fatalf("SetDefaultAddress: %v", err)
	}
	if !called {
		t.Error("store SetDefaultAddress was not called")
	}
}
