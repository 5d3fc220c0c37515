package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shubhamkarande/PantryGo/internal/domain"
)

const addressColumns = `id, user_id, label, address_line, city, pincode, is_default`

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.AddressLine, &a.City, &a.Pincode, &a.IsDefault)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAddresses returns a user's addresses, default first then by label.
func (s *Store) ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, label",
		userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []domain.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}

	return addresses, nil
}

// GetAddress retrieves an address regardless of owner. Ownership checks
// belong to the service layer, which needs to distinguish "missing" from
// "not yours".
func (s *Store) GetAddress(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	a, err := scanAddress(s.pool.QueryRow(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrAddressNotFound
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

// InsertAddress saves a new address. When makeDefault is set, any
// existing default for the user is unset in the same transaction.
func (s *Store) InsertAddress(ctx context.Context, addr *domain.Address, makeDefault bool) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if makeDefault {
			if _, err := tx.Exec(ctx,
				"UPDATE addresses SET is_default = false WHERE user_id = $1 AND is_default",
				addr.UserID); err != nil {
				return fmt.Errorf("unset default addresses: %w", err)
			}
			addr.IsDefault = true
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO addresses (id, user_id, label, address_line, city, pincode, is_default)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			addr.ID, addr.UserID, addr.Label, addr.AddressLine, addr.City, addr.Pincode, addr.IsDefault)
		if err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
		return nil
	})
}

// UpdateAddress replaces an address's fields. When makeDefault is set,
// other defaults for the user are unset in the same transaction.
func (s *Store) UpdateAddress(ctx context.Context, addr *domain.Address, makeDefault bool) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if makeDefault {
			if _, err := tx.Exec(ctx,
				"UPDATE addresses SET is_default = false WHERE user_id = $1 AND is_default AND id <> $2",
				addr.UserID, addr.ID); err != nil {
				return fmt.Errorf("unset default addresses: %w", err)
			}
		}

		tag, err := tx.Exec(ctx, `
			UPDATE addresses
			SET label = $2, address_line = $3, city = $4, pincode = $5, is_default = $6
			WHERE id = $1`,
			addr.ID, addr.Label, addr.AddressLine, addr.City, addr.Pincode, addr.IsDefault)
		if err != nil {
			return fmt.Errorf("update address: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrAddressNotFound
		}
		return nil
	})
}

// DeleteAddress removes an address. If it was the user's default,
// another of their addresses (if any) is promoted within the same
// transaction, so the single-default invariant never lapses.
func (s *Store) DeleteAddress(ctx context.Context, id, userID uuid.UUID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var wasDefault bool
		err := tx.QueryRow(ctx,
			"DELETE FROM addresses WHERE id = $1 AND user_id = $2 RETURNING is_default",
			id, userID).Scan(&wasDefault)
		if err != nil {
			if isNoRows(err) {
				return domain.ErrAddressNotFound
			}
			return fmt.Errorf("delete address: %w", err)
		}

		if !wasDefault {
			return nil
		}

		_, err = tx.Exec(ctx, `
			UPDATE addresses SET is_default = true
			WHERE id = (SELECT id FROM addresses WHERE user_id = $1 ORDER BY label LIMIT 1)`,
			userID)
		if err != nil {
			return fmt.Errorf("promote default address: %w", err)
		}
		return nil
	})
}

// SetDefaultAddress makes the address the user's sole default.
func (s *Store) SetDefaultAddress(ctx context.Context, id, userID uuid.UUID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			"UPDATE addresses SET is_default = false WHERE user_id = $1 AND is_default",
			userID); err != nil {
			return fmt.Errorf("unset default addresses: %w", err)
		}

		tag, err := tx.Exec(ctx,
			"UPDATE addresses SET is_default = true WHERE id = $1 AND user_id = $2",
			id, userID)
		if err != nil {
			return fmt.Errorf("set default address: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrAddressNotFound
		}
		return nil
	})
}

// CountAddresses returns how many addresses a user has saved.
func (s *Store) CountAddresses(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		"SELECT count(*) FROM addresses WHERE user_id = $1", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count addresses: %w", err)
	}
	return count, nil
}
