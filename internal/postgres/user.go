package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shubhamkarande/PantryGo/internal/domain"
)

const userColumns = `id, email, password_hash, name, phone, role, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var phone *string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &phone, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if phone != nil {
		u.Phone = *phone
	}
	return &u, nil
}

// CreateUser inserts an account. Emails are stored lowercased and are
// unique; a duplicate fails with domain.ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, phone, role)
		VALUES ($1, $2, $3, $4, nullif($5, ''), $6)`,
		user.ID, strings.ToLower(user.Email), user.PasswordHash, user.Name, user.Phone, user.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their (case-insensitive) email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", strings.ToLower(email)))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Token kinds stored in auth_tokens.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// InsertToken stores a token hash with its expiry. The raw token never
// reaches the database.
func (s *Store) InsertToken(ctx context.Context, hash string, userID uuid.UUID, kind string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO auth_tokens (token_hash, user_id, kind, expires_at)
		VALUES ($1, $2, $3, $4)`,
		hash, userID, kind, expiresAt)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// LookupToken resolves a token hash of the given kind to its user.
// Expired rows are pruned opportunistically on every lookup, which keeps
// the table bounded without a background sweeper.
func (s *Store) LookupToken(ctx context.Context, hash, kind string) (*domain.User, error) {
	if _, err := s.pool.Exec(ctx,
		"DELETE FROM auth_tokens WHERE expires_at < now()"); err != nil {
		return nil, fmt.Errorf("prune tokens: %w", err)
	}

	u, err := scanUser(s.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.password_hash, u.name, u.phone, u.role, u.created_at
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token_hash = $1 AND t.kind = $2 AND t.expires_at >= now()`,
		hash, kind))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	return u, nil
}

// DeleteToken revokes a token by hash. Unknown hashes are a no-op.
func (s *Store) DeleteToken(ctx context.Context, hash string) error {
	if _, err := s.pool.Exec(ctx,
		"DELETE FROM auth_tokens WHERE token_hash = $1", hash); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
