// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shubhamkarande/PantryGo/internal/auth"
	"github.com/shubhamkarande/PantryGo/internal/domain"
	"github.com/shubhamkarande/PantryGo/internal/postgres"
)

// AdminConfig contains configuration for the initial admin user.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if c.Password == "" {
		return errors.New("admin password is required")
	}
	if len(c.Password) < 12 {
		return errors.New("admin password must be at least 12 characters")
	}
	return nil
}

// EnsureAdminUser creates the initial admin user if it doesn't exist.
// Idempotent, safe to call on every startup. If the config has no
// email or password it logs a warning and skips, which allows running
// without an admin in dev.
func EnsureAdminUser(ctx context.Context, store *postgres.Store, cfg *AdminConfig, logger *slog.Logger) error {
	if cfg == nil || cfg.Email == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping admin creation - PANTRYGO_ADMIN_EMAIL or PANTRYGO_ADMIN_PASSWORD not set",
			"hint", "Set these environment variables to create an admin user on first startup",
		)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	existing, err := store.GetUserByEmail(ctx, cfg.Email)
	if err == nil && existing != nil {
		logger.Info("bootstrap: admin user already exists", "email", cfg.Email)
		return nil
	}
	if err != nil && !domain.IsCode(err, domain.ENOTFOUND) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "Admin"
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        cfg.Email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         domain.RoleAdmin,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		// A concurrent instance may have won the race.
		if domain.IsCode(err, domain.ECONFLICT) {
			logger.Info("bootstrap: admin user already exists", "email", cfg.Email)
			return nil
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("bootstrap: admin user created", "email", cfg.Email)
	return nil
}
