package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shubhamkarande/PantryGo/internal/auth"
	"github.com/shubhamkarande/PantryGo/internal/domain"
	"github.com/shubhamkarande/PantryGo/internal/postgres"
	"github.com/shubhamkarande/PantryGo/internal/telemetry"
)

// Token lifetimes used when the config leaves them unset.
const (
	DefaultAccessTTL  = 24 * time.Hour
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// UserStore is the persistence surface auth needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	InsertToken(ctx context.Context, hash string, userID uuid.UUID, kind string, expiresAt time.Time) error
	LookupToken(ctx context.Context, hash, kind string) (*domain.User, error)
	DeleteToken(ctx context.Context, hash string) error
}

type authService struct {
	store      UserStore
	accessTTL  time.Duration
	refreshTTL time.Duration
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger
}

var _ domain.AuthService = (*authService)(nil)

// NewAuthService creates the auth service.
func NewAuthService(store UserStore, accessTTL, refreshTTL time.Duration, metrics *telemetry.BusinessMetrics, logger *slog.Logger) domain.AuthService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		store:      store,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		metrics:    metrics,
		logger:     logger,
	}
}

// Register creates a customer account. Privileged roles are never
// assigned here; admins are seeded at startup.
func (s *authService) Register(ctx context.Context, params domain.RegisterParams) (*domain.User, *domain.TokenPair, error) {
	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, nil, domain.Invalid("auth.register", "password must be at least 6 characters")
		}
		return nil, nil, domain.Internal(err, "auth.register", "failed to hash password")
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        params.Email,
		PasswordHash: hash,
		Name:         params.Name,
		Phone:        params.Phone,
		Role:         domain.RoleCustomer,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	if s.metrics != nil {
		s.metrics.Signups.Inc()
	}
	s.logger.Info("user registered", "user_id", user.ID)

	return user, pair, nil
}

// Login verifies credentials. Unknown email and wrong password produce
// the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			s.countLoginFailed()
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		s.countLoginFailed()
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	if s.metrics != nil {
		s.metrics.Logins.Inc()
	}

	return user, pair, nil
}

// Refresh rotates a refresh token. The presented token is revoked
// before the new pair is issued, so each refresh token is single use.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *domain.TokenPair, error) {
	hash := auth.HashToken(refreshToken)

	user, err := s.store.LookupToken(ctx, hash, postgres.TokenKindRefresh)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.DeleteToken(ctx, hash); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	return s.store.LookupToken(ctx, auth.HashToken(accessToken), postgres.TokenKindAccess)
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	return s.store.DeleteToken(ctx, auth.HashToken(accessToken))
}

func (s *authService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *authService) issueTokens(ctx context.Context, userID uuid.UUID) (*domain.TokenPair, error) {
	access, err := auth.GenerateToken()
	if err != nil {
		return nil, domain.Internal(err, "auth.issue", "failed to generate token")
	}
	refresh, err := auth.GenerateToken()
	if err != nil {
		return nil, domain.Internal(err, "auth.issue", "failed to generate token")
	}

	now := time.Now()
	accessExpiry := now.Add(s.accessTTL)

	if err := s.store.InsertToken(ctx, auth.HashToken(access), userID, postgres.TokenKindAccess, accessExpiry); err != nil {
		return nil, err
	}
	if err := s.store.InsertToken(ctx, auth.HashToken(refresh), userID, postgres.TokenKindRefresh, now.Add(s.refreshTTL)); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExpiry,
	}, nil
}

func (s *authService) countLoginFailed() {
	if s.metrics != nil {
		s.metrics.LoginFailed.Inc()
	}
}
