package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
	"github.com/clientops/hub/internal/pkg/metrics"
)

// AuthService implements provisioning, login and token identification.
type AuthService struct {
	users  ports.UserRepository
	tokens *TokenIssuer
	cache  ports.UserCache // optional
	logger zerolog.Logger
	now    func() time.Time
}

// NewAuthService wires the service. cache may be nil.
func NewAuthService(users ports.UserRepository, tokens *TokenIssuer, cache ports.UserCache, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, cache: cache, logger: logger, now: utcNow}
}

var _ ports.AuthService = (*AuthService)(nil)

func (s *AuthService) Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	if username == "" {
		return nil, domain.NewValidationError("username", "is required")
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "is required")
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "must be one of: admin staff")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Str("role", string(role)).Msg("user provisioned")
	return user, nil
}

// Login checks the credentials and returns a fresh access token. An unknown
// username and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("username", user.Username).Msg("login succeeded")
	return token, user, nil
}

// Identify verifies token and resolves the user named by its subject. The
// role is taken from the stored user, not from the token.
func (s *AuthService) Identify(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if user := s.cached(ctx, claims.Subject); user != nil {
		return user, nil
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("identify: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			s.logger.Warn().Err(err).Str("username", user.Username).Msg("user cache set failed")
		}
	}
	return user, nil
}

func (s *AuthService) cached(ctx context.Context, username string) *domain.User {
	if s.cache == nil {
		return nil
	}
	user, err := s.cache.Get(ctx, username)
	switch {
	case err != nil:
		metrics.UserCacheLookupsTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Str("username", username).Msg("user cache lookup failed, falling back to store")
		return nil
	case user == nil:
		metrics.UserCacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil
	default:
		metrics.UserCacheLookupsTotal.WithLabelValues("hit").Inc()
		return user
	}
}

// utcNow is the service clock. Microsecond precision matches what every
// supported database stores.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
