package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/Creastina/bambushain/internal/model"
)

// TokenRepository defines the interface for login token storage
type TokenRepository interface {
	Create(ctx context.Context, token *model.Token) error
	GetByHash(ctx context.Context, hash string) (*model.Token, error)
	DeleteByHash(ctx context.Context, hash string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int, error)
}

// TokenService issues and resolves opaque login tokens
type TokenService struct {
	tokenRepo TokenRepository
	ttl       time.Duration
	now       func() time.Time
}

// TokenServiceConfig holds configuration for the token service
type TokenServiceConfig struct {
	TokenRepo TokenRepository
	TTL       time.Duration // Default: 30 days
}

// NewTokenService creates a new token service
func NewTokenService(cfg TokenServiceConfig) *TokenService {
	if cfg.TTL == 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}

	return &TokenService{
		tokenRepo: cfg.TokenRepo,
		ttl:       cfg.TTL,
		now:       time.Now,
	}
}

// TTL returns how long issued tokens are valid
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a new token for the user. The raw value is returned once and
// only its hash is stored.
func (s *TokenService) Issue(ctx context.Context, userID string) (string, error) {
	raw, err := generateToken()
	if err != nil {
		return "", err
	}

	now := s.now()
	token := &model.Token{
		UserID:    userID,
		TokenHash: hashToken(raw),
		ExpiresOn: now.Add(s.ttl),
		CreatedOn: now,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}

	return raw, nil
}

// Resolve returns the stored token for a raw value
func (s *TokenService) Resolve(ctx context.Context, raw string) (*model.Token, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	token, err := s.tokenRepo.GetByHash(ctx, hashToken(raw))
	if err != nil {
		return nil, err
	}
	if token == nil || token.IsExpired(s.now()) {
		return nil, ErrInvalidToken
	}
	return token, nil
}

// Revoke deletes a single token (logout)
func (s *TokenService) Revoke(ctx context.Context, raw string) error {
	return s.tokenRepo.DeleteByHash(ctx, hashToken(raw))
}

// RevokeAll deletes every token of a user (logout from all devices)
func (s *TokenService) RevokeAll(ctx context.Context, userID string) error {
	return s.tokenRepo.DeleteByUser(ctx, userID)
}

// DeleteExpired removes all expired tokens and returns how many were removed
func (s *TokenService) DeleteExpired(ctx context.Context) (int, error) {
	return s.tokenRepo.DeleteExpired(ctx)
}

// generateToken creates a cryptographically secure random token
func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// hashToken creates a SHA-256 hash of the token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
