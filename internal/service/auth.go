package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/Creastina/bambushain/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	bcryptCost = 12

	generatedPasswordLength = 16
	passwordAlphabet        = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListByGrove(ctx context.Context, groveID string) ([]*model.User, error)
	ListMods(ctx context.Context, groveID string) ([]*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, userID, hash string) error
	SetMod(ctx context.Context, userID string, isMod bool) error
	SetTwoFactor(ctx context.Context, userID string, hash *string, expires *time.Time) error
	ClearExpiredTwoFactor(ctx context.Context) (int, error)
	Delete(ctx context.Context, userID string) error
}

// AuthService handles login, logout and password operations
type AuthService struct {
	userRepo     UserRepository
	groveRepo    GroveRepository
	tokenService *TokenService
	mailer       Mailer
	twoFactorTTL time.Duration
	now          func() time.Time
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo     UserRepository
	GroveRepo    GroveRepository
	TokenService *TokenService
	Mailer       Mailer
	TwoFactorTTL time.Duration // Default: 10 minutes
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.TwoFactorTTL == 0 {
		cfg.TwoFactorTTL = 10 * time.Minute
	}

	return &AuthService{
		userRepo:     cfg.UserRepo,
		groveRepo:    cfg.GroveRepo,
		tokenService: cfg.TokenService,
		mailer:       cfg.Mailer,
		twoFactorTTL: cfg.TwoFactorTTL,
		now:          time.Now,
	}
}

// RequestTwoFactor verifies the password and mails a one time login code
func (s *AuthService) RequestTwoFactor(ctx context.Context, email, password string) error {
	user, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		return err
	}

	code, err := generateTwoFactorCode()
	if err != nil {
		return err
	}
	hash, err := hashPassword(code)
	if err != nil {
		return err
	}

	expires := s.now().Add(s.twoFactorTTL)
	if err := s.userRepo.SetTwoFactor(ctx, user.ID, &hash, &expires); err != nil {
		return err
	}

	if err := s.mailer.SendTwoFactorCode(ctx, user, code); err != nil {
		slog.Error("failed to send two factor code", "user_id", user.ID, "error", err)
		return ErrMailDelivery
	}
	return nil
}

// Login verifies password and two factor code and issues a token
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.verifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if user.TwoFactorHash == nil || user.TwoFactorExpires == nil {
		return nil, ErrInvalidTwoFactorCode
	}
	if !s.now().Before(*user.TwoFactorExpires) {
		return nil, ErrInvalidTwoFactorCode
	}
	if !checkPassword(req.TwoFactorCode, *user.TwoFactorHash) {
		return nil, ErrInvalidTwoFactorCode
	}

	// Codes are single use
	if err := s.userRepo.SetTwoFactor(ctx, user.ID, nil, nil); err != nil {
		return nil, err
	}

	token, err := s.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{User: user, Token: token}, nil
}

// Logout revokes the given token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokenService.Revoke(ctx, token)
}

// Authenticate resolves a raw token to its user and grove
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, *model.Grove, error) {
	stored, err := s.tokenService.Resolve(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidToken
	}

	grove, err := s.groveRepo.GetByID(ctx, user.GroveID)
	if err != nil {
		return nil, nil, err
	}
	if grove == nil {
		return nil, nil, ErrInvalidToken
	}

	return user, grove, nil
}

// ChangePassword changes the password of the user and logs out all sessions
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !checkPassword(oldPassword, user.Hash) {
		return ErrWrongPassword
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	return s.tokenService.RevokeAll(ctx, userID)
}

// ForgotPassword informs the mods of the user's grove. Unknown addresses are
// ignored so the endpoint cannot be used to find out which accounts exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		slog.Info("forgot password for unknown email")
		return nil
	}

	mods, err := s.userRepo.ListMods(ctx, user.GroveID)
	if err != nil {
		return err
	}

	for _, mod := range mods {
		if mod.ID == user.ID {
			continue
		}
		if err := s.mailer.SendForgotPassword(ctx, mod, user); err != nil {
			slog.Error("failed to notify mod about forgotten password",
				"mod_id", mod.ID,
				"user_id", user.ID,
				"error", err,
			)
		}
	}
	return nil
}

// ClearExpiredTwoFactor drops login codes that were never used
func (s *AuthService) ClearExpiredTwoFactor(ctx context.Context) (int, error) {
	return s.userRepo.ClearExpiredTwoFactor(ctx)
}

func (s *AuthService) verifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Hash == "" {
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(password, user.Hash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Helper functions

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func validatePassword(password string) error {
	if len(password) < model.MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > model.MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// generateTwoFactorCode returns a zero padded six digit code
func generateTwoFactorCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// generatePassword creates a random password for new users and resets
func generatePassword() (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	var sb strings.Builder
	sb.Grow(generatedPasswordLength)
	for i := 0; i < generatedPasswordLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(passwordAlphabet[n.Int64()])
	}
	return sb.String(), nil
}
