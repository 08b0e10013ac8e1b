package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Creastina/bambushain/internal/model"
)

// UserService manages the users of a grove. Every method takes the acting
// user and only touches users of the same grove.
type UserService struct {
	userRepo     UserRepository
	groveRepo    GroveRepository
	tokenService *TokenService
	mailer       Mailer
}

// UserServiceConfig holds configuration for the user service
type UserServiceConfig struct {
	UserRepo     UserRepository
	GroveRepo    GroveRepository
	TokenService *TokenService
	Mailer       Mailer
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	return &UserService{
		userRepo:     cfg.UserRepo,
		groveRepo:    cfg.GroveRepo,
		tokenService: cfg.TokenService,
		mailer:       cfg.Mailer,
	}
}

// List returns all users of the actor's grove
func (s *UserService) List(ctx context.Context, actor *model.User) ([]*model.User, error) {
	return s.userRepo.ListByGrove(ctx, actor.GroveID)
}

// Get returns a user of the actor's grove
func (s *UserService) Get(ctx context.Context, actor *model.User, id string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.GroveID != actor.GroveID {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Create adds a user to the actor's grove and mails them a random password
func (s *UserService) Create(ctx context.Context, actor *model.User, req model.CreateUserRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	password, err := generatePassword()
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:       email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		DiscordName: strings.TrimSpace(req.DiscordName),
		IsMod:       req.IsMod,
		GroveID:     actor.GroveID,
		Hash:        hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	grove, err := s.groveRepo.GetByID(ctx, actor.GroveID)
	if err != nil {
		return nil, err
	}
	if grove == nil {
		return nil, ErrGroveNotFound
	}
	if err := s.mailer.SendUserCreated(ctx, user, grove, password); err != nil {
		slog.Error("failed to send welcome mail", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// UpdateProfile changes email, display name and discord name of a user
func (s *UserService) UpdateProfile(ctx context.Context, actor *model.User, id string, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if email != user.Email {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, ErrEmailAlreadyExists
		}
	}

	user.Email = email
	user.DisplayName = strings.TrimSpace(req.DisplayName)
	user.DiscordName = strings.TrimSpace(req.DiscordName)
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetMod grants or revokes the mod flag. Mods cannot change their own flag.
func (s *UserService) SetMod(ctx context.Context, actor *model.User, id string, isMod bool) error {
	target, err := s.changeableUser(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.userRepo.SetMod(ctx, target.ID, isMod)
}

// Delete removes a user with all characters and events
func (s *UserService) Delete(ctx context.Context, actor *model.User, id string) error {
	target, err := s.changeableUser(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, target.ID)
}

// ResetPassword sets a new random password, logs the user out everywhere
// and mails them the new password
func (s *UserService) ResetPassword(ctx context.Context, actor *model.User, id string) error {
	user, err := s.changeableUser(ctx, actor, id)
	if err != nil {
		return err
	}

	password, err := generatePassword()
	if err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := s.tokenService.RevokeAll(ctx, user.ID); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user, password); err != nil {
		slog.Error("failed to send password reset mail", "user_id", user.ID, "error", err)
		return ErrMailDelivery
	}
	return nil
}

// changeableUser loads a user of the actor's grove that is not the actor.
// Ids may come with or without the table prefix, so the comparison happens
// on the stored record.
func (s *UserService) changeableUser(ctx context.Context, actor *model.User, id string) (*model.User, error) {
	target, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if target.ID == actor.ID {
		return nil, ErrCannotChangeSelf
	}
	return target, nil
}
