package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Creastina/bambushain/internal/model"
)

// GroveRepository defines the interface for grove storage
type GroveRepository interface {
	// Create stores the grove and its first mod atomically
	Create(ctx context.Context, grove *model.Grove, mod *model.User) error
	GetByID(ctx context.Context, id string) (*model.Grove, error)
	GetByName(ctx context.Context, name string) (*model.Grove, error)
	List(ctx context.Context) ([]*model.Grove, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	// Delete removes the grove with all users and their data
	Delete(ctx context.Context, id string) error
}

// GroveService manages groves
type GroveService struct {
	groveRepo GroveRepository
	userRepo  UserRepository
	mailer    Mailer
}

// GroveServiceConfig holds configuration for the grove service
type GroveServiceConfig struct {
	GroveRepo GroveRepository
	UserRepo  UserRepository
	Mailer    Mailer
}

// NewGroveService creates a new grove service
func NewGroveService(cfg GroveServiceConfig) *GroveService {
	return &GroveService{
		groveRepo: cfg.GroveRepo,
		userRepo:  cfg.UserRepo,
		mailer:    cfg.Mailer,
	}
}

// Get returns a grove by ID
func (s *GroveService) Get(ctx context.Context, id string) (*model.Grove, error) {
	grove, err := s.groveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if grove == nil {
		return nil, ErrGroveNotFound
	}
	return grove, nil
}

// List returns all groves with their mods
func (s *GroveService) List(ctx context.Context) ([]*model.GroveWithMods, error) {
	groves, err := s.groveRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*model.GroveWithMods, 0, len(groves))
	for _, grove := range groves {
		mods, err := s.userRepo.ListMods(ctx, grove.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &model.GroveWithMods{Grove: *grove, Mods: mods})
	}
	return result, nil
}

// Create creates a grove with its first mod. The mod receives a random
// password by mail.
func (s *GroveService) Create(ctx context.Context, req model.CreateGroveRequest) (*model.GroveWithMods, error) {
	name := strings.TrimSpace(req.GroveName)
	email := normalizeEmail(req.ModEmail)

	existing, err := s.groveRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrGroveNameExists
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
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

	grove := &model.Grove{Name: name, IsEnabled: true}
	mod := &model.User{
		Email:       email,
		DisplayName: strings.TrimSpace(req.ModName),
		IsMod:       true,
		Hash:        hash,
	}
	if err := s.groveRepo.Create(ctx, grove, mod); err != nil {
		return nil, err
	}

	if err := s.mailer.SendUserCreated(ctx, mod, grove, password); err != nil {
		slog.Error("failed to send welcome mail to grove mod",
			"grove_id", grove.ID,
			"user_id", mod.ID,
			"error", err,
		)
	}

	return &model.GroveWithMods{Grove: *grove, Mods: []*model.User{mod}}, nil
}

// SetEnabled enables or disables a grove. Users of a disabled grove cannot
// use the API until a mod enables it again.
func (s *GroveService) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.groveRepo.SetEnabled(ctx, id, enabled)
}

// Delete removes a grove with everything in it
func (s *GroveService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.groveRepo.Delete(ctx, id)
}
