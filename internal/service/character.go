package service

import (
	"context"
	"strings"

	"github.com/Creastina/bambushain/internal/model"
)

// CharacterRepository defines the interface for character storage.
// Every lookup is scoped to the owning user.
type CharacterRepository interface {
	List(ctx context.Context, userID string) ([]*model.Character, error)
	Get(ctx context.Context, userID, id string) (*model.Character, error)
	GetByName(ctx context.Context, userID, name string) (*model.Character, error)
	Create(ctx context.Context, character *model.Character) error
	Update(ctx context.Context, character *model.Character) error
	// Delete removes the character with its crafters, fighters and housings
	Delete(ctx context.Context, userID, id string) error
}

// CrafterRepository defines the interface for crafter storage
type CrafterRepository interface {
	List(ctx context.Context, characterID string) ([]*model.Crafter, error)
	Get(ctx context.Context, characterID, id string) (*model.Crafter, error)
	GetByJob(ctx context.Context, characterID string, job model.CrafterJob) (*model.Crafter, error)
	Create(ctx context.Context, crafter *model.Crafter) error
	Update(ctx context.Context, crafter *model.Crafter) error
	Delete(ctx context.Context, characterID, id string) error
}

// FighterRepository defines the interface for fighter storage
type FighterRepository interface {
	List(ctx context.Context, characterID string) ([]*model.Fighter, error)
	Get(ctx context.Context, characterID, id string) (*model.Fighter, error)
	GetByJob(ctx context.Context, characterID string, job model.FighterJob) (*model.Fighter, error)
	Create(ctx context.Context, fighter *model.Fighter) error
	Update(ctx context.Context, fighter *model.Fighter) error
	Delete(ctx context.Context, characterID, id string) error
}

// HousingRepository defines the interface for housing storage
type HousingRepository interface {
	List(ctx context.Context, characterID string) ([]*model.Housing, error)
	Get(ctx context.Context, characterID, id string) (*model.Housing, error)
	GetByAddress(ctx context.Context, characterID string, district model.HousingDistrict, ward, plot int) (*model.Housing, error)
	Create(ctx context.Context, housing *model.Housing) error
	Update(ctx context.Context, housing *model.Housing) error
	Delete(ctx context.Context, characterID, id string) error
}

// FreeCompanyRepository defines the interface for free company storage.
// Every lookup is scoped to the owning user.
type FreeCompanyRepository interface {
	List(ctx context.Context, userID string) ([]*model.FreeCompany, error)
	Get(ctx context.Context, userID, id string) (*model.FreeCompany, error)
	GetByName(ctx context.Context, userID, name string) (*model.FreeCompany, error)
	Create(ctx context.Context, company *model.FreeCompany) error
	Update(ctx context.Context, company *model.FreeCompany) error
	// Delete removes the free company and unlinks its characters
	Delete(ctx context.Context, userID, id string) error
}

// CharacterService manages characters, their jobs and housings, and the
// free companies they belong to
type CharacterService struct {
	characterRepo   CharacterRepository
	crafterRepo     CrafterRepository
	fighterRepo     FighterRepository
	housingRepo     HousingRepository
	freeCompanyRepo FreeCompanyRepository
}

// CharacterServiceConfig holds configuration for the character service
type CharacterServiceConfig struct {
	CharacterRepo   CharacterRepository
	CrafterRepo     CrafterRepository
	FighterRepo     FighterRepository
	HousingRepo     HousingRepository
	FreeCompanyRepo FreeCompanyRepository
}

// NewCharacterService creates a new character service
func NewCharacterService(cfg CharacterServiceConfig) *CharacterService {
	return &CharacterService{
		characterRepo:   cfg.CharacterRepo,
		crafterRepo:     cfg.CrafterRepo,
		fighterRepo:     cfg.FighterRepo,
		housingRepo:     cfg.HousingRepo,
		freeCompanyRepo: cfg.FreeCompanyRepo,
	}
}

// ===== Characters =====

// List returns all characters of the user ordered by name
func (s *CharacterService) List(ctx context.Context, userID string) ([]*model.Character, error) {
	return s.characterRepo.List(ctx, userID)
}

// Get returns a character of the user
func (s *CharacterService) Get(ctx context.Context, userID, id string) (*model.Character, error) {
	character, err := s.characterRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if character == nil {
		return nil, ErrCharacterNotFound
	}
	return character, nil
}

// Create creates a character. The name must be unique for the user.
func (s *CharacterService) Create(ctx context.Context, userID string, req model.CharacterRequest) (*model.Character, error) {
	name := strings.TrimSpace(req.Name)
	existing, err := s.characterRepo.GetByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCharacterExists
	}

	company, err := s.characterFreeCompany(ctx, userID, req.FreeCompanyID)
	if err != nil {
		return nil, err
	}

	character := &model.Character{
		UserID:       userID,
		Name:         name,
		Race:         req.Race,
		World:        strings.TrimSpace(req.World),
		FreeCompany:  company,
		CustomFields: normalizeCustomFields(req.CustomFields),
	}
	if err := s.characterRepo.Create(ctx, character); err != nil {
		return nil, err
	}
	return character, nil
}

// Update replaces name, race, world, free company and custom field values
// of a character. An empty free company id leaves the free company.
func (s *CharacterService) Update(ctx context.Context, userID, id string, req model.CharacterRequest) (*model.Character, error) {
	character, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name != character.Name {
		existing, err := s.characterRepo.GetByName(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != character.ID {
			return nil, ErrCharacterExists
		}
	}

	company, err := s.characterFreeCompany(ctx, userID, req.FreeCompanyID)
	if err != nil {
		return nil, err
	}

	character.Name = name
	character.Race = req.Race
	character.World = strings.TrimSpace(req.World)
	character.FreeCompany = company
	character.CustomFields = normalizeCustomFields(req.CustomFields)
	if err := s.characterRepo.Update(ctx, character); err != nil {
		return nil, err
	}
	return character, nil
}

// Delete removes a character with all of its jobs and housings
func (s *CharacterService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.characterRepo.Delete(ctx, userID, id)
}

// characterFreeCompany resolves the free company a character joins. The
// company must belong to the same user.
func (s *CharacterService) characterFreeCompany(ctx context.Context, userID, id string) (*model.FreeCompany, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	return s.GetFreeCompany(ctx, userID, id)
}

func normalizeCustomFields(fields []model.CharacterCustomField) []model.CharacterCustomField {
	result := make([]model.CharacterCustomField, 0, len(fields))
	for _, field := range fields {
		values := field.Values
		if values == nil {
			values = []string{}
		}
		result = append(result, model.CharacterCustomField{
			Label:    strings.TrimSpace(field.Label),
			Values:   values,
			Position: field.Position,
		})
	}
	return result
}

// ===== Crafters =====

// ListCrafters returns the crafters of a character ordered by job
func (s *CharacterService) ListCrafters(ctx context.Context, userID, characterID string) ([]*model.Crafter, error) {
	if _, err := s.Get(ctx, userID, characterID); err != nil {
		return nil, err
	}
	return s.crafterRepo.List(ctx, characterID)
}

// GetCrafter returns a crafter of a character
func (s *CharacterService) GetCrafter(ctx context.Context, userID, characterID, id string) (*model.Crafter, error) {
	if _, err := s.Get(ctx, userID, characterID); err != nil {
		return nil, err
	}
	crafter, err := s.crafterRepo.Get(ctx, characterID, id)
	if err != nil {
		return nil, err
	}
	if crafter == nil {
		return nil, ErrCrafterNotFound
	}
	return crafter, nil
}

// CreateCrafter adds a crafter job. Each job exists at most once per character.
func (s *CharacterService) CreateCrafter(ctx context.Context, userID, characterID string, req model.CrafterRequest) (*model.Crafter, error) {
	if _, err := s.Get(ctx, userID, characterID); err != nil {
		return nil, err
	}

	existing, err := s.crafterRepo.GetByJob(ctx, characterID, req.Job)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCrafterExists
	}

	crafter := &model.Crafter{
		CharacterID: characterID,
		Job:         req.Job,
		Level:       strings.TrimSpace(req.Level),
	}
	if err := s.crafterRepo.Create(ctx, crafter); err != nil {
		return nil, err
	}
	return crafter, nil
}

// UpdateCrafter changes job and level of a crafter
func (s *CharacterService) UpdateCrafter(ctx context.Context, userID, characterID, id string, req model.CrafterRequest) (*model.Crafter, error) {
	crafter, err := s.GetCrafter(ctx, userID, characterID, id)
	if err != nil {
		return nil, err
	}

	if req.Job != crafter.Job {
		existing, err := s.crafterRepo.GetByJob(ctx, characterID, req.Job)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrCrafterExists
		}
	}

	crafter.Job = req.Job
	crafter.Level = strings.TrimSpace(req.Level)
	if err := s.crafterRepo.Update(ctx, crafter); err != nil {
		return nil, err
	}
	return crafter, nil
}

// DeleteCrafter removes a crafter
func (s *CharacterService) DeleteCrafter(ctx context.Context, userID, characterID, id string) error {
	if _, err := s.GetCrafter(ctx, userID, characterID, id); err != nil {
		return err
	}
	return s.crafterRepo.Delete(ctx, characterID, id)
}

// ===== Fighters =====

// ListFighters returns the fighters of a character ordered by job
func (s *CharacterService) ListFighters(ctx context.Context, userID, characterID string) ([]*model.Fighter, error) {
	if _, err := s.Get(ctx, userID, characterID); err != nil {
		return nil, err
	}
	return s.fighterRepo.List(ctx, characterID)
}

// GetFighter returns a fighter of a character
func (s *CharacterService) GetFighter(ctx context.Context, userID, characterID, id string) (*model.Fighter, error) {
	if _, err := s.Get(ctx, userID, characterID); err != nil {
		return nil, err
	}
	fighter, err := s.fighterRepo.Get(ctx, characterID, id)
	if err != nil {
		return nil, err
	}
	if fighter == nil {
		return nil, ErrFighterNotFound
	}
	return fighter, nil
}

// CreateFighter adds a fighter job. Each job exists at most once per character.
func (s *CharacterService) CreateFighter(ctx context.Context, userID, characterID string, req model.FighterRequest) (*model.Fighter, error) {
	if _, err := s.Get(ctx, userID, characterID); err != nil {
		return nil, err
	}

	existing, err := s.fighterRepo.GetByJob(ctx, characterID, req.Job)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrFighterExists
	}

	fighter := &model.Fighter{
		CharacterID: characterID,
		Job:         req.Job,
		Level:       strings.TrimSpace(req.Level),
		GearScore:   strings.TrimSpace(req.GearScore),
	}
	if err := s.fighterRepo.Create(ctx, fighter); err != nil {
		return nil, err
	}
	return fighter, nil
}

// UpdateFighter changes job, level and gear score of a fighter
func (s *CharacterService) UpdateFighter(ctx context.Context, userID, characterID, id string, req model.FighterRequest) (*model.Fighter, error) {
	fighter, err := s.GetFighter(ctx, userID, characterID, id)
	if err != nil {
		return nil, err
	}

	if req.Job != fighter.Job {
		existing, err := s.fighterRepo.GetByJob(ctx, characterID, req.Job)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrFighterExists
		}
	}

	fighter.Job = req.Job
	fighter.Level = strings.TrimSpace(req.Level)
	fighter.GearScore = strings.TrimSpace(req.GearScore)
	if err := s.fighterRepo.Update(ctx, fighter); err != nil {
		return nil, err
	}
	return fighter, nil
}

// DeleteFighter removes a fighter
func (s *CharacterService) DeleteFighter(ctx context.Context, userID, characterID, id string) error {
	if _, err := s.GetFighter(ctx, userID, characterID, id); err != nil {
		return err
	}
	return s.fighterRepo.Delete(ctx, characterID, id)
}

// ===== Housings =====

// ListHousings returns the housings of a character ordered by district, ward and plot
func (s *CharacterService) ListHousings(ctx context.Context, userID, characterID string) ([]*model.Housing, error) {
	if _, err := s.Get(ctx, userID, characterID); err != nil {
		return nil, err
	}
	return s.housingRepo.List(ctx, characterID)
}

// GetHousing returns a housing of a character
func (s *CharacterService) GetHousing(ctx context.Context, userID, characterID, id string) (*model.Housing, error) {
	if _, err := s.Get(ctx, userID, characterID); err != nil {
		return nil, err
	}
	housing, err := s.housingRepo.Get(ctx, characterID, id)
	if err != nil {
		return nil, err
	}
	if housing == nil {
		return nil, ErrHousingNotFound
	}
	return housing, nil
}

// CreateHousing adds a housing. The address must be unique per character.
func (s *CharacterService) CreateHousing(ctx context.Context, userID, characterID string, req model.HousingRequest) (*model.Housing, error) {
	if _, err := s.Get(ctx, userID, characterID); err != nil {
		return nil, err
	}

	existing, err := s.housingRepo.GetByAddress(ctx, characterID, req.District, req.Ward, req.Plot)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrHousingExists
	}

	housing := &model.Housing{
		CharacterID: characterID,
		District:    req.District,
		HousingType: req.HousingType,
		Ward:        req.Ward,
		Plot:        req.Plot,
	}
	if err := s.housingRepo.Create(ctx, housing); err != nil {
		return nil, err
	}
	return housing, nil
}

// UpdateHousing changes address and type of a housing
func (s *CharacterService) UpdateHousing(ctx context.Context, userID, characterID, id string, req model.HousingRequest) (*model.Housing, error) {
	housing, err := s.GetHousing(ctx, userID, characterID, id)
	if err != nil {
		return nil, err
	}

	existing, err := s.housingRepo.GetByAddress(ctx, characterID, req.District, req.Ward, req.Plot)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != housing.ID {
		return nil, ErrHousingExists
	}

	housing.District = req.District
	housing.HousingType = req.HousingType
	housing.Ward = req.Ward
	housing.Plot = req.Plot
	if err := s.housingRepo.Update(ctx, housing); err != nil {
		return nil, err
	}
	return housing, nil
}

// DeleteHousing removes a housing
func (s *CharacterService) DeleteHousing(ctx context.Context, userID, characterID, id string) error {
	if _, err := s.GetHousing(ctx, userID, characterID, id); err != nil {
		return err
	}
	return s.housingRepo.Delete(ctx, characterID, id)
}

// ===== Free companies =====

// ListFreeCompanies returns the free companies of the user ordered by name
func (s *CharacterService) ListFreeCompanies(ctx context.Context, userID string) ([]*model.FreeCompany, error) {
	return s.freeCompanyRepo.List(ctx, userID)
}

func (s *CharacterService) GetFreeCompany(ctx context.Context, userID, id string) (*model.FreeCompany, error) {
	company, err := s.freeCompanyRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrFreeCompanyNotFound
	}
	return company, nil
}

// CreateFreeCompany adds a free company. The name must be unique for the user.
func (s *CharacterService) CreateFreeCompany(ctx context.Context, userID string, req model.FreeCompanyRequest) (*model.FreeCompany, error) {
	name := strings.TrimSpace(req.Name)
	existing, err := s.freeCompanyRepo.GetByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrFreeCompanyExists
	}

	company := &model.FreeCompany{UserID: userID, Name: name}
	if err := s.freeCompanyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// UpdateFreeCompany renames a free company
func (s *CharacterService) UpdateFreeCompany(ctx context.Context, userID, id string, req model.FreeCompanyRequest) (*model.FreeCompany, error) {
	company, err := s.GetFreeCompany(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	existing, err := s.freeCompanyRepo.GetByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != company.ID {
		return nil, ErrFreeCompanyExists
	}

	company.Name = name
	if err := s.freeCompanyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// DeleteFreeCompany removes a free company. Its characters stay and lose
// their free company.
func (s *CharacterService) DeleteFreeCompany(ctx context.Context, userID, id string) error {
	company, err := s.GetFreeCompany(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.freeCompanyRepo.Delete(ctx, userID, company.ID)
}
