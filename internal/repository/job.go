package repository

import (
	"context"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/model"
)

// CrafterRepository handles crafter data access
type CrafterRepository struct {
	db database.Database
}

// NewCrafterRepository creates a new crafter repository
func NewCrafterRepository(db database.Database) *CrafterRepository {
	return &CrafterRepository{db: db}
}

// List returns the crafters of a character ordered by job
func (r *CrafterRepository) List(ctx context.Context, characterID string) ([]*model.Crafter, error) {
	records, err := queryList(ctx, r.db, `SELECT * FROM crafter WHERE character = type::record($character) ORDER BY job`, map[string]interface{}{
		"character": recordID("character", characterID),
	})
	if err != nil {
		return nil, err
	}

	crafters := make([]*model.Crafter, 0, len(records))
	for _, data := range records {
		crafters = append(crafters, parseCrafter(data))
	}
	return crafters, nil
}

// Get retrieves a crafter of a character
func (r *CrafterRepository) Get(ctx context.Context, characterID, id string) (*model.Crafter, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM type::record($id) WHERE character = type::record($character)`, map[string]interface{}{
		"id":        recordID("crafter", id),
		"character": recordID("character", characterID),
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseCrafter(data), nil
}

// GetByJob retrieves the crafter of a character with the given job
func (r *CrafterRepository) GetByJob(ctx context.Context, characterID string, job model.CrafterJob) (*model.Crafter, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM crafter WHERE character = type::record($character) AND job = $job LIMIT 1`, map[string]interface{}{
		"character": recordID("character", characterID),
		"job":       string(job),
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseCrafter(data), nil
}

// Create creates a new crafter
func (r *CrafterRepository) Create(ctx context.Context, crafter *model.Crafter) error {
	query := `
		CREATE crafter CONTENT {
			character: type::record($character),
			job: $job,
			level: $level
		}
	`
	vars := map[string]interface{}{
		"character": recordID("character", crafter.CharacterID),
		"job":       string(crafter.Job),
		"level":     crafter.Level,
	}

	records, err := queryList(ctx, r.db, query, vars)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return database.ErrQuery
	}
	crafter.ID = getID(records[0], "id")
	return nil
}

// Update changes job and level of a crafter
func (r *CrafterRepository) Update(ctx context.Context, crafter *model.Crafter) error {
	query := `UPDATE type::record($id) SET job = $job, level = $level WHERE character = type::record($character)`
	vars := map[string]interface{}{
		"id":        recordID("crafter", crafter.ID),
		"character": recordID("character", crafter.CharacterID),
		"job":       string(crafter.Job),
		"level":     crafter.Level,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a crafter
func (r *CrafterRepository) Delete(ctx context.Context, characterID, id string) error {
	return r.db.Execute(ctx, `DELETE type::record($id) WHERE character = type::record($character)`, map[string]interface{}{
		"id":        recordID("crafter", id),
		"character": recordID("character", characterID),
	})
}

func parseCrafter(data map[string]interface{}) *model.Crafter {
	return &model.Crafter{
		ID:          getID(data, "id"),
		CharacterID: getID(data, "character"),
		Job:         model.CrafterJob(getString(data, "job")),
		Level:       getString(data, "level"),
	}
}

// FighterRepository handles fighter data access
type FighterRepository struct {
	db database.Database
}

// NewFighterRepository creates a new fighter repository
func NewFighterRepository(db database.Database) *FighterRepository {
	return &FighterRepository{db: db}
}

// List returns the fighters of a character ordered by job
func (r *FighterRepository) List(ctx context.Context, characterID string) ([]*model.Fighter, error) {
	records, err := queryList(ctx, r.db, `SELECT * FROM fighter WHERE character = type::record($character) ORDER BY job`, map[string]interface{}{
		"character": recordID("character", characterID),
	})
	if err != nil {
		return nil, err
	}

	fighters := make([]*model.Fighter, 0, len(records))
	for _, data := range records {
		fighters = append(fighters, parseFighter(data))
	}
	return fighters, nil
}

// Get retrieves a fighter of a character
func (r *FighterRepository) Get(ctx context.Context, characterID, id string) (*model.Fighter, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM type::record($id) WHERE character = type::record($character)`, map[string]interface{}{
		"id":        recordID("fighter", id),
		"character": recordID("character", characterID),
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseFighter(data), nil
}

// GetByJob retrieves the fighter of a character with the given job
func (r *FighterRepository) GetByJob(ctx context.Context, characterID string, job model.FighterJob) (*model.Fighter, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM fighter WHERE character = type::record($character) AND job = $job LIMIT 1`, map[string]interface{}{
		"character": recordID("character", characterID),
		"job":       string(job),
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseFighter(data), nil
}

// Create creates a new fighter
func (r *FighterRepository) Create(ctx context.Context, fighter *model.Fighter) error {
	query := `
		CREATE fighter CONTENT {
			character: type::record($character),
			job: $job,
			level: $level,
			gear_score: $gear_score
		}
	`
	vars := map[string]interface{}{
		"character":  recordID("character", fighter.CharacterID),
		"job":        string(fighter.Job),
		"level":      fighter.Level,
		"gear_score": fighter.GearScore,
	}

	records, err := queryList(ctx, r.db, query, vars)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return database.ErrQuery
	}
	fighter.ID = getID(records[0], "id")
	return nil
}

// Update changes job, level and gear score of a fighter
func (r *FighterRepository) Update(ctx context.Context, fighter *model.Fighter) error {
	query := `
		UPDATE type::record($id) SET job = $job, level = $level, gear_score = $gear_score
		WHERE character = type::record($character)
	`
	vars := map[string]interface{}{
		"id":         recordID("fighter", fighter.ID),
		"character":  recordID("character", fighter.CharacterID),
		"job":        string(fighter.Job),
		"level":      fighter.Level,
		"gear_score": fighter.GearScore,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a fighter
func (r *FighterRepository) Delete(ctx context.Context, characterID, id string) error {
	return r.db.Execute(ctx, `DELETE type::record($id) WHERE character = type::record($character)`, map[string]interface{}{
		"id":        recordID("fighter", id),
		"character": recordID("character", characterID),
	})
}

func parseFighter(data map[string]interface{}) *model.Fighter {
	return &model.Fighter{
		ID:          getID(data, "id"),
		CharacterID: getID(data, "character"),
		Job:         model.FighterJob(getString(data, "job")),
		Level:       getString(data, "level"),
		GearScore:   getString(data, "gear_score"),
	}
}
