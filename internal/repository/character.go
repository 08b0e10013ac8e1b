package repository

import (
	"context"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/model"
)

// CharacterRepository handles character data access
type CharacterRepository struct {
	db database.Database
}

// NewCharacterRepository creates a new character repository
func NewCharacterRepository(db database.Database) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// List returns the characters of a user ordered by name
func (r *CharacterRepository) List(ctx context.Context, userID string) ([]*model.Character, error) {
	records, err := queryList(ctx, r.db, `SELECT * FROM character WHERE user = type::record($user) ORDER BY name FETCH free_company`, map[string]interface{}{
		"user": recordID("user", userID),
	})
	if err != nil {
		return nil, err
	}

	characters := make([]*model.Character, 0, len(records))
	for _, data := range records {
		characters = append(characters, parseCharacter(data))
	}
	return characters, nil
}

// Get retrieves a character owned by the user
func (r *CharacterRepository) Get(ctx context.Context, userID, id string) (*model.Character, error) {
	query := `SELECT * FROM type::record($id) WHERE user = type::record($user) FETCH free_company`
	vars := map[string]interface{}{
		"id":   recordID("character", id),
		"user": recordID("user", userID),
	}

	data, err := queryOne(ctx, r.db, query, vars)
	if err != nil || data == nil {
		return nil, err
	}
	return parseCharacter(data), nil
}

// GetByName retrieves a character of the user by name
func (r *CharacterRepository) GetByName(ctx context.Context, userID, name string) (*model.Character, error) {
	query := `SELECT * FROM character WHERE user = type::record($user) AND name = $name LIMIT 1 FETCH free_company`
	vars := map[string]interface{}{
		"user": recordID("user", userID),
		"name": name,
	}

	data, err := queryOne(ctx, r.db, query, vars)
	if err != nil || data == nil {
		return nil, err
	}
	return parseCharacter(data), nil
}

// Create creates a new character
func (r *CharacterRepository) Create(ctx context.Context, character *model.Character) error {
	query := `
		CREATE character CONTENT {
			user: type::record($user),
			name: $name,
			race: $race,
			world: $world,
			free_company: IF $free_company THEN type::record($free_company) ELSE NONE END,
			custom_fields: $custom_fields,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"user":          recordID("user", character.UserID),
		"name":          character.Name,
		"race":          string(character.Race),
		"world":         character.World,
		"free_company":  freeCompanyID(character.FreeCompany),
		"custom_fields": customFieldValues(character.CustomFields),
	}

	records, err := queryList(ctx, r.db, query, vars)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return database.ErrQuery
	}

	created := parseCharacter(records[0])
	character.ID = created.ID
	character.CreatedOn = created.CreatedOn
	character.UpdatedOn = created.UpdatedOn
	return nil
}

// Update replaces name, race, world, free company and custom field values
func (r *CharacterRepository) Update(ctx context.Context, character *model.Character) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			race = $race,
			world = $world,
			free_company = IF $free_company THEN type::record($free_company) ELSE NONE END,
			custom_fields = $custom_fields,
			updated_on = time::now()
		WHERE user = type::record($user)
	`
	vars := map[string]interface{}{
		"id":            recordID("character", character.ID),
		"user":          recordID("user", character.UserID),
		"name":          character.Name,
		"race":          string(character.Race),
		"world":         character.World,
		"free_company":  freeCompanyID(character.FreeCompany),
		"custom_fields": customFieldValues(character.CustomFields),
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes the character with its crafters, fighters and housings
func (r *CharacterRepository) Delete(ctx context.Context, userID, id string) error {
	vars := map[string]interface{}{
		"character": recordID("character", id),
		"user":      recordID("user", userID),
	}

	batch := database.NewBatch().
		Add(`DELETE crafter WHERE character = type::record($character) AND character.user = type::record($user)`, vars).
		Add(`DELETE fighter WHERE character = type::record($character) AND character.user = type::record($user)`, vars).
		Add(`DELETE housing WHERE character = type::record($character) AND character.user = type::record($user)`, vars).
		Add(`DELETE type::record($character) WHERE user = type::record($user)`, vars)

	return batch.Execute(ctx, r.db)
}

func customFieldValues(fields []model.CharacterCustomField) []map[string]interface{} {
	values := make([]map[string]interface{}, 0, len(fields))
	for _, field := range fields {
		values = append(values, map[string]interface{}{
			"label":    field.Label,
			"values":   field.Values,
			"position": field.Position,
		})
	}
	return values
}

// freeCompanyID is "" for characters without a free company
func freeCompanyID(company *model.FreeCompany) string {
	if company == nil {
		return ""
	}
	return recordID("free_company", company.ID)
}

func parseCharacter(data map[string]interface{}) *model.Character {
	character := &model.Character{
		ID:           getID(data, "id"),
		UserID:       getID(data, "user"),
		Name:         getString(data, "name"),
		Race:         model.CharacterRace(getString(data, "race")),
		World:        getString(data, "world"),
		CustomFields: []model.CharacterCustomField{},
		CreatedOn:    getTimeValue(data, "created_on"),
		UpdatedOn:    getTimeValue(data, "updated_on"),
	}

	switch company := data["free_company"].(type) {
	case nil:
	case map[string]interface{}:
		if _, fetched := company["name"]; fetched {
			character.FreeCompany = parseFreeCompany(company)
		} else {
			character.FreeCompany = &model.FreeCompany{ID: getID(data, "free_company")}
		}
	default:
		character.FreeCompany = &model.FreeCompany{ID: getID(data, "free_company")}
	}

	for _, field := range getMapSlice(data, "custom_fields") {
		character.CustomFields = append(character.CustomFields, model.CharacterCustomField{
			Label:    getString(field, "label"),
			Values:   getStringSlice(field, "values"),
			Position: getInt(field, "position"),
		})
	}
	return character
}
