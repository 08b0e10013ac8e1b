package repository

import (
	"context"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/model"
)

// HousingRepository handles housing data access
type HousingRepository struct {
	db database.Database
}

// NewHousingRepository creates a new housing repository
func NewHousingRepository(db database.Database) *HousingRepository {
	return &HousingRepository{db: db}
}

// List returns the housings of a character ordered by district, ward and plot
func (r *HousingRepository) List(ctx context.Context, characterID string) ([]*model.Housing, error) {
	query := `SELECT * FROM housing WHERE character = type::record($character) ORDER BY district, ward, plot`
	records, err := queryList(ctx, r.db, query, map[string]interface{}{
		"character": recordID("character", characterID),
	})
	if err != nil {
		return nil, err
	}

	housings := make([]*model.Housing, 0, len(records))
	for _, data := range records {
		housings = append(housings, parseHousing(data))
	}
	return housings, nil
}

// Get retrieves a housing of a character
func (r *HousingRepository) Get(ctx context.Context, characterID, id string) (*model.Housing, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM type::record($id) WHERE character = type::record($character)`, map[string]interface{}{
		"id":        recordID("housing", id),
		"character": recordID("character", characterID),
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseHousing(data), nil
}

// GetByAddress retrieves the housing of a character at an address
func (r *HousingRepository) GetByAddress(ctx context.Context, characterID string, district model.HousingDistrict, ward, plot int) (*model.Housing, error) {
	query := `
		SELECT * FROM housing
		WHERE character = type::record($character) AND district = $district AND ward = $ward AND plot = $plot
		LIMIT 1
	`
	vars := map[string]interface{}{
		"character": recordID("character", characterID),
		"district":  string(district),
		"ward":      ward,
		"plot":      plot,
	}

	data, err := queryOne(ctx, r.db, query, vars)
	if err != nil || data == nil {
		return nil, err
	}
	return parseHousing(data), nil
}

// Create creates a new housing
func (r *HousingRepository) Create(ctx context.Context, housing *model.Housing) error {
	query := `
		CREATE housing CONTENT {
			character: type::record($character),
			district: $district,
			housing_type: $housing_type,
			ward: $ward,
			plot: $plot
		}
	`
	vars := map[string]interface{}{
		"character":    recordID("character", housing.CharacterID),
		"district":     string(housing.District),
		"housing_type": string(housing.HousingType),
		"ward":         housing.Ward,
		"plot":         housing.Plot,
	}

	records, err := queryList(ctx, r.db, query, vars)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return database.ErrQuery
	}
	housing.ID = getID(records[0], "id")
	return nil
}

// Update changes address and type of a housing
func (r *HousingRepository) Update(ctx context.Context, housing *model.Housing) error {
	query := `
		UPDATE type::record($id) SET
			district = $district,
			housing_type = $housing_type,
			ward = $ward,
			plot = $plot
		WHERE character = type::record($character)
	`
	vars := map[string]interface{}{
		"id":           recordID("housing", housing.ID),
		"character":    recordID("character", housing.CharacterID),
		"district":     string(housing.District),
		"housing_type": string(housing.HousingType),
		"ward":         housing.Ward,
		"plot":         housing.Plot,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a housing
func (r *HousingRepository) Delete(ctx context.Context, characterID, id string) error {
	return r.db.Execute(ctx, `DELETE type::record($id) WHERE character = type::record($character)`, map[string]interface{}{
		"id":        recordID("housing", id),
		"character": recordID("character", characterID),
	})
}

func parseHousing(data map[string]interface{}) *model.Housing {
	return &model.Housing{
		ID:          getID(data, "id"),
		CharacterID: getID(data, "character"),
		District:    model.HousingDistrict(getString(data, "district")),
		HousingType: model.HousingType(getString(data, "housing_type")),
		Ward:        getInt(data, "ward"),
		Plot:        getInt(data, "plot"),
	}
}
