package repository

import (
	"context"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/model"
)

// FreeCompanyRepository handles free company data access
type FreeCompanyRepository struct {
	db database.Database
}

func NewFreeCompanyRepository(db database.Database) *FreeCompanyRepository {
	return &FreeCompanyRepository{db: db}
}

// List returns the free companies of a user ordered by name
func (r *FreeCompanyRepository) List(ctx context.Context, userID string) ([]*model.FreeCompany, error) {
	records, err := queryList(ctx, r.db, `SELECT * FROM free_company WHERE user = type::record($user) ORDER BY name`, map[string]interface{}{
		"user": recordID("user", userID),
	})
	if err != nil {
		return nil, err
	}

	companies := make([]*model.FreeCompany, 0, len(records))
	for _, data := range records {
		companies = append(companies, parseFreeCompany(data))
	}
	return companies, nil
}

func (r *FreeCompanyRepository) Get(ctx context.Context, userID, id string) (*model.FreeCompany, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM type::record($id) WHERE user = type::record($user)`, map[string]interface{}{
		"id":   recordID("free_company", id),
		"user": recordID("user", userID),
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseFreeCompany(data), nil
}

func (r *FreeCompanyRepository) GetByName(ctx context.Context, userID, name string) (*model.FreeCompany, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM free_company WHERE user = type::record($user) AND name = $name LIMIT 1`, map[string]interface{}{
		"user": recordID("user", userID),
		"name": name,
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseFreeCompany(data), nil
}

func (r *FreeCompanyRepository) Create(ctx context.Context, company *model.FreeCompany) error {
	records, err := queryList(ctx, r.db, `CREATE free_company CONTENT { user: type::record($user), name: $name }`, map[string]interface{}{
		"user": recordID("user", company.UserID),
		"name": company.Name,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return database.ErrQuery
	}
	company.ID = getID(records[0], "id")
	return nil
}

func (r *FreeCompanyRepository) Update(ctx context.Context, company *model.FreeCompany) error {
	return r.db.Execute(ctx, `UPDATE type::record($id) SET name = $name WHERE user = type::record($user)`, map[string]interface{}{
		"id":   recordID("free_company", company.ID),
		"user": recordID("user", company.UserID),
		"name": company.Name,
	})
}

// Delete removes the free company and unlinks the characters that were
// part of it
func (r *FreeCompanyRepository) Delete(ctx context.Context, userID, id string) error {
	vars := map[string]interface{}{
		"free_company": recordID("free_company", id),
		"user":         recordID("user", userID),
	}

	batch := database.NewBatch().
		Add(`UPDATE character SET free_company = NONE WHERE free_company = type::record($free_company) AND user = type::record($user)`, vars).
		Add(`DELETE type::record($free_company) WHERE user = type::record($user)`, vars)

	return batch.Execute(ctx, r.db)
}

func parseFreeCompany(data map[string]interface{}) *model.FreeCompany {
	return &model.FreeCompany{
		ID:     getID(data, "id"),
		UserID: getID(data, "user"),
		Name:   getString(data, "name"),
	}
}
