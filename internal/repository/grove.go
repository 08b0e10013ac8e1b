package repository

import (
	"context"
	"fmt"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/model"
)

// GroveRepository handles grove data access
type GroveRepository struct {
	db database.Database
}

// NewGroveRepository creates a new grove repository
func NewGroveRepository(db database.Database) *GroveRepository {
	return &GroveRepository{db: db}
}

// Create creates the grove and its first mod in one transaction
func (r *GroveRepository) Create(ctx context.Context, grove *model.Grove, mod *model.User) error {
	batch := database.NewBatch()
	batch.Add(`LET $created_grove = CREATE ONLY grove CONTENT {
			name: $name,
			is_enabled: $is_enabled,
			created_on: time::now()
		}`, map[string]interface{}{
		"name":       grove.Name,
		"is_enabled": grove.IsEnabled,
	})
	batch.Add(`CREATE user CONTENT {
			email: $email,
			display_name: $display_name,
			discord_name: $discord_name,
			is_mod: true,
			grove: $created_grove.id,
			password_hash: $hash,
			created_on: time::now(),
			updated_on: time::now()
		}`, map[string]interface{}{
		"email":        mod.Email,
		"display_name": mod.DisplayName,
		"discord_name": mod.DiscordName,
		"hash":         mod.Hash,
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		return err
	}

	created, err := r.GetByName(ctx, grove.Name)
	if err != nil {
		return err
	}
	if created == nil {
		return fmt.Errorf("%w: grove %q missing after create", database.ErrQuery, grove.Name)
	}
	*grove = *created

	user, err := queryOne(ctx, r.db, `SELECT * FROM user WHERE email = $email LIMIT 1`, map[string]interface{}{"email": mod.Email})
	if err != nil {
		return err
	}
	if user != nil {
		*mod = *parseUser(user)
	}
	return nil
}

// GetByID retrieves a grove by ID
func (r *GroveRepository) GetByID(ctx context.Context, id string) (*model.Grove, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM type::record($id)`, map[string]interface{}{
		"id": recordID("grove", id),
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseGrove(data), nil
}

// GetByName retrieves a grove by its unique name
func (r *GroveRepository) GetByName(ctx context.Context, name string) (*model.Grove, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM grove WHERE name = $name LIMIT 1`, map[string]interface{}{
		"name": name,
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseGrove(data), nil
}

// List returns all groves ordered by name
func (r *GroveRepository) List(ctx context.Context) ([]*model.Grove, error) {
	records, err := queryList(ctx, r.db, `SELECT * FROM grove ORDER BY name`, nil)
	if err != nil {
		return nil, err
	}

	groves := make([]*model.Grove, 0, len(records))
	for _, data := range records {
		groves = append(groves, parseGrove(data))
	}
	return groves, nil
}

// SetEnabled enables or disables a grove
func (r *GroveRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	query := `UPDATE type::record($id) SET is_enabled = $enabled`
	vars := map[string]interface{}{
		"id":      recordID("grove", id),
		"enabled": enabled,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes the grove, its users and everything they own
func (r *GroveRepository) Delete(ctx context.Context, id string) error {
	vars := map[string]interface{}{"grove": recordID("grove", id)}

	batch := database.NewBatch().
		Add(`DELETE crafter WHERE character.user.grove = type::record($grove)`, vars).
		Add(`DELETE fighter WHERE character.user.grove = type::record($grove)`, vars).
		Add(`DELETE housing WHERE character.user.grove = type::record($grove)`, vars).
		Add(`DELETE character WHERE user.grove = type::record($grove)`, vars).
		Add(`DELETE free_company WHERE user.grove = type::record($grove)`, vars).
		Add(`DELETE custom_field_option WHERE field.user.grove = type::record($grove)`, vars).
		Add(`DELETE custom_field WHERE user.grove = type::record($grove)`, vars).
		Add(`DELETE token WHERE user.grove = type::record($grove)`, vars).
		Add(`DELETE event WHERE grove = type::record($grove)`, vars).
		Add(`DELETE user WHERE grove = type::record($grove)`, vars).
		Add(`DELETE type::record($grove)`, vars)

	return batch.Execute(ctx, r.db)
}

func parseGrove(data map[string]interface{}) *model.Grove {
	return &model.Grove{
		ID:        getID(data, "id"),
		Name:      getString(data, "name"),
		IsEnabled: getBool(data, "is_enabled"),
		CreatedOn: getTimeValue(data, "created_on"),
	}
}
