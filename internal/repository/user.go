package repository

import (
	"context"
	"time"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		CREATE user CONTENT {
			email: $email,
			display_name: $display_name,
			discord_name: $discord_name,
			is_mod: $is_mod,
			grove: type::record($grove),
			password_hash: $hash,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"email":        user.Email,
		"display_name": user.DisplayName,
		"discord_name": user.DiscordName,
		"is_mod":       user.IsMod,
		"grove":        recordID("grove", user.GroveID),
		"hash":         user.Hash,
	}

	records, err := queryList(ctx, r.db, query, vars)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return database.ErrQuery
	}

	created := parseUser(records[0])
	user.ID = created.ID
	user.CreatedOn = created.CreatedOn
	user.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM type::record($id)`, map[string]interface{}{
		"id": recordID("user", id),
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseUser(data), nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM user WHERE email = $email LIMIT 1`, map[string]interface{}{
		"email": email,
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseUser(data), nil
}

// ListByGrove returns all users of a grove ordered by display name
func (r *UserRepository) ListByGrove(ctx context.Context, groveID string) ([]*model.User, error) {
	return r.list(ctx, `SELECT * FROM user WHERE grove = type::record($grove) ORDER BY display_name`, groveID)
}

// ListMods returns the mods of a grove ordered by display name
func (r *UserRepository) ListMods(ctx context.Context, groveID string) ([]*model.User, error) {
	return r.list(ctx, `SELECT * FROM user WHERE grove = type::record($grove) AND is_mod = true ORDER BY display_name`, groveID)
}

func (r *UserRepository) list(ctx context.Context, query, groveID string) ([]*model.User, error) {
	records, err := queryList(ctx, r.db, query, map[string]interface{}{
		"grove": recordID("grove", groveID),
	})
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(records))
	for _, data := range records {
		users = append(users, parseUser(data))
	}
	return users, nil
}

// UpdateProfile updates email, display name and discord name
func (r *UserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	query := `
		UPDATE type::record($id) SET
			email = $email,
			display_name = $display_name,
			discord_name = $discord_name,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":           recordID("user", user.ID),
		"email":        user.Email,
		"display_name": user.DisplayName,
		"discord_name": user.DiscordName,
	}

	return r.db.Execute(ctx, query, vars)
}

// UpdatePassword updates a user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, hash string) error {
	query := `UPDATE type::record($id) SET password_hash = $hash, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":   recordID("user", userID),
		"hash": hash,
	}

	return r.db.Execute(ctx, query, vars)
}

// SetMod updates the mod flag of a user
func (r *UserRepository) SetMod(ctx context.Context, userID string, isMod bool) error {
	query := `UPDATE type::record($id) SET is_mod = $is_mod, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":     recordID("user", userID),
		"is_mod": isMod,
	}

	return r.db.Execute(ctx, query, vars)
}

// SetTwoFactor stores a pending two factor code hash. Passing nil clears it.
func (r *UserRepository) SetTwoFactor(ctx context.Context, userID string, hash *string, expires *time.Time) error {
	if hash == nil || expires == nil {
		query := `UPDATE type::record($id) SET two_factor_hash = NONE, two_factor_expires = NONE`
		return r.db.Execute(ctx, query, map[string]interface{}{"id": recordID("user", userID)})
	}

	query := `UPDATE type::record($id) SET two_factor_hash = $hash, two_factor_expires = <datetime>$expires`
	vars := map[string]interface{}{
		"id":      recordID("user", userID),
		"hash":    *hash,
		"expires": formatTime(*expires),
	}

	return r.db.Execute(ctx, query, vars)
}

// ClearExpiredTwoFactor removes two factor codes that were never used
func (r *UserRepository) ClearExpiredTwoFactor(ctx context.Context) (int, error) {
	query := `
		UPDATE user SET two_factor_hash = NONE, two_factor_expires = NONE
		WHERE two_factor_expires != NONE AND two_factor_expires < time::now()
		RETURN id
	`

	records, err := queryList(ctx, r.db, query, nil)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Delete removes the user with characters, free companies, custom fields, events and tokens
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	vars := map[string]interface{}{"user": recordID("user", userID)}

	batch := database.NewBatch().
		Add(`DELETE crafter WHERE character.user = type::record($user)`, vars).
		Add(`DELETE fighter WHERE character.user = type::record($user)`, vars).
		Add(`DELETE housing WHERE character.user = type::record($user)`, vars).
		Add(`DELETE character WHERE user = type::record($user)`, vars).
		Add(`DELETE free_company WHERE user = type::record($user)`, vars).
		Add(`DELETE custom_field_option WHERE field.user = type::record($user)`, vars).
		Add(`DELETE custom_field WHERE user = type::record($user)`, vars).
		Add(`DELETE event WHERE user = type::record($user)`, vars).
		Add(`DELETE token WHERE user = type::record($user)`, vars).
		Add(`DELETE type::record($user)`, vars)

	return batch.Execute(ctx, r.db)
}

func parseUser(data map[string]interface{}) *model.User {
	return &model.User{
		ID:               getID(data, "id"),
		Email:            getString(data, "email"),
		DisplayName:      getString(data, "display_name"),
		DiscordName:      getString(data, "discord_name"),
		IsMod:            getBool(data, "is_mod"),
		GroveID:          getID(data, "grove"),
		Hash:             getString(data, "password_hash"),
		CreatedOn:        getTimeValue(data, "created_on"),
		UpdatedOn:        getTimeValue(data, "updated_on"),
		TwoFactorHash:    getStringPtr(data, "two_factor_hash"),
		TwoFactorExpires: getTime(data, "two_factor_expires"),
	}
}
