package repository

import (
	"context"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/model"
)

// TokenRepository handles login token data access
type TokenRepository struct {
	db database.Database
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db database.Database) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create stores a new token
func (r *TokenRepository) Create(ctx context.Context, token *model.Token) error {
	query := `
		CREATE token CONTENT {
			user: type::record($user),
			token_hash: $token_hash,
			expires_on: <datetime>$expires_on,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"user":       recordID("user", token.UserID),
		"token_hash": token.TokenHash,
		"expires_on": formatTime(token.ExpiresOn),
	}

	records, err := queryList(ctx, r.db, query, vars)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return database.ErrQuery
	}

	token.ID = getID(records[0], "id")
	token.CreatedOn = getTimeValue(records[0], "created_on")
	return nil
}

// GetByHash retrieves a token by its hash
func (r *TokenRepository) GetByHash(ctx context.Context, hash string) (*model.Token, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM token WHERE token_hash = $hash LIMIT 1`, map[string]interface{}{
		"hash": hash,
	})
	if err != nil || data == nil {
		return nil, err
	}

	return &model.Token{
		ID:        getID(data, "id"),
		UserID:    getID(data, "user"),
		TokenHash: getString(data, "token_hash"),
		ExpiresOn: getTimeValue(data, "expires_on"),
		CreatedOn: getTimeValue(data, "created_on"),
	}, nil
}

// DeleteByHash removes a single token
func (r *TokenRepository) DeleteByHash(ctx context.Context, hash string) error {
	return r.db.Execute(ctx, `DELETE token WHERE token_hash = $hash`, map[string]interface{}{"hash": hash})
}

// DeleteByUser removes every token of a user
func (r *TokenRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.Execute(ctx, `DELETE token WHERE user = type::record($user)`, map[string]interface{}{
		"user": recordID("user", userID),
	})
}

// DeleteExpired removes all expired tokens
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int, error) {
	records, err := queryList(ctx, r.db, `DELETE token WHERE expires_on < time::now() RETURN BEFORE`, nil)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
