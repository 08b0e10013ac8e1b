package repository

import (
	"context"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/model"
)

// CustomFieldRepository handles custom field and option data access
type CustomFieldRepository struct {
	db database.Database
}

// NewCustomFieldRepository creates a new custom field repository
func NewCustomFieldRepository(db database.Database) *CustomFieldRepository {
	return &CustomFieldRepository{db: db}
}

const customFieldSelect = `
	SELECT *, (
		SELECT * FROM custom_field_option WHERE field = $parent.id ORDER BY label
	) AS options
	FROM custom_field
`

// List returns the fields of a user ordered by position
func (r *CustomFieldRepository) List(ctx context.Context, userID string) ([]*model.CustomField, error) {
	records, err := queryList(ctx, r.db, customFieldSelect+`WHERE user = type::record($user) ORDER BY position`, map[string]interface{}{
		"user": recordID("user", userID),
	})
	if err != nil {
		return nil, err
	}

	fields := make([]*model.CustomField, 0, len(records))
	for _, data := range records {
		fields = append(fields, parseCustomField(data))
	}
	return fields, nil
}

// Get retrieves a field of the user with its options
func (r *CustomFieldRepository) Get(ctx context.Context, userID, id string) (*model.CustomField, error) {
	data, err := queryOne(ctx, r.db, customFieldSelect+`WHERE id = type::record($id) AND user = type::record($user)`, map[string]interface{}{
		"id":   recordID("custom_field", id),
		"user": recordID("user", userID),
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseCustomField(data), nil
}

// GetByLabel retrieves a field of the user by label
func (r *CustomFieldRepository) GetByLabel(ctx context.Context, userID, label string) (*model.CustomField, error) {
	data, err := queryOne(ctx, r.db, customFieldSelect+`WHERE user = type::record($user) AND label = $label LIMIT 1`, map[string]interface{}{
		"user":  recordID("user", userID),
		"label": label,
	})
	if err != nil || data == nil {
		return nil, err
	}
	return parseCustomField(data), nil
}

// Count returns the number of fields of a user
func (r *CustomFieldRepository) Count(ctx context.Context, userID string) (int, error) {
	result, err := r.db.Query(ctx, `SELECT count() FROM custom_field WHERE user = type::record($user) GROUP ALL`, map[string]interface{}{
		"user": recordID("user", userID),
	})
	if err != nil {
		return 0, err
	}
	return extractCount(result), nil
}

// Create stores the field and its options in one transaction
func (r *CustomFieldRepository) Create(ctx context.Context, field *model.CustomField, options []string) error {
	batch := database.NewBatch()
	batch.Add(`LET $created_field = CREATE ONLY custom_field CONTENT {
			user: type::record($user),
			label: $label,
			position: $position
		}`, map[string]interface{}{
		"user":     recordID("user", field.UserID),
		"label":    field.Label,
		"position": field.Position,
	})
	for _, option := range options {
		batch.Add(`CREATE custom_field_option CONTENT { field: $created_field.id, label: $label }`, map[string]interface{}{
			"label": option,
		})
	}

	if err := batch.Execute(ctx, r.db); err != nil {
		return err
	}

	created, err := r.GetByLabel(ctx, field.UserID, field.Label)
	if err != nil {
		return err
	}
	if created == nil {
		return database.ErrQuery
	}
	*field = *created
	return nil
}

// Update renames a field
func (r *CustomFieldRepository) Update(ctx context.Context, field *model.CustomField) error {
	return r.db.Execute(ctx, `UPDATE type::record($id) SET label = $label WHERE user = type::record($user)`, map[string]interface{}{
		"id":    recordID("custom_field", field.ID),
		"user":  recordID("user", field.UserID),
		"label": field.Label,
	})
}

// Delete removes the field with its options and closes the gap in positions
func (r *CustomFieldRepository) Delete(ctx context.Context, userID, id string) error {
	field, err := r.Get(ctx, userID, id)
	if err != nil || field == nil {
		return err
	}

	vars := map[string]interface{}{
		"field":    recordID("custom_field", id),
		"user":     recordID("user", userID),
		"position": field.Position,
	}

	batch := database.NewBatch().
		Add(`DELETE custom_field_option WHERE field = type::record($field)`, vars).
		Add(`DELETE type::record($field) WHERE user = type::record($user)`, vars).
		Add(`UPDATE custom_field SET position -= 1 WHERE user = type::record($user) AND position > $position`, vars)

	return batch.Execute(ctx, r.db)
}

// SetPositions stores position i for ids[i]
func (r *CustomFieldRepository) SetPositions(ctx context.Context, userID string, ids []string) error {
	batch := database.NewBatch()
	for position, id := range ids {
		batch.Add(`UPDATE type::record($id) SET position = $position WHERE user = type::record($user)`, map[string]interface{}{
			"id":       recordID("custom_field", id),
			"user":     recordID("user", userID),
			"position": position,
		})
	}
	return batch.Execute(ctx, r.db)
}

// ListOptions returns the options of a field ordered by label
func (r *CustomFieldRepository) ListOptions(ctx context.Context, fieldID string) ([]model.CustomFieldOption, error) {
	records, err := queryList(ctx, r.db, `SELECT * FROM custom_field_option WHERE field = type::record($field) ORDER BY label`, map[string]interface{}{
		"field": recordID("custom_field", fieldID),
	})
	if err != nil {
		return nil, err
	}

	options := make([]model.CustomFieldOption, 0, len(records))
	for _, data := range records {
		options = append(options, parseCustomFieldOption(data))
	}
	return options, nil
}

// GetOption retrieves an option of a field
func (r *CustomFieldRepository) GetOption(ctx context.Context, fieldID, id string) (*model.CustomFieldOption, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM type::record($id) WHERE field = type::record($field)`, map[string]interface{}{
		"id":    recordID("custom_field_option", id),
		"field": recordID("custom_field", fieldID),
	})
	if err != nil || data == nil {
		return nil, err
	}
	option := parseCustomFieldOption(data)
	return &option, nil
}

// GetOptionByLabel retrieves an option of a field by label
func (r *CustomFieldRepository) GetOptionByLabel(ctx context.Context, fieldID, label string) (*model.CustomFieldOption, error) {
	data, err := queryOne(ctx, r.db, `SELECT * FROM custom_field_option WHERE field = type::record($field) AND label = $label LIMIT 1`, map[string]interface{}{
		"field": recordID("custom_field", fieldID),
		"label": label,
	})
	if err != nil || data == nil {
		return nil, err
	}
	option := parseCustomFieldOption(data)
	return &option, nil
}

// CreateOption adds an option to a field
func (r *CustomFieldRepository) CreateOption(ctx context.Context, option *model.CustomFieldOption) error {
	records, err := queryList(ctx, r.db, `CREATE custom_field_option CONTENT { field: type::record($field), label: $label }`, map[string]interface{}{
		"field": recordID("custom_field", option.CustomFieldID),
		"label": option.Label,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return database.ErrQuery
	}
	option.ID = getID(records[0], "id")
	return nil
}

// UpdateOption renames an option
func (r *CustomFieldRepository) UpdateOption(ctx context.Context, option *model.CustomFieldOption) error {
	return r.db.Execute(ctx, `UPDATE type::record($id) SET label = $label WHERE field = type::record($field)`, map[string]interface{}{
		"id":    recordID("custom_field_option", option.ID),
		"field": recordID("custom_field", option.CustomFieldID),
		"label": option.Label,
	})
}

// DeleteOption removes an option
func (r *CustomFieldRepository) DeleteOption(ctx context.Context, fieldID, id string) error {
	return r.db.Execute(ctx, `DELETE type::record($id) WHERE field = type::record($field)`, map[string]interface{}{
		"id":    recordID("custom_field_option", id),
		"field": recordID("custom_field", fieldID),
	})
}

func parseCustomField(data map[string]interface{}) *model.CustomField {
	field := &model.CustomField{
		ID:       getID(data, "id"),
		UserID:   getID(data, "user"),
		Label:    getString(data, "label"),
		Position: getInt(data, "position"),
		Options:  []model.CustomFieldOption{},
	}
	for _, option := range getMapSlice(data, "options") {
		field.Options = append(field.Options, parseCustomFieldOption(option))
	}
	return field
}

func parseCustomFieldOption(data map[string]interface{}) model.CustomFieldOption {
	return model.CustomFieldOption{
		ID:            getID(data, "id"),
		CustomFieldID: getID(data, "field"),
		Label:         getString(data, "label"),
	}
}
