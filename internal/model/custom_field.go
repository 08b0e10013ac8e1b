package model

// CustomField is a user defined character attribute, for example
// "Favourite content". The label is unique per user.
type CustomField struct {
	ID       string              `json:"id"`
	UserID   string              `json:"-"`
	Label    string              `json:"label"`
	Position int                 `json:"position"`
	Options  []CustomFieldOption `json:"options"`
}

// CustomFieldOption is one selectable value of a custom field
type CustomFieldOption struct {
	ID            string `json:"id"`
	CustomFieldID string `json:"-"`
	Label         string `json:"label"`
}

// CustomFieldRequest creates or updates a custom field. Options are only
// honoured on create.
type CustomFieldRequest struct {
	Label    string   `json:"label" validate:"required,max=255"`
	Position int      `json:"position" validate:"min=0"`
	Options  []string `json:"options" validate:"dive,required,max=255"`
}
