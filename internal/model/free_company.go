package model

// FreeCompany is a free company a user's characters can belong to. Names
// are unique per user.
type FreeCompany struct {
	ID     string `json:"id"`
	UserID string `json:"-"`
	Name   string `json:"name"`
}

// FreeCompanyRequest creates or renames a free company
type FreeCompanyRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}
