package model

import "time"

// Grove is a tenant. Every user belongs to exactly one grove and all data
// reads are scoped to it.
type Grove struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsEnabled bool      `json:"is_enabled"`
	CreatedOn time.Time `json:"created_on"`
}

// GroveWithMods is the admin view of a grove.
type GroveWithMods struct {
	Grove
	Mods []*User `json:"mods"`
}

const (
	MaxGroveNameLength = 255
)

// CreateGroveRequest creates a grove together with its first mod.
type CreateGroveRequest struct {
	GroveName string `json:"grove_name" validate:"required,max=255"`
	ModEmail  string `json:"mod_email" validate:"required,email"`
	ModName   string `json:"mod_name" validate:"required,max=255"`
}
