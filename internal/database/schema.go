package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.surql
var schema string

// Schema returns the embedded SurrealQL schema
func Schema() string {
	return schema
}

// ApplySchema defines all tables, fields and indexes
func ApplySchema(ctx context.Context, db Database) error {
	if err := db.Execute(ctx, schema, nil); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
