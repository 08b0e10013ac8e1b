package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Batch collects statements that must succeed together and sends them as
// one BEGIN/COMMIT TRANSACTION block:
//
//	err := database.NewBatch().
//		Add("DELETE token WHERE user = type::record($user)", vars).
//		Add("DELETE type::record($user)", vars).
//		Execute(ctx, db)
//
// The variables of statement n are renamed from $name to $sn_name, so
// statements written independently may reuse names. LET bindings are not
// variables of the batch and stay visible to the statements after them.
type Batch struct {
	statements []string
	vars       map[string]interface{}
}

func NewBatch() *Batch {
	return &Batch{vars: make(map[string]interface{})}
}

// Add appends a statement
func (b *Batch) Add(query string, vars map[string]interface{}) *Batch {
	prefix := fmt.Sprintf("s%d_", len(b.statements)+1)

	// $user must not clobber $user_id
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	for _, name := range names {
		query = strings.ReplaceAll(query, "$"+name, "$"+prefix+name)
		b.vars[prefix+name] = vars[name]
	}

	b.statements = append(b.statements, strings.TrimSuffix(strings.TrimSpace(query), ";"))
	return b
}

// Len is the number of statements added so far
func (b *Batch) Len() int {
	return len(b.statements)
}

// Build renders the transaction. An empty batch renders as "".
func (b *Batch) Build() (string, map[string]interface{}) {
	if len(b.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range b.statements {
		sb.WriteString(stmt)
		sb.WriteString(";\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")
	return sb.String(), b.vars
}

// Query runs the batch and returns the per statement results
func (b *Batch) Query(ctx context.Context, db Database) ([]interface{}, error) {
	query, vars := b.Build()
	if query == "" {
		return nil, nil
	}
	return db.Query(ctx, query, vars)
}

// Execute runs the batch and discards the results
func (b *Batch) Execute(ctx context.Context, db Database) error {
	_, err := b.Query(ctx, db)
	return err
}
