// Package database is the SurrealDB access layer. Repositories talk to it
// through the Database interface with SurrealQL strings and variable maps.
//
// Writes that must land together, such as cascade deletes, grove creation
// and custom field reordering, go through a Batch that is sent as a single
// BEGIN/COMMIT TRANSACTION block.
//
// ApplySchema runs the embedded schema.surql on every start. All of its
// statements use IF NOT EXISTS.
//
// Errors wrap one of ErrNotFound, ErrDuplicate, ErrConnection or ErrQuery
// and are matched with errors.Is.
package database

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrConnection = errors.New("database connection error")
	ErrQuery      = errors.New("query error")
)

// Database is implemented by SurrealDB and by the fakes in tests
type Database interface {
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query returns one {status, result} map per statement
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)
	// QueryOne returns the first record of the first statement, or
	// ErrNotFound
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config is where the server lives and who to sign in as. Host may also be
// a full ws:// or wss:// url.
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
