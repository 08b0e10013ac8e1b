package database

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealDB is the Database backed by a SurrealDB server over websocket
type SurrealDB struct {
	cfg  Config
	conn *surrealdb.DB
}

// NewSurrealDB returns an unconnected client. Call Connect before use.
func NewSurrealDB(cfg Config) *SurrealDB {
	return &SurrealDB{cfg: cfg}
}

// endpoint accepts either a bare host, combined with Port, or a complete
// ws:// or wss:// url in Host
func (c Config) endpoint() string {
	if strings.Contains(c.Host, "://") {
		return c.Host
	}
	return "ws://" + net.JoinHostPort(c.Host, c.Port)
}

// Connect opens the connection, signs in as the root user and selects
// namespace and database
func (s *SurrealDB) Connect(ctx context.Context) error {
	conn, err := surrealdb.FromEndpointURLString(ctx, s.cfg.endpoint())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if err := s.prepare(ctx, conn); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	s.conn = conn
	return nil
}

func (s *SurrealDB) prepare(ctx context.Context, conn *surrealdb.DB) error {
	auth := &surrealdb.Auth{Username: s.cfg.User, Password: s.cfg.Password}
	if _, err := conn.SignIn(ctx, auth); err != nil {
		return fmt.Errorf("sign in as %s: %w", s.cfg.User, err)
	}
	if err := conn.Use(ctx, s.cfg.Namespace, s.cfg.Database); err != nil {
		return fmt.Errorf("use %s/%s: %w", s.cfg.Namespace, s.cfg.Database, err)
	}
	return nil
}

func (s *SurrealDB) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close(context.Background())
}

// Ping asks the server for its version
func (s *SurrealDB) Ping(ctx context.Context) error {
	if s.conn == nil {
		return ErrConnection
	}
	if _, err := s.conn.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query runs every statement of query and returns one {status, result} map
// per statement. The first failed statement fails the call.
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if s.conn == nil {
		return nil, ErrConnection
	}

	results, err := surrealdb.Query[interface{}](ctx, s.conn, query, vars)
	if err != nil {
		return nil, classifyError(err.Error())
	}
	if results == nil {
		return nil, nil
	}

	statements := make([]interface{}, 0, len(*results))
	for i, r := range *results {
		if r.Status != "OK" {
			msg := "status " + r.Status
			if r.Error != nil {
				msg = r.Error.Message
			}
			return nil, classifyError(fmt.Sprintf("statement %d: %s", i+1, msg))
		}
		statements = append(statements, statementResult(r.Status, r.Result))
	}
	return statements, nil
}

func statementResult(status string, result interface{}) map[string]interface{} {
	return map[string]interface{}{"status": status, "result": result}
}

// QueryOne returns the first record of the first statement. Statements that
// yield a scalar return it unchanged.
func (s *SurrealDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	statements, err := s.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	if len(statements) == 0 {
		return nil, ErrNotFound
	}
	return firstRecord(statements[0])
}

func firstRecord(statement interface{}) (interface{}, error) {
	resp, ok := statement.(map[string]interface{})
	if !ok {
		return statement, nil
	}

	switch result := resp["result"].(type) {
	case nil:
		return nil, ErrNotFound
	case []interface{}:
		if len(result) == 0 {
			return nil, ErrNotFound
		}
		return result[0], nil
	default:
		return result, nil
	}
}

func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}

// classifyError maps a SurrealDB error message to one of the package errors.
// Unique index violations read "Database index `name` already contains ...".
func classifyError(msg string) error {
	if strings.Contains(msg, "already contains") || strings.Contains(msg, "already exists") {
		return fmt.Errorf("%w: %s", ErrDuplicate, msg)
	}
	return fmt.Errorf("%w: %s", ErrQuery, msg)
}
