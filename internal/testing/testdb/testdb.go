// Package testdb provides isolated SurrealDB databases for integration tests.
//
// Every TestDB gets its own namespace with the embedded schema applied, so
// tests run real queries including unique indexes and record links.
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    defer tdb.Close()
//
//	    repo := repository.NewUserRepository(tdb.DB)
//	}
//
// When no SurrealDB is reachable the test is skipped. BAMBOO_TEST_DB_HOST
// (a host name or a full ws:// url), BAMBOO_TEST_DB_PORT,
// BAMBOO_TEST_DB_USER and BAMBOO_TEST_DB_PASSWORD point at a server other
// than localhost:8000.
package testdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Creastina/bambushain/internal/database"
)

type TestDB struct {
	DB        database.Database
	namespace string
	t         *testing.T
	closeOnce sync.Once
}

var namespaces atomic.Int64

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// New connects to a fresh namespace and applies the schema. The namespace
// is removed by Close or, at the latest, when the test ends.
func New(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("testdb: integration test skipped in short mode")
	}

	cfg := database.Config{
		Host:      env("BAMBOO_TEST_DB_HOST", "localhost"),
		Port:      env("BAMBOO_TEST_DB_PORT", "8000"),
		User:      env("BAMBOO_TEST_DB_USER", "root"),
		Password:  env("BAMBOO_TEST_DB_PASSWORD", "root"),
		Namespace: fmt.Sprintf("test_%d_%d", os.Getpid(), namespaces.Add(1)),
		Database:  "bambushain",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Skipf("testdb: no surrealdb at %s: %v", cfg.Host, err)
	}

	tdb := &TestDB{DB: db, namespace: cfg.Namespace, t: t}
	t.Cleanup(tdb.Close)

	require.NoError(t, database.ApplySchema(ctx, db), "testdb: apply schema")
	return tdb
}

// Close drops the namespace and disconnects. It is safe to call twice.
func (tdb *TestDB) Close() {
	tdb.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_ = tdb.DB.Execute(ctx, "REMOVE NAMESPACE IF EXISTS "+tdb.namespace, nil)
		_ = tdb.DB.Close()
	})
}

// Ctx returns a context that ends with the test
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	tdb.t.Cleanup(cancel)
	return ctx
}

// Count is the number of records in table
func (tdb *TestDB) Count(table string) int {
	tdb.t.Helper()

	row, err := tdb.DB.QueryOne(tdb.Ctx(), fmt.Sprintf("SELECT count() FROM %s GROUP ALL", table), nil)
	if errors.Is(err, database.ErrNotFound) {
		return 0
	}
	require.NoError(tdb.t, err, "testdb: count %s", table)

	record, _ := row.(map[string]interface{})
	switch n := record["count"].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
