// store_test.go provides shared database helpers for the store tests.
// SQLite runs everywhere; PostgreSQL tests skip when it is unavailable.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"tailwindplay/internal/database"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "tailwindplay")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "tailwindplay")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testSQLite opens a migrated in-memory SQLite database.
func testSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Connect(context.Background(), database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db, database.DriverSQLite); err != nil {
		db.Close()
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// testPostgres opens the test PostgreSQL database, or skips.
func testPostgres(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Connect(context.Background(), database.DriverPostgres, testDSN())
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db, database.DriverPostgres); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
