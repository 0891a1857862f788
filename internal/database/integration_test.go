package database

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	// Tables created by migrations
	tables := []string{"users", "tasks", "families", "family_members", "family_tasks", "password_reset_tokens"}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRow(query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

// TestMigrationsAreIdempotent verifies that re-running migrations is a no-op
func TestMigrationsAreIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count == 0 {
		t.Error("expected recorded migrations")
	}
}

// TestExecReturningID verifies insert ID retrieval through the dialect
func TestExecReturningID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	id, err := db.ExecReturningID(
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		"alice", "alice@example.com", "hash",
	)
	if err != nil {
		t.Fatalf("ExecReturningID failed: %v", err)
	}
	if id == 0 {
		t.Error("expected a non-zero insert ID")
	}

	second, err := db.ExecReturningID(
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		"bob", "bob@example.com", "hash",
	)
	if err != nil {
		t.Fatalf("ExecReturningID failed: %v", err)
	}
	if second <= id {
		t.Errorf("expected increasing IDs, got %d then %d", id, second)
	}
}

// TestUniqueViolationDetection verifies constraint errors surface through the dialect
func TestUniqueViolationDetection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	insert := "INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)"
	if _, err := db.Exec(insert, "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	_, err := db.Exec(insert, "alice", "other@example.com", "hash")
	if err == nil {
		t.Fatal("expected duplicate username to fail")
	}
	if !db.Dialect.IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}

	_, err = db.Exec(insert, "carol", "carol@example.com", "hash")
	if err != nil {
		t.Errorf("distinct user insert failed: %v", err)
	}
}

// TestTransactionRollback verifies rolled back writes are not visible
func TestTransactionRollback(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	if _, err := tx.Exec("INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		"ghost", "ghost@example.com", "hash"); err != nil {
		t.Fatalf("insert in transaction failed: %v", err)
	}

	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", "ghost").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rolled back insert to be invisible, found %d rows", count)
	}
}
