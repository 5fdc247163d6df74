package db

import (
	"testing"
)

func TestEnsureSchemaIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(
		`INSERT INTO members (id, name, batch, organisation_id) VALUES ('m', 'Ana', 2024, 'missing')`,
	)
	if err == nil {
		t.Fatal("expected foreign key violation for unknown organisation")
	}
}

func TestItemQuantityChecks(t *testing.T) {
	database := NewTestDB(t)

	if _, err := database.Exec(
		`INSERT INTO organisations (id, name, password_hash) VALUES ('o', 'Org', 'x')`,
	); err != nil {
		t.Fatalf("inserting organisation: %v", err)
	}

	_, err := database.Exec(
		`INSERT INTO items (id, name, quantity_total, quantity_available, organisation_id)
		 VALUES ('i', 'Tent', 2, 3, 'o')`,
	)
	if err == nil {
		t.Fatal("expected check violation for available above total")
	}
}

func TestFileDatabaseUsesWAL(t *testing.T) {
	database := NewTestFileDB(t)

	var mode string
	if err := database.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("reading journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected wal journal mode, got %q", mode)
	}
}
