package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Every tenant-owned table carries
// organisation_id and is always queried through it.
const schema = `
CREATE TABLE IF NOT EXISTS organisations (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS members (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    batch           INTEGER NOT NULL,
    organisation_id TEXT NOT NULL REFERENCES organisations(id) ON DELETE CASCADE,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS departments (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    email           TEXT NOT NULL,
    organisation_id TEXT NOT NULL REFERENCES organisations(id) ON DELETE CASCADE,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS events (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    year            INTEGER NOT NULL,
    organisation_id TEXT NOT NULL REFERENCES organisations(id) ON DELETE CASCADE,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    quantity_total     INTEGER NOT NULL CHECK (quantity_total >= 0),
    quantity_available INTEGER NOT NULL CHECK (quantity_available >= 0 AND quantity_available <= quantity_total),
    image              BLOB,
    image_mime         TEXT,
    organisation_id    TEXT NOT NULL REFERENCES organisations(id) ON DELETE CASCADE,
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_organisation ON items(organisation_id);

CREATE TABLE IF NOT EXISTS item_logs (
    id                   TEXT PRIMARY KEY,
    item_id              TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    event_id             TEXT NOT NULL REFERENCES events(id),
    issued_by            TEXT NOT NULL REFERENCES members(id),
    department_id        TEXT NOT NULL REFERENCES departments(id),
    phone                TEXT,
    quantity_issued      INTEGER NOT NULL CHECK (quantity_issued > 0),
    expected_return_date DATETIME NOT NULL,
    returned_at          DATETIME,
    returned_by          TEXT REFERENCES members(id),
    organisation_id      TEXT NOT NULL REFERENCES organisations(id) ON DELETE CASCADE,
    created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_item_logs_event ON item_logs(organisation_id, event_id);
CREATE INDEX IF NOT EXISTS idx_item_logs_outstanding ON item_logs(item_id) WHERE returned_at IS NULL;

CREATE TABLE IF NOT EXISTS induction_qualities (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    weightage       REAL NOT NULL CHECK (weightage >= 0 AND weightage <= 100),
    organisation_id TEXT NOT NULL REFERENCES organisations(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS induction_contestants (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    email            TEXT NOT NULL,
    final_score      REAL,
    selection_status TEXT NOT NULL DEFAULT 'PENDING' CHECK (selection_status IN ('PENDING', 'SELECTED', 'REJECTED')),
    organisation_id  TEXT NOT NULL REFERENCES organisations(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS induction_evaluations (
    id              TEXT PRIMARY KEY,
    contestant_id   TEXT NOT NULL REFERENCES induction_contestants(id) ON DELETE CASCADE,
    quality_id      TEXT NOT NULL REFERENCES induction_qualities(id) ON DELETE CASCADE,
    score           REAL NOT NULL,
    organisation_id TEXT NOT NULL REFERENCES organisations(id) ON DELETE CASCADE,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_induction_evaluations_pair
    ON induction_evaluations(contestant_id, quality_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti             TEXT PRIMARY KEY,
    organisation_id TEXT NOT NULL,
    expires_at      DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
