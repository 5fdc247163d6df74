// Package store implements persistence for organisations, the inventory
// ledger and induction scoring. Every function takes the organisation ID
// and filters every statement by it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}

// Tables that hold tenant-owned rows looked up by ID.
const (
	tableMembers     = "members"
	tableDepartments = "departments"
	tableEvents      = "events"
	tableItems       = "items"
)

// belongs reports whether a row with id exists in table for the organisation.
// table must be one of the constants above.
func belongs(ctx context.Context, q queryer, table, id, orgID string) (bool, error) {
	var ok bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = ? AND organisation_id = ?)`,
		id, orgID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", table, err)
	}
	return ok, nil
}

// referenced reports whether any item log points at id through column.
func referenced(ctx context.Context, q queryer, column, id, orgID string) (bool, error) {
	var ok bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM item_logs WHERE `+column+` = ? AND organisation_id = ?)`,
		id, orgID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking item log references: %w", err)
	}
	return ok, nil
}

// removeUnreferenced deletes a member, department or event unless an item
// log still points at it.
func removeUnreferenced(ctx context.Context, db *sql.DB, entity, table, column, id, orgID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	inUse, err := referenced(ctx, tx, column, id, orgID)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%s is referenced by item logs: %w", entity, ErrInUse)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE id = ? AND organisation_id = ?`, id, orgID,
	)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", entity, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound(entity)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s removal: %w", entity, err)
	}
	return nil
}
