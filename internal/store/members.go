package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/drustvo/internal/model"
)

// CreateMember adds a member to an organisation.
func CreateMember(ctx context.Context, db *sql.DB, orgID, name string, batch int) (*model.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("member name is required")
	}

	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO members (id, name, batch, organisation_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, batch, orgID, now(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating member: %w", err)
	}

	return GetMember(ctx, db, orgID, id)
}

// GetMember returns a member by ID.
func GetMember(ctx context.Context, db *sql.DB, orgID, id string) (*model.Member, error) {
	m := &model.Member{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, batch, organisation_id, created_at
		 FROM members WHERE id = ? AND organisation_id = ?`, id, orgID,
	).Scan(&m.ID, &m.Name, &m.Batch, &m.OrganisationID, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("member")
	}
	if err != nil {
		return nil, fmt.Errorf("getting member: %w", err)
	}
	return m, nil
}

// ListMembers returns an organisation's members ordered by batch and name.
func ListMembers(ctx context.Context, db *sql.DB, orgID string) ([]model.Member, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, batch, organisation_id, created_at
		 FROM members WHERE organisation_id = ? ORDER BY batch, name`, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Batch, &m.OrganisationID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// UpdateMember changes a member's name and/or batch. Nil fields are left alone.
func UpdateMember(ctx context.Context, db *sql.DB, orgID, id string, name *string, batch *int) (*model.Member, error) {
	if name == nil && batch == nil {
		return nil, invalid("nothing to update")
	}
	if name != nil && strings.TrimSpace(*name) == "" {
		return nil, invalid("member name cannot be empty")
	}

	var nameArg, batchArg any
	if name != nil {
		nameArg = strings.TrimSpace(*name)
	}
	if batch != nil {
		batchArg = *batch
	}

	result, err := db.ExecContext(ctx,
		`UPDATE members SET name = COALESCE(?, name), batch = COALESCE(?, batch)
		 WHERE id = ? AND organisation_id = ?`,
		nameArg, batchArg, id, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating member: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, notFound("member")
	}

	return GetMember(ctx, db, orgID, id)
}

// DeleteMember removes a member that no item log refers to.
func DeleteMember(ctx context.Context, db *sql.DB, orgID, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var inUse bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM item_logs
		  WHERE organisation_id = ? AND (issued_by = ? OR returned_by = ?))`,
		orgID, id, id,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("checking item log references: %w", err)
	}
	if inUse {
		return fmt.Errorf("member is referenced by item logs: %w", ErrInUse)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM members WHERE id = ? AND organisation_id = ?`, id, orgID,
	)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("member")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing member removal: %w", err)
	}
	return nil
}
