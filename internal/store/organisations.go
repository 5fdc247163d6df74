package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/drustvo/internal/model"
)

// CreateOrganisation registers a new organisation. Names are unique.
func CreateOrganisation(ctx context.Context, db *sql.DB, name, passwordHash string) (*model.Organisation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("organisation name is required")
	}

	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO organisations (id, name, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		id, name, passwordHash, now(),
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("organisation %q %w", name, ErrExists)
	}
	if err != nil {
		return nil, fmt.Errorf("creating organisation: %w", err)
	}

	return GetOrganisation(ctx, db, id)
}

// GetOrganisation returns an organisation by ID.
func GetOrganisation(ctx context.Context, db *sql.DB, id string) (*model.Organisation, error) {
	return scanOrganisation(db.QueryRowContext(ctx,
		`SELECT id, name, password_hash, created_at FROM organisations WHERE id = ?`, id,
	))
}

// GetOrganisationByName returns an organisation by its unique name.
func GetOrganisationByName(ctx context.Context, db *sql.DB, name string) (*model.Organisation, error) {
	return scanOrganisation(db.QueryRowContext(ctx,
		`SELECT id, name, password_hash, created_at FROM organisations WHERE name = ?`,
		strings.TrimSpace(name),
	))
}

// ListOrganisations returns every organisation, ordered by name.
func ListOrganisations(ctx context.Context, db *sql.DB) ([]model.Organisation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, password_hash, created_at FROM organisations ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing organisations: %w", err)
	}
	defer rows.Close()

	var orgs []model.Organisation
	for rows.Next() {
		var o model.Organisation
		if err := rows.Scan(&o.ID, &o.Name, &o.PasswordHash, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning organisation: %w", err)
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

// UpdateOrganisationPassword replaces an organisation's password hash.
func UpdateOrganisationPassword(ctx context.Context, db *sql.DB, id, passwordHash string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE organisations SET password_hash = ? WHERE id = ?`, passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating organisation password: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("organisation")
	}
	return nil
}

func scanOrganisation(row *sql.Row) (*model.Organisation, error) {
	o := &model.Organisation{}
	err := row.Scan(&o.ID, &o.Name, &o.PasswordHash, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("organisation")
	}
	if err != nil {
		return nil, fmt.Errorf("getting organisation: %w", err)
	}
	return o, nil
}
