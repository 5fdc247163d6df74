package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/drustvo/internal/model"
)

// CreateDepartment adds a department to an organisation.
func CreateDepartment(ctx context.Context, db *sql.DB, orgID, name, email string) (*model.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("department name is required")
	}

	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO departments (id, name, email, organisation_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, strings.TrimSpace(email), orgID, now(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating department: %w", err)
	}

	return GetDepartment(ctx, db, orgID, id)
}

// GetDepartment returns a department by ID.
func GetDepartment(ctx context.Context, db *sql.DB, orgID, id string) (*model.Department, error) {
	d := &model.Department{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, organisation_id, created_at
		 FROM departments WHERE id = ? AND organisation_id = ?`, id, orgID,
	).Scan(&d.ID, &d.Name, &d.Email, &d.OrganisationID, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("department")
	}
	if err != nil {
		return nil, fmt.Errorf("getting department: %w", err)
	}
	return d, nil
}

// ListDepartments returns an organisation's departments ordered by name.
func ListDepartments(ctx context.Context, db *sql.DB, orgID string) ([]model.Department, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, email, organisation_id, created_at
		 FROM departments WHERE organisation_id = ? ORDER BY name`, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing departments: %w", err)
	}
	defer rows.Close()

	var departments []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.OrganisationID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// DeleteDepartment removes a department that no item log refers to.
func DeleteDepartment(ctx context.Context, db *sql.DB, orgID, id string) error {
	return removeUnreferenced(ctx, db, "department", tableDepartments, "department_id", id, orgID)
}
