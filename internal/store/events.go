package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/drustvo/internal/model"
)

// CreateEvent adds an event to an organisation.
func CreateEvent(ctx context.Context, db *sql.DB, orgID, name string, year int) (*model.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("event name is required")
	}

	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO events (id, name, year, organisation_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, year, orgID, now(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}

	return GetEvent(ctx, db, orgID, id)
}

// GetEvent returns an event by ID.
func GetEvent(ctx context.Context, db *sql.DB, orgID, id string) (*model.Event, error) {
	e := &model.Event{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, year, organisation_id, created_at
		 FROM events WHERE id = ? AND organisation_id = ?`, id, orgID,
	).Scan(&e.ID, &e.Name, &e.Year, &e.OrganisationID, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("event")
	}
	if err != nil {
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return e, nil
}

// ListEvents returns an organisation's events, newest year first.
func ListEvents(ctx context.Context, db *sql.DB, orgID string) ([]model.Event, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, year, organisation_id, created_at
		 FROM events WHERE organisation_id = ? ORDER BY year DESC, name`, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Year, &e.OrganisationID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteEvent removes an event that no item log refers to.
func DeleteEvent(ctx context.Context, db *sql.DB, orgID, id string) error {
	return removeUnreferenced(ctx, db, "event", tableEvents, "event_id", id, orgID)
}
