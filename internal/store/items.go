package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/drustvo/internal/model"
)

const itemColumns = `id, name, quantity_total, quantity_available, image_mime, organisation_id, created_at`

// CreateItem adds an item with all of its units available.
func CreateItem(ctx context.Context, db *sql.DB, orgID, name string, quantityTotal int) (*model.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("item name is required")
	}
	if quantityTotal < 0 {
		return nil, invalid("quantity total cannot be negative")
	}

	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, name, quantity_total, quantity_available, organisation_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, quantityTotal, quantityTotal, orgID, now(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, orgID, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, orgID, id string) (*model.Item, error) {
	return getItem(ctx, db, orgID, id)
}

func getItem(ctx context.Context, q queryer, orgID, id string) (*model.Item, error) {
	item, err := scanItem(q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND organisation_id = ?`, id, orgID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("item")
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns an organisation's items ordered by name.
func ListItems(ctx context.Context, db *sql.DB, orgID string) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE organisation_id = ? ORDER BY name`, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem renames an item and/or changes its total. A new total shifts
// availability by the same delta, and is rejected if more units are out
// than the new total allows.
func UpdateItem(ctx context.Context, db *sql.DB, orgID, id string, name *string, quantityTotal *int) (*model.Item, error) {
	if name == nil && quantityTotal == nil {
		return nil, invalid("nothing to update")
	}
	if name != nil && strings.TrimSpace(*name) == "" {
		return nil, invalid("item name cannot be empty")
	}
	if quantityTotal != nil && *quantityTotal < 0 {
		return nil, invalid("quantity total cannot be negative")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var nameArg any
	if name != nil {
		nameArg = strings.TrimSpace(*name)
	}

	var result sql.Result
	if quantityTotal == nil {
		result, err = tx.ExecContext(ctx,
			`UPDATE items SET name = COALESCE(?, name) WHERE id = ? AND organisation_id = ?`,
			nameArg, id, orgID,
		)
	} else {
		total := *quantityTotal
		result, err = tx.ExecContext(ctx,
			`UPDATE items
			 SET name = COALESCE(?, name),
			     quantity_available = quantity_available + (? - quantity_total),
			     quantity_total = ?
			 WHERE id = ? AND organisation_id = ?
			   AND quantity_available + (? - quantity_total) >= 0`,
			nameArg, total, total, id, orgID, total,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		item, err := getItem(ctx, tx, orgID, id)
		if err != nil {
			return nil, err
		}
		if quantityTotal == nil {
			return nil, notFound("item")
		}
		// The new total has to cover every unit still out on loan.
		return nil, &StockError{
			Available: *quantityTotal,
			Requested: item.QuantityIssued(),
		}
	}

	item, err := getItem(ctx, tx, orgID, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item and its closed logs. Items with units still
// issued cannot be removed.
func DeleteItem(ctx context.Context, db *sql.DB, orgID, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var outstanding int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_logs
		 WHERE item_id = ? AND organisation_id = ? AND returned_at IS NULL`, id, orgID,
	).Scan(&outstanding)
	if err != nil {
		return fmt.Errorf("counting outstanding logs: %w", err)
	}
	if outstanding > 0 {
		return fmt.Errorf("item has %d outstanding logs: %w", outstanding, ErrInUse)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND organisation_id = ?`, id, orgID,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("item")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item removal: %w", err)
	}
	return nil
}

// SetItemImage stores an item's photo.
func SetItemImage(ctx context.Context, db *sql.DB, orgID, id string, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ? WHERE id = ? AND organisation_id = ?`,
		image, mime, id, orgID,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("item")
	}
	return nil
}

// GetItemImage returns an item's photo and MIME type. An item without a
// photo returns nil data and no error.
func GetItemImage(ctx context.Context, db *sql.DB, orgID, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ? AND organisation_id = ?`, id, orgID,
	).Scan(&image, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", notFound("item")
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	var imageMime sql.NullString
	if err := s.Scan(&item.ID, &item.Name, &item.QuantityTotal, &item.QuantityAvailable,
		&imageMime, &item.OrganisationID, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.ImageMime = imageMime.String
	return item, nil
}
