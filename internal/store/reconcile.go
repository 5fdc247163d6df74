package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/drustvo/internal/model"
)

// CheckStock compares each item's stored availability with the value its
// outstanding logs imply and returns the items that disagree.
func CheckStock(ctx context.Context, db *sql.DB, orgID string) ([]model.StockDrift, error) {
	return stockDrift(ctx, db, orgID)
}

// RepairStock resets every drifting item's availability to the derived
// value. It returns the drift found, with Repaired set.
func RepairStock(ctx context.Context, db *sql.DB, orgID string) ([]model.StockDrift, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	drift, err := stockDrift(ctx, tx, orgID)
	if err != nil {
		return nil, err
	}

	for i, d := range drift {
		if d.Derived < 0 {
			// More is issued than exists; needs a human to fix the total.
			continue
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE items SET quantity_available = ? WHERE id = ? AND organisation_id = ?`,
			d.Derived, d.ItemID, orgID,
		)
		if err != nil {
			return nil, fmt.Errorf("repairing item %s: %w", d.ItemID, err)
		}
		drift[i].Repaired = true
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock repair: %w", err)
	}
	return drift, nil
}

func stockDrift(ctx context.Context, q queryer, orgID string) ([]model.StockDrift, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT i.id, i.name, i.quantity_available,
		        i.quantity_total - COALESCE(SUM(l.quantity_issued), 0) AS derived
		 FROM items i
		 LEFT JOIN item_logs l ON l.item_id = i.id AND l.returned_at IS NULL
		 WHERE i.organisation_id = ?
		 GROUP BY i.id
		 HAVING derived != i.quantity_available
		 ORDER BY i.name`, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("checking stock: %w", err)
	}
	defer rows.Close()

	var drift []model.StockDrift
	for rows.Next() {
		var d model.StockDrift
		if err := rows.Scan(&d.ItemID, &d.ItemName, &d.Stored, &d.Derived); err != nil {
			return nil, fmt.Errorf("scanning stock drift: %w", err)
		}
		drift = append(drift, d)
	}
	return drift, rows.Err()
}
