package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/drustvo/internal/model"
)

const itemLogColumns = `id, item_id, event_id, issued_by, department_id, phone, quantity_issued,
	expected_return_date, returned_at, returned_by, organisation_id, created_at`

// IssueItem hands out units of an item for an event. The availability check
// and the decrement are a single conditional update, so concurrent issues
// can never take more than is available.
func IssueItem(ctx context.Context, db *sql.DB, orgID string, req model.IssueRequest) (*model.ItemLog, error) {
	if req.QuantityIssued <= 0 {
		return nil, invalid("quantity issued must be positive")
	}
	if req.ExpectedReturnDate.IsZero() {
		return nil, invalid("expected return date is required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	refs := []struct {
		entity, table, id string
	}{
		{"event", tableEvents, req.EventID},
		{"member", tableMembers, req.IssuedBy},
		{"department", tableDepartments, req.DepartmentID},
	}
	for _, ref := range refs {
		ok, err := belongs(ctx, tx, ref.table, ref.id, orgID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, notFound(ref.entity)
		}
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE items SET quantity_available = quantity_available - ?
		 WHERE id = ? AND organisation_id = ? AND quantity_available >= ?`,
		req.QuantityIssued, req.ItemID, orgID, req.QuantityIssued,
	)
	if err != nil {
		return nil, fmt.Errorf("decrementing stock: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		item, err := getItem(ctx, tx, orgID, req.ItemID)
		if err != nil {
			return nil, err
		}
		return nil, &StockError{Available: item.QuantityAvailable, Requested: req.QuantityIssued}
	}

	var phone any
	if p := strings.TrimSpace(req.Phone); p != "" {
		phone = p
	}

	id := newID()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO item_logs (id, item_id, event_id, issued_by, department_id, phone,
		                        quantity_issued, expected_return_date, organisation_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.ItemID, req.EventID, req.IssuedBy, req.DepartmentID, phone,
		req.QuantityIssued, req.ExpectedReturnDate.UTC(), orgID, now(),
	)
	if err != nil {
		return nil, fmt.Errorf("recording item log: %w", err)
	}

	log, err := getItemLog(ctx, tx, orgID, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing issue: %w", err)
	}
	return log, nil
}

// ReturnItem closes an outstanding log and puts its units back in stock.
// A log can be returned only once.
func ReturnItem(ctx context.Context, db *sql.DB, orgID, logID string, returnedBy *string) (*model.ItemLog, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var returnedByArg any
	if returnedBy != nil {
		ok, err := belongs(ctx, tx, tableMembers, *returnedBy, orgID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, notFound("member")
		}
		returnedByArg = *returnedBy
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE item_logs SET returned_at = ?, returned_by = ?
		 WHERE id = ? AND organisation_id = ? AND returned_at IS NULL`,
		now(), returnedByArg, logID, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("closing item log: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		if _, err := getItemLog(ctx, tx, orgID, logID); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyReturned
	}

	log, err := getItemLog(ctx, tx, orgID, logID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET quantity_available = quantity_available + ?
		 WHERE id = ? AND organisation_id = ?`,
		log.QuantityIssued, log.ItemID, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("restoring stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing return: %w", err)
	}
	return log, nil
}

// GetItemLog returns an item log by ID.
func GetItemLog(ctx context.Context, db *sql.DB, orgID, id string) (*model.ItemLog, error) {
	return getItemLog(ctx, db, orgID, id)
}

func getItemLog(ctx context.Context, q queryer, orgID, id string) (*model.ItemLog, error) {
	log, err := scanItemLog(q.QueryRowContext(ctx,
		`SELECT `+itemLogColumns+` FROM item_logs WHERE id = ? AND organisation_id = ?`, id, orgID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting item log: %w", err)
	}
	return log, nil
}

// ListItemLogs returns item logs, newest first, optionally limited to one
// event ("" for all) and filtered by a model.LogStatus* value.
func ListItemLogs(ctx context.Context, db *sql.DB, orgID, eventID, status string) ([]model.ItemLog, error) {
	if status == "" {
		status = model.LogStatusAll
	}
	if !model.ValidLogStatus(status) {
		return nil, invalid("unknown item log status %q", status)
	}

	query := `SELECT ` + itemLogColumns + ` FROM item_logs WHERE organisation_id = ?`
	args := []any{orgID}

	if eventID != "" {
		query += ` AND event_id = ?`
		args = append(args, eventID)
	}

	switch status {
	case model.LogStatusPending:
		query += ` AND returned_at IS NULL`
	case model.LogStatusReturned:
		query += ` AND returned_at IS NOT NULL`
	case model.LogStatusOverdue:
		query += ` AND returned_at IS NULL AND expected_return_date < ?`
		args = append(args, now())
	}

	query += ` ORDER BY created_at DESC, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing item logs: %w", err)
	}
	defer rows.Close()

	var logs []model.ItemLog
	for rows.Next() {
		log, err := scanItemLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item log: %w", err)
		}
		logs = append(logs, *log)
	}
	return logs, rows.Err()
}

// InventoryStats summarises stock and issue activity. With an eventID the
// log counts cover that event only; stock figures always cover every item.
func InventoryStats(ctx context.Context, db *sql.DB, orgID, eventID string) (*model.InventoryStats, error) {
	stats := &model.InventoryStats{}

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(quantity_total), 0), COALESCE(SUM(quantity_available), 0)
		 FROM items WHERE organisation_id = ?`, orgID,
	).Scan(&stats.Items, &stats.QuantityTotal, &stats.QuantityAvailable)
	if err != nil {
		return nil, fmt.Errorf("summing items: %w", err)
	}
	stats.QuantityIssued = stats.QuantityTotal - stats.QuantityAvailable

	query := `SELECT
	            COALESCE(SUM(CASE WHEN returned_at IS NULL THEN 1 ELSE 0 END), 0),
	            COALESCE(SUM(CASE WHEN returned_at IS NOT NULL THEN 1 ELSE 0 END), 0),
	            COALESCE(SUM(CASE WHEN returned_at IS NULL AND expected_return_date < ? THEN 1 ELSE 0 END), 0)
	          FROM item_logs WHERE organisation_id = ?`
	args := []any{now(), orgID}
	if eventID != "" {
		query += ` AND event_id = ?`
		args = append(args, eventID)
	}

	err = db.QueryRowContext(ctx, query, args...).
		Scan(&stats.OutstandingLogs, &stats.ReturnedLogs, &stats.OverdueLogs)
	if err != nil {
		return nil, fmt.Errorf("counting item logs: %w", err)
	}

	return stats, nil
}

func scanItemLog(s scanner) (*model.ItemLog, error) {
	log := &model.ItemLog{}
	var phone sql.NullString
	var returnedAt sql.NullTime
	var returnedBy sql.NullString
	if err := s.Scan(&log.ID, &log.ItemID, &log.EventID, &log.IssuedBy, &log.DepartmentID,
		&phone, &log.QuantityIssued, &log.ExpectedReturnDate, &returnedAt, &returnedBy,
		&log.OrganisationID, &log.CreatedAt); err != nil {
		return nil, err
	}
	log.Phone = phone.String
	if returnedAt.Valid {
		t := returnedAt.Time.In(time.UTC)
		log.ReturnedAt = &t
	}
	if returnedBy.Valid {
		log.ReturnedBy = &returnedBy.String
	}
	return log, nil
}
