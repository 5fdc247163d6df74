package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/drustvo/internal/model"
	"github.com/erazemk/drustvo/internal/scoring"
)

// CreateQuality adds an induction quality. The organisation's weightages
// may never sum past 100.
func CreateQuality(ctx context.Context, db *sql.DB, orgID, name string, weightage float64) (*model.InductionQuality, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("quality name is required")
	}
	if err := checkWeightage(weightage); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := checkCapacity(ctx, tx, orgID, "", weightage); err != nil {
		return nil, err
	}

	id := newID()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO induction_qualities (id, name, weightage, organisation_id) VALUES (?, ?, ?, ?)`,
		id, name, weightage, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating quality: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing quality: %w", err)
	}

	return &model.InductionQuality{ID: id, Name: name, Weightage: weightage, OrganisationID: orgID}, nil
}

// GetQuality returns an induction quality by ID.
func GetQuality(ctx context.Context, db *sql.DB, orgID, id string) (*model.InductionQuality, error) {
	return getQuality(ctx, db, orgID, id)
}

func getQuality(ctx context.Context, q queryer, orgID, id string) (*model.InductionQuality, error) {
	quality := &model.InductionQuality{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, weightage, organisation_id
		 FROM induction_qualities WHERE id = ? AND organisation_id = ?`, id, orgID,
	).Scan(&quality.ID, &quality.Name, &quality.Weightage, &quality.OrganisationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("quality")
	}
	if err != nil {
		return nil, fmt.Errorf("getting quality: %w", err)
	}
	return quality, nil
}

// ListQualities returns an organisation's induction qualities.
func ListQualities(ctx context.Context, db *sql.DB, orgID string) ([]model.InductionQuality, error) {
	return listQualities(ctx, db, orgID)
}

func listQualities(ctx context.Context, q queryer, orgID string) ([]model.InductionQuality, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, weightage, organisation_id
		 FROM induction_qualities WHERE organisation_id = ? ORDER BY name`, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing qualities: %w", err)
	}
	defer rows.Close()

	var qualities []model.InductionQuality
	for rows.Next() {
		var quality model.InductionQuality
		if err := rows.Scan(&quality.ID, &quality.Name, &quality.Weightage, &quality.OrganisationID); err != nil {
			return nil, fmt.Errorf("scanning quality: %w", err)
		}
		qualities = append(qualities, quality)
	}
	return qualities, rows.Err()
}

// UpdateQuality renames a quality and/or changes its weightage. The new
// weightage plus every other quality's must stay within 100.
func UpdateQuality(ctx context.Context, db *sql.DB, orgID, id string, name *string, weightage *float64) (*model.InductionQuality, error) {
	if name == nil && weightage == nil {
		return nil, invalid("nothing to update")
	}
	if name != nil && strings.TrimSpace(*name) == "" {
		return nil, invalid("quality name cannot be empty")
	}
	if weightage != nil {
		if err := checkWeightage(*weightage); err != nil {
			return nil, err
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	quality, err := getQuality(ctx, tx, orgID, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		quality.Name = strings.TrimSpace(*name)
	}
	if weightage != nil {
		if err := checkCapacity(ctx, tx, orgID, id, *weightage); err != nil {
			return nil, err
		}
		quality.Weightage = *weightage
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE induction_qualities SET name = ?, weightage = ? WHERE id = ? AND organisation_id = ?`,
		quality.Name, quality.Weightage, id, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating quality: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing quality update: %w", err)
	}
	return quality, nil
}

// DeleteQuality removes a quality that no evaluation has used yet.
func DeleteQuality(ctx context.Context, db *sql.DB, orgID, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var used bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM induction_evaluations WHERE quality_id = ? AND organisation_id = ?)`,
		id, orgID,
	).Scan(&used)
	if err != nil {
		return fmt.Errorf("checking evaluations: %w", err)
	}
	if used {
		return fmt.Errorf("quality has evaluations: %w", ErrInUse)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM induction_qualities WHERE id = ? AND organisation_id = ?`, id, orgID,
	)
	if err != nil {
		return fmt.Errorf("deleting quality: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("quality")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing quality removal: %w", err)
	}
	return nil
}

func checkWeightage(w float64) error {
	if w < 0 || w > 100 {
		return invalid("weightage must be between 0 and 100, got %g", w)
	}
	return nil
}

// checkCapacity fails with a CapacityError if adding weightage to the sum of
// the organisation's qualities, excluding skipID, would exceed 100.
func checkCapacity(ctx context.Context, q queryer, orgID, skipID string, weightage float64) error {
	qualities, err := listQualities(ctx, q, orgID)
	if err != nil {
		return err
	}

	var others []float64
	for _, quality := range qualities {
		if quality.ID != skipID {
			others = append(others, quality.Weightage)
		}
	}

	current := scoring.SumWeightage(others)
	if !scoring.Fits(current, weightage) {
		return &CapacityError{Current: scoring.Float(current), Requested: weightage}
	}
	return nil
}
