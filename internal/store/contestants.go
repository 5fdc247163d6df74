package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/drustvo/internal/model"
	"github.com/erazemk/drustvo/internal/scoring"
)

const contestantColumns = `id, name, email, final_score, selection_status, organisation_id`

// CreateContestant adds an induction contestant in the pending state.
func CreateContestant(ctx context.Context, db *sql.DB, orgID, name, email string) (*model.InductionContestant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("contestant name is required")
	}

	id := newID()
	_, err := db.ExecContext(ctx,
		`INSERT INTO induction_contestants (id, name, email, selection_status, organisation_id)
		 VALUES (?, ?, ?, ?, ?)`,
		id, name, strings.TrimSpace(email), model.SelectionPending, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating contestant: %w", err)
	}

	return GetContestant(ctx, db, orgID, id)
}

// GetContestant returns a contestant by ID.
func GetContestant(ctx context.Context, db *sql.DB, orgID, id string) (*model.InductionContestant, error) {
	return getContestant(ctx, db, orgID, id)
}

func getContestant(ctx context.Context, q queryer, orgID, id string) (*model.InductionContestant, error) {
	c, err := scanContestant(q.QueryRowContext(ctx,
		`SELECT `+contestantColumns+` FROM induction_contestants WHERE id = ? AND organisation_id = ?`,
		id, orgID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("contestant")
	}
	if err != nil {
		return nil, fmt.Errorf("getting contestant: %w", err)
	}
	return c, nil
}

// ListContestants returns an organisation's contestants ordered by name.
func ListContestants(ctx context.Context, db *sql.DB, orgID string) ([]model.InductionContestant, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+contestantColumns+` FROM induction_contestants WHERE organisation_id = ? ORDER BY name`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing contestants: %w", err)
	}
	defer rows.Close()

	var contestants []model.InductionContestant
	for rows.Next() {
		c, err := scanContestant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contestant: %w", err)
		}
		contestants = append(contestants, *c)
	}
	return contestants, rows.Err()
}

// UpdateContestant changes a contestant's name and/or email.
func UpdateContestant(ctx context.Context, db *sql.DB, orgID, id string, name, email *string) (*model.InductionContestant, error) {
	if name == nil && email == nil {
		return nil, invalid("nothing to update")
	}
	if name != nil && strings.TrimSpace(*name) == "" {
		return nil, invalid("contestant name cannot be empty")
	}

	var nameArg, emailArg any
	if name != nil {
		nameArg = strings.TrimSpace(*name)
	}
	if email != nil {
		emailArg = strings.TrimSpace(*email)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE induction_contestants SET name = COALESCE(?, name), email = COALESCE(?, email)
		 WHERE id = ? AND organisation_id = ?`,
		nameArg, emailArg, id, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating contestant: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, notFound("contestant")
	}

	return GetContestant(ctx, db, orgID, id)
}

// DeleteContestant removes a contestant together with their evaluations.
func DeleteContestant(ctx context.Context, db *sql.DB, orgID, id string) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM induction_contestants WHERE id = ? AND organisation_id = ?`, id, orgID,
	)
	if err != nil {
		return fmt.Errorf("deleting contestant: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("contestant")
	}
	return nil
}

// Evaluation is a submitted scoring of one contestant.
type Evaluation struct {
	ContestantID string
	Scores       []model.QualityScore
	TotalScore   float64
}

// EvaluateContestant records a contestant's per-quality scores and final
// score. Scoring is only possible once the organisation's weightages sum to
// exactly 100, and happens at most once per contestant. Unless trustTotal is
// set the submitted total must equal the weighted sum of the scores.
func EvaluateContestant(ctx context.Context, db *sql.DB, orgID string, ev Evaluation, trustTotal bool) (*model.InductionContestant, error) {
	if len(ev.Scores) == 0 {
		return nil, invalid("at least one quality score is required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	qualities, err := listQualities(ctx, tx, orgID)
	if err != nil {
		return nil, err
	}

	weightages := make([]float64, 0, len(qualities))
	byID := make(map[string]float64, len(qualities))
	for _, q := range qualities {
		weightages = append(weightages, q.Weightage)
		byID[q.ID] = q.Weightage
	}
	if sum := scoring.SumWeightage(weightages); !scoring.Complete(sum) {
		return nil, &DistributionError{Sum: scoring.Float(sum)}
	}

	weighted := make([]scoring.Weighted, 0, len(ev.Scores))
	seen := make(map[string]bool, len(ev.Scores))
	for _, s := range ev.Scores {
		w, ok := byID[s.QualityID]
		if !ok {
			return nil, notFound("quality")
		}
		if seen[s.QualityID] {
			return nil, invalid("quality %s scored more than once", s.QualityID)
		}
		seen[s.QualityID] = true
		if s.Score < model.MinScore || s.Score > model.MaxScore {
			return nil, invalid("score must be between %d and %d, got %g", model.MinScore, model.MaxScore, s.Score)
		}
		weighted = append(weighted, scoring.Weighted{Score: s.Score, Weightage: w})
	}

	finalScore := decimal.NewFromFloat(ev.TotalScore).Round(scoring.Places)
	if !trustTotal {
		computed := scoring.Total(weighted)
		if !scoring.Matches(ev.TotalScore, scoring.Exact(weighted)) {
			return nil, &ScoreMismatchError{Submitted: ev.TotalScore, Computed: scoring.Float(computed)}
		}
		finalScore = computed
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE induction_contestants SET final_score = ?
		 WHERE id = ? AND organisation_id = ? AND final_score IS NULL`,
		scoring.Float(finalScore), ev.ContestantID, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("setting final score: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		if _, err := getContestant(ctx, tx, orgID, ev.ContestantID); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyEvaluated
	}

	created := now()
	for _, s := range ev.Scores {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO induction_evaluations (id, contestant_id, quality_id, score, organisation_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			newID(), ev.ContestantID, s.QualityID, s.Score, orgID, created,
		)
		if isUniqueViolation(err) {
			return nil, ErrAlreadyEvaluated
		}
		if err != nil {
			return nil, fmt.Errorf("recording evaluation: %w", err)
		}
	}

	contestant, err := getContestant(ctx, tx, orgID, ev.ContestantID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing evaluation: %w", err)
	}
	return contestant, nil
}

// GetContestantEvaluation returns a contestant along with every evaluation
// recorded for them.
func GetContestantEvaluation(ctx context.Context, db *sql.DB, orgID, id string) (*model.ContestantEvaluation, error) {
	contestant, err := getContestant(ctx, db, orgID, id)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT e.id, e.contestant_id, e.quality_id, e.score, e.organisation_id, e.created_at
		 FROM induction_evaluations e
		 JOIN induction_qualities q ON q.id = e.quality_id
		 WHERE e.contestant_id = ? AND e.organisation_id = ?
		 ORDER BY q.name`, id, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing evaluations: %w", err)
	}
	defer rows.Close()

	result := &model.ContestantEvaluation{Contestant: *contestant}
	for rows.Next() {
		var e model.InductionEvaluation
		if err := rows.Scan(&e.ID, &e.ContestantID, &e.QualityID, &e.Score, &e.OrganisationID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning evaluation: %w", err)
		}
		result.Evaluations = append(result.Evaluations, e)
	}
	return result, rows.Err()
}

// SetContestantSelection moves contestants to a selection status in one
// transaction. Only evaluated contestants can be selected or rejected.
func SetContestantSelection(ctx context.Context, db *sql.DB, orgID string, ids []string, status string) ([]model.InductionContestant, error) {
	if !model.ValidSelection(status) {
		return nil, invalid("unknown selection status %q", status)
	}
	if len(ids) == 0 {
		return nil, invalid("at least one contestant is required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	contestants := make([]model.InductionContestant, 0, len(ids))
	for _, id := range ids {
		c, err := getContestant(ctx, tx, orgID, id)
		if err != nil {
			return nil, err
		}
		if status != model.SelectionPending && !c.Evaluated() {
			return nil, fmt.Errorf("contestant %s: %w", c.Name, ErrNotEvaluated)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE induction_contestants SET selection_status = ? WHERE id = ? AND organisation_id = ?`,
			status, id, orgID,
		)
		if err != nil {
			return nil, fmt.Errorf("updating selection status: %w", err)
		}
		c.SelectionStatus = status
		contestants = append(contestants, *c)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing selection: %w", err)
	}
	return contestants, nil
}

// InductionSummary counts contestants by state, averages their scores and
// ranks the evaluated ones by final score, highest first. minScore and
// maxScore, when set, bound the ranking only.
func InductionSummary(ctx context.Context, db *sql.DB, orgID string, minScore, maxScore *float64) (*model.InductionSummary, error) {
	contestants, err := ListContestants(ctx, db, orgID)
	if err != nil {
		return nil, err
	}

	summary := &model.InductionSummary{Ranking: []model.InductionContestant{}}
	scoreSum, selectedSum := decimal.Zero, decimal.Zero

	for _, c := range contestants {
		summary.Total++
		switch c.SelectionStatus {
		case model.SelectionSelected:
			summary.Selected++
		case model.SelectionRejected:
			summary.Rejected++
		default:
			summary.Pending++
		}

		if !c.Evaluated() {
			continue
		}
		summary.Evaluated++
		score := decimal.NewFromFloat(*c.FinalScore)
		scoreSum = scoreSum.Add(score)
		if c.SelectionStatus == model.SelectionSelected {
			selectedSum = selectedSum.Add(score)
		}

		if minScore != nil && *c.FinalScore < *minScore {
			continue
		}
		if maxScore != nil && *c.FinalScore > *maxScore {
			continue
		}
		summary.Ranking = append(summary.Ranking, c)
	}

	summary.AverageScore = average(scoreSum, summary.Evaluated)
	summary.AverageSelectedScore = average(selectedSum, summary.Selected)

	sort.SliceStable(summary.Ranking, func(i, j int) bool {
		return *summary.Ranking[i].FinalScore > *summary.Ranking[j].FinalScore
	})

	return summary, nil
}

func average(sum decimal.Decimal, n int) *float64 {
	if n == 0 {
		return nil
	}
	avg := scoring.Float(sum.Div(decimal.NewFromInt(int64(n))).Round(2))
	return &avg
}

func scanContestant(s scanner) (*model.InductionContestant, error) {
	c := &model.InductionContestant{}
	var finalScore sql.NullFloat64
	if err := s.Scan(&c.ID, &c.Name, &c.Email, &finalScore, &c.SelectionStatus, &c.OrganisationID); err != nil {
		return nil, err
	}
	if finalScore.Valid {
		c.FinalScore = &finalScore.Float64
	}
	return c, nil
}
