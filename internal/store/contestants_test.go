package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/drustvo/internal/db"
	"github.com/erazemk/drustvo/internal/model"
)

// scores builds quality scores from alternating quality ID and score pairs.
func scores(pairs ...any) []model.QualityScore {
	var out []model.QualityScore
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, model.QualityScore{
			QualityID: pairs[i].(string),
			Score:     float64(pairs[i+1].(int)),
		})
	}
	return out
}

type inductionFixture struct {
	fixture
	a, b       string
	contestant *model.InductionContestant
}

func newInductionFixture(t *testing.T, database *sql.DB) inductionFixture {
	t.Helper()
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	a, err := CreateQuality(ctx, database, f.org.ID, "A", 60)
	require.NoError(t, err)
	b, err := CreateQuality(ctx, database, f.org.ID, "B", 40)
	require.NoError(t, err)
	c, err := CreateContestant(ctx, database, f.org.ID, "Eva", "eva@example.com")
	require.NoError(t, err)

	return inductionFixture{fixture: f, a: a.ID, b: b.ID, contestant: c}
}

func TestEvaluateContestant(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newInductionFixture(t, database)

	assert.Equal(t, model.SelectionPending, f.contestant.SelectionStatus)
	assert.False(t, f.contestant.Evaluated())

	c, err := EvaluateContestant(ctx, database, f.org.ID, Evaluation{
		ContestantID: f.contestant.ID,
		Scores:       scores(f.a, 8, f.b, 5),
		TotalScore:   6.8,
	}, false)
	require.NoError(t, err)
	require.NotNil(t, c.FinalScore)
	assert.Equal(t, 6.8, *c.FinalScore)

	data, err := GetContestantEvaluation(ctx, database, f.org.ID, f.contestant.ID)
	require.NoError(t, err)
	assert.Len(t, data.Evaluations, 2)
	assert.Equal(t, f.a, data.Evaluations[0].QualityID)
	assert.Equal(t, 8.0, data.Evaluations[0].Score)
}

func TestEvaluateContestantOnlyOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newInductionFixture(t, database)

	ev := Evaluation{ContestantID: f.contestant.ID, Scores: scores(f.a, 8, f.b, 5), TotalScore: 6.8}
	_, err := EvaluateContestant(ctx, database, f.org.ID, ev, false)
	require.NoError(t, err)

	ev.Scores = scores(f.a, 10, f.b, 10)
	ev.TotalScore = 10
	_, err = EvaluateContestant(ctx, database, f.org.ID, ev, false)
	assert.ErrorIs(t, err, ErrAlreadyEvaluated)

	c, err := GetContestant(ctx, database, f.org.ID, f.contestant.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.8, *c.FinalScore)
}

func TestEvaluateContestantClientRoundedTotal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	a, err := CreateQuality(ctx, database, f.org.ID, "A", 5)
	require.NoError(t, err)
	b, err := CreateQuality(ctx, database, f.org.ID, "B", 95)
	require.NoError(t, err)
	c, err := CreateContestant(ctx, database, f.org.ID, "Eva", "")
	require.NoError(t, err)

	// The exact total is 5.45, which a client may round down.
	got, err := EvaluateContestant(ctx, database, f.org.ID, Evaluation{
		ContestantID: c.ID,
		Scores: []model.QualityScore{
			{QualityID: a.ID, Score: 4.5},
			{QualityID: b.ID, Score: 5.5},
		},
		TotalScore: 5.4,
	}, false)
	require.NoError(t, err)
	require.NotNil(t, got.FinalScore)
	assert.Equal(t, 5.5, *got.FinalScore)
}

func TestEvaluateContestantRequiresFullWeightage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	a, err := CreateQuality(ctx, database, f.org.ID, "A", 60)
	require.NoError(t, err)
	c, err := CreateContestant(ctx, database, f.org.ID, "Eva", "")
	require.NoError(t, err)

	_, err = EvaluateContestant(ctx, database, f.org.ID, Evaluation{
		ContestantID: c.ID,
		Scores:       scores(a.ID, 8),
		TotalScore:   4.8,
	}, false)
	require.ErrorIs(t, err, ErrInvalidDistribution)

	var distErr *DistributionError
	require.True(t, errors.As(err, &distErr))
	assert.Equal(t, 60.0, distErr.Sum)
	assert.Equal(t, "total quality weightage must be exactly 100, found 60", distErr.Error())

	got, err := GetContestantEvaluation(ctx, database, f.org.ID, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Contestant.FinalScore)
	assert.Empty(t, got.Evaluations)
}

func TestEvaluateContestantRejectsBadScores(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newInductionFixture(t, database)
	other := newFixture(t, database, "Other")
	foreign, err := CreateQuality(ctx, database, other.org.ID, "Foreign", 10)
	require.NoError(t, err)

	tests := []struct {
		name   string
		scores []model.QualityScore
		total  float64
		want   error
	}{
		{"empty", nil, 0, ErrInvalidInput},
		{"duplicate quality", scores(f.a, 8, f.a, 5), 6.8, ErrInvalidInput},
		{"score above range", scores(f.a, 11, f.b, 5), 8.6, ErrInvalidInput},
		{"score below range", scores(f.a, -1, f.b, 5), 1.4, ErrInvalidInput},
		{"unknown quality", scores(f.a, 8, "missing", 5), 6.8, ErrNotFound},
		{"other organisation's quality", scores(f.a, 8, foreign.ID, 5), 6.8, ErrNotFound},
		{"total mismatch", scores(f.a, 8, f.b, 5), 9.5, ErrScoreMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EvaluateContestant(ctx, database, f.org.ID, Evaluation{
				ContestantID: f.contestant.ID,
				Scores:       tt.scores,
				TotalScore:   tt.total,
			}, false)
			assert.ErrorIs(t, err, tt.want)

			got, err := GetContestantEvaluation(ctx, database, f.org.ID, f.contestant.ID)
			require.NoError(t, err)
			assert.Nil(t, got.Contestant.FinalScore)
			assert.Empty(t, got.Evaluations)
		})
	}
}

func TestEvaluateContestantTrustedTotal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newInductionFixture(t, database)

	c, err := EvaluateContestant(ctx, database, f.org.ID, Evaluation{
		ContestantID: f.contestant.ID,
		Scores:       scores(f.a, 8, f.b, 5),
		TotalScore:   9.54,
	}, true)
	require.NoError(t, err)
	assert.Equal(t, 9.5, *c.FinalScore)
}

func TestEvaluateContestantPartialCoverage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newInductionFixture(t, database)

	c, err := EvaluateContestant(ctx, database, f.org.ID, Evaluation{
		ContestantID: f.contestant.ID,
		Scores:       scores(f.a, 5),
		TotalScore:   3,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 3.0, *c.FinalScore)
}

func TestEvaluateUnknownContestant(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newInductionFixture(t, database)

	_, err := EvaluateContestant(ctx, database, f.org.ID, Evaluation{
		ContestantID: "missing",
		Scores:       scores(f.a, 8, f.b, 5),
		TotalScore:   6.8,
	}, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetContestantSelection(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newInductionFixture(t, database)

	pending, err := CreateContestant(ctx, database, f.org.ID, "Jan", "jan@example.com")
	require.NoError(t, err)

	_, err = SetContestantSelection(ctx, database, f.org.ID, []string{pending.ID}, model.SelectionSelected)
	assert.ErrorIs(t, err, ErrNotEvaluated)

	_, err = EvaluateContestant(ctx, database, f.org.ID, Evaluation{
		ContestantID: f.contestant.ID,
		Scores:       scores(f.a, 8, f.b, 5),
		TotalScore:   6.8,
	}, false)
	require.NoError(t, err)

	// A batch with an unevaluated contestant changes nothing.
	_, err = SetContestantSelection(ctx, database, f.org.ID, []string{f.contestant.ID, pending.ID}, model.SelectionSelected)
	assert.ErrorIs(t, err, ErrNotEvaluated)
	got, err := GetContestant(ctx, database, f.org.ID, f.contestant.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SelectionPending, got.SelectionStatus)

	updated, err := SetContestantSelection(ctx, database, f.org.ID, []string{f.contestant.ID}, model.SelectionSelected)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, model.SelectionSelected, updated[0].SelectionStatus)

	_, err = SetContestantSelection(ctx, database, f.org.ID, []string{f.contestant.ID}, "MAYBE")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInductionSummary(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newInductionFixture(t, database)

	high, err := CreateContestant(ctx, database, f.org.ID, "Ivo", "")
	require.NoError(t, err)
	_, err = CreateContestant(ctx, database, f.org.ID, "Jan", "")
	require.NoError(t, err)

	evaluate := func(id string, a, b int, total float64) {
		_, err := EvaluateContestant(ctx, database, f.org.ID, Evaluation{
			ContestantID: id,
			Scores:       scores(f.a, a, f.b, b),
			TotalScore:   total,
		}, false)
		require.NoError(t, err)
	}
	evaluate(f.contestant.ID, 8, 5, 6.8)
	evaluate(high.ID, 10, 9, 9.6)

	_, err = SetContestantSelection(ctx, database, f.org.ID, []string{high.ID}, model.SelectionSelected)
	require.NoError(t, err)

	summary, err := InductionSummary(ctx, database, f.org.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Evaluated)
	assert.Equal(t, 1, summary.Selected)
	assert.Equal(t, 2, summary.Pending)
	require.NotNil(t, summary.AverageScore)
	assert.Equal(t, 8.2, *summary.AverageScore)
	require.NotNil(t, summary.AverageSelectedScore)
	assert.Equal(t, 9.6, *summary.AverageSelectedScore)
	require.Len(t, summary.Ranking, 2)
	assert.Equal(t, high.ID, summary.Ranking[0].ID)

	minScore := 7.0
	summary, err = InductionSummary(ctx, database, f.org.ID, &minScore, nil)
	require.NoError(t, err)
	require.Len(t, summary.Ranking, 1)
	assert.Equal(t, high.ID, summary.Ranking[0].ID)
}

func TestContestantCRUD(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newInductionFixture(t, database)

	email := "eva.novak@example.com"
	updated, err := UpdateContestant(ctx, database, f.org.ID, f.contestant.ID, nil, &email)
	require.NoError(t, err)
	assert.Equal(t, "Eva", updated.Name)
	assert.Equal(t, email, updated.Email)

	list, err := ListContestants(ctx, database, f.org.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, DeleteContestant(ctx, database, f.org.ID, f.contestant.ID))
	assert.ErrorIs(t, DeleteContestant(ctx, database, f.org.ID, f.contestant.ID), ErrNotFound)
}
