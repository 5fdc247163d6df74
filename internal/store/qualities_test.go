package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/drustvo/internal/db"
)

func TestQualityWeightageCapacity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	_, err := CreateQuality(ctx, database, f.org.ID, "Communication", 60)
	require.NoError(t, err)
	_, err = CreateQuality(ctx, database, f.org.ID, "Teamwork", 30)
	require.NoError(t, err)

	_, err = CreateQuality(ctx, database, f.org.ID, "Punctuality", 20)
	require.ErrorIs(t, err, ErrWeightageCapacity)

	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 90.0, capErr.Current)
	assert.Equal(t, 20.0, capErr.Requested)

	_, err = CreateQuality(ctx, database, f.org.ID, "Punctuality", 10)
	require.NoError(t, err)

	qualities, err := ListQualities(ctx, database, f.org.ID)
	require.NoError(t, err)
	assert.Len(t, qualities, 3)
}

func TestQualityFractionalWeightages(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	for _, w := range []float64{33.3, 33.3, 33.4} {
		_, err := CreateQuality(ctx, database, f.org.ID, "Q", w)
		require.NoError(t, err)
	}

	_, err := CreateQuality(ctx, database, f.org.ID, "Extra", 0.1)
	assert.ErrorIs(t, err, ErrWeightageCapacity)
}

func TestUpdateQualityExcludesSelf(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	a, err := CreateQuality(ctx, database, f.org.ID, "A", 60)
	require.NoError(t, err)
	_, err = CreateQuality(ctx, database, f.org.ID, "B", 40)
	require.NoError(t, err)

	w := 60.0
	updated, err := UpdateQuality(ctx, database, f.org.ID, a.ID, nil, &w)
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.Weightage)

	w = 61
	_, err = UpdateQuality(ctx, database, f.org.ID, a.ID, nil, &w)
	assert.ErrorIs(t, err, ErrWeightageCapacity)

	name := "Leadership"
	updated, err = UpdateQuality(ctx, database, f.org.ID, a.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Leadership", updated.Name)
	assert.Equal(t, 60.0, updated.Weightage)

	w = 101
	_, err = UpdateQuality(ctx, database, f.org.ID, a.ID, nil, &w)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = UpdateQuality(ctx, database, f.org.ID, "missing", &name, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQualityCapacityIsPerOrganisation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	a := newFixture(t, database, "A")
	b := newFixture(t, database, "B")

	_, err := CreateQuality(ctx, database, a.org.ID, "Full", 100)
	require.NoError(t, err)

	_, err = CreateQuality(ctx, database, b.org.ID, "Full", 100)
	require.NoError(t, err)

	qualities, err := ListQualities(ctx, database, b.org.ID)
	require.NoError(t, err)
	assert.Len(t, qualities, 1)
}

func TestDeleteQuality(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	q, err := CreateQuality(ctx, database, f.org.ID, "Only", 100)
	require.NoError(t, err)
	c, err := CreateContestant(ctx, database, f.org.ID, "Eva", "eva@example.com")
	require.NoError(t, err)

	spare, err := CreateQuality(ctx, database, f.org.ID, "Spare", 0)
	require.NoError(t, err)
	require.NoError(t, DeleteQuality(ctx, database, f.org.ID, spare.ID))

	_, err = EvaluateContestant(ctx, database, f.org.ID, Evaluation{
		ContestantID: c.ID,
		Scores:       scores(q.ID, 7),
		TotalScore:   7,
	}, false)
	require.NoError(t, err)

	assert.ErrorIs(t, DeleteQuality(ctx, database, f.org.ID, q.ID), ErrInUse)
	assert.ErrorIs(t, DeleteQuality(ctx, database, f.org.ID, "missing"), ErrNotFound)
}
