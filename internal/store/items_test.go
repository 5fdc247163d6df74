package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/drustvo/internal/db"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	item, err := CreateItem(ctx, database, f.org.ID, "Projector", 4)
	require.NoError(t, err)
	assert.Equal(t, "Projector", item.Name)
	assert.Equal(t, 4, item.QuantityTotal)
	assert.Equal(t, 4, item.QuantityAvailable)

	_, err = CreateItem(ctx, database, f.org.ID, "Broken", -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CreateItem(ctx, database, f.org.ID, "  ", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateItemTotalShiftsAvailability(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	item, err := CreateItem(ctx, database, f.org.ID, "Chair", 10)
	require.NoError(t, err)
	_, err = IssueItem(ctx, database, f.org.ID, f.issue(item.ID, 4))
	require.NoError(t, err)

	total := 15
	updated, err := UpdateItem(ctx, database, f.org.ID, item.ID, nil, &total)
	require.NoError(t, err)
	assert.Equal(t, 15, updated.QuantityTotal)
	assert.Equal(t, 11, updated.QuantityAvailable)

	total = 4
	updated, err = UpdateItem(ctx, database, f.org.ID, item.ID, nil, &total)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.QuantityAvailable)
}

func TestUpdateItemTotalBelowOutstanding(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	item, err := CreateItem(ctx, database, f.org.ID, "Chair", 10)
	require.NoError(t, err)
	_, err = IssueItem(ctx, database, f.org.ID, f.issue(item.ID, 4))
	require.NoError(t, err)

	total := 3
	_, err = UpdateItem(ctx, database, f.org.ID, item.ID, nil, &total)
	require.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 4, stockErr.Requested)
	assert.EqualError(t, err, "insufficient quantity: have 3, need 4")

	got, err := GetItem(ctx, database, f.org.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.QuantityTotal)
	assert.Equal(t, 6, got.QuantityAvailable)
}

func TestUpdateItemValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	item, err := CreateItem(ctx, database, f.org.ID, "Chair", 1)
	require.NoError(t, err)

	_, err = UpdateItem(ctx, database, f.org.ID, item.ID, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	name := "Stool"
	renamed, err := UpdateItem(ctx, database, f.org.ID, item.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Stool", renamed.Name)
	assert.Equal(t, 1, renamed.QuantityTotal)

	_, err = UpdateItem(ctx, database, f.org.ID, "missing", &name, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteItemWithOutstandingLogs(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	item, err := CreateItem(ctx, database, f.org.ID, "Speaker", 2)
	require.NoError(t, err)
	log, err := IssueItem(ctx, database, f.org.ID, f.issue(item.ID, 1))
	require.NoError(t, err)

	assert.ErrorIs(t, DeleteItem(ctx, database, f.org.ID, item.ID), ErrInUse)

	_, err = ReturnItem(ctx, database, f.org.ID, log.ID, nil)
	require.NoError(t, err)

	require.NoError(t, DeleteItem(ctx, database, f.org.ID, item.ID))
	_, err = GetItem(ctx, database, f.org.ID, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	item, err := CreateItem(ctx, database, f.org.ID, "Photo Item", 1)
	require.NoError(t, err)

	data, mime, err := GetItemImage(ctx, database, f.org.ID, item.ID)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Empty(t, mime)

	require.NoError(t, SetItemImage(ctx, database, f.org.ID, item.ID, []byte("fake image data"), "image/jpeg"))

	data, mime, err = GetItemImage(ctx, database, f.org.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "fake image data", string(data))
	assert.Equal(t, "image/jpeg", mime)

	got, err := GetItem(ctx, database, f.org.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", got.ImageMime)
}

func TestItemTenantIsolation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	a := newFixture(t, database, "A")
	b := newFixture(t, database, "B")

	item, err := CreateItem(ctx, database, a.org.ID, "Tent", 5)
	require.NoError(t, err)

	_, err = GetItem(ctx, database, b.org.ID, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := ListItems(ctx, database, b.org.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = IssueItem(ctx, database, b.org.ID, b.issue(item.ID, 1))
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, DeleteItem(ctx, database, b.org.ID, item.ID), ErrNotFound)

	log, err := IssueItem(ctx, database, a.org.ID, a.issue(item.ID, 2))
	require.NoError(t, err)

	_, err = ReturnItem(ctx, database, b.org.ID, log.ID, nil)
	assert.ErrorIs(t, err, ErrItemLogNotFound)
	assert.NotErrorIs(t, err, ErrAlreadyReturned)

	got, err := GetItem(ctx, database, a.org.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.QuantityAvailable)

	stillOut, err := GetItemLog(ctx, database, a.org.ID, log.ID)
	require.NoError(t, err)
	assert.True(t, stillOut.Outstanding())
}
