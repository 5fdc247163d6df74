package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/drustvo/internal/db"
)

func TestMemberLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	newName := "Ana Novak"
	newBatch := 2024
	updated, err := UpdateMember(ctx, database, f.org.ID, f.member.ID, &newName, &newBatch)
	require.NoError(t, err)
	assert.Equal(t, "Ana Novak", updated.Name)
	assert.Equal(t, 2024, updated.Batch)

	onlyBatch := 2022
	updated, err = UpdateMember(ctx, database, f.org.ID, f.member.ID, nil, &onlyBatch)
	require.NoError(t, err)
	assert.Equal(t, "Ana Novak", updated.Name)
	assert.Equal(t, 2022, updated.Batch)

	_, err = UpdateMember(ctx, database, f.org.ID, f.member.ID, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, DeleteMember(ctx, database, f.org.ID, f.member.ID))
	_, err = GetMember(ctx, database, f.org.ID, f.member.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReferencedDirectoryEntries(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	item, err := CreateItem(ctx, database, f.org.ID, "Tent", 3)
	require.NoError(t, err)
	_, err = IssueItem(ctx, database, f.org.ID, f.issue(item.ID, 1))
	require.NoError(t, err)

	assert.ErrorIs(t, DeleteMember(ctx, database, f.org.ID, f.member.ID), ErrInUse)
	assert.ErrorIs(t, DeleteDepartment(ctx, database, f.org.ID, f.department.ID), ErrInUse)
	assert.ErrorIs(t, DeleteEvent(ctx, database, f.org.ID, f.event.ID), ErrInUse)
}

func TestDirectoryTenantIsolation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	a := newFixture(t, database, "A")
	b := newFixture(t, database, "B")

	members, err := ListMembers(ctx, database, a.org.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, a.member.ID, members[0].ID)

	_, err = GetEvent(ctx, database, a.org.ID, b.event.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, DeleteDepartment(ctx, database, a.org.ID, b.department.ID), ErrNotFound)

	departments, err := ListDepartments(ctx, database, b.org.ID)
	require.NoError(t, err)
	assert.Len(t, departments, 1)
}

func TestListEventsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database, "Org")

	_, err := CreateEvent(ctx, database, f.org.ID, "Old Fair", 2019)
	require.NoError(t, err)

	events, err := ListEvents(ctx, database, f.org.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 2025, events[0].Year)
	assert.Equal(t, 2019, events[1].Year)
}
