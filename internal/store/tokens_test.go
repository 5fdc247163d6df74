package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/drustvo/internal/db"
)

func TestRevokeAndCheckToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeToken(ctx, database, "jti-1", "org", time.Now().Add(time.Hour)))

	revoked, err = IsTokenRevoked(ctx, database, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = IsTokenRevoked(ctx, database, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeTokenIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, RevokeToken(ctx, database, "jti-1", "org", time.Now().Add(time.Hour)))
	require.NoError(t, RevokeToken(ctx, database, "jti-1", "org", time.Now().Add(time.Hour)))
}

func TestRevokeTokenRequiresID(t *testing.T) {
	database := db.NewTestDB(t)

	err := RevokeToken(context.Background(), database, "", "org", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPruneRevokedTokens(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, RevokeToken(ctx, database, "old", "org", time.Now().Add(-time.Hour)))
	require.NoError(t, RevokeToken(ctx, database, "new", "org", time.Now().Add(time.Hour)))

	// An expired token is rejected on its own, so its revocation no longer counts.
	revoked, err := IsTokenRevoked(ctx, database, "old")
	require.NoError(t, err)
	assert.False(t, revoked)

	n, err := PruneRevokedTokens(ctx, database)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	revoked, err = IsTokenRevoked(ctx, database, "new")
	require.NoError(t, err)
	assert.True(t, revoked)
}
