package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RevokeToken blocks a session token until the moment it would have expired
// anyway. Revoking the same token twice is not an error.
func RevokeToken(ctx context.Context, db *sql.DB, jti, orgID string, expiresAt time.Time) error {
	if jti == "" {
		return invalid("token has no ID")
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, organisation_id, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT (jti) DO NOTHING`,
		jti, orgID, expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether a still-valid token has been revoked.
func IsTokenRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var revoked bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ? AND expires_at >= ?)`, jti, now(),
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return revoked, nil
}

// PruneRevokedTokens forgets revocations of tokens that have expired and
// returns how many were removed.
func PruneRevokedTokens(ctx context.Context, db *sql.DB) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, now(),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning revoked tokens: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
