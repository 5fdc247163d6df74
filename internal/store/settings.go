package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

const settingSigningSecret = "jwt_secret"

// SigningSecret returns the token signing secret, generating and storing a
// random one on first use. Concurrent first calls agree on a single value.
func SigningSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating signing secret: %w", err)
	}
	return settingOrDefault(ctx, db, settingSigningSecret, hex.EncodeToString(buf))
}

// settingOrDefault stores value under key unless the key is already set,
// then returns whatever the key holds.
func settingOrDefault(ctx context.Context, db *sql.DB, key, value string) (string, error) {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value,
	)
	if err != nil {
		return "", fmt.Errorf("storing setting %s: %w", key, err)
	}

	var stored string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&stored)
	if err != nil {
		return "", fmt.Errorf("querying setting %s: %w", key, err)
	}
	return stored, nil
}
