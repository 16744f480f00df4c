package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PreferencesSchema creates the key/value table backing client preferences.
const PreferencesSchema = `
	CREATE TABLE IF NOT EXISTS preferences (
		name       TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)
`

// PreferenceRepository stores small string preferences, such as the
// share-prompt due time, keyed by name.
type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetValue returns the preference called name. A missing row is reported
// through the boolean, not as an error.
func (r *PreferenceRepository) GetValue(ctx context.Context, name string) (string, bool, error) {
	const query = `SELECT value FROM preferences WHERE name = ?`

	var value string
	err := r.db.QueryRowContext(ctx, query, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query GetValue: %w", err)
	}
	return value, true, nil
}

// SetValue upserts the preference called name; the last write wins.
func (r *PreferenceRepository) SetValue(ctx context.Context, name, value string) error {
	const query = `
		INSERT INTO preferences (name, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, name, value); err != nil {
		return fmt.Errorf("exec SetValue: %w", err)
	}
	return nil
}
