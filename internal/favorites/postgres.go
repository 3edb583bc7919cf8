package favorites

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// PostgresStore keeps favorites in the favorites table. Insertion order is
// carried by the position sequence; the primary key makes Add and Remove
// atomic, so no application-level locking is needed here.
type PostgresStore struct {
	db  *sql.DB
	log *slog.Logger
}

// NewPostgresStore builds a Store backed by PostgreSQL.
func NewPostgresStore(db *sql.DB, log *slog.Logger) *PostgresStore {
	if log == nil {
		log = slog.Default()
	}

	return &PostgresStore{db: db, log: log}
}

// List returns the user's favorites in insertion order.
func (s *PostgresStore) List(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT asset_id FROM favorites WHERE user_id = $1 ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list favorites for user %d: %w", userID, err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}

	return ids, nil
}

// Add inserts the favorite unless it already exists.
func (s *PostgresStore) Add(ctx context.Context, userID int64, assetID string) (bool, error) {
	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO favorites (user_id, asset_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, asset_id) DO NOTHING`,
		userID, assetID,
	)
	if err != nil {
		return false, fmt.Errorf("add favorite %q for user %d: %w", assetID, userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add favorite rows affected: %w", err)
	}

	return affected > 0, nil
}

// Remove deletes the favorite if present.
func (s *PostgresStore) Remove(ctx context.Context, userID int64, assetID string) (bool, error) {
	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND asset_id = $2`,
		userID, assetID,
	)
	if err != nil {
		return false, fmt.Errorf("remove favorite %q for user %d: %w", assetID, userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove favorite rows affected: %w", err)
	}

	return affected > 0, nil
}
