package alarm

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Repository persists armed alarms so they survive a restart.
type Repository interface {
	Save(ctx context.Context, schedule Schedule) error
	Delete(ctx context.Context, chatID int64) error
	List(ctx context.Context) ([]Schedule, error)
}

// PostgresRepository stores alarms in the alarms table, one row per chat.
type PostgresRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewPostgresRepository builds a Repository backed by PostgreSQL.
func NewPostgresRepository(db *sql.DB, log *slog.Logger) *PostgresRepository {
	if log == nil {
		log = slog.Default()
	}

	return &PostgresRepository{db: db, log: log}
}

// Save inserts or updates the alarm row for the schedule's chat.
func (r *PostgresRepository) Save(ctx context.Context, schedule Schedule) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO alarms (chat_id, user_id, hour) VALUES ($1, $2, $3)
		 ON CONFLICT (chat_id) DO UPDATE SET user_id = EXCLUDED.user_id, hour = EXCLUDED.hour`,
		schedule.ChatID, schedule.UserID, schedule.Hour,
	)
	if err != nil {
		return fmt.Errorf("save alarm for chat %d: %w", schedule.ChatID, err)
	}

	return nil
}

// Delete removes the alarm row for chatID, if any.
func (r *PostgresRepository) Delete(ctx context.Context, chatID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM alarms WHERE chat_id = $1`, chatID); err != nil {
		return fmt.Errorf("delete alarm for chat %d: %w", chatID, err)
	}

	return nil
}

// List returns every persisted alarm.
func (r *PostgresRepository) List(ctx context.Context) ([]Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT chat_id, user_id, hour FROM alarms`)
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var schedules []Schedule
	for rows.Next() {
		var schedule Schedule
		if err := rows.Scan(&schedule.ChatID, &schedule.UserID, &schedule.Hour); err != nil {
			return nil, fmt.Errorf("scan alarm: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alarms: %w", err)
	}

	return schedules, nil
}
