package moods

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lunamood/lunamood/internal/dbx"
	"github.com/lunamood/lunamood/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error) {

	query :=
		`INSERT INTO mood_entries (user_id, guest_id, mood, score, moon_phase, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.UserID, nullIfEmpty(entry.GuestID), entry.Mood, entry.Score,
		entry.MoonPhase, entry.Note, entry.CreatedAt).Scan(&entry.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.MoodEntry, error) {
	query :=
		`SELECT id, user_id, COALESCE(guest_id, ''), mood, score, moon_phase, COALESCE(note, ''), created_at
		 FROM mood_entries
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT NULLIF($2, 0)
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanEntries(rows)
}

func (r *PostgresRepository) ListByGuest(ctx context.Context, guestID string, limit int) ([]*models.MoodEntry, error) {
	query :=
		`SELECT id, user_id, COALESCE(guest_id, ''), mood, score, moon_phase, COALESCE(note, ''), created_at
		 FROM mood_entries
		 WHERE guest_id = $1 AND user_id IS NULL
		 ORDER BY created_at DESC
		 LIMIT NULLIF($2, 0)
		 `

	rows, err := r.db.QueryContext(ctx, query, guestID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanEntries(rows)
}

func (r *PostgresRepository) ClaimGuestEntries(ctx context.Context, guestID string, userID int64) (int64, error) {
	query :=
		`UPDATE mood_entries SET user_id = $2, guest_id = NULL
		 WHERE guest_id = $1 AND user_id IS NULL
		 `

	res, err := r.db.ExecContext(ctx, query, guestID, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func scanEntries(rows *sql.Rows) ([]*models.MoodEntry, error) {
	defer rows.Close()

	var entries []*models.MoodEntry
	for rows.Next() {
		e := &models.MoodEntry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.GuestID, &e.Mood, &e.Score,
			&e.MoonPhase, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mood entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mood entries: %w", err)
	}

	return entries, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
