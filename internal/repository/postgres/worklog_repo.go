package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/avukelic/homespace/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WorklogRepo struct {
	pool *pgxpool.Pool
}

func NewWorklogRepo(pool *pgxpool.Pool) *WorklogRepo {
	return &WorklogRepo{pool: pool}
}

func (r *WorklogRepo) Create(ctx context.Context, entry *domain.WorkEntry) error {
	query := `
		INSERT INTO work_entries (id, user_id, description, started_at, stopped_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Description, entry.StartedAt, entry.StoppedAt,
	)
	return err
}

func (r *WorklogRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkEntry, error) {
	query := `
		SELECT id, user_id, description, started_at, stopped_at
		FROM work_entries
		WHERE id = $1`
	var entry domain.WorkEntry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID, &entry.UserID, &entry.Description, &entry.StartedAt, &entry.StoppedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &entry, err
}

func (r *WorklogRepo) GetRunning(ctx context.Context, userID uuid.UUID) (*domain.WorkEntry, error) {
	query := `
		SELECT id, user_id, description, started_at, stopped_at
		FROM work_entries
		WHERE user_id = $1 AND stopped_at IS NULL`
	var entry domain.WorkEntry
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&entry.ID, &entry.UserID, &entry.Description, &entry.StartedAt, &entry.StoppedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &entry, err
}

func (r *WorklogRepo) SetStopped(ctx context.Context, id uuid.UUID, stoppedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE work_entries SET stopped_at = $1 WHERE id = $2`, stoppedAt, id)
	return err
}

func (r *WorklogRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WorkEntry, error) {
	query := `
		SELECT id, user_id, description, started_at, stopped_at
		FROM work_entries
		WHERE user_id = $1
		ORDER BY started_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.WorkEntry
	for rows.Next() {
		var entry domain.WorkEntry
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Description, &entry.StartedAt, &entry.StoppedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *WorklogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM work_entries WHERE id = $1`, id)
	return err
}
