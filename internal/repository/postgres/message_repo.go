package postgres

import (
	"context"
	"fmt"

	"github.com/avukelic/homespace/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, text, username, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, msg.ID, msg.Text, msg.Username, msg.CreatedAt)
	return err
}

// ListRecent returns the newest `limit` messages in chronological order.
func (r *MessageRepo) ListRecent(ctx context.Context, limit int) ([]domain.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, text, username, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.Text, &msg.Username, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	// Reverse to chronological (query gives DESC)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, rows.Err()
}
