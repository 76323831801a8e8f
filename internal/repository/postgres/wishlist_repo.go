package postgres

import (
	"context"
	"errors"

	"github.com/avukelic/homespace/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WishlistRepo struct {
	pool *pgxpool.Pool
}

func NewWishlistRepo(pool *pgxpool.Pool) *WishlistRepo {
	return &WishlistRepo{pool: pool}
}

func (r *WishlistRepo) Create(ctx context.Context, item *domain.WishlistItem) error {
	query := `
		INSERT INTO wishlist_items (id, owner_id, title, link, claimed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		item.ID, item.OwnerID, item.Title, item.Link, item.ClaimedBy, item.CreatedAt,
	)
	return err
}

func (r *WishlistRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WishlistItem, error) {
	query := `
		SELECT w.id, w.owner_id, w.title, w.link, w.claimed_by, w.created_at,
			o.username, COALESCE(c.username, '')
		FROM wishlist_items w
		JOIN users o ON w.owner_id = o.id
		LEFT JOIN users c ON w.claimed_by = c.id
		WHERE w.id = $1`
	var item domain.WishlistItem
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.Link, &item.ClaimedBy,
		&item.CreatedAt, &item.OwnerUsername, &item.ClaimerUsername,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &item, err
}

func (r *WishlistRepo) List(ctx context.Context) ([]domain.WishlistItem, error) {
	query := `
		SELECT w.id, w.owner_id, w.title, w.link, w.claimed_by, w.created_at,
			o.username, COALESCE(c.username, '')
		FROM wishlist_items w
		JOIN users o ON w.owner_id = o.id
		LEFT JOIN users c ON w.claimed_by = c.id
		ORDER BY w.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var item domain.WishlistItem
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.Link, &item.ClaimedBy,
			&item.CreatedAt, &item.OwnerUsername, &item.ClaimerUsername,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *WishlistRepo) SetClaimer(ctx context.Context, id uuid.UUID, claimedBy *uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE wishlist_items SET claimed_by = $1 WHERE id = $2`, claimedBy, id)
	return err
}

func (r *WishlistRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE id = $1`, id)
	return err
}
