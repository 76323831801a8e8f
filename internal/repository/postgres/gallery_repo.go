package postgres

import (
	"context"
	"errors"

	"github.com/avukelic/homespace/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GalleryRepo struct {
	pool *pgxpool.Pool
}

func NewGalleryRepo(pool *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{pool: pool}
}

func (r *GalleryRepo) CreateImage(ctx context.Context, img *domain.GalleryImage) error {
	query := `
		INSERT INTO gallery_images (id, title, url, uploader_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query, img.ID, img.Title, img.URL, img.UploaderID, img.CreatedAt)
	return err
}

func (r *GalleryRepo) GetImageByID(ctx context.Context, id uuid.UUID) (*domain.GalleryImage, error) {
	query := `
		SELECT i.id, i.title, i.url, i.uploader_id, i.created_at, u.username
		FROM gallery_images i
		JOIN users u ON i.uploader_id = u.id
		WHERE i.id = $1`
	var img domain.GalleryImage
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&img.ID, &img.Title, &img.URL, &img.UploaderID, &img.CreatedAt, &img.UploaderUsername,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &img, err
}

func (r *GalleryRepo) ListImages(ctx context.Context) ([]domain.GalleryImage, error) {
	query := `
		SELECT i.id, i.title, i.url, i.uploader_id, i.created_at, u.username
		FROM gallery_images i
		JOIN users u ON i.uploader_id = u.id
		ORDER BY i.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []domain.GalleryImage
	for rows.Next() {
		var img domain.GalleryImage
		if err := rows.Scan(
			&img.ID, &img.Title, &img.URL, &img.UploaderID, &img.CreatedAt, &img.UploaderUsername,
		); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *GalleryRepo) CreateComment(ctx context.Context, c *domain.ImageComment) error {
	query := `
		INSERT INTO image_comments (id, image_id, author_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query, c.ID, c.ImageID, c.AuthorID, c.Text, c.CreatedAt)
	return err
}

func (r *GalleryRepo) GetCommentByID(ctx context.Context, id uuid.UUID) (*domain.ImageComment, error) {
	query := `
		SELECT c.id, c.image_id, c.author_id, c.text, c.created_at, u.username
		FROM image_comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.id = $1`
	var c domain.ImageComment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.ImageID, &c.AuthorID, &c.Text, &c.CreatedAt, &c.AuthorUsername,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &c, err
}

func (r *GalleryRepo) ListComments(ctx context.Context, imageID uuid.UUID) ([]domain.ImageComment, error) {
	query := `
		SELECT c.id, c.image_id, c.author_id, c.text, c.created_at, u.username
		FROM image_comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.image_id = $1
		ORDER BY c.created_at ASC`

	rows, err := r.pool.Query(ctx, query, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.ImageComment
	for rows.Next() {
		var c domain.ImageComment
		if err := rows.Scan(
			&c.ID, &c.ImageID, &c.AuthorID, &c.Text, &c.CreatedAt, &c.AuthorUsername,
		); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *GalleryRepo) DeleteComment(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM image_comments WHERE id = $1`, id)
	return err
}
