package repository

import (
	"context"
	"time"

	"github.com/avukelic/homespace/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// MessageRepository is the durable chat log. Append and read only;
// chat messages are never updated or deleted.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListRecent(ctx context.Context, limit int) ([]domain.Message, error)
}

type GalleryRepository interface {
	CreateImage(ctx context.Context, img *domain.GalleryImage) error
	GetImageByID(ctx context.Context, id uuid.UUID) (*domain.GalleryImage, error)
	ListImages(ctx context.Context) ([]domain.GalleryImage, error)
	CreateComment(ctx context.Context, c *domain.ImageComment) error
	GetCommentByID(ctx context.Context, id uuid.UUID) (*domain.ImageComment, error)
	ListComments(ctx context.Context, imageID uuid.UUID) ([]domain.ImageComment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

type WishlistRepository interface {
	Create(ctx context.Context, item *domain.WishlistItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WishlistItem, error)
	List(ctx context.Context) ([]domain.WishlistItem, error)
	SetClaimer(ctx context.Context, id uuid.UUID, claimedBy *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type WorklogRepository interface {
	Create(ctx context.Context, entry *domain.WorkEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkEntry, error)
	GetRunning(ctx context.Context, userID uuid.UUID) (*domain.WorkEntry, error)
	SetStopped(ctx context.Context, id uuid.UUID, stoppedAt time.Time) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WorkEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PetRepository interface {
	Get(ctx context.Context) (*domain.Pet, error)
	Save(ctx context.Context, pet *domain.Pet) error
}
