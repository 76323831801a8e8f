package domain

import (
	"time"

	"github.com/google/uuid"
)

type GalleryImage struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	UploaderID uuid.UUID `json:"uploader_id"`
	CreatedAt  time.Time `json:"created_at"`
	// Joined fields
	UploaderUsername string `json:"uploader_username,omitempty"`
}

// ImageComment supports deletion by its author, unlike chat messages.
type ImageComment struct {
	ID        uuid.UUID `json:"id"`
	ImageID   uuid.UUID `json:"image_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	// Joined fields
	AuthorUsername string `json:"author_username,omitempty"`
}
