package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is one chat room entry. Messages are immutable once created:
// there is no edit or delete path, history only ever grows.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
