package domain

import (
	"time"

	"github.com/google/uuid"
)

type WishlistItem struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Title     string     `json:"title"`
	Link      *string    `json:"link,omitempty"`
	ClaimedBy *uuid.UUID `json:"claimed_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	// Joined fields
	OwnerUsername   string `json:"owner_username,omitempty"`
	ClaimerUsername string `json:"claimer_username,omitempty"`
}
