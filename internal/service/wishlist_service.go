package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avukelic/homespace/internal/domain"
	"github.com/avukelic/homespace/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrItemNotFound   = errors.New("wishlist item not found")
	ErrNotItemOwner   = errors.New("only the item owner can perform this action")
	ErrAlreadyClaimed = errors.New("item is already claimed")
	ErrNotClaimer     = errors.New("only the claimer can unclaim")
	ErrEmptyTitle     = errors.New("item title is required")
)

type WishlistService struct {
	wishlistRepo repository.WishlistRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo}
}

type AddItemInput struct {
	Title string  `json:"title"`
	Link  *string `json:"link,omitempty"`
}

func (s *WishlistService) Add(ctx context.Context, ownerID uuid.UUID, input AddItemInput) (*domain.WishlistItem, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	item := &domain.WishlistItem{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Link:      input.Link,
		CreatedAt: time.Now(),
	}

	if err := s.wishlistRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("creating wishlist item: %w", err)
	}

	return item, nil
}

func (s *WishlistService) List(ctx context.Context) ([]domain.WishlistItem, error) {
	items, err := s.wishlistRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.WishlistItem{}
	}
	return items, nil
}

// Claim marks an item as taken by userID. An item holds at most one claim.
func (s *WishlistService) Claim(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.wishlistRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if item.ClaimedBy != nil {
		return ErrAlreadyClaimed
	}

	return s.wishlistRepo.SetClaimer(ctx, itemID, &userID)
}

func (s *WishlistService) Unclaim(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.wishlistRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if item.ClaimedBy == nil || *item.ClaimedBy != userID {
		return ErrNotClaimer
	}

	return s.wishlistRepo.SetClaimer(ctx, itemID, nil)
}

func (s *WishlistService) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.wishlistRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if item.OwnerID != userID {
		return ErrNotItemOwner
	}

	return s.wishlistRepo.Delete(ctx, itemID)
}
