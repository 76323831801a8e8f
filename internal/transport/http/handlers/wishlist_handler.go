package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/avukelic/homespace/internal/service"
	"github.com/avukelic/homespace/internal/transport/http/middleware"
	"github.com/google/uuid"
)

type WishlistHandler struct {
	wishlistService *service.WishlistService
}

func NewWishlistHandler(wishlistService *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.AddItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	item, err := h.wishlistService.Add(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrEmptyTitle) {
			writeError(w, http.StatusBadRequest, "MISSING_TITLE", "Item title is required")
			return
		}
		log.Printf("ERROR add wishlist item: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlistService.List(r.Context())
	if err != nil {
		log.Printf("ERROR list wishlist: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *WishlistHandler) Claim(w http.ResponseWriter, r *http.Request) {
	h.updateClaim(w, r, h.wishlistService.Claim)
}

func (h *WishlistHandler) Unclaim(w http.ResponseWriter, r *http.Request) {
	h.updateClaim(w, r, h.wishlistService.Unclaim)
}

func (h *WishlistHandler) updateClaim(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, itemID uuid.UUID) error) {
	userID := middleware.GetUserID(r.Context())
	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid item ID")
		return
	}

	if err := op(r.Context(), userID, itemID); err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Item not found")
		case errors.Is(err, service.ErrAlreadyClaimed):
			writeError(w, http.StatusConflict, "ALREADY_CLAIMED", "Item is already claimed")
		case errors.Is(err, service.ErrNotClaimer):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the claimer can unclaim")
		default:
			log.Printf("ERROR update claim: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WishlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid item ID")
		return
	}

	if err := h.wishlistService.Delete(r.Context(), userID, itemID); err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Item not found")
		case errors.Is(err, service.ErrNotItemOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only delete your own items")
		default:
			log.Printf("ERROR delete wishlist item: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
