package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/avukelic/homespace/internal/service"
	"github.com/avukelic/homespace/internal/transport/http/middleware"
	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20 // 10 MiB

type GalleryHandler struct {
	galleryService *service.GalleryService
}

func NewGalleryHandler(galleryService *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService}
}

func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_IMAGE", "Image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_IMAGE", "Could not read image")
		return
	}

	img, err := h.galleryService.Upload(r.Context(), userID, r.FormValue("title"), data)
	if err != nil {
		log.Printf("ERROR upload image: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, img)
}

func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.galleryService.List(r.Context())
	if err != nil {
		log.Printf("ERROR list images: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"images": images})
}

type commentInput struct {
	Text string `json:"text"`
}

func (h *GalleryHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	imageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid image ID")
		return
	}

	var input commentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	comment, err := h.galleryService.Comment(r.Context(), userID, imageID, input.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Image not found")
		case errors.Is(err, service.ErrEmptyComment):
			writeError(w, http.StatusBadRequest, "MISSING_TEXT", "Comment text is required")
		default:
			log.Printf("ERROR comment image: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *GalleryHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	imageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid image ID")
		return
	}

	comments, err := h.galleryService.ListComments(r.Context(), imageID)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Image not found")
			return
		}
		log.Printf("ERROR list comments: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func (h *GalleryHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	commentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid comment ID")
		return
	}

	if err := h.galleryService.DeleteComment(r.Context(), userID, commentID); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Comment not found")
		case errors.Is(err, service.ErrNotCommentOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only delete your own comments")
		default:
			log.Printf("ERROR delete comment: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
