package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/avukelic/homespace/internal/service"
	"github.com/avukelic/homespace/internal/transport/http/middleware"
	"github.com/google/uuid"
)

type WorklogHandler struct {
	worklogService *service.WorklogService
}

func NewWorklogHandler(worklogService *service.WorklogService) *WorklogHandler {
	return &WorklogHandler{worklogService: worklogService}
}

type startEntryInput struct {
	Description string `json:"description"`
}

func (h *WorklogHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input startEntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	entry, err := h.worklogService.Start(r.Context(), userID, input.Description)
	if err != nil {
		if errors.Is(err, service.ErrEntryRunning) {
			writeError(w, http.StatusConflict, "ENTRY_RUNNING", "An entry is already running")
			return
		}
		log.Printf("ERROR start entry: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *WorklogHandler) Stop(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entry, err := h.worklogService.Stop(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoEntryRunning) {
			writeError(w, http.StatusConflict, "NO_ENTRY_RUNNING", "No entry is running")
			return
		}
		log.Printf("ERROR stop entry: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *WorklogHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entries, err := h.worklogService.List(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR list entries: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *WorklogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid entry ID")
		return
	}

	if err := h.worklogService.Delete(r.Context(), userID, entryID); err != nil {
		switch {
		case errors.Is(err, service.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Entry not found")
		case errors.Is(err, service.ErrNotEntryOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only delete your own entries")
		default:
			log.Printf("ERROR delete entry: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
