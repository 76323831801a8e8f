package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/avukelic/homespace/internal/service"
)

type PetHandler struct {
	petService *service.PetService
}

func NewPetHandler(petService *service.PetService) *PetHandler {
	return &PetHandler{petService: petService}
}

func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.petService.Get)
}

func (h *PetHandler) Feed(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.petService.Feed)
}

func (h *PetHandler) Play(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.petService.Play)
}

func (h *PetHandler) respond(w http.ResponseWriter, r *http.Request, op func(ctx context.Context) (*service.PetView, error)) {
	pet, err := op(r.Context())
	if err != nil {
		log.Printf("ERROR pet: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, pet)
}
