package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avukelic/homespace/internal/domain"
	"github.com/avukelic/homespace/internal/repository"
	"github.com/google/uuid"
)

const (
	petFeedBoost = 25
	petPlayBoost = 20
)

// PetService manages the shared household pet. The pet is created lazily
// on first access; stats decay over time and are refreshed on every read.
type PetService struct {
	petRepo repository.PetRepository
	now     func() time.Time
}

func NewPetService(petRepo repository.PetRepository) *PetService {
	return &PetService{
		petRepo: petRepo,
		now:     time.Now,
	}
}

type PetView struct {
	domain.Pet
	Mood string `json:"mood"`
}

func (s *PetService) Get(ctx context.Context) (*PetView, error) {
	pet, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	pet.ApplyDecay(s.now())
	return &PetView{Pet: *pet, Mood: pet.Mood()}, nil
}

func (s *PetService) Feed(ctx context.Context) (*PetView, error) {
	return s.interact(ctx, func(pet *domain.Pet, now time.Time) {
		pet.Fullness = clampStat(pet.Fullness + petFeedBoost)
		pet.LastFedAt = now
	})
}

func (s *PetService) Play(ctx context.Context) (*PetView, error) {
	return s.interact(ctx, func(pet *domain.Pet, now time.Time) {
		pet.Happiness = clampStat(pet.Happiness + petPlayBoost)
		pet.LastPlayedAt = now
	})
}

func (s *PetService) interact(ctx context.Context, apply func(*domain.Pet, time.Time)) (*PetView, error) {
	pet, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	pet.ApplyDecay(now)
	apply(pet, now)

	if err := s.petRepo.Save(ctx, pet); err != nil {
		return nil, fmt.Errorf("saving pet: %w", err)
	}

	return &PetView{Pet: *pet, Mood: pet.Mood()}, nil
}

func (s *PetService) getOrCreate(ctx context.Context) (*domain.Pet, error) {
	pet, err := s.petRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if pet != nil {
		return pet, nil
	}

	now := s.now()
	pet = &domain.Pet{
		ID:           uuid.New(),
		Name:         "Mochi",
		Fullness:     domain.PetStatMax,
		Happiness:    domain.PetStatMax,
		LastFedAt:    now,
		LastPlayedAt: now,
	}
	if err := s.petRepo.Save(ctx, pet); err != nil {
		return nil, fmt.Errorf("creating pet: %w", err)
	}
	return pet, nil
}

func clampStat(v int) int {
	if v > domain.PetStatMax {
		return domain.PetStatMax
	}
	if v < 0 {
		return 0
	}
	return v
}
