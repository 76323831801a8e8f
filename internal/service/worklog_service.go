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
	ErrEntryNotFound  = errors.New("work entry not found")
	ErrNotEntryOwner  = errors.New("only the entry owner can perform this action")
	ErrEntryRunning   = errors.New("an entry is already running")
	ErrNoEntryRunning = errors.New("no entry is running")
)

type WorklogService struct {
	worklogRepo repository.WorklogRepository
}

func NewWorklogService(worklogRepo repository.WorklogRepository) *WorklogService {
	return &WorklogService{worklogRepo: worklogRepo}
}

// Start begins a new entry. At most one entry runs per user.
func (s *WorklogService) Start(ctx context.Context, userID uuid.UUID, description string) (*domain.WorkEntry, error) {
	running, err := s.worklogRepo.GetRunning(ctx, userID)
	if err != nil {
		return nil, err
	}
	if running != nil {
		return nil, ErrEntryRunning
	}

	entry := &domain.WorkEntry{
		ID:          uuid.New(),
		UserID:      userID,
		Description: strings.TrimSpace(description),
		StartedAt:   time.Now(),
	}

	if err := s.worklogRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("creating work entry: %w", err)
	}

	return entry, nil
}

// Stop closes the running entry and returns it.
func (s *WorklogService) Stop(ctx context.Context, userID uuid.UUID) (*domain.WorkEntry, error) {
	running, err := s.worklogRepo.GetRunning(ctx, userID)
	if err != nil {
		return nil, err
	}
	if running == nil {
		return nil, ErrNoEntryRunning
	}

	stoppedAt := time.Now()
	if err := s.worklogRepo.SetStopped(ctx, running.ID, stoppedAt); err != nil {
		return nil, fmt.Errorf("stopping work entry: %w", err)
	}

	running.StoppedAt = &stoppedAt
	return running, nil
}

func (s *WorklogService) List(ctx context.Context, userID uuid.UUID) ([]domain.WorkEntry, error) {
	entries, err := s.worklogRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.WorkEntry{}
	}
	return entries, nil
}

func (s *WorklogService) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	entry, err := s.worklogRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrEntryNotFound
	}
	if entry.UserID != userID {
		return ErrNotEntryOwner
	}

	return s.worklogRepo.Delete(ctx, entryID)
}
