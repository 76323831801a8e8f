package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/avukelic/homespace/internal/broker"
	"github.com/avukelic/homespace/internal/domain"
	"github.com/google/uuid"
)

// In-memory repository fakes shared by the service tests.

type memMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message
	failWith error
}

func (r *memMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *memMessageRepo) ListRecent(_ context.Context, limit int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	start := 0
	if len(r.messages) > limit {
		start = len(r.messages) - limit
	}
	out := make([]domain.Message, len(r.messages)-start)
	copy(out, r.messages[start:])
	return out, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func newMemUserRepo(users ...domain.User) *memUserRepo {
	r := &memUserRepo{users: make(map[uuid.UUID]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// failingPublisher persists nothing and fails every publish; Subscribe is
// never used by the chat service.
type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, string, broker.Event) error {
	return errors.New("transport down")
}

func (failingPublisher) Subscribe(context.Context, string) (*broker.Subscription, error) {
	return nil, errors.New("transport down")
}

type memWishlistRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]domain.WishlistItem
}

func newMemWishlistRepo() *memWishlistRepo {
	return &memWishlistRepo{items: make(map[uuid.UUID]domain.WishlistItem)}
}

func (r *memWishlistRepo) Create(_ context.Context, item *domain.WishlistItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *memWishlistRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.items[id]; ok {
		return &item, nil
	}
	return nil, nil
}

func (r *memWishlistRepo) List(_ context.Context) ([]domain.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.WishlistItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *memWishlistRepo) SetClaimer(_ context.Context, id uuid.UUID, claimedBy *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item := r.items[id]
	item.ClaimedBy = claimedBy
	r.items[id] = item
	return nil
}

func (r *memWishlistRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type memWorklogRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]domain.WorkEntry
}

func newMemWorklogRepo() *memWorklogRepo {
	return &memWorklogRepo{entries: make(map[uuid.UUID]domain.WorkEntry)}
}

func (r *memWorklogRepo) Create(_ context.Context, entry *domain.WorkEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = *entry
	return nil
}

func (r *memWorklogRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.WorkEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[id]; ok {
		return &entry, nil
	}
	return nil, nil
}

func (r *memWorklogRepo) GetRunning(_ context.Context, userID uuid.UUID) (*domain.WorkEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.UserID == userID && entry.StoppedAt == nil {
			return &entry, nil
		}
	}
	return nil, nil
}

func (r *memWorklogRepo) SetStopped(_ context.Context, id uuid.UUID, stoppedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := r.entries[id]
	entry.StoppedAt = &stoppedAt
	r.entries[id] = entry
	return nil
}

func (r *memWorklogRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.WorkEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkEntry
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *memWorklogRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

type memGalleryRepo struct {
	mu       sync.Mutex
	images   map[uuid.UUID]domain.GalleryImage
	comments map[uuid.UUID]domain.ImageComment
}

func newMemGalleryRepo() *memGalleryRepo {
	return &memGalleryRepo{
		images:   make(map[uuid.UUID]domain.GalleryImage),
		comments: make(map[uuid.UUID]domain.ImageComment),
	}
}

func (r *memGalleryRepo) CreateImage(_ context.Context, img *domain.GalleryImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[img.ID] = *img
	return nil
}

func (r *memGalleryRepo) GetImageByID(_ context.Context, id uuid.UUID) (*domain.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if img, ok := r.images[id]; ok {
		return &img, nil
	}
	return nil, nil
}

func (r *memGalleryRepo) ListImages(_ context.Context) ([]domain.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.GalleryImage, 0, len(r.images))
	for _, img := range r.images {
		out = append(out, img)
	}
	return out, nil
}

func (r *memGalleryRepo) CreateComment(_ context.Context, c *domain.ImageComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[c.ID] = *c
	return nil
}

func (r *memGalleryRepo) GetCommentByID(_ context.Context, id uuid.UUID) (*domain.ImageComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.comments[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *memGalleryRepo) ListComments(_ context.Context, imageID uuid.UUID) ([]domain.ImageComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ImageComment
	for _, c := range r.comments {
		if c.ImageID == imageID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memGalleryRepo) DeleteComment(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

type memPetRepo struct {
	mu  sync.Mutex
	pet *domain.Pet
}

func (r *memPetRepo) Get(_ context.Context) (*domain.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pet == nil {
		return nil, nil
	}
	pet := *r.pet
	return &pet, nil
}

func (r *memPetRepo) Save(_ context.Context, pet *domain.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := *pet
	r.pet = &p
	return nil
}

type fakeBlobStore struct {
	uploaded map[string][]byte
	failWith error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploaded: make(map[string][]byte)}
}

func (b *fakeBlobStore) Upload(_ context.Context, name string, data []byte) (string, error) {
	if b.failWith != nil {
		return "", b.failWith
	}
	b.uploaded[name] = data
	return "https://cdn.example.com/" + name, nil
}
