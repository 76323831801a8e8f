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
	ErrImageNotFound   = errors.New("image not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("only the comment author can perform this action")
	ErrEmptyComment    = errors.New("comment text is required")
)

// BlobStore uploads image bytes and returns a public URL.
type BlobStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

type GalleryService struct {
	galleryRepo repository.GalleryRepository
	blobs       BlobStore
}

func NewGalleryService(galleryRepo repository.GalleryRepository, blobs BlobStore) *GalleryService {
	return &GalleryService{
		galleryRepo: galleryRepo,
		blobs:       blobs,
	}
}

func (s *GalleryService) Upload(ctx context.Context, uploaderID uuid.UUID, title string, data []byte) (*domain.GalleryImage, error) {
	id := uuid.New()

	url, err := s.blobs.Upload(ctx, id.String(), data)
	if err != nil {
		return nil, fmt.Errorf("uploading image: %w", err)
	}

	img := &domain.GalleryImage{
		ID:         id,
		Title:      strings.TrimSpace(title),
		URL:        url,
		UploaderID: uploaderID,
		CreatedAt:  time.Now(),
	}

	if err := s.galleryRepo.CreateImage(ctx, img); err != nil {
		return nil, fmt.Errorf("creating image: %w", err)
	}

	return img, nil
}

func (s *GalleryService) List(ctx context.Context) ([]domain.GalleryImage, error) {
	images, err := s.galleryRepo.ListImages(ctx)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []domain.GalleryImage{}
	}
	return images, nil
}

func (s *GalleryService) Comment(ctx context.Context, authorID, imageID uuid.UUID, text string) (*domain.ImageComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	img, err := s.galleryRepo.GetImageByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrImageNotFound
	}

	comment := &domain.ImageComment{
		ID:        uuid.New(),
		ImageID:   imageID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if err := s.galleryRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	full, err := s.galleryRepo.GetCommentByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return full, nil
}

func (s *GalleryService) ListComments(ctx context.Context, imageID uuid.UUID) ([]domain.ImageComment, error) {
	img, err := s.galleryRepo.GetImageByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrImageNotFound
	}

	comments, err := s.galleryRepo.ListComments(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.ImageComment{}
	}
	return comments, nil
}

// DeleteComment removes a comment. Unlike chat messages, image comments
// are deletable, but only by their author.
func (s *GalleryService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.galleryRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != userID {
		return ErrNotCommentOwner
	}

	return s.galleryRepo.DeleteComment(ctx, commentID)
}
