package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/avukelic/homespace/internal/broker"
	"github.com/avukelic/homespace/internal/domain"
	"github.com/avukelic/homespace/internal/repository"
	"github.com/google/uuid"
)

const HistoryLimit = 50

var ErrUnknownSender = errors.New("unknown sender")

// ChatService persists chat messages and broadcasts them best-effort.
// A stored message is durable even when the broadcast fails; clients that
// miss the live event pick it up on their next history fetch.
type ChatService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	pubsub      broker.PubSub
}

func NewChatService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, pubsub broker.PubSub) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		pubsub:      pubsub,
	}
}

// Post stores a message and publishes it to the chat channel. Empty or
// whitespace-only text is a silent no-op, not an error. Returns the stored
// message, or nil when nothing was posted.
func (s *ChatService) Post(ctx context.Context, senderID uuid.UUID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("resolving sender: %w", err)
	}
	if sender == nil {
		return nil, ErrUnknownSender
	}

	msg := &domain.Message{
		ID:        uuid.New(),
		Text:      text,
		Username:  sender.Username,
		CreatedAt: time.Now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	// Best-effort: the message is already durable, a lost broadcast only
	// means connected clients see it on their next history fetch.
	evt := broker.Event{Name: broker.EventMessageNew, Message: *msg}
	if err := s.pubsub.Publish(ctx, broker.ChatChannel, evt); err != nil {
		log.Printf("chat: publish failed for message %s: %v", msg.ID, err)
	}

	return msg, nil
}

// History returns the most recent messages in chronological order.
func (s *ChatService) History(ctx context.Context) ([]domain.Message, error) {
	messages, err := s.messageRepo.ListRecent(ctx, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}
