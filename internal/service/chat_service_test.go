package service

import (
	"context"
	"testing"
	"time"

	"github.com/avukelic/homespace/internal/broker"
	"github.com/avukelic/homespace/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testUser(username string) domain.User {
	return domain.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
	}
}

func Test_Post_Persists_And_Publishes(t *testing.T) {
	req := require.New(t)
	alice := testUser("alice")
	repo := &memMessageRepo{}
	pubsub := broker.NewMemory()
	svc := NewChatService(repo, newMemUserRepo(alice), pubsub)

	sub, err := pubsub.Subscribe(context.Background(), broker.ChatChannel)
	req.NoError(err)
	defer sub.Close()

	msg, err := svc.Post(context.Background(), alice.ID, "hello")
	req.NoError(err)
	req.NotNil(msg)
	req.Equal("hello", msg.Text)
	req.Equal("alice", msg.Username)

	history, err := svc.History(context.Background())
	req.NoError(err)
	req.Len(history, 1)
	req.Equal("hello", history[0].Text)

	select {
	case evt := <-sub.Events():
		req.Equal(broker.EventMessageNew, evt.Name)
		req.Equal("hello", evt.Message.Text)
		req.Equal("alice", evt.Message.Username)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for broadcast")
	}
}

func Test_Post_Empty_Text_Is_A_NoOp(t *testing.T) {
	req := require.New(t)
	alice := testUser("alice")
	repo := &memMessageRepo{}
	pubsub := broker.NewMemory()
	svc := NewChatService(repo, newMemUserRepo(alice), pubsub)

	sub, err := pubsub.Subscribe(context.Background(), broker.ChatChannel)
	req.NoError(err)
	defer sub.Close()

	for _, text := range []string{"", "   ", "\n\t"} {
		msg, err := svc.Post(context.Background(), alice.ID, text)
		req.NoError(err)
		req.Nil(msg)
	}

	history, err := svc.History(context.Background())
	req.NoError(err)
	req.Empty(history)
	req.Empty(sub.Events())
}

func Test_Post_Trims_Whitespace(t *testing.T) {
	req := require.New(t)
	alice := testUser("alice")
	svc := NewChatService(&memMessageRepo{}, newMemUserRepo(alice), broker.NewMemory())

	msg, err := svc.Post(context.Background(), alice.ID, "  hi there  ")
	req.NoError(err)
	req.Equal("hi there", msg.Text)
}

func Test_Post_Unknown_Sender(t *testing.T) {
	req := require.New(t)
	repo := &memMessageRepo{}
	svc := NewChatService(repo, newMemUserRepo(), broker.NewMemory())

	_, err := svc.Post(context.Background(), uuid.New(), "hello")
	req.ErrorIs(err, ErrUnknownSender)

	history, err := svc.History(context.Background())
	req.NoError(err)
	req.Empty(history)
}

func Test_Post_Survives_Publish_Failure(t *testing.T) {
	req := require.New(t)
	alice := testUser("alice")
	repo := &memMessageRepo{}
	svc := NewChatService(repo, newMemUserRepo(alice), failingPublisher{})

	// Broadcast is best-effort: the message must still be durable.
	msg, err := svc.Post(context.Background(), alice.ID, "hello")
	req.NoError(err)
	req.NotNil(msg)

	history, err := svc.History(context.Background())
	req.NoError(err)
	req.Len(history, 1)
}

func Test_History_Is_Chronological_And_Bounded(t *testing.T) {
	req := require.New(t)
	alice := testUser("alice")
	repo := &memMessageRepo{}
	svc := NewChatService(repo, newMemUserRepo(alice), broker.NewMemory())

	for i := 0; i < HistoryLimit+10; i++ {
		_, err := svc.Post(context.Background(), alice.ID, "message")
		req.NoError(err)
	}

	history, err := svc.History(context.Background())
	req.NoError(err)
	req.Len(history, HistoryLimit)
	for i := 1; i < len(history); i++ {
		req.False(history[i].CreatedAt.Before(history[i-1].CreatedAt))
	}
}
