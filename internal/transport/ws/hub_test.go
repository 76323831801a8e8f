package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/avukelic/homespace/internal/broker"
	"github.com/avukelic/homespace/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Hub_Fans_Published_Messages_Out_To_Clients(t *testing.T) {
	req := require.New(t)
	pubsub := broker.NewMemory()
	hub := NewHub(pubsub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	first := NewClient(hub, nil, uuid.New())
	second := NewClient(hub, nil, uuid.New())
	hub.register <- first
	hub.register <- second

	msg := domain.Message{
		ID:        uuid.New(),
		Text:      "hello everyone",
		Username:  "ana",
		CreatedAt: time.Now(),
	}
	err := pubsub.Publish(ctx, broker.ChatChannel, broker.Event{
		Name:    broker.EventMessageNew,
		Message: msg,
	})
	req.NoError(err)

	for _, client := range []*Client{first, second} {
		select {
		case data := <-client.send:
			var evt Event
			req.NoError(json.Unmarshal(data, &evt))
			req.Equal(EventTypeMessageNew, evt.Type)

			var payload MessagePayload
			req.NoError(json.Unmarshal(evt.Payload, &payload))
			req.Equal("hello everyone", payload.Message.Text)
			req.Equal("ana", payload.Message.Username)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for fan-out")
		}
	}
}

func Test_Hub_Unregister_Closes_The_Send_Channel(t *testing.T) {
	req := require.New(t)
	pubsub := broker.NewMemory()
	hub := NewHub(pubsub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := NewClient(hub, nil, uuid.New())
	hub.register <- client
	hub.unregister <- client

	select {
	case _, ok := <-client.send:
		req.False(ok)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for send channel close")
	}

	// A message published now reaches nobody and must not panic.
	err := pubsub.Publish(ctx, broker.ChatChannel, broker.Event{
		Name:    broker.EventMessageNew,
		Message: domain.Message{Text: "late", Username: "ana"},
	})
	req.NoError(err)
}
