package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/avukelic/homespace/internal/broker"
)

// Hub bridges the broadcast channel to connected WebSocket clients. There
// is one chat room, so every connected socket receives every message; a
// user with several tabs open holds several clients.
type Hub struct {
	pubsub broker.PubSub

	// clients is owned by the Run loop.
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
}

func NewHub(pubsub broker.PubSub) *Hub {
	return &Hub{
		pubsub:     pubsub,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run subscribes to the chat channel and fans events out until ctx ends.
// Call this in a goroutine.
func (h *Hub) Run(ctx context.Context) error {
	sub, err := h.pubsub.Subscribe(ctx, broker.ChatChannel)
	if err != nil {
		return fmt.Errorf("subscribing hub: %w", err)
	}
	defer sub.Close()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			log.Printf("ws hub: user %s connected (%d total)", client.userID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				close(client.done)
				log.Printf("ws hub: user %s disconnected (%d total)", client.userID, len(h.clients))
			}

		case evt, ok := <-sub.Events():
			if !ok {
				return fmt.Errorf("hub subscription dropped")
			}
			h.fanOut(&evt)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *Hub) fanOut(evt *broker.Event) {
	wire, err := NewEvent(EventTypeMessageNew, MessagePayload{Message: evt.Message})
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	data, err := json.Marshal(wire)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client buffer full - disconnect
			delete(h.clients, client)
			close(client.send)
			close(client.done)
		}
	}
}
