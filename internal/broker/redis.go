package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// Redis is the cross-node PubSub backed by Redis channels.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("unable to ping redis: %w", err)
	}

	return &Redis{client: client}, nil
}

func (r *Redis) Publish(ctx context.Context, channel string, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	return r.client.Publish(ctx, channel, data).Err()
}

func (r *Redis) Subscribe(ctx context.Context, channel string) (*Subscription, error) {
	ps := r.client.Subscribe(ctx, channel)

	// Confirm the subscription before events can be missed.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", channel, err)
	}

	sub := newSubscription(subBufSize, func() {
		ps.Close()
	})

	go func() {
		defer close(sub.events)
		for msg := range ps.Channel() {
			evt, err := ParseEvent([]byte(msg.Payload))
			if err != nil {
				log.Printf("broker: dropping event on %s: %v", channel, err)
				continue
			}
			select {
			case sub.events <- *evt:
			default:
				log.Printf("broker: dropping event for slow subscriber on %s", channel)
			}
		}
	}()

	return sub, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
