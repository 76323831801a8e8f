package broker

import (
	"context"
	"log"
	"sync"
)

const subBufSize = 256

// Memory is an in-process PubSub for single-node deploys and tests.
type Memory struct {
	mu   sync.Mutex
	subs map[string][]*Subscription
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[string][]*Subscription)}
}

func (m *Memory) Publish(_ context.Context, channel string, evt Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[channel] {
		select {
		case sub.events <- evt:
		default:
			// Subscriber buffer full - drop rather than block the publisher
			log.Printf("broker: dropping event for slow subscriber on %s", channel)
		}
	}
	return nil
}

func (m *Memory) Subscribe(_ context.Context, channel string) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sub *Subscription
	sub = newSubscription(subBufSize, func() {
		m.remove(channel, sub)
	})
	m.subs[channel] = append(m.subs[channel], sub)
	return sub, nil
}

func (m *Memory) remove(channel string, sub *Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := m.subs[channel]
	for i, s := range subs {
		if s == sub {
			m.subs[channel] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	close(sub.events)
}
