// Package broker is the publish/subscribe boundary for chat broadcast.
// Publishing is fire-and-forget; per-publisher order is preserved. Payloads
// are validated at the subscription boundary so consumers never see a
// malformed event.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/avukelic/homespace/internal/domain"
)

// ChatChannel is the single shared room every participant subscribes to.
const ChatChannel = "homespace:chat"

const EventMessageNew = "message:new"

var (
	ErrUnknownEvent = errors.New("unknown event name")
	ErrBadPayload   = errors.New("malformed event payload")
)

// Event is the validated envelope delivered to subscribers.
type Event struct {
	Name    string         `json:"name"`
	Message domain.Message `json:"message"`
}

// ParseEvent decodes and validates a raw payload from the transport.
// Untrusted input: anything missing its tag or required fields is rejected.
func ParseEvent(data []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, ErrBadPayload
	}
	if evt.Name != EventMessageNew {
		return nil, ErrUnknownEvent
	}
	if evt.Message.Text == "" || evt.Message.Username == "" {
		return nil, ErrBadPayload
	}
	return &evt, nil
}

type Publisher interface {
	Publish(ctx context.Context, channel string, evt Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (*Subscription, error)
}

type PubSub interface {
	Publisher
	Subscriber
}

// Subscription is a live, non-restartable stream of events. The events
// channel closes when the subscription is released or the transport drops.
type Subscription struct {
	events chan Event

	closeOnce sync.Once
	closeFn   func()
}

func newSubscription(buf int, closeFn func()) *Subscription {
	return &Subscription{
		events:  make(chan Event, buf),
		closeFn: closeFn,
	}
}

// NewPipe builds a subscription plus the sender side that feeds it. Used
// by transport adapters (e.g. a websocket reader) that deliver events from
// elsewhere. The adapter must close the sender when its source ends.
func NewPipe(closeFn func()) (*Subscription, chan<- Event) {
	sub := newSubscription(subBufSize, closeFn)
	return sub, sub.events
}

func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		if s.closeFn != nil {
			s.closeFn()
		}
	})
}
