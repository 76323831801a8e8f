// Package session holds the client-side chat state machine: one ordered,
// append-only view of the conversation per connected tab, plus the policy
// for when to alert the user out-of-band.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/avukelic/homespace/internal/broker"
	"github.com/avukelic/homespace/internal/domain"
)

type State string

const (
	// StateInitializing: history fetch and subscription race; live events
	// arriving before history resolves are buffered, not dropped.
	StateInitializing State = "initializing"
	// StateLive: history has seeded the view, buffered events were
	// replayed in receipt order, every new event appends monotonically.
	StateLive State = "live"
	// StateClosed: torn down (or the subscription dropped); no further
	// state mutation happens.
	StateClosed State = "closed"
)

var (
	ErrSendInFlight = errors.New("a send is already in flight")
	ErrClosed       = errors.New("session is closed")
)

type Deps struct {
	History     HistoryFetcher
	Sender      Sender
	Subscriber  broker.Subscriber
	Visibility  VisibilityProvider
	Permissions PermissionProvider
	UI          UI
	IdleTitle   string

	// OnAppend, when set, is called for every message joining the view,
	// in view order. Used by renderers.
	OnAppend func(domain.Message)
}

type historyResult struct {
	messages []domain.Message
	err      error
}

// Session is one tab's view of the chat room. Create with New, Start to
// begin receiving, Close to tear down. All exported methods are safe for
// concurrent use.
type Session struct {
	deps Deps

	mu       sync.Mutex
	state    State
	view     []domain.Message
	buffered []domain.Message
	inFlight bool
	muted    bool

	sub       *broker.Subscription
	historyCh chan historyResult
	done      chan struct{}
	closeOnce sync.Once
}

func New(deps Deps) *Session {
	return &Session{
		deps:      deps,
		state:     StateInitializing,
		historyCh: make(chan historyResult, 1),
		done:      make(chan struct{}),
	}
}

// Start opens the subscription and kicks off the history fetch. The two
// race; events delivered before history resolves are buffered and replayed
// after seeding.
func (s *Session) Start(ctx context.Context) error {
	sub, err := s.deps.Subscriber.Subscribe(ctx, broker.ChatChannel)
	if err != nil {
		return fmt.Errorf("subscribing: %w", err)
	}
	s.sub = sub

	go func() {
		messages, err := s.deps.History.History(ctx)
		s.historyCh <- historyResult{messages: messages, err: err}
	}()

	go s.run()
	return nil
}

func (s *Session) run() {
	for {
		select {
		case res := <-s.historyCh:
			s.seed(res)

		case evt, ok := <-s.sub.Events():
			if !ok {
				// Transport dropped the subscription. Live updates
				// stop; no automatic reconnect.
				s.close()
				return
			}
			s.receive(evt)

		case <-s.done:
			return
		}
	}
}

// seed installs history as the base of the view, then replays events that
// arrived during the fetch, preserving receipt order. A failed fetch seeds
// an empty view and is not retried.
func (s *Session) seed(res historyResult) {
	s.mu.Lock()

	if s.state != StateInitializing {
		s.mu.Unlock()
		return
	}

	if res.err != nil {
		log.Printf("session: history fetch failed: %v", res.err)
	} else {
		s.view = append(s.view, res.messages...)
	}

	s.view = append(s.view, s.buffered...)
	s.buffered = nil
	s.state = StateLive

	seeded := make([]domain.Message, len(s.view))
	copy(seeded, s.view)
	s.mu.Unlock()

	if s.deps.OnAppend != nil {
		for _, msg := range seeded {
			s.deps.OnAppend(msg)
		}
	}
}

func (s *Session) receive(evt broker.Event) {
	if evt.Name != broker.EventMessageNew {
		return
	}

	s.mu.Lock()
	var appended bool
	switch s.state {
	case StateInitializing:
		s.buffered = append(s.buffered, evt.Message)
	case StateLive:
		// Monotonic append. No dedup: a double-delivered event shows twice.
		s.view = append(s.view, evt.Message)
		appended = true
	default:
		s.mu.Unlock()
		return
	}
	muted := s.muted
	s.mu.Unlock()

	if appended && s.deps.OnAppend != nil {
		s.deps.OnAppend(evt.Message)
	}
	s.notice(evt.Message, muted)
}

// notice fires the out-of-band alerts for a received message. Nothing
// fires while the tab is foregrounded; the message only joins the view.
func (s *Session) notice(msg domain.Message, muted bool) {
	if !s.deps.Visibility.Hidden() {
		return
	}

	if !muted {
		s.deps.UI.PlaySound()
	}
	if s.deps.Permissions.Current() == PermissionGranted {
		s.deps.UI.Notify(msg.Username, msg.Text)
	}
	s.deps.UI.SetTitle("New Message from " + msg.Username)
}

// Send submits text to the server. A second Send while one is in flight is
// rejected; the lock always releases. On failure the text is handed back to
// the input so the user can retry, and the error is returned for logging.
func (s *Session) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrSendInFlight
	}
	s.inFlight = true
	s.mu.Unlock()

	err := s.deps.Sender.Send(ctx, text)

	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()

	if err != nil {
		s.deps.UI.RestoreInput(text)
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}

// Foregrounded clears the unread marker when the tab becomes visible again.
func (s *Session) Foregrounded() {
	s.deps.UI.SetTitle(s.deps.IdleTitle)
}

// RequestPermission asks the provider for notification permission. Only
// call from an explicit user action, never on load.
func (s *Session) RequestPermission() Permission {
	return s.deps.Permissions.Request()
}

func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

// Messages returns a snapshot of the ordered view.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.view))
	copy(out, s.view)
	return out
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close tears the session down: the subscription is released and no event
// arriving afterwards mutates any state. Idempotent.
func (s *Session) Close() {
	s.close()
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosed
		s.buffered = nil
		s.mu.Unlock()

		close(s.done)
		if s.sub != nil {
			s.sub.Close()
		}
	})
}
