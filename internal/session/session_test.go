package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/avukelic/homespace/internal/broker"
	"github.com/avukelic/homespace/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type fakeHistory struct {
	gate     chan struct{} // when set, History blocks until it closes
	messages []domain.Message
	err      error
}

func (f *fakeHistory) History(ctx context.Context) ([]domain.Message, error) {
	if f.gate != nil {
		<-f.gate
	}
	return f.messages, f.err
}

type fakeSender struct {
	mu   sync.Mutex
	gate chan struct{}
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, text string) error {
	f.mu.Lock()
	gate, err := f.gate, f.err
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.sent = append(f.sent, text)
	f.mu.Unlock()
	return nil
}

func (f *fakeSender) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakeVisibility struct {
	mu     sync.Mutex
	hidden bool
}

func (f *fakeVisibility) Hidden() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hidden
}

type fakePermissions struct {
	mu      sync.Mutex
	current Permission
	onGrant Permission
}

func (f *fakePermissions) Current() Permission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakePermissions) Request() Permission {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.onGrant
	return f.current
}

type fakeUI struct {
	mu       sync.Mutex
	sounds   int
	notifies []string
	titles   []string
	restored []string
}

func (f *fakeUI) PlaySound() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sounds++
}

func (f *fakeUI) Notify(sender, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifies = append(f.notifies, sender)
}

func (f *fakeUI) SetTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles = append(f.titles, title)
}

func (f *fakeUI) RestoreInput(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restored = append(f.restored, text)
}

func (f *fakeUI) soundCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sounds
}

func (f *fakeUI) lastTitle() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.titles) == 0 {
		return ""
	}
	return f.titles[len(f.titles)-1]
}

func (f *fakeUI) notifyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notifies)
}

func chatMessage(username, text string) domain.Message {
	return domain.Message{
		ID:        uuid.New(),
		Text:      text,
		Username:  username,
		CreatedAt: time.Now(),
	}
}

type harness struct {
	session     *Session
	pubsub      *broker.Memory
	history     *fakeHistory
	sender      *fakeSender
	visibility  *fakeVisibility
	permissions *fakePermissions
	ui          *fakeUI
	appended    []domain.Message
	appendMu    sync.Mutex
}

func newHarness(t *testing.T, history *fakeHistory) *harness {
	t.Helper()

	h := &harness{
		pubsub:      broker.NewMemory(),
		history:     history,
		sender:      &fakeSender{},
		visibility:  &fakeVisibility{},
		permissions: &fakePermissions{current: PermissionDefault, onGrant: PermissionGranted},
		ui:          &fakeUI{},
	}
	h.session = New(Deps{
		History:     h.history,
		Sender:      h.sender,
		Subscriber:  h.pubsub,
		Visibility:  h.visibility,
		Permissions: h.permissions,
		UI:          h.ui,
		IdleTitle:   "homespace",
		OnAppend: func(msg domain.Message) {
			h.appendMu.Lock()
			h.appended = append(h.appended, msg)
			h.appendMu.Unlock()
		},
	})
	t.Cleanup(h.session.Close)
	return h
}

func (h *harness) appendedTexts() []string {
	h.appendMu.Lock()
	defer h.appendMu.Unlock()
	out := make([]string, len(h.appended))
	for i, msg := range h.appended {
		out[i] = msg.Text
	}
	return out
}

func (h *harness) publish(t *testing.T, msg domain.Message) {
	t.Helper()
	err := h.pubsub.Publish(context.Background(), broker.ChatChannel, broker.Event{
		Name:    broker.EventMessageNew,
		Message: msg,
	})
	require.NoError(t, err)
}

func (h *harness) waitLive(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.session.State() == StateLive
	}, waitFor, tick)
}

func viewTexts(s *Session) []string {
	msgs := s.Messages()
	out := make([]string, len(msgs))
	for i, msg := range msgs {
		out[i] = msg.Text
	}
	return out
}

func Test_History_Seeds_Then_Live_Appends(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, &fakeHistory{messages: []domain.Message{
		chatMessage("ana", "first"),
		chatMessage("vedran", "second"),
	}})

	req.NoError(h.session.Start(context.Background()))
	h.waitLive(t)

	h.publish(t, chatMessage("ana", "third"))

	req.Eventually(func() bool {
		return len(h.session.Messages()) == 3
	}, waitFor, tick)
	req.Equal([]string{"first", "second", "third"}, viewTexts(h.session))
	req.Equal([]string{"first", "second", "third"}, h.appendedTexts())
}

func Test_Events_During_History_Fetch_Are_Buffered(t *testing.T) {
	req := require.New(t)
	gate := make(chan struct{})
	h := newHarness(t, &fakeHistory{
		gate:     gate,
		messages: []domain.Message{chatMessage("ana", "old")},
	})

	req.NoError(h.session.Start(context.Background()))

	h.publish(t, chatMessage("vedran", "racy-one"))
	h.publish(t, chatMessage("vedran", "racy-two"))

	// Events land in the buffer, not the view, while history is pending.
	req.Eventually(func() bool {
		h.session.mu.Lock()
		defer h.session.mu.Unlock()
		return len(h.session.buffered) == 2
	}, waitFor, tick)
	req.Equal(StateInitializing, h.session.State())
	req.Empty(h.session.Messages())

	close(gate)
	h.waitLive(t)

	req.Equal([]string{"old", "racy-one", "racy-two"}, viewTexts(h.session))
	req.Equal([]string{"old", "racy-one", "racy-two"}, h.appendedTexts())
}

func Test_History_Failure_Seeds_Empty_View(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, &fakeHistory{err: errors.New("boom")})

	req.NoError(h.session.Start(context.Background()))
	h.waitLive(t)
	req.Empty(h.session.Messages())

	h.publish(t, chatMessage("ana", "still works"))
	req.Eventually(func() bool {
		return len(h.session.Messages()) == 1
	}, waitFor, tick)
}

func Test_Foreground_Message_Is_Silent(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, &fakeHistory{})

	req.NoError(h.session.Start(context.Background()))
	h.waitLive(t)

	h.publish(t, chatMessage("ana", "hello"))
	req.Eventually(func() bool {
		return len(h.session.Messages()) == 1
	}, waitFor, tick)

	req.Zero(h.ui.soundCount())
	req.Zero(h.ui.notifyCount())
	req.Empty(h.ui.lastTitle())
}

func Test_Background_Message_Plays_Sound_And_Sets_Title(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, &fakeHistory{})
	h.visibility.hidden = true

	req.NoError(h.session.Start(context.Background()))
	h.waitLive(t)

	h.publish(t, chatMessage("ana", "psst"))

	req.Eventually(func() bool {
		return h.ui.lastTitle() == "New Message from ana"
	}, waitFor, tick)
	req.Equal(1, h.ui.soundCount())
	// Permission never granted, so no notification.
	req.Zero(h.ui.notifyCount())
}

func Test_Background_Message_Notifies_When_Permission_Granted(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, &fakeHistory{})
	h.visibility.hidden = true

	req.Equal(PermissionGranted, h.session.RequestPermission())

	req.NoError(h.session.Start(context.Background()))
	h.waitLive(t)

	h.publish(t, chatMessage("ana", "psst"))

	req.Eventually(func() bool {
		return h.ui.notifyCount() == 1
	}, waitFor, tick)
}

func Test_Muted_Suppresses_Sound_Only(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, &fakeHistory{})
	h.visibility.hidden = true
	h.permissions.current = PermissionGranted

	req.NoError(h.session.Start(context.Background()))
	h.waitLive(t)
	h.session.SetMuted(true)

	h.publish(t, chatMessage("ana", "quiet"))

	req.Eventually(func() bool {
		return h.ui.notifyCount() == 1 && h.ui.lastTitle() == "New Message from ana"
	}, waitFor, tick)
	req.Zero(h.ui.soundCount())
}

func Test_Foregrounded_Restores_Idle_Title(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, &fakeHistory{})
	h.visibility.hidden = true

	req.NoError(h.session.Start(context.Background()))
	h.waitLive(t)

	h.publish(t, chatMessage("ana", "psst"))
	req.Eventually(func() bool {
		return h.ui.lastTitle() == "New Message from ana"
	}, waitFor, tick)

	h.session.Foregrounded()
	req.Equal("homespace", h.ui.lastTitle())
}

func Test_Second_Send_While_In_Flight_Is_Rejected(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, &fakeHistory{})
	gate := make(chan struct{})
	h.sender.gate = gate

	req.NoError(h.session.Start(context.Background()))
	h.waitLive(t)

	done := make(chan error, 1)
	go func() {
		done <- h.session.Send(context.Background(), "one")
	}()

	req.Eventually(func() bool {
		h.session.mu.Lock()
		defer h.session.mu.Unlock()
		return h.session.inFlight
	}, waitFor, tick)

	req.ErrorIs(h.session.Send(context.Background(), "two"), ErrSendInFlight)

	close(gate)
	req.NoError(<-done)

	// Lock released; the next send goes through.
	h.sender.gate = nil
	req.NoError(h.session.Send(context.Background(), "three"))
}

func Test_Failed_Send_Restores_Input_And_Releases_Lock(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, &fakeHistory{})
	h.sender.setErr(errors.New("network down"))

	req.NoError(h.session.Start(context.Background()))
	h.waitLive(t)

	err := h.session.Send(context.Background(), "hello")
	req.Error(err)
	req.Equal([]string{"hello"}, h.ui.restored)

	h.sender.setErr(nil)
	req.NoError(h.session.Send(context.Background(), "hello"))
	req.Equal([]string{"hello"}, h.sender.sent)
}

func Test_Close_Stops_All_Mutation(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, &fakeHistory{})

	req.NoError(h.session.Start(context.Background()))
	h.waitLive(t)

	h.session.Close()
	h.session.Close() // idempotent
	req.Equal(StateClosed, h.session.State())

	h.publish(t, chatMessage("ana", "late"))
	req.Empty(h.session.Messages())
	req.ErrorIs(h.session.Send(context.Background(), "nope"), ErrClosed)
}

func Test_Subscription_Drop_Closes_Session(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, &fakeHistory{})

	req.NoError(h.session.Start(context.Background()))
	h.waitLive(t)

	// Transport drop: the broker tears down the subscription stream.
	h.session.sub.Close()

	req.Eventually(func() bool {
		return h.session.State() == StateClosed
	}, waitFor, tick)
}
