package session

import (
	"context"

	"github.com/avukelic/homespace/internal/domain"
)

// HistoryFetcher loads the bounded recent history that seeds the view.
type HistoryFetcher interface {
	History(ctx context.Context) ([]domain.Message, error)
}

// Sender submits a message to the server. The sender's own message is not
// echoed locally; it arrives back through the subscription like any other.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Permission mirrors the browser-level notification permission.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// PermissionProvider owns the notification permission state. Request must
// only ever be triggered by an explicit user action.
type PermissionProvider interface {
	Current() Permission
	Request() Permission
}

// VisibilityProvider reports whether the tab/window is currently hidden.
type VisibilityProvider interface {
	Hidden() bool
}

// UI is the set of out-of-band effects the session can trigger.
type UI interface {
	PlaySound()
	Notify(sender, text string)
	SetTitle(title string)
	RestoreInput(text string)
}
