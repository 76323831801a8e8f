// Command chat is a terminal client for the homespace chat room. It drives
// the same session state machine the web client uses: history + live
// subscription, no local echo, bell-and-title alerts while unfocused.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/avukelic/homespace/internal/broker"
	"github.com/avukelic/homespace/internal/domain"
	"github.com/avukelic/homespace/internal/session"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "homespace server URL")
	token := flag.String("token", "", "access token (from /api/v1/auth/login)")
	flag.Parse()

	if *token == "" {
		log.Fatal("missing -token")
	}

	api := &apiClient{
		base:   strings.TrimRight(*server, "/"),
		token:  *token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	ui := &terminalUI{out: os.Stdout}

	sess := session.New(session.Deps{
		History:     api,
		Sender:      api,
		Subscriber:  &wsSubscriber{base: api.base, token: *token},
		Visibility:  alwaysVisible{},
		Permissions: terminalPermissions{},
		UI:          ui,
		IdleTitle:   "homespace",
		OnAppend: func(msg domain.Message) {
			fmt.Fprintf(os.Stdout, "[%s] %s: %s\n", msg.CreatedAt.Format("15:04"), msg.Username, msg.Text)
		},
	})

	ctx := context.Background()
	if err := sess.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	fmt.Println("connected, type a message and press enter (/quit to exit)")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" {
			return
		}
		if line == "" {
			continue
		}
		if err := sess.Send(ctx, line); err != nil {
			log.Printf("send failed: %v", err)
		}
	}
}

// apiClient talks to the HTTP API; it is both the history fetcher and the
// sender for the session.
type apiClient struct {
	base   string
	token  string
	client *http.Client
}

func (c *apiClient) History(ctx context.Context) ([]domain.Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/v1/chat/messages", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *apiClient) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/v1/chat/messages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("send: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// wsSubscriber adapts the server's websocket feed to a broker subscription.
type wsSubscriber struct {
	base  string
	token string
}

func (s *wsSubscriber) Subscribe(ctx context.Context, _ string) (*broker.Subscription, error) {
	wsURL := strings.Replace(s.base, "http", "ws", 1) + "/ws?token=" + s.token

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", wsURL, err)
	}

	sub, events := broker.NewPipe(func() {
		conn.Close(websocket.StatusNormalClosure, "")
	})

	go func() {
		defer close(events)
		for {
			var evt struct {
				Type    string          `json:"type"`
				Payload json.RawMessage `json:"payload"`
			}
			if err := wsjson.Read(ctx, conn, &evt); err != nil {
				return
			}
			if evt.Type != "message:new" {
				continue
			}
			var msg domain.Message
			if err := json.Unmarshal(evt.Payload, &msg); err != nil {
				log.Printf("dropping malformed event: %v", err)
				continue
			}
			events <- broker.Event{Name: broker.EventMessageNew, Message: msg}
		}
	}()

	return sub, nil
}

// terminalUI maps the session's out-of-band effects onto the terminal.
type terminalUI struct {
	out *os.File
}

func (u *terminalUI) PlaySound() {
	fmt.Fprint(u.out, "\a")
}

func (u *terminalUI) Notify(sender, text string) {
	fmt.Fprintf(u.out, "*** %s: %s ***\n", sender, text)
}

func (u *terminalUI) SetTitle(title string) {
	fmt.Fprintf(u.out, "\033]0;%s\007", title)
}

func (u *terminalUI) RestoreInput(text string) {
	fmt.Fprintf(u.out, "(not sent, try again): %s\n", text)
}

// A terminal has no background tab; notification side effects never fire.
type alwaysVisible struct{}

func (alwaysVisible) Hidden() bool { return false }

type terminalPermissions struct{}

func (terminalPermissions) Current() session.Permission { return session.PermissionGranted }
func (terminalPermissions) Request() session.Permission { return session.PermissionGranted }
