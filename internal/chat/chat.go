// Package chat is the client side of member/admin messaging. It polls
// the backend on an interval and discards stale in-flight responses
// using a per-request sequence token, so a slow older poll can never
// overwrite the result of a newer one.
package chat

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/internal/session"
	"github.com/relieflk/floodmap/util/values"
)

// DefaultPollInterval matches the refresh cadence of the chat view.
const DefaultPollInterval = 3 * time.Second

var (
	ErrNotAuthenticated    = errors.New("sign in required")
	ErrRecipientNotAllowed = errors.New("members may only message the admin team")
	ErrEmptyMessage        = errors.New("message content is required")
)

// Backend is the messaging surface of the API.
type Backend interface {
	ChatPartners(ctx context.Context) ([]model.ChatPartner, error)
	Conversation(ctx context.Context, partner string) ([]model.Message, error)
	UnreadCount(ctx context.Context) (int, error)
	SendMessage(ctx context.Context, req model.SendMessageRequest) (model.Message, error)
}

// Snapshot is the poller's latest view, handed to the update callback.
type Snapshot struct {
	Partners []model.ChatPartner
	Unread   int
}

type Channel struct {
	backend  Backend
	session  *session.Store
	interval time.Duration
	onUpdate func(Snapshot)

	mu          sync.Mutex
	issued      uint64
	applied     uint64
	latest      Snapshot
	stopPolling context.CancelFunc
}

func New(backend Backend, sessions *session.Store, onUpdate func(Snapshot)) *Channel {
	return &Channel{
		backend:  backend,
		session:  sessions,
		interval: DefaultPollInterval,
		onUpdate: onUpdate,
	}
}

// SetInterval overrides the poll cadence. Tests shorten it.
func (c *Channel) SetInterval(d time.Duration) {
	c.interval = d
}

// Start launches the poll loop. Each tick issues an independent fetch;
// a tick is never blocked by a previous slow response.
func (c *Channel) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.stopPolling != nil {
		c.stopPolling()
	}
	c.stopPolling = cancel
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.poll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				go c.poll(ctx)
			}
		}
	}()
}

// Stop halts polling. In-flight responses are discarded.
func (c *Channel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopPolling != nil {
		c.stopPolling()
		c.stopPolling = nil
	}
}

func (c *Channel) poll(ctx context.Context) {
	if _, ok := c.session.Current(); !ok {
		return
	}

	c.mu.Lock()
	c.issued++
	token := c.issued
	c.mu.Unlock()

	partners, err := c.backend.ChatPartners(ctx)
	if err != nil {
		log.Println("error polling chat partners", err)
		return
	}
	unread, err := c.backend.UnreadCount(ctx)
	if err != nil {
		log.Println("error polling unread count", err)
		return
	}

	c.apply(token, Snapshot{Partners: partners, Unread: unread})
}

// apply installs a poll result only if no newer result landed first.
func (c *Channel) apply(token uint64, snapshot Snapshot) {
	c.mu.Lock()
	if token <= c.applied {
		c.mu.Unlock()
		return
	}
	c.applied = token
	c.latest = snapshot
	callback := c.onUpdate
	c.mu.Unlock()

	if callback != nil {
		callback(snapshot)
	}
}

// Latest returns the most recent applied snapshot.
func (c *Channel) Latest() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

// ListPartners fetches the sidebar directly: the single admin entry
// for members, one entry per member ordered by recent activity for
// admins. The server builds the list; this is a pass-through with the
// session check.
func (c *Channel) ListPartners(ctx context.Context) ([]model.ChatPartner, error) {
	if _, ok := c.session.Current(); !ok {
		return nil, ErrNotAuthenticated
	}
	return c.backend.ChatPartners(ctx)
}

// ListConversation returns the thread with partner oldest first. The
// partner's messages to the viewer are marked read server-side.
func (c *Channel) ListConversation(ctx context.Context, partner string) ([]model.Message, error) {
	if _, ok := c.session.Current(); !ok {
		return nil, ErrNotAuthenticated
	}
	return c.backend.Conversation(ctx, partner)
}

// Send posts a message. Members may only address the admin team;
// the restriction is checked here before the server enforces it again.
func (c *Channel) Send(ctx context.Context, recipient, content string) (model.Message, error) {
	viewer, ok := c.session.Current()
	if !ok {
		return model.Message{}, ErrNotAuthenticated
	}
	if content == "" {
		return model.Message{}, ErrEmptyMessage
	}
	if !viewer.IsAdmin() && recipient != values.RoleAdmin {
		return model.Message{}, ErrRecipientNotAllowed
	}
	return c.backend.SendMessage(ctx, model.SendMessageRequest{
		Recipient: recipient,
		Content:   content,
	})
}
