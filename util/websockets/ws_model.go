package websockets

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Event types pushed to subscribed clients. Polling remains the
// canonical update path; the hub is a best-effort fast path.
const (
	EventReportApproved = "report-approved"
	EventAlertCreated   = "alert-created"
	EventAlertDeleted   = "alert-deleted"
	EventDirectMessage  = "direct-message"

	MsgTypeSubscribe = "subscribe"
)

// Message is the wire envelope exchanged with clients.
type Message struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Receiver string `json:"receiver,omitempty"`
	Content  string `json:"content,omitempty"`
}

// Client is one subscribed connection.
type Client struct {
	Conn     *websocket.Conn
	Username string
}

type DirectMessage struct {
	Receiver string
	Message  string
}

type Hub struct {
	mu         sync.Mutex
	clients    map[*websocket.Conn]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *websocket.Conn
	send       chan DirectMessage
}
