package websockets

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewHub initializes the live-update hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		send:       make(chan DirectMessage),
	}
}

// Run starts the hub loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Conn] = client
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[conn]; exists {
				delete(h.clients, conn)
				conn.Close()
				log.Printf("client %s disconnected", client.Username)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for _, client := range h.clients {
				if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
					client.Conn.Close()
					delete(h.clients, client.Conn)
				}
			}
			h.mu.Unlock()

		case direct := <-h.send:
			h.mu.Lock()
			for _, client := range h.clients {
				if client.Username == direct.Receiver {
					if err := client.Conn.WriteMessage(websocket.TextMessage, []byte(direct.Message)); err != nil {
						client.Conn.Close()
						delete(h.clients, client.Conn)
					}
					break
				}
			}
			h.mu.Unlock()
		}
	}
}

// HandleConnections upgrades HTTP requests to WebSocket connections
func (h *Hub) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket Upgrade Error:", err)
		return
	}

	client := &Client{Conn: conn}
	h.register <- client

	defer func() {
		h.unregister <- conn
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			h.unregister <- conn
			break
		}

		var message Message
		if err := json.Unmarshal(msg, &message); err != nil {
			log.Println("Invalid JSON:", err)
			continue
		}

		if message.Type == MsgTypeSubscribe {
			client.Username = message.Username
		}
	}
}

// BroadcastEvent fans a domain event out to every subscribed client.
func (h *Hub) BroadcastEvent(event string, payload interface{}) {
	body, err := json.Marshal(map[string]interface{}{
		"type": event,
		"data": payload,
	})
	if err != nil {
		log.Println("error marshalling event", err)
		return
	}
	h.broadcast <- body
}

// NotifyUser pushes a direct-message notification to one user, if connected.
func (h *Hub) NotifyUser(username string, payload []byte) {
	h.send <- DirectMessage{Receiver: username, Message: string(payload)}
}
