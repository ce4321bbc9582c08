package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub tracks open connections per user id so notifications can be pushed to
// every session a user has open.
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[*websocket.Conn]*Client
}

func NewHub() *Hub {
	return &Hub{
		users: make(map[string]map[*websocket.Conn]*Client),
	}
}

func (h *Hub) RegisterUser(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.users[userID][conn] = client

	go h.readPump(userID, conn)
	go h.writePump(client)
}

func (h *Hub) UnregisterUser(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.users[userID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.users, userID)
		}
	}
}

// BroadcastToUser delivers to every open connection of one user; slow
// consumers are skipped rather than blocked on.
func (h *Hub) BroadcastToUser(userID string, messageType int, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.users[userID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// SendBadgeUpdate pushes the unread notification count to one user.
func (h *Hub) SendBadgeUpdate(userID string, unread int64) {
	payload := map[string]interface{}{
		"type":   "badge_update",
		"unread": unread,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	h.BroadcastToUser(userID, websocket.TextMessage, data)
}

// Stats reports hub occupancy for the health endpoint.
func (h *Hub) Stats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	connections := 0
	for _, clients := range h.users {
		connections += len(clients)
	}
	return map[string]interface{}{
		"users":       len(h.users),
		"connections": connections,
	}
}

func (h *Hub) readPump(userID string, conn *websocket.Conn) {
	defer h.UnregisterUser(userID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(client *Client) {
	defer func() {
		client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
		client.Conn.Close()
	}()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
