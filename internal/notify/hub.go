package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Hub tracks websocket clients by user id and fans events out to them.
type Hub struct {
	clients map[uint]map[*Client]bool
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*Client]bool)}
}

var _ Notifier = (*Hub)(nil)

// Register adds conn for userID and starts its write pump.
func (h *Hub) Register(userID uint, conn *websocket.Conn) *Client {
	c := newClient(h, userID, conn)
	h.mu.Lock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[*Client]bool)
	}
	h.clients[userID][c] = true
	h.mu.Unlock()

	go c.writePump()
	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client registered with notification hub.")
	return c
}

// Unregister removes c and closes its send queue. Calling it twice is safe.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	clients, ok := h.clients[c.userID]
	if !ok || !clients[c] {
		h.mu.Unlock()
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
	h.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"user_id":  c.userID,
		"conn_ptr": fmt.Sprintf("%p", c.conn),
	}).Info("Client unregistered from notification hub.")
}

// Serve registers conn and blocks reading from it until the peer goes away.
func (h *Hub) Serve(userID uint, conn *websocket.Conn) {
	c := h.Register(userID, conn)
	defer h.Unregister(c)
	c.readPump()
}

// Connected returns how many live connections userID has.
func (h *Hub) Connected(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) Notify(_ context.Context, userIDs []uint, payload interface{}) {
	msg, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("Failed to encode notification payload.")
		return
	}
	h.Deliver(userIDs, msg)
}

// Deliver queues an encoded message for every connection of each user. A
// connection whose queue is full misses the message.
func (h *Hub) Deliver(userIDs []uint, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		for c := range h.clients[id] {
			select {
			case c.send <- msg:
			default:
				logrus.WithField("user_id", id).Warn("Notification queue full, dropping message.")
			}
		}
	}
}
