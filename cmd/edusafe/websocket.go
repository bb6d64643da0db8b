package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ummeeayz/edusafe-app/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Local UI only.
		return true
	},
}

// Invalidation signals pushed to connected UIs. The payload never
// carries entity data; clients refetch what they display.
const (
	EventDocumentsChanged = "documents.changed"
	EventSyncCompleted    = "sync.completed"
	EventStorageChanged   = "storage.changed"
)

// WSEnvelope wraps every pushed message.
type WSEnvelope struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// WSClient is one connected UI.
type WSClient struct {
	conn *websocket.Conn
	send chan []byte
	hub  *WSHub
}

// WSHub fans invalidation signals out to connected clients. It
// implements the core's Notifier so services never see the transport.
type WSHub struct {
	clients    map[*WSClient]bool
	broadcast  chan []byte
	register   chan *WSClient
	unregister chan *WSClient
	mu         sync.RWMutex
}

// NewWSHub creates a hub and starts its dispatch loop.
func NewWSHub() *WSHub {
	hub := &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
	go hub.run()
	return hub
}

func (h *WSHub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logging.Debug("ws client connected", map[string]interface{}{"total": total})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logging.Debug("ws client disconnected", map[string]interface{}{"total": total})

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop the connection.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes an envelope to every connected client.
func (h *WSHub) Broadcast(messageType string, data map[string]interface{}) {
	envelope := WSEnvelope{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		logging.Error("failed to marshal ws message", err)
		return
	}

	h.broadcast <- bytes
}

// DocumentsChanged implements notify.Notifier.
func (h *WSHub) DocumentsChanged() {
	h.Broadcast(EventDocumentsChanged, nil)
}

// SyncCompleted implements notify.Notifier.
func (h *WSHub) SyncCompleted(syncedCount int) {
	h.Broadcast(EventSyncCompleted, map[string]interface{}{
		"synced_count": syncedCount,
	})
}

// StorageChanged implements notify.Notifier.
func (h *WSHub) StorageChanged() {
	h.Broadcast(EventStorageChanged, nil)
}

func (c *WSClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Clients only listen; inbound payloads are discarded.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Debug("ws read error", map[string]interface{}{"error": err.Error()})
			}
			break
		}
	}
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// HandleWebSocket upgrades connections and registers them with the hub.
func HandleWebSocket(hub *WSHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Error("ws upgrade failed", err)
			return
		}

		client := &WSClient{
			conn: conn,
			send: make(chan []byte, 256),
			hub:  hub,
		}

		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}
