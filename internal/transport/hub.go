package transport

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Conn wraps one client WebSocket connection. Reads happen in readPump;
// writes are serialized through a buffered channel drained by writePump,
// so no two goroutines ever call ws.WriteMessage concurrently.
type Conn struct {
	ws     *websocket.Conn
	send   chan outboundEnvelope
	logger *log.Logger

	mu       sync.RWMutex
	gameID   string
	username string

	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, logger *log.Logger) *Conn {
	return &Conn{
		ws:     ws,
		send:   make(chan outboundEnvelope, 64),
		logger: logger,
	}
}

// SetIdentity associates this connection with a room (game id) and a
// username, once the client has created or joined a lobby.
func (c *Conn) SetIdentity(gameID, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID, c.username = gameID, username
}

func (c *Conn) identity() (gameID, username string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID, c.username
}

// Emit queues an outbound event for this connection alone. It never blocks:
// a full buffer closes the connection rather than stall the dispatcher.
func (c *Conn) Emit(event string, payload any) {
	select {
	case c.send <- outboundEnvelope{Event: event, Payload: payload}:
	default:
		c.logger.Warn("send buffer full, dropping connection", "username", c.username)
		c.Close()
	}
}

// Close tears down the connection idempotently.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.ws.Close()
	})
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.ws.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Conn) readPump(handle func(*Conn, inboundEnvelope)) {
	defer c.Close()
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var env inboundEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("malformed inbound message", "error", err)
			continue
		}
		handle(c, env)
	}
}

// Hub fans outbound events out to every connection currently in a room
// (room == game id), per the "rooms" transport primitive in the event
// catalogue.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Conn // gameID -> username -> conn
}

func newHub() *Hub {
	return &Hub{rooms: map[string]map[string]*Conn{}}
}

// Join adds conn to a room under username, replacing any prior connection
// for that username.
func (h *Hub) Join(gameID, username string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[gameID]
	if !ok {
		room = map[string]*Conn{}
		h.rooms[gameID] = room
	}
	room[username] = conn
}

// Leave removes username from a room, emitting a disconnect notice to the
// rest of the room.
func (h *Hub) Leave(gameID, username string) {
	h.mu.Lock()
	room, ok := h.rooms[gameID]
	if ok {
		delete(room, username)
		if len(room) == 0 {
			delete(h.rooms, gameID)
		}
	}
	h.mu.Unlock()
	if ok {
		h.Broadcast(gameID, eventDisconnect, map[string]string{"username": username})
	}
}

// Broadcast queues an event for every connection currently in a room. Best
// effort: a slow or dead peer never blocks or rolls back delivery to
// everyone else.
func (h *Hub) Broadcast(gameID string, event string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conn := range h.rooms[gameID] {
		conn.Emit(event, payload)
	}
}

// Send queues an event for a single connection in a room, by username.
func (h *Hub) Send(gameID, username string, event string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if conn, ok := h.rooms[gameID][username]; ok {
		conn.Emit(event, payload)
	}
}
