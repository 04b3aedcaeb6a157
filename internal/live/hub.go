package live

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

type Message struct {
	Type         string    `json:"type"`
	TournamentID uuid.UUID `json:"tournament_id"`
	Payload      any       `json:"payload"`
}

// Hub keeps one room of websocket clients per tournament.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
	}
}

// Run processes registrations until ctx is done, then drops every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[client.room]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[client.room] = room
			}
			room[client] = struct{}{}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for _, room := range h.rooms {
				for client := range room {
					h.remove(client)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(client *Client) {
	room, ok := h.rooms[client.room]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.rooms, client.room)
	}
}

// Subscribers returns how many clients watch the tournament.
func (h *Hub) Subscribers(tournamentID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[tournamentID])
}

// Broadcast sends an event to every client of the tournament room. Clients
// whose buffer is full miss the message.
func (h *Hub) Broadcast(tournamentID uuid.UUID, event string, data any) {
	msg, err := sonic.Marshal(Message{Type: event, TournamentID: tournamentID, Payload: data})
	if err != nil {
		zap.L().Error("failed to encode live message", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[tournamentID] {
		select {
		case client.send <- msg:
		default:
			zap.L().Warn("live client too slow, dropping message",
				zap.String("tournament_id", tournamentID.String()),
				zap.String("event", event),
			)
		}
	}
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room uuid.UUID
}

// Attach registers a connection in the tournament room and starts its pumps.
func (h *Hub) Attach(conn *websocket.Conn, tournamentID uuid.UUID) {
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		room: tournamentID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only watches for the peer going away; clients never send data.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Warn("live client closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
