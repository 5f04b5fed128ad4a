package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tahcohcat/studyquest/internal/logger"
	"github.com/tahcohcat/studyquest/internal/metrics"
	"github.com/tahcohcat/studyquest/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

type message struct {
	userID string // empty for broadcast
	data   []byte
}

// Hub fans notifications out to connected clients. A notification with a
// UserID goes to that user's connections only; one without goes to all.
type Hub struct {
	clients    map[*Client]bool
	outbound   chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	upgrader   websocket.Upgrader
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// NewHub builds a hub. checkOrigin may be nil to accept any origin.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		outbound:   make(chan message, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		upgrader:   websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			metrics.WebsocketClients.Set(float64(len(h.clients)))
			logger.New().With("user_id", client.userID).With("clients", len(h.clients)).Debug("Client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				logger.New().With("user_id", client.userID).With("clients", len(h.clients)).Debug("Client disconnected")
			}

		case msg := <-h.outbound:
			for client := range h.clients {
				if msg.userID != "" && client.userID != msg.userID {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					h.drop(client)
				}
			}

		case <-h.done:
			for client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	metrics.WebsocketClients.Set(float64(len(h.clients)))
}

// Stop ends Run and disconnects every client.
func (h *Hub) Stop() {
	close(h.done)
}

// Publish queues n for delivery. It never blocks: when the queue is full the
// notification is dropped.
func (h *Hub) Publish(n models.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		logger.New().WithError(err).Warn("Failed to encode notification")
		return
	}
	select {
	case h.outbound <- message{userID: n.UserID, data: data}:
	default:
		logger.New().With("kind", n.Kind).Warn("Notification queue full, dropping")
	}
}

// ServeWS upgrades the request and attaches the connection to userID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.New().WithError(err).Warn("WebSocket upgrade error")
		return
	}

	client := &Client{hub: h, conn: conn, userID: userID, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.New().WithError(err).Warn("WebSocket error")
			}
			break
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
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.New().WithError(err).Warn("WebSocket write error")
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
