package ws

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"memory_party/internal/logger"
	"memory_party/internal/metrics"
	"memory_party/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Client is one websocket connection. Its ID doubles as the player id.
type Client struct {
	ID string

	conn     *websocket.Conn
	send     chan []byte
	hub      *Hub
	sessions Sessions
	limiter  *rate.Limiter
	log      *slog.Logger
}

func NewClient(conn *websocket.Conn, hub *Hub, sessions Sessions, limit rate.Limit, burst int) *Client {
	id := uuid.NewString()
	return &Client{
		ID:       id,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		hub:      hub,
		sessions: sessions,
		limiter:  rate.NewLimiter(limit, burst),
		log:      logger.With("player", id),
	}
}

// Run registers the client, greets it and serves it until the socket closes.
func (c *Client) Run() {
	c.hub.Register(c)
	go c.writePump()

	c.hub.Send(c.ID, session.Event{Type: MsgReady, Payload: ReadyPayload{PlayerID: c.ID}})
	c.log.Debug("client connected", "remote", c.conn.RemoteAddr().String())

	c.readPump()
}

// read
func (c *Client) readPump() {
	defer c.disconnect()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("read error", "error", err)
			}
			return
		}
		if !c.limiter.Allow() {
			metrics.MessagesDropped.WithLabelValues("rate_limited").Inc()
			continue
		}
		if err := Dispatch(c.sessions, c.ID, msg); err != nil {
			if errors.Is(err, ErrMalformedFrame) || errors.Is(err, ErrUnknownType) {
				c.log.Warn("ignoring client message", "error", err)
			} else {
				c.log.Debug("client action rejected", "error", err)
			}
		}
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// disconnect leaves every room before the hub forgets the connection.
func (c *Client) disconnect() {
	c.sessions.Disconnect(c.ID)
	c.hub.Unregister(c)
	_ = c.conn.Close()
	c.log.Debug("client disconnected")
}
