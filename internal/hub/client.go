package hub

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/clk-66/mrfxp/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client represents a single dashboard connection.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	ID      string
}

func newClient(hub *Hub, conn *websocket.Conn, id string) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		limiter: rate.NewLimiter(hub.limit, hub.burst),
		ID:      id,
	}
}

// readPump reads commands and answers them in arrival order.
// Each client runs exactly one readPump goroutine.
func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				slog.Warn("ws read error", "conn_id", c.ID, "err", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

// writePump pumps queued frames to the connection.
// Each client runs exactly one writePump goroutine.
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
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.hub.stopped:
			return
		}
	}
}

// sendEnvelope marshals an envelope and queues it for delivery.
// A client whose buffer is full is disconnected; readPump then unregisters it.
func (c *Client) sendEnvelope(env protocol.Envelope) {
	data, err := env.Marshal()
	if err != nil {
		slog.Error("marshal envelope", "event", env.Event, "err", err)
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("ws send buffer full, dropping connection", "conn_id", c.ID)
		c.conn.Close()
	}
}
