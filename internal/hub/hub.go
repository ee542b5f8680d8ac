package hub

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/clk-66/mrfxp/internal/protocol"
)

// Store is the data the hub answers dashboard commands from.
type Store interface {
	ListMaskedSites(ctx context.Context) ([]protocol.Site, error)
	ListSections(ctx context.Context) ([]protocol.Section, error)
	AddSection(ctx context.Context, name string) (*protocol.Section, error)
}

// Options tune per-connection behaviour.
type Options struct {
	// Rate is the sustained number of commands per second a connection may
	// send; zero or less disables the limit. Burst is the bucket size.
	Rate  float64
	Burst int
}

// Hub accepts dashboard connections and answers their commands.
//
// Registration and unregistration happen on the single Run() goroutine, so
// clients needs no lock. Replies go only to the connection that asked.
type Hub struct {
	upgrader websocket.Upgrader
	store    Store
	limit    rate.Limit
	burst    int

	// Event-loop fields, only touched inside Run().
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	stopped    chan struct{}
}

func NewHub(domain string, store Store, opts Options) *Hub {
	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	h := &Hub{
		store:      store,
		limit:      limit,
		burst:      opts.Burst,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     makeCheckOrigin(domain),
	}
	return h
}

// makeCheckOrigin returns a CheckOrigin function that allows upgrades only
// from origins whose hostname matches domain.
//
// Rules:
//   - Empty domain → allow all origins and log a one-time startup warning.
//   - Matching domain hostname → allowed.
//   - localhost / 127.0.0.1 → always allowed for local dashboards.
//   - Missing Origin header → allowed (non-browser clients such as the CLI).
//   - Anything else → rejected with a Warn-level log entry.
func makeCheckOrigin(domain string) func(*http.Request) bool {
	if domain == "" {
		slog.Warn("MRFXP_DOMAIN is not set, websocket origin check is disabled")
		return func(r *http.Request) bool { return true }
	}

	allowed := normaliseHost(domain)

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil {
			slog.Warn("ws upgrade rejected: malformed Origin header", "origin", origin)
			return false
		}

		h := normaliseHost(u.Hostname())
		if h == allowed || h == "localhost" || h == "127.0.0.1" {
			return true
		}

		slog.Warn("ws upgrade rejected: origin not allowed",
			"origin", origin,
			"allowed_domain", allowed,
		)
		return false
	}
}

// normaliseHost strips an optional scheme and port from a host string and
// lowercases the result.
func normaliseHost(h string) string {
	h = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(h), "https://"), "http://")
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	return h
}

// Run is the hub's event loop. Call once in a goroutine; it returns when ctx
// is done, after closing every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			slog.Info("ws connected", "conn_id", c.ID, "total", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				slog.Info("ws disconnected", "conn_id", c.ID, "total", len(h.clients))
			}

		case <-ctx.Done():
			// readPump may still be answering, so the send channels stay
			// open; closing the sockets ends both pumps.
			for c := range h.clients {
				delete(h.clients, c)
				c.conn.Close()
			}
			slog.Info("hub stopped")
			return
		}
	}
}

// ServeWS upgrades an HTTP connection and starts its pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	c := newClient(h, conn, uuid.NewString())
	select {
	case h.register <- c:
	case <-h.stopped:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}
