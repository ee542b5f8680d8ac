package client

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/clk-66/mrfxp/internal/protocol"
)

// Handler applies one pushed update to the view. The payload is delivered
// exactly as received.
type Handler func(data json.RawMessage)

// Table maps (event, reference) pairs to handlers. It is filled once at
// startup, before the connection opens, and never shrinks.
type Table struct {
	mu       sync.RWMutex
	handlers map[protocol.Key]Handler
}

func NewTable() *Table {
	return &Table{handlers: make(map[protocol.Key]Handler)}
}

// Register binds handler to (event, reference). Registering the same pair
// again replaces the previous handler.
func (t *Table) Register(event, reference string, handler Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[protocol.Key{Event: event, Reference: reference}] = handler
}

// Lookup returns the handler bound to key, if any.
func (t *Table) Lookup(key protocol.Key) (Handler, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.handlers[key]
	return h, ok
}

// Keys lists the registered pairs sorted by event then reference.
func (t *Table) Keys() []protocol.Key {
	t.mu.RLock()
	keys := make([]protocol.Key, 0, len(t.handlers))
	for k := range t.handlers {
		keys = append(keys, k)
	}
	t.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Event != keys[j].Event {
			return keys[i].Event < keys[j].Event
		}
		return keys[i].Reference < keys[j].Reference
	})
	return keys
}

// Router delivers decoded envelopes to the handler registered for their key.
type Router struct {
	table  *Table
	logger *slog.Logger
}

func NewRouter(table *Table, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{table: table, logger: logger}
}

// Route invokes the matching handler synchronously and reports whether one
// was found. Envelopes nobody registered for are ignored: the service may push
// updates for pages that are not active.
func (r *Router) Route(env protocol.Envelope) bool {
	h, ok := r.table.Lookup(env.Key())
	if !ok {
		r.logger.Debug("no handler for envelope", "event", env.Event, "reference", env.Reference)
		return false
	}
	h(env.Data)
	return true
}
