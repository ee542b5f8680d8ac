package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/clk-66/mrfxp/internal/protocol"
)

// State is the lifecycle position of a Conn.
type State int32

const (
	Disconnected State = iota
	Connecting
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Transport is a single established message channel. *websocket.Conn
// satisfies it.
type Transport interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer establishes a Transport to address.
type Dialer interface {
	Dial(ctx context.Context, address string) (Transport, error)
}

// WebSocketDialer dials with gorilla/websocket.
type WebSocketDialer struct {
	Dialer *websocket.Dialer
}

func (d WebSocketDialer) Dial(ctx context.Context, address string) (Transport, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, address, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", address, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	return conn, nil
}

// Sink receives every decoded inbound envelope. *Router is the usual Sink.
type Sink interface {
	Route(env protocol.Envelope) bool
}

// Options tune a Conn. The zero value is usable.
type Options struct {
	Dialer   Dialer
	Notifier Notifier
	Logger   *slog.Logger

	// Greeting, when set, is sent right after the connection opens.
	Greeting *protocol.Envelope

	// OnClose runs once when the connection reaches Closed, with the error
	// that ended it (nil on explicit Close).
	OnClose func(err error)
}

// Conn owns the single persistent connection to the service.
//
// States move Disconnected → Connecting → Open → Closed and never back.
// Inbound envelopes are routed on the read goroutine one at a time, in
// arrival order. Outbound sends are serialized by writeMu. There is no
// reconnection and no outbound queue.
type Conn struct {
	sink     Sink
	dialer   Dialer
	notifier Notifier
	logger   *slog.Logger
	greeting *protocol.Envelope
	onClose  func(err error)

	mu        sync.Mutex
	state     State
	transport Transport
	closeErr  error

	writeMu sync.Mutex
	done    chan struct{}
}

func NewConn(sink Sink, opts Options) *Conn {
	if opts.Dialer == nil {
		opts.Dialer = WebSocketDialer{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{Logger: opts.Logger}
	}
	return &Conn{
		sink:     sink,
		dialer:   opts.Dialer,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		greeting: opts.Greeting,
		onClose:  opts.OnClose,
		done:     make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the connection reaches Closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that closed the connection, if any.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeErr
}

// Connect dials address and, on success, starts routing inbound frames.
// It blocks until the connection is Open or has failed. A failed dial leaves
// the Conn Closed.
func (c *Conn) Connect(ctx context.Context, address string) error {
	c.mu.Lock()
	if c.state != Disconnected {
		c.mu.Unlock()
		return ErrInvalidState
	}
	c.state = Connecting
	c.mu.Unlock()

	if err := checkTransport(c.dialer, address); err != nil {
		c.notifier.Notify("Sorry, this client cannot open a persistent connection to " + address)
		c.finish(nil, err)
		return err
	}

	c.logger.Debug("ws connecting", "addr", address)
	t, err := c.dialer.Dial(ctx, address)
	if err != nil {
		c.finish(nil, err)
		return err
	}

	c.mu.Lock()
	if c.state != Connecting {
		// Closed while dialing.
		c.mu.Unlock()
		t.Close()
		return ErrConnectionNotReady
	}
	c.transport = t
	c.state = Open
	c.mu.Unlock()

	c.logger.Info("ws connected", "addr", address)
	go c.readLoop(t)

	if c.greeting != nil {
		if err := c.Send(*c.greeting); err != nil {
			c.logger.Warn("ws greeting failed", "err", err)
		}
	}
	return nil
}

// Send transmits env. Outside Open it fails with ErrConnectionNotReady without
// touching the transport. A write failure is returned as *SendError and does
// not change the state; only a close event does.
func (c *Conn) Send(env protocol.Envelope) error {
	c.mu.Lock()
	t, state := c.transport, c.state
	c.mu.Unlock()

	if state != Open {
		c.notifier.Notify(fmt.Sprintf("error sending %s, connection is %s", env.Event, state))
		return fmt.Errorf("send %s: %w", env.Event, ErrConnectionNotReady)
	}

	frame, err := env.Marshal()
	if err != nil {
		return &SendError{Event: env.Event, Err: err}
	}

	c.writeMu.Lock()
	err = t.WriteMessage(websocket.TextMessage, frame)
	c.writeMu.Unlock()
	if err != nil {
		sendErr := &SendError{Event: env.Event, Err: err}
		c.notifier.Notify("ERR: " + sendErr.Error())
		return sendErr
	}
	c.logger.Debug("ws sent", "event", env.Event, "reference", env.Reference)
	return nil
}

// Close tears the connection down. It is safe to call more than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()

	if t != nil {
		c.writeMu.Lock()
		_ = t.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
	}
	c.finish(t, nil)
	return nil
}

func (c *Conn) readLoop(t Transport) {
	for {
		_, frame, err := t.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("ws read error", "err", err)
			}
			c.finish(t, err)
			return
		}

		env, err := protocol.Decode(frame)
		if err != nil {
			c.logger.Debug("ws dropped frame", "err", err)
			continue
		}
		c.sink.Route(env)
	}
}

// finish moves the connection to Closed exactly once.
func (c *Conn) finish(t Transport, cause error) {
	c.mu.Lock()
	if c.state == Closed {
		c.mu.Unlock()
		return
	}
	c.state = Closed
	if isNormalClose(cause) {
		cause = nil
	}
	c.closeErr = cause
	c.mu.Unlock()

	if t != nil {
		t.Close()
	}
	close(c.done)
	c.logger.Info("ws closed", "err", cause)
	if c.onClose != nil {
		c.onClose(cause)
	}
}

func checkTransport(d Dialer, address string) error {
	if d == nil {
		return ErrTransportUnsupported
	}
	u, err := url.Parse(address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransportUnsupported, err)
	}
	switch u.Scheme {
	case "ws", "wss":
		return nil
	}
	return fmt.Errorf("%w: scheme %q", ErrTransportUnsupported, u.Scheme)
}

func isNormalClose(err error) bool {
	if err == nil {
		return true
	}
	var ce *websocket.CloseError
	return errors.As(err, &ce) && ce.Code == websocket.CloseNormalClosure
}
