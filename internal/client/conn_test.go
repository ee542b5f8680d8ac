package client

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clk-66/mrfxp/internal/protocol"
)

func openConn(t *testing.T, table *Table, opts Options) (*Conn, *fakeTransport, *recordingNotifier) {
	t.Helper()
	transport := newFakeTransport()
	notifier := &recordingNotifier{}
	opts.Dialer = &fakeDialer{transport: transport}
	opts.Notifier = notifier
	opts.Logger = testLogger()

	conn := NewConn(NewRouter(table, testLogger()), opts)
	require.NoError(t, conn.Connect(t.Context(), "ws://localhost:8888/mrfxp/ws"))
	require.Equal(t, Open, conn.State())
	t.Cleanup(func() { conn.Close() })
	return conn, transport, notifier
}

func TestConn_InitialStateDisconnected(t *testing.T) {
	conn := NewConn(NewRouter(NewTable(), nil), Options{Dialer: &fakeDialer{}})
	assert.Equal(t, Disconnected, conn.State())
}

func TestConn_SendWhileDisconnected(t *testing.T) {
	transport := newFakeTransport()
	notifier := &recordingNotifier{}
	conn := NewConn(NewRouter(NewTable(), testLogger()), Options{
		Dialer:   &fakeDialer{transport: transport},
		Notifier: notifier,
		Logger:   testLogger(),
	})

	env, err := Build(ActionAddSection, protocol.AddSectionData{Name: "x"})
	require.NoError(t, err)

	err = conn.Send(env)
	assert.ErrorIs(t, err, ErrConnectionNotReady)
	assert.Empty(t, transport.frames())
	assert.Equal(t, 1, notifier.count())
	assert.Equal(t, Disconnected, conn.State())
}

func TestConn_SendWhileClosed(t *testing.T) {
	conn, transport, _ := openConn(t, NewTable(), Options{})
	require.NoError(t, conn.Close())
	assert.Equal(t, Closed, conn.State())

	err := conn.Send(protocol.Envelope{Event: protocol.EventGetSites})
	assert.ErrorIs(t, err, ErrConnectionNotReady)
	assert.Empty(t, transport.frames())
}

func TestConn_SendWhileOpen(t *testing.T) {
	conn, transport, notifier := openConn(t, NewTable(), Options{})

	env, err := Build(ActionOpenSites, nil)
	require.NoError(t, err)
	require.NoError(t, conn.Send(env))

	frames := transport.frames()
	require.Len(t, frames, 1)
	assert.JSONEq(t, `{"Event":"GetSites","Reference":"InitSitesPage","Data":{}}`, frames[0])
	assert.Zero(t, notifier.count())
}

func TestConn_SendTransportErrorKeepsState(t *testing.T) {
	conn, transport, notifier := openConn(t, NewTable(), Options{})
	transport.failWrites(errBrokenPipe)

	err := conn.Send(protocol.Envelope{Event: protocol.EventGetSections})
	var sendErr *SendError
	require.True(t, errors.As(err, &sendErr))
	assert.ErrorIs(t, err, errBrokenPipe)
	assert.Equal(t, protocol.EventGetSections, sendErr.Event)
	assert.Equal(t, Open, conn.State())
	assert.Equal(t, 1, notifier.count())
}

func TestConn_MalformedFrameDropped(t *testing.T) {
	table := NewTable()
	delivered := make(chan json.RawMessage, 1)
	table.Register(protocol.EventSetSites, protocol.RefInitSitesPage, func(data json.RawMessage) {
		delivered <- data
	})
	conn, transport, notifier := openConn(t, table, Options{})

	transport.deliver(`this is not json`)
	transport.deliver(`{"Reference":"InitSitesPage"}`)
	transport.deliver(`{"Event":"SetSites","Reference":"InitSitesPage","Data":[]}`)

	select {
	case data := <-delivered:
		assert.JSONEq(t, `[]`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("valid frame after malformed ones was not routed")
	}
	assert.Len(t, delivered, 0)
	assert.Equal(t, Open, conn.State())
	assert.Zero(t, notifier.count())
}

func TestConn_RemoteCloseTransitionsToClosed(t *testing.T) {
	closed := make(chan error, 1)
	conn, transport, _ := openConn(t, NewTable(), Options{
		OnClose: func(err error) { closed <- err },
	})

	transport.Close()

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("connection did not close")
	}
	assert.Equal(t, Closed, conn.State())
	assert.Error(t, <-closed)
	assert.Error(t, conn.Err())
}

func TestConn_ClosedIsTerminal(t *testing.T) {
	conn, _, _ := openConn(t, NewTable(), Options{})
	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())

	err := conn.Connect(t.Context(), "ws://localhost/ws")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, Closed, conn.State())
	assert.NoError(t, conn.Err())
}

func TestConn_TransportUnsupported(t *testing.T) {
	dialer := &fakeDialer{transport: newFakeTransport()}
	notifier := &recordingNotifier{}
	conn := NewConn(NewRouter(NewTable(), testLogger()), Options{
		Dialer:   dialer,
		Notifier: notifier,
		Logger:   testLogger(),
	})

	err := conn.Connect(t.Context(), "http://localhost:8888/mrfxp/ws")
	assert.ErrorIs(t, err, ErrTransportUnsupported)
	assert.Empty(t, dialer.dialed)
	assert.Equal(t, 1, notifier.count())
	assert.Equal(t, Closed, conn.State())
}

func TestConn_DialFailure(t *testing.T) {
	dialErr := errors.New("connection refused")
	conn := NewConn(NewRouter(NewTable(), testLogger()), Options{
		Dialer: &fakeDialer{err: dialErr},
		Logger: testLogger(),
	})

	err := conn.Connect(t.Context(), "ws://localhost:1/ws")
	assert.ErrorIs(t, err, dialErr)
	assert.Equal(t, Closed, conn.State())
	assert.ErrorIs(t, conn.Err(), dialErr)
}

func TestConn_GreetingSentOnOpen(t *testing.T) {
	greeting := protocol.Envelope{Event: "Hello"}
	_, transport, _ := openConn(t, NewTable(), Options{Greeting: &greeting})

	frames := transport.frames()
	require.Len(t, frames, 1)
	assert.JSONEq(t, `{"Event":"Hello","Data":{}}`, frames[0])
}

func TestConn_NothingSentOnOpenByDefault(t *testing.T) {
	_, transport, _ := openConn(t, NewTable(), Options{})
	assert.Empty(t, transport.frames())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "connecting", Connecting.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "closed", Closed.String())
}
