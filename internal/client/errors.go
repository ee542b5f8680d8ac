package client

import (
	"errors"
	"fmt"
)

var (
	// ErrTransportUnsupported means no persistent-connection transport is
	// available for the requested address.
	ErrTransportUnsupported = errors.New("persistent connection transport unsupported")
	// ErrConnectionNotReady is returned by Send outside the Open state.
	ErrConnectionNotReady = errors.New("connection not ready")
	// ErrInvalidState is returned by Connect on an instance that was already
	// used. Closed is terminal; build a new Conn to retry.
	ErrInvalidState = errors.New("connection already used")
	// ErrFallbackRequestFailed wraps every failure of the one-shot HTTP exchange.
	ErrFallbackRequestFailed = errors.New("fallback request failed")
	// ErrUnknownAction is returned by the command sender for unmapped actions.
	ErrUnknownAction = errors.New("unknown action")
)

// SendError reports a transport failure while writing a frame.
// The connection state is left untouched.
type SendError struct {
	Event string
	Err   error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send %s: %v", e.Event, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
