package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedEnvelope is returned by Decode when a frame is not a JSON object
// or carries no Event.
var ErrMalformedEnvelope = errors.New("malformed envelope")

// Envelope is the wire format for every message on the persistent connection,
// in both directions.
//
//	{"Event":"GetSites","Reference":"InitSitesPage","Data":{}}
//
// Data is kept raw: its shape is decided by (Event, Reference) and only the
// handler registered for that pair interprets it.
type Envelope struct {
	Event     string          `json:"Event"`
	Reference string          `json:"Reference,omitempty"`
	Data      json.RawMessage `json:"Data,omitempty"`
}

// Key returns the dispatch key of the envelope.
func (e Envelope) Key() Key {
	return Key{Event: e.Event, Reference: e.Reference}
}

// Key is the compound (Event, Reference) pair handlers are registered under.
type Key struct {
	Event     string
	Reference string
}

func (k Key) String() string {
	if k.Reference == "" {
		return k.Event
	}
	return k.Event + "/" + k.Reference
}

// New builds an envelope, marshalling data into its raw payload.
// A nil data yields an empty object, matching what the dashboard sends for
// data-less commands.
func New(event, reference string, data any) (Envelope, error) {
	raw, err := marshalData(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s data: %w", event, err)
	}
	return Envelope{Event: event, Reference: reference, Data: raw}, nil
}

// Encode serializes an envelope with exactly the three wire fields.
// Reference is omitted when empty.
func Encode(event, reference string, data any) ([]byte, error) {
	env, err := New(event, reference, data)
	if err != nil {
		return nil, err
	}
	return env.Marshal()
}

// Marshal serializes an already built envelope.
func (e Envelope) Marshal() ([]byte, error) {
	if len(e.Data) == 0 {
		e.Data = emptyObject
	}
	return json.Marshal(e)
}

// Decode parses a wire frame. Payload shape is not validated.
func Decode(frame []byte) (Envelope, error) {
	trimmed := bytes.TrimSpace(frame)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Envelope{}, fmt.Errorf("%w: not a JSON object", ErrMalformedEnvelope)
	}

	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("%w: missing Event", ErrMalformedEnvelope)
	}
	return env, nil
}

// DecodeData unmarshals the envelope payload into v.
func (e Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

var emptyObject = json.RawMessage(`{}`)

func marshalData(data any) (json.RawMessage, error) {
	switch d := data.(type) {
	case nil:
		return emptyObject, nil
	case json.RawMessage:
		if len(d) == 0 {
			return emptyObject, nil
		}
		return d, nil
	}
	return json.Marshal(data)
}
