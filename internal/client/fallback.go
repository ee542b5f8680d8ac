package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Requester performs one-shot JSON exchanges over plain HTTP, for cases where
// push delivery is unnecessary or unavailable. It shares nothing with Conn.
type Requester struct {
	http *http.Client
}

// NewRequester returns a Requester using hc, or a client without a timeout
// when hc is nil.
func NewRequester(hc *http.Client) *Requester {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Requester{http: hc}
}

// RequestOnce POSTs body as JSON to url and returns the parsed JSON response.
// Every failure wraps ErrFallbackRequestFailed.
func (r *Requester) RequestOnce(ctx context.Context, url string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode body: %v", ErrFallbackRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFallbackRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: POST %s: %v", ErrFallbackRequestFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil, fmt.Errorf("%w: POST %s: status %d", ErrFallbackRequestFailed, url, resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrFallbackRequestFailed, err)
	}
	return raw, nil
}

// RequestInto is RequestOnce followed by unmarshalling the response into out.
func (r *Requester) RequestInto(ctx context.Context, url string, body, out any) error {
	raw, err := r.RequestOnce(ctx, url, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrFallbackRequestFailed, err)
	}
	return nil
}
