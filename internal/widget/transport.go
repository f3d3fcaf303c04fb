package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sender delivers one message to the chat endpoint and returns the reply.
type Sender interface {
	Send(ctx context.Context, message string) (string, error)
}

// TransportError reports a failed exchange with the chat endpoint: a
// network failure, a non-2xx status or an unusable body.
type TransportError struct {
	Op         string // "request", "status" or "decode"
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("chat transport %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("chat transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// errNoResponseField is wrapped when the reply JSON lacks a string "response".
var errNoResponseField = errors.New(`reply has no "response" string`)

type chatRequest struct {
	Message string `json:"message"`
}

type chatReply struct {
	Response *string `json:"response"`
}

// Client posts messages to a chat endpoint. It keeps no state between
// calls and never retries.
type Client struct {
	endpoint string
	client   *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a client for the given endpoint URL.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		client:   &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL messages are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// Send posts {"message": message} and returns the reply's "response" field.
// Every failure is a *TransportError.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", &TransportError{Op: "request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Op: "decode", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{
			Op:         "status",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP error: %s", http.StatusText(resp.StatusCode)),
		}
	}

	var reply chatReply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return "", &TransportError{Op: "decode", StatusCode: resp.StatusCode, Err: err}
	}
	if reply.Response == nil {
		return "", &TransportError{Op: "decode", StatusCode: resp.StatusCode, Err: errNoResponseField}
	}
	return *reply.Response, nil
}
