// Package assistant is the widget-side counterpart of the assistant
// endpoints: a thin HTTP client plus the conversation state machine the chat
// widgets drive.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnavailable maps the server's 503: the assistant has no provider
	// configured. Nothing was streamed.
	ErrUnavailable = errors.New("assistant unavailable")
)

// Turn is one prior exchange line sent back to the server as context.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProductStub is the card-sized product reference the structured assistant
// returns. Every stub was resolved against the live catalog server-side.
type ProductStub struct {
	Id    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Price int64     `json:"price"`
	Image *string   `json:"image"`
}

// AskResult is the structured assistant's single payload.
type AskResult struct {
	Success     bool          `json:"success"`
	Answer      string        `json:"answer"`
	Products    []ProductStub `json:"products,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// Transport is what the Session drives. Client is the production
// implementation; tests substitute their own.
type Transport interface {
	Stream(ctx context.Context, turns []Turn, onFragment func(string)) error
	Ask(ctx context.Context, question string) (*AskResult, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient points at the API root, e.g. "http://localhost:3000/api".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// No overall timeout: the streaming body is open-ended and the
			// server enforces its own duration cap.
			Timeout: 0,
		},
	}
}

// Stream posts the conversation and reads the raw fragment body until EOF,
// invoking onFragment once per decoded chunk. A clean EOF is success; any
// read error after the first byte leaves already-delivered fragments intact.
func (c *Client) Stream(ctx context.Context, turns []Turn, onFragment func(string)) error {
	payload, err := json.Marshal(map[string]interface{}{"messages": turns})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assistant/v1/stream", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return ErrUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream request failed with status %d", resp.StatusCode)
	}

	// Chunk boundaries are arbitrary, so a multi-byte rune can be split
	// across reads. The decoder holds back the trailing partial rune.
	var decoder utf8Decoder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if text := decoder.Push(buf[:n]); text != "" {
				onFragment(text)
			}
		}
		if err == io.EOF {
			if text := decoder.Flush(); text != "" {
				onFragment(text)
			}
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Ask posts one question to the structured assistant.
func (c *Client) Ask(ctx context.Context, question string) (*AskResult, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assistant/v1/ask", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Any decodable body counts; the success flag decides. An undecodable or
	// empty body is a failed exchange.
	var result AskResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode ask response: %w", err)
	}
	return &result, nil
}

// helper for widgets that need their own deadline around Ask
func (c *Client) AskWithTimeout(question string, timeout time.Duration) (*AskResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.Ask(ctx, question)
}
