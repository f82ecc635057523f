// Package push delivers notifications through the Expo push HTTP API.
// The provider contract is a single JSON POST endpoint, so this client
// is a thin net/http wrapper: validate tokens, chunk them to the
// provider's batch limit, POST each chunk, count accepted tickets.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is Expo's push send endpoint.
const DefaultEndpoint = "https://exp.host/--/api/v2/push/send"

// ChunkSize is the provider-imposed maximum number of messages per request.
const ChunkSize = 100

// Client sends push notifications in batches.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// NewClient returns a Client for the given endpoint; an empty endpoint
// selects the provider default.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
	}
}

// message is the request body element accepted by the provider. A
// single element may carry multiple recipient tokens.
type message struct {
	To    []string          `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// ticketResponse is the relevant slice of the provider's reply. Each
// ticket reports "ok" or "error" per recipient.
type ticketResponse struct {
	Data []struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"data"`
}

// IsValidToken reports whether a token is syntactically an Expo push
// token. Anything else would be rejected by the provider, so it is
// filtered out before batching.
func IsValidToken(token string) bool {
	token = strings.TrimSpace(token)
	if !strings.HasSuffix(token, "]") {
		return false
	}
	var inner string
	switch {
	case strings.HasPrefix(token, "ExponentPushToken["):
		inner = token[len("ExponentPushToken[") : len(token)-1]
	case strings.HasPrefix(token, "ExpoPushToken["):
		inner = token[len("ExpoPushToken[") : len(token)-1]
	default:
		return false
	}
	return inner != ""
}

// FilterValid returns the subset of tokens that pass IsValidToken,
// trimmed to the exact form the provider accepts.
func FilterValid(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if IsValidToken(t) {
			out = append(out, t)
		}
	}
	return out
}

// Chunk splits tokens into slices of at most size elements.
func Chunk(tokens []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	var out [][]string
	for len(tokens) > size {
		out = append(out, tokens[:size])
		tokens = tokens[size:]
	}
	if len(tokens) > 0 {
		out = append(out, tokens)
	}
	return out
}

// sendChunk posts one batch and returns the number of tickets the
// provider accepted.
func (c *Client) sendChunk(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, error) {
	payload, err := json.Marshal(message{To: tokens, Title: title, Body: body, Data: data})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("push provider returned status %d", resp.StatusCode)
	}
	var tickets ticketResponse
	if err := json.NewDecoder(resp.Body).Decode(&tickets); err != nil {
		return 0, fmt.Errorf("decode tickets: %w", err)
	}
	accepted := 0
	for _, t := range tickets.Data {
		if t.Status == "ok" {
			accepted++
		}
	}
	return accepted, nil
}

// Send fans one notification out to all valid tokens. A failed chunk is
// logged and skipped; remaining chunks are still attempted. It returns
// the number of accepted tickets and the number of valid tokens targeted.
func (c *Client) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) (sent, total int) {
	valid := FilterValid(tokens)
	total = len(valid)
	for _, chunk := range Chunk(valid, ChunkSize) {
		n, err := c.sendChunk(ctx, chunk, title, body, data)
		if err != nil {
			log.Printf("push: chunk of %d failed: %v", len(chunk), err)
			continue
		}
		sent += n
	}
	return sent, total
}
