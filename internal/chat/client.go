// Package chat implements the widget's message-send protocol against
// the conversation endpoints served behind the edge router.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"flexbo-edge/internal/models"
)

// ApologyMessage is appended to the transcript whenever a send fails;
// no failure leaves the transcript silently incomplete.
const ApologyMessage = "Sorry, something went wrong. Please try again later."

var ErrEmptyMessage = errors.New("empty message")

// Client sends user messages and maintains conversation continuity.
// Sends are serialized: a second Send blocks until the one in flight
// finishes, so two code paths can never interleave thread-id adoption.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	store   ThreadStore
	log     zerolog.Logger

	mu         sync.Mutex
	transcript []models.Message
}

func NewClient(baseURL, apiKey string, store ThreadStore, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{},
		store:   store,
		log:     log,
	}
}

// Transcript returns a copy of the conversation so far. The underlying
// list is append-only.
func (c *Client) Transcript() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Client) append(role, content string) {
	c.transcript = append(c.transcript, models.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// Send posts one user message and returns the bot reply. If the backend
// rejects the stored thread id (not-found or server error class) the
// request is reissued exactly once with a null thread id. On failure
// the stored id is discarded and an apology is appended instead.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if message == "" {
		return "", ErrEmptyMessage
	}

	c.append(models.RoleUser, message)

	var threadID *int64
	if id, ok := c.store.Load(); ok {
		threadID = &id
	}

	reply, err := c.postChat(ctx, message, threadID)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.retryable() {
			// Start a fresh conversation, exactly one retry.
			c.log.Warn().Int("status", se.status).Msg("thread rejected, retrying with fresh thread")
			reply, err = c.postChat(ctx, message, nil)
		}
	}

	if err != nil {
		c.store.Clear()
		c.append(models.RoleBot, ApologyMessage)
		return "", err
	}

	// The returned id is authoritative even when it differs from the
	// one we sent.
	if err := c.store.Save(reply.ThreadID); err != nil {
		c.log.Warn().Err(err).Msg("failed to persist thread id")
	}
	c.append(models.RoleBot, reply.Response)
	return reply.Response, nil
}

// Reset forgets the stored conversation.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Clear()
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.status, e.body)
}

func (e *statusError) retryable() bool {
	return e.status == http.StatusNotFound || e.status >= 500
}

func (c *Client) postChat(ctx context.Context, message string, threadID *int64) (*models.ChatResponse, error) {
	payload, err := json.Marshal(models.ChatRequest{Message: message, ThreadID: threadID})
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{status: resp.StatusCode, body: string(raw)}
	}

	var out models.ChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	return &out, nil
}
