package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"flexbo-edge/internal/models"
)

// ErrPollTimeout is returned when no bot reply appears within the
// configured attempt budget.
var ErrPollTimeout = errors.New("no bot reply before poll deadline")

// PollConfig bounds the create-then-poll variant. The original widget
// polled every two seconds with no upper bound; a deadline is required
// here.
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

func (p PollConfig) withDefaults() PollConfig {
	if p.Interval <= 0 {
		p.Interval = 2 * time.Second
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 30
	}
	return p
}

// CreateAndPoll submits the message to the thread-creation endpoint,
// then polls the messages listing until an entry tagged as a bot reply
// appears. Poll failures are skipped and retried; attempts back off up
// to four times the base interval.
func (c *Client) CreateAndPoll(ctx context.Context, message string, cfg PollConfig) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if message == "" {
		return "", ErrEmptyMessage
	}
	cfg = cfg.withDefaults()

	c.append(models.RoleUser, message)

	threadID, err := c.createThread(ctx, message)
	if err != nil {
		c.append(models.RoleBot, ApologyMessage)
		return "", err
	}

	interval := cfg.Interval
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}

		if interval < 4*cfg.Interval {
			interval += interval / 2
		}

		reply, ok, err := c.fetchBotReply(ctx, threadID)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue // try again
		}
		if ok {
			c.append(models.RoleBot, reply)
			return reply, nil
		}
	}

	c.append(models.RoleBot, ApologyMessage)
	return "", ErrPollTimeout
}

func (c *Client) createThread(ctx context.Context, message string) (int64, error) {
	payload, err := json.Marshal(models.CreateThreadRequest{Content: message})
	if err != nil {
		return 0, fmt.Errorf("encode thread request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/thread", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build thread request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("create thread: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("create thread failed (%d)", resp.StatusCode)
	}

	var out models.CreateThreadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode thread response: %w", err)
	}
	return out.ID, nil
}

func (c *Client) fetchBotReply(ctx context.Context, threadID int64) (string, bool, error) {
	url := fmt.Sprintf("%s/api/thread/%d/prompt/messages", c.baseURL, threadID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf("build messages request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("list messages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("list messages failed (%d)", resp.StatusCode)
	}

	var out models.ThreadMessagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, fmt.Errorf("decode messages: %w", err)
	}

	for _, m := range out.Messages {
		if m.Type == models.RoleBot {
			return m.Content, true, nil
		}
	}
	return "", false, nil
}
