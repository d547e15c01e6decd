// Package pushover pushes reminders and replies to a phone through the
// Pushover messages API.
package pushover

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"voice-assistant/internal/infra"
)

const DefaultURL = "https://api.pushover.net/1/messages.json"

// Pushover caps message bodies at 1024 characters.
const maxMessageRunes = 1024

type Client struct {
	token      string
	userKey    string
	title      string
	priority   int
	endpoint   string
	httpClient *http.Client
	retry      infra.RetryConfig
}

type Option func(*Client)

// WithPriority sets the Pushover priority, from -2 (silent) to 1 (high).
// Emergency priority needs retry/expire parameters and is not supported.
func WithPriority(p int) Option {
	return func(c *Client) {
		c.priority = min(max(p, -2), 1)
	}
}

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

func NewClient(token, userKey, title string, opts ...Option) *Client {
	if title == "" {
		title = "Voice Assistant"
	}
	c := &Client{
		token:      token,
		userKey:    userKey,
		title:      title,
		endpoint:   DefaultURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      infra.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientWithURL is NewClient pointed at another endpoint, mostly for tests.
func NewClientWithURL(token, userKey, title, endpoint string) *Client {
	return NewClient(token, userKey, title, WithEndpoint(endpoint))
}

type apiResponse struct {
	Status  int      `json:"status"`
	Request string   `json:"request"`
	Errors  []string `json:"errors"`
}

func (c *Client) Notify(ctx context.Context, message string) error {
	if c.token == "" || c.userKey == "" {
		return nil
	}

	form := url.Values{}
	form.Set("token", c.token)
	form.Set("user", c.userKey)
	form.Set("message", truncate(message, maxMessageRunes))
	form.Set("title", c.title)
	if c.priority != 0 {
		form.Set("priority", strconv.Itoa(c.priority))
	}
	encoded := form.Encode()

	return infra.WithRetry(ctx, c.retry, func() error {
		return c.send(ctx, encoded)
	})
}

func (c *Client) send(ctx context.Context, encoded string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(encoded))
	if err != nil {
		return infra.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode != http.StatusOK {
		return infra.RetryAfter(infra.StatusError("pushover", resp.StatusCode, body), resp.Header.Get("Retry-After"))
	}

	var parsed apiResponse
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil && parsed.Status != 1 && len(parsed.Errors) > 0 {
		return infra.Permanent(fmt.Errorf("pushover rejected message: %s", strings.Join(parsed.Errors, "; ")))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
