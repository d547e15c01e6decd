// Package homeassistant delivers the assistant's replies and reminders
// through a Home Assistant notify service, e.g. a phone running the
// companion app.
package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voice-assistant/internal/infra"
)

const DefaultService = "notify"

type Client struct {
	baseURL    string
	token      string
	service    string
	title      string
	httpClient *http.Client
	retry      infra.RetryConfig
}

// NewClient targets notify.<service> on the instance at baseURL. An empty
// service uses the generic "notify" service.
func NewClient(baseURL, token, service, title string) *Client {
	if service == "" {
		service = DefaultService
	}
	service = strings.TrimPrefix(service, "notify.")
	if title == "" {
		title = "Voice Assistant"
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		service:    service,
		title:      title,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry:      infra.DefaultRetryConfig(),
	}
}

type notifyRequest struct {
	Message string `json:"message"`
	Title   string `json:"title,omitempty"`
}

func (c *Client) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(notifyRequest{Message: message, Title: c.title})
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}

	if _, err := c.doRequest(ctx, http.MethodPost, "/api/services/notify/"+c.service, body); err != nil {
		return fmt.Errorf("home assistant notify: %w", err)
	}
	return nil
}

// Check verifies the URL and token against the API root.
func (c *Client) Check(ctx context.Context) error {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/api/", nil)
	if err != nil {
		return fmt.Errorf("home assistant check: %w", err)
	}

	var status struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &status); err != nil {
		return fmt.Errorf("parsing home assistant status: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var respBody []byte

	retryErr := infra.WithRetry(ctx, c.retry, func() error {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return infra.Permanent(fmt.Errorf("creating request: %w", err))
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return infra.Permanent(fmt.Errorf("unauthorized: check your Home Assistant token"))
		}

		if resp.StatusCode >= 400 {
			return infra.RetryAfter(infra.StatusError("home assistant", resp.StatusCode, respBody), resp.Header.Get("Retry-After"))
		}

		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	return respBody, nil
}
