package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/vizchat/descriptor"
)

// Client implements API over HTTP.
type Client struct {
	config Config
	client *http.Client
	log    *zap.Logger
}

// New creates a chat API client.
func New(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// CreateSession opens a chat for clientID and returns its chat id.
func (c *Client) CreateSession(ctx context.Context, clientID string) (string, error) {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat/session", sessionRequest{ClientID: clientID}, &resp); err != nil {
		return "", err
	}
	if err := checkStatus("/api/chat/session", resp.Status, resp.Message); err != nil {
		return "", err
	}
	if resp.ChatID == "" {
		return "", &APIError{Endpoint: "/api/chat/session", Status: resp.Status, Message: "no chat_id in response"}
	}
	c.log.Info("chat session created", zap.String("chat_id", resp.ChatID))
	return resp.ChatID, nil
}

// History returns the stored messages of chatID, oldest first.
func (c *Client) History(ctx context.Context, chatID string) ([]descriptor.Message, error) {
	if chatID == "" {
		return nil, ErrNoChatID
	}
	endpoint := "/api/chat/history/" + url.PathEscape(chatID)

	var resp historyResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(endpoint, resp.Status, resp.Message); err != nil {
		return nil, err
	}
	return parseHistory(resp.History), nil
}

// Send posts a user message and returns the assistant's reply.
func (c *Client) Send(ctx context.Context, chatID, text string) (descriptor.Message, error) {
	if chatID == "" {
		return descriptor.Message{}, ErrNoChatID
	}
	var resp chatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", chatRequest{Message: text, ChatID: chatID}, &resp); err != nil {
		return descriptor.Message{}, err
	}
	return parseReply(resp, time.Now()), nil
}

// Reset clears the backend conversation for chatID.
func (c *Client) Reset(ctx context.Context, chatID string) error {
	if chatID == "" {
		return ErrNoChatID
	}
	var resp statusResponse
	if err := c.do(ctx, http.MethodPost, "/api/reset", resetRequest{ChatID: chatID}, &resp); err != nil {
		return err
	}
	if resp.Status == "" {
		return nil
	}
	return checkStatus("/api/reset", resp.Status, resp.Message)
}

// do sends a JSON request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debug("chat api call",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: truncate(string(raw), 200)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", endpoint, err)
	}
	return nil
}

// ============================================================================
// HELPERS
// ============================================================================

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
