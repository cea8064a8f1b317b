// Package chatapi is the HTTP client for the chat backend.
package chatapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spektr-org/vizchat/descriptor"
)

// ============================================================================
// CHAT API: the only component that talks to the backend
// ============================================================================
// Endpoints:
//   POST /api/chat/session          {client_id}        → {status, chat_id, message}
//   GET  /api/chat/history/{chatID}                    → {status, history: [...]}
//   POST /api/chat                  {message, chat_id} → {response, visualization}
//   POST /api/reset                 {chat_id}
//
// No retries: a failed call is reported and the caller decides.
// ============================================================================

// API is the backend surface the session manager and server depend on.
type API interface {
	CreateSession(ctx context.Context, clientID string) (string, error)
	History(ctx context.Context, chatID string) ([]descriptor.Message, error)
	Send(ctx context.Context, chatID, text string) (descriptor.Message, error)
	Reset(ctx context.Context, chatID string) error
}

// Config holds client configuration.
type Config struct {
	BaseURL string        // e.g. "http://localhost:5000"
	Timeout time.Duration // per request; 0 → 30s
}

// DefaultConfig returns a Config pointing at a local backend.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000",
		Timeout: 30 * time.Second,
	}
}

// ============================================================================
// WIRE TYPES
// ============================================================================

type sessionRequest struct {
	ClientID string `json:"client_id"`
}

type sessionResponse struct {
	Status  string `json:"status"`
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

type historyResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	History []historyEntry `json:"history"`
}

type historyEntry struct {
	Content       string          `json:"content"`
	Role          string          `json:"role"`
	Visualization json.RawMessage `json:"visualization"`
	Timestamp     string          `json:"timestamp"`
}

type chatRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chat_id"`
}

type chatResponse struct {
	Response      string          `json:"response"`
	Visualization json.RawMessage `json:"visualization"`
}

type resetRequest struct {
	ChatID string `json:"chat_id"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ============================================================================
// ERRORS
// ============================================================================

// ErrNoChatID is returned when a call needs a chat id and none was given.
var ErrNoChatID = errors.New("chat id is required")

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.Code, e.Body)
}

// APIError is a 2xx response whose status field is not "success".
type APIError struct {
	Endpoint string
	Status   string
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %q", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s: status %q: %s", e.Endpoint, e.Status, e.Message)
}
