package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage keys.
const (
	KeyClientID = "client_id"
	KeyChatID   = "chat_id"
)

// Backend is the part of the chat API a session needs.
type Backend interface {
	CreateSession(ctx context.Context, clientID string) (string, error)
	Reset(ctx context.Context, chatID string) error
}

// State identifies the current conversation.
type State struct {
	ClientID string
	ChatID   string
	Resumed  bool // chat id came from storage rather than a new session
}

// Manager bootstraps and resets the conversation. Identity lives only in the
// injected Storage.
type Manager struct {
	store   Storage
	backend Backend
	log     *zap.Logger
	newID   func() string
}

// NewManager creates a Manager.
func NewManager(store Storage, backend Backend, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:   store,
		backend: backend,
		log:     log,
		newID:   func() string { return "client_" + uuid.NewString() },
	}
}

// ClientID returns the stored client id, generating and storing one if needed.
func (m *Manager) ClientID() (string, error) {
	id, ok, err := m.store.Get(KeyClientID)
	if err != nil {
		return "", fmt.Errorf("load client id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}
	id = m.newID()
	if err := m.store.Set(KeyClientID, id); err != nil {
		return "", fmt.Errorf("store client id: %w", err)
	}
	m.log.Info("generated client id", zap.String("client_id", id))
	return id, nil
}

// Bootstrap resumes the stored chat, or opens a new one.
func (m *Manager) Bootstrap(ctx context.Context) (State, error) {
	clientID, err := m.ClientID()
	if err != nil {
		return State{}, err
	}
	chatID, ok, err := m.store.Get(KeyChatID)
	if err != nil {
		return State{}, fmt.Errorf("load chat id: %w", err)
	}
	if ok && chatID != "" {
		m.log.Debug("resuming chat", zap.String("chat_id", chatID))
		return State{ClientID: clientID, ChatID: chatID, Resumed: true}, nil
	}
	return m.open(ctx, clientID)
}

// Reset clears the backend conversation and opens a fresh one. The client id
// is kept.
func (m *Manager) Reset(ctx context.Context) (State, error) {
	clientID, err := m.ClientID()
	if err != nil {
		return State{}, err
	}
	chatID, ok, err := m.store.Get(KeyChatID)
	if err != nil {
		return State{}, fmt.Errorf("load chat id: %w", err)
	}
	if ok && chatID != "" {
		if err := m.backend.Reset(ctx, chatID); err != nil {
			return State{}, fmt.Errorf("reset chat %s: %w", chatID, err)
		}
	}
	if err := m.store.Delete(KeyChatID); err != nil {
		return State{}, fmt.Errorf("clear chat id: %w", err)
	}
	return m.open(ctx, clientID)
}

// Forget drops the stored chat id without contacting the backend, e.g. after
// the backend reports the chat no longer exists.
func (m *Manager) Forget() error {
	return m.store.Delete(KeyChatID)
}

func (m *Manager) open(ctx context.Context, clientID string) (State, error) {
	chatID, err := m.backend.CreateSession(ctx, clientID)
	if err != nil {
		return State{}, fmt.Errorf("create session: %w", err)
	}
	if err := m.store.Set(KeyChatID, chatID); err != nil {
		return State{}, fmt.Errorf("store chat id: %w", err)
	}
	return State{ClientID: clientID, ChatID: chatID}, nil
}
