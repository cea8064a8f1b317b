package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	created []string
	resets  []string
	next    int
	err     error
}

func (f *fakeBackend) CreateSession(_ context.Context, clientID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, clientID)
	f.next++
	return "chat-" + string(rune('0'+f.next)), nil
}

func (f *fakeBackend) Reset(_ context.Context, chatID string) error {
	f.resets = append(f.resets, chatID)
	return nil
}

func TestManager_BootstrapCreatesThenResumes(t *testing.T) {
	store := NewMemoryStorage()
	backend := &fakeBackend{}
	m := NewManager(store, backend, nil)
	ctx := context.Background()

	first, err := m.Bootstrap(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ClientID, "client_"))
	assert.Equal(t, "chat-1", first.ChatID)
	assert.False(t, first.Resumed)

	second, err := m.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ClientID, second.ClientID)
	assert.Equal(t, "chat-1", second.ChatID)
	assert.True(t, second.Resumed)
	assert.Len(t, backend.created, 1)
}

func TestManager_ResetKeepsClientID(t *testing.T) {
	store := NewMemoryStorage()
	backend := &fakeBackend{}
	m := NewManager(store, backend, nil)
	ctx := context.Background()

	before, err := m.Bootstrap(ctx)
	require.NoError(t, err)

	after, err := m.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.ClientID, after.ClientID)
	assert.Equal(t, "chat-2", after.ChatID)
	assert.Equal(t, []string{"chat-1"}, backend.resets)

	stored, ok, err := store.Get(KeyChatID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "chat-2", stored)
}

func TestManager_CreateFailureLeavesNoChatID(t *testing.T) {
	store := NewMemoryStorage()
	m := NewManager(store, &fakeBackend{err: errors.New("down")}, nil)

	_, err := m.Bootstrap(context.Background())
	require.Error(t, err)
	_, ok, _ := store.Get(KeyChatID)
	assert.False(t, ok)
	_, ok, _ = store.Get(KeyClientID)
	assert.True(t, ok)
}

func TestFileStorage_RoundTripAndDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	s := NewFileStorage(path)

	_, ok, err := s.Get(KeyChatID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(KeyClientID, "client_abc"))
	require.NoError(t, s.Set(KeyChatID, "chat-9"))

	reopened := NewFileStorage(path)
	v, ok, err := reopened.Get(KeyClientID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "client_abc", v)

	require.NoError(t, reopened.Delete(KeyChatID))
	_, ok, err = s.Get(KeyChatID)
	require.NoError(t, err)
	assert.False(t, ok)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "client_id: client_abc")
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client_id: [unterminated"), 0o600))

	_, _, err := NewFileStorage(path).Get(KeyClientID)
	assert.Error(t, err)
}
