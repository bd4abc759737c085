package telegrask

import (
	"context"
	"sort"
	"sync"
)

// Store keeps per-chat key/value state reachable from handlers. Backends
// live under store/; the default is in-memory and lost on restart.
type Store interface {
	// Get returns the value for key in chatID, or ErrNotFound.
	Get(ctx context.Context, chatID int64, key string) (string, error)
	// Set writes the value for key in chatID.
	Set(ctx context.Context, chatID int64, key, value string) error
	// Delete removes key from chatID. Missing keys are not an error.
	Delete(ctx context.Context, chatID int64, key string) error
	// Keys lists the keys stored for chatID, sorted.
	Keys(ctx context.Context, chatID int64) ([]string, error)
	// Close releases backend resources.
	Close() error
}

type memoryStore struct {
	mu    sync.RWMutex
	chats map[int64]map[string]string
}

// NewMemoryStore returns the in-memory Store used when no backend is
// configured.
func NewMemoryStore() Store {
	return &memoryStore{chats: make(map[int64]map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, chatID int64, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.chats[chatID][key]; ok {
		return v, nil
	}
	return "", Wrapf(ErrNotFound, "key %q", key)
}

func (s *memoryStore) Set(_ context.Context, chatID int64, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chats[chatID] == nil {
		s.chats[chatID] = make(map[string]string)
	}
	s.chats[chatID][key] = value
	return nil
}

func (s *memoryStore) Delete(_ context.Context, chatID int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chats[chatID], key)
	return nil
}

func (s *memoryStore) Keys(_ context.Context, chatID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.chats[chatID]))
	for k := range s.chats[chatID] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *memoryStore) Close() error { return nil }
