package redis

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	audio     []byte
	expiresAt time.Time
}

// memoryCache is the in-process IRedis used when REDIS_ADDRESS is unset.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() IRedis {
	return &memoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *memoryCache) SetAudio(_ context.Context, sessionID string, audio []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{audio: append([]byte(nil), audio...)}
	if expiration > 0 {
		entry.expiresAt = m.now().Add(expiration)
	}
	m.entries[sessionID] = entry
	return nil
}

func (m *memoryCache) GetAudio(_ context.Context, sessionID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[sessionID]
	if !ok {
		return nil, ErrAudioNotFound
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, sessionID)
		return nil, ErrAudioNotFound
	}
	return append([]byte(nil), entry.audio...), nil
}

func (m *memoryCache) DeleteAudio(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, sessionID)
	return nil
}
