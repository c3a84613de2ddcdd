package state

import (
	"context"
	"sync"
	"time"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]Session

	idleTTL time.Duration
	stop    chan struct{}
	once    sync.Once
}

// MemoryOption configures the in-memory manager.
type MemoryOption func(*memoryManager)

// WithIdleTimeout enables expiry of abandoned sessions. Zero keeps sessions
// forever, matching the historical behaviour.
func WithIdleTimeout(ttl time.Duration) MemoryOption {
	return func(m *memoryManager) {
		m.idleTTL = ttl
	}
}

// NewMemoryManager constructs a volatile in-memory Manager. Sessions are lost
// on restart; use the Redis manager when that matters.
func NewMemoryManager(opts ...MemoryOption) Manager {
	m := &memoryManager{
		sessions: make(map[int64]Session),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.idleTTL > 0 {
		go m.janitor()
	}
	return m
}

func (m *memoryManager) Get(_ context.Context, sessionID int64) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.sessions[sessionID]; ok {
		if m.idleTTL > 0 && time.Since(s.Touched) > m.idleTTL {
			return Session{State: StateNone}, nil
		}
		return s, nil
	}
	return Session{State: StateNone}, nil
}

func (m *memoryManager) Set(_ context.Context, sessionID int64, s Session) error {
	s.Touched = time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = s
	return nil
}

func (m *memoryManager) Clear(_ context.Context, sessionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Close stops the expiry janitor if one is running.
func (m *memoryManager) Close() {
	m.once.Do(func() { close(m.stop) })
}

func (m *memoryManager) janitor() {
	interval := m.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *memoryManager) sweep() {
	cutoff := time.Now().Add(-m.idleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.Touched.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
