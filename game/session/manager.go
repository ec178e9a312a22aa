package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/battleship/game/engine"
	"github.com/wricardo/battleship/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// maxIDAttempts bounds retries when a generated ID collides
const maxIDAttempts = 16

// Manager handles game session lifecycle. Sessions live in memory only.
// Callers get copies of the stored sessions; the timestamps are only written
// under mu.
type Manager struct {
	sessions   map[string]*service.Session
	engineOpts []engine.Option
	mu         sync.RWMutex
}

// NewManager creates a new session manager. The engine options are applied to
// every session's engine.
func NewManager(engineOpts ...engine.Option) *Manager {
	return &Manager{
		sessions:   make(map[string]*service.Session),
		engineOpts: engineOpts,
	}
}

// Create creates a new session with the given ID and configuration. An empty
// ID is replaced by a generated 4-character one.
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	eng, err := engine.NewEngine(config, m.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id, err = m.uniqueSessionID()
		if err != nil {
			return nil, err
		}
	} else if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         eng.GetConfig(),
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[strings.ToLower(id)] = session
	return session.Snapshot(), nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session.Snapshot())
	}
	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}
	session.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunCleanup prunes expired sessions every interval until ctx is done
func (m *Manager) RunCleanup(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Info().Int("removed", removed).Dur("max_age", maxAge).Msg("cleaned up expired sessions")
			}
		}
	}
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// uniqueSessionID generates an unused ID; callers hold the write lock
func (m *Manager) uniqueSessionID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := generateSessionID()
		if err != nil {
			return "", err
		}
		if !m.sessionExists(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: no free ID after %d attempts", ErrSessionAlreadyExists, maxIDAttempts)
}

// generateSessionID generates a random 4-character session ID
func generateSessionID() (string, error) {
	bytes := make([]byte, 2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session ID: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
