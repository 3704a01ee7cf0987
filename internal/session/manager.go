package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/itsmostafa/goturtle/internal/config"
)

// ErrNotFound is returned for an unknown session ID.
var ErrNotFound = errors.New("session not found")

// Manager owns a set of sessions keyed by ID.
type Manager struct {
	cfg config.Config
	log logrus.FieldLogger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a Manager whose sessions all use cfg.
func NewManager(cfg config.Config, log logrus.FieldLogger) *Manager {
	return &Manager{
		cfg:      cfg,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session and registers it.
func (m *Manager) Create() *Session {
	s := New(m.cfg, m.log)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return s, nil
}

// Remove forgets a session. Removing an unknown ID is a no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run executes src in the session with the given ID.
func (m *Manager) Run(ctx context.Context, id, src string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	return s.Run(ctx, src)
}
