// Package session keeps one conversation per user for the network front ends.
package session

import (
	"sync"
	"time"

	"stock-assistant/internal/conversation"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const DefaultIdleTimeout = 30 * time.Minute

type Config struct {
	Catalog     conversation.Catalog
	Controller  conversation.ControllerConfig
	IdleTimeout time.Duration
	Logger      *log.Logger
	Now         func() time.Time
}

type entry struct {
	ctrl     *conversation.Controller
	lastSeen time.Time
}

// Manager maps session keys (HTTP session ids, Telegram chat ids, SSH
// users) to conversation controllers.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	cfg      Config
	logger   *log.Logger
}

// NewManager returns an empty manager.
func NewManager(cfg Config) *Manager {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Controller.Logger == nil {
		cfg.Controller.Logger = cfg.Logger
	}
	return &Manager{
		sessions: make(map[string]*entry),
		cfg:      cfg,
		logger:   cfg.Logger.With("component", "sessions"),
	}
}

// Create starts a conversation under a fresh UUID.
func (m *Manager) Create() (string, *conversation.Controller) {
	id := uuid.New().String()
	return id, m.Get(id)
}

// Get returns the conversation for key, starting one if needed.
func (m *Manager) Get(key string) *conversation.Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[key]; ok {
		e.lastSeen = m.cfg.Now()
		return e.ctrl
	}
	e := &entry{ctrl: m.newController(), lastSeen: m.cfg.Now()}
	m.sessions[key] = e
	m.logger.Debug("session started", "key", key)
	return e.ctrl
}

// Lookup returns an existing conversation without creating one.
func (m *Manager) Lookup(key string) (*conversation.Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[key]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.cfg.Now()
	return e.ctrl, true
}

// Reset discards the conversation under key and starts a new one.
func (m *Manager) Reset(key string) *conversation.Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[key]; ok {
		e.ctrl.Close()
	}
	e := &entry{ctrl: m.newController(), lastSeen: m.cfg.Now()}
	m.sessions[key] = e
	return e.ctrl
}

// Drop closes and removes the conversation under key.
func (m *Manager) Drop(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[key]
	if !ok {
		return false
	}
	e.ctrl.Close()
	delete(m.sessions, key)
	return true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes and removes sessions idle since before now minus the idle
// timeout. It returns how many were removed.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now.Add(-m.cfg.IdleTimeout)
	removed := 0
	for key, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			e.ctrl.Close()
			delete(m.sessions, key)
			removed++
		}
	}
	return removed
}

// Close ends every session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, e := range m.sessions {
		e.ctrl.Close()
		delete(m.sessions, key)
	}
}

func (m *Manager) newController() *conversation.Controller {
	machine := conversation.NewMachine(m.cfg.Catalog, conversation.WithLogger(m.cfg.Controller.Logger))
	return conversation.NewController(machine, m.cfg.Controller)
}
