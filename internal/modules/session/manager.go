package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Snapshots persists whole-session snapshots so a conversation can survive a
// process restart. Implementations must treat a missing session as (nil, nil).
type Snapshots interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, error)
}

// Manager hands out sessions by ID, creating them lazily. When a snapshot
// store is configured, unknown IDs are first looked up there. Snapshot
// failures degrade to a fresh in-memory session; they never fail a turn.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	snapshots Snapshots
}

func NewManager(snapshots Snapshots) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		snapshots: snapshots,
	}
}

// Get returns the live session for id, restoring from the snapshot store or
// creating an empty one as needed.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	if m.snapshots != nil {
		s, err := m.snapshots.Load(ctx, id)
		if err != nil {
			log.Warn().Str("component", "session").Str("session_id", id).Err(err).
				Msg("snapshot load failed, starting fresh")
		} else if s != nil {
			m.sessions[id] = s
			return s
		}
	}
	s := New(id)
	m.sessions[id] = s
	return s
}

// Persist writes the session snapshot when a store is configured.
func (m *Manager) Persist(ctx context.Context, s *Session) {
	if m.snapshots == nil {
		return
	}
	if err := m.snapshots.Save(ctx, s); err != nil {
		log.Warn().Str("component", "session").Str("session_id", s.ID).Err(err).
			Msg("snapshot save failed")
	}
}
