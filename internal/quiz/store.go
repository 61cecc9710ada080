package quiz

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizsprint/internal/quiz/scoring"
)

// Store holds in-progress sessions.
type Store interface {
	Create(ctx context.Context, userID uuid.UUID, category string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory. Sessions do not expire.
type MemoryStore struct {
	engine *scoring.Engine
	logger zerolog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(engine *scoring.Engine, logger zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		engine:   engine,
		logger:   logger.With().Str("component", "quiz_store").Logger(),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (m *MemoryStore) Create(_ context.Context, userID uuid.UUID, category string) (*Session, error) {
	sess := newSession(uuid.NewString(), userID, category, m.engine.NewTally(), m.now().UTC())

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	size := len(m.sessions)
	m.mu.Unlock()

	m.logger.Debug().
		Str("session_id", sess.ID).
		Str("user_id", userID.String()).
		Int("active_sessions", size).
		Msg("session created")
	return sess, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
