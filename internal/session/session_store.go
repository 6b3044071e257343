package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store is the capability contract for call session state. GetOrCreate
// never fails for a well-formed call id; eviction is the store's own
// concern (idle sweep or TTL) so sessions cannot pile up forever.
type Store interface {
	GetOrCreate(ctx context.Context, callID string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Remove(ctx context.Context, callID string) error
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *zap.Logger
}

// NewMemoryStore keeps sessions in process memory. ttl bounds how long
// an idle session survives before the sweeper drops it.
func NewMemoryStore(ttl time.Duration, logger ...*zap.Logger) *MemoryStore {
	l := zap.L().Named("session.memory")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.memory")
	}
	return &MemoryStore{
		sessions: map[string]*Session{},
		ttl:      ttl,
		logger:   l,
	}
}

func (m *MemoryStore) GetOrCreate(_ context.Context, callID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[callID]; ok {
		return s, nil
	}

	s := &Session{CallID: callID, UpdatedAt: time.Now().UTC()}
	m.sessions[callID] = s
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.UpdatedAt = time.Now().UTC()
	m.sessions[s.CallID] = s
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, callID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, callID)
	return nil
}

// StartSweeper evicts idle sessions on a fixed interval until ctx is
// cancelled. Calls that stop sending callbacks never clean up after
// themselves, so the store has to.
func (m *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Info("session sweeper started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if removed := m.sweep(time.Now().UTC()); removed > 0 {
				m.logger.Info("idle sessions evicted", zap.Int("count", removed))
			}
		}
	}
}

func (m *MemoryStore) sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.UpdatedAt) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
