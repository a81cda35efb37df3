package storage

import (
	"sort"
	"sync"
	"time"

	"examprep-backend/internal/model"
	"examprep-backend/pkg/logger"
)

// MemoryStorage keeps sessions in process memory. Sessions idle for longer
// than ttl are dropped lazily on the next access; when maxSessions is
// reached the least recently updated session makes room for a new one.
type MemoryStorage struct {
	sessions    map[string]*model.Session
	mu          sync.RWMutex
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

// ttl 或 maxSessions 为 0 表示不限制
func NewMemoryStorage(ttl time.Duration, maxSessions int) *MemoryStorage {
	return &MemoryStorage{
		sessions:    make(map[string]*model.Session),
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

func (m *MemoryStorage) Init() error {
	return nil
}

func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*model.Session)
	return nil
}

func (m *MemoryStorage) CreateSession(session *model.Session) error {
	if session == nil || session.ID == "" {
		return ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictExpiredLocked()
	if _, exists := m.sessions[session.ID]; exists {
		return ErrSessionExists
	}
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.evictOldestLocked()
	}

	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *MemoryStorage) GetSession(sessionID string) (*model.Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[sessionID]
	expired := exists && m.expired(session)
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}
	if expired {
		m.mu.Lock()
		delete(m.sessions, sessionID)
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	return session.Clone(), nil
}

func (m *MemoryStorage) UpdateSession(session *model.Session) error {
	if session == nil {
		return ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.sessions[session.ID]
	if !exists || m.expired(current) {
		delete(m.sessions, session.ID)
		return ErrSessionNotFound
	}

	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *MemoryStorage) DeleteSession(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}

	delete(m.sessions, sessionID)
	return nil
}

// ListSessions 按创建时间升序返回未过期的会话
func (m *MemoryStorage) ListSessions() ([]*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictExpiredLocked()
	sessions := make([]*model.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session.Clone())
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	return sessions, nil
}

func (m *MemoryStorage) expired(session *model.Session) bool {
	return m.ttl > 0 && m.now().Sub(session.UpdatedAt) > m.ttl
}

func (m *MemoryStorage) evictExpiredLocked() {
	for id, session := range m.sessions {
		if m.expired(session) {
			delete(m.sessions, id)
			logger.Debugf("session %s expired", id)
		}
	}
}

func (m *MemoryStorage) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, session := range m.sessions {
		if oldestID == "" || session.UpdatedAt.Before(oldest) {
			oldestID, oldest = id, session.UpdatedAt
		}
	}
	if oldestID != "" {
		delete(m.sessions, oldestID)
		logger.Infof("session limit reached, evicted %s", oldestID)
	}
}
