package session

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/elitefitness/pkg"
)

var _ Manager = (*MemoryManager)(nil)

// MemoryManager keeps sessions in process memory, for tests and local runs without redis.
type MemoryManager struct {
	mutex    sync.Mutex
	ttl      time.Duration
	sessions map[string]Session

	RandStringFunc func(s int) (string, error)
	Now            func() time.Time
}

func NewMemoryManager(ttl time.Duration) *MemoryManager {
	return &MemoryManager{
		ttl:            ttl,
		sessions:       map[string]Session{},
		RandStringFunc: pkg.GenerateRandomString,
		Now:            time.Now,
	}
}

func (m *MemoryManager) Create(_ context.Context, userID int64, createdAt time.Time) (string, error) {
	token, err := m.RandStringFunc(tokenLength)
	if err != nil {
		return "", err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[token] = Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Unix(createdAt.Unix(), 0),
	}
	return token, nil
}

func (m *MemoryManager) Lookup(_ context.Context, token string) (Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if expired(s, m.ttl, m.Now()) {
		return Session{}, ErrSessionExpired
	}
	return s, nil
}

func (m *MemoryManager) Delete(_ context.Context, token string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	_, ok := m.sessions[token]
	delete(m.sessions, token)
	return ok, nil
}

func (m *MemoryManager) ScanAndClean(_ context.Context) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.Now()
	cleaned := 0
	for token, s := range m.sessions {
		if expired(s, m.ttl, now) {
			delete(m.sessions, token)
			cleaned++
		}
	}
	return cleaned, nil
}
