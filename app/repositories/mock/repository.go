package mock

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"newsportal/app/repositories"
	"newsportal/app/state"
)

// SessionRepository keeps sessions in memory. Values are stored as JSON so
// callers never share state with the repository.
type SessionRepository struct {
	sessions map[string][]byte
	mutex    sync.RWMutex
	locks    *repositories.KeyedLocks

	// SaveErr, when set, is returned by every Save.
	SaveErr error
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string][]byte),
		locks:    repositories.NewKeyedLocks(),
	}
}

func (m *SessionRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions = make(map[string][]byte)
}

func (m *SessionRepository) Get(id string) (*state.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	data, exists := m.sessions[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	var session state.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (m *SessionRepository) Save(session *state.Session) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	if session == nil || session.ID == "" {
		return errors.New("session id is required")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	m.sessions[session.ID] = data
	return nil
}

func (m *SessionRepository) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *SessionRepository) Count() (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions), nil
}

func (m *SessionRepository) Update(ctx context.Context, id string, fn func(*state.Session)) (*state.Session, error) {
	return repositories.UpdateSession(ctx, m.locks, m, id, fn)
}
