package sessions

import (
	"context"
	"sort"
	"sync"

	"github.com/2beens/repcoach/internal/identity"
)

type storeMock struct {
	mutex    sync.Mutex
	sessions map[string]Session
	// beforeReplace, when set, runs before each compare-and-swap
	beforeReplace func(session Session)
}

func NewMockStore() *storeMock {
	return &storeMock{
		sessions: make(map[string]Session),
	}
}

func (s *storeMock) Add(_ context.Context, session Session) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *storeMock) Get(_ context.Context, sessionID string) (*Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	c := session.Clone()
	return &c, nil
}

func (s *storeMock) Replace(_ context.Context, session Session) error {
	s.mutex.Lock()
	hook := s.beforeReplace
	s.mutex.Unlock()
	if hook != nil {
		hook(session)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored, ok := s.sessions[session.ID]
	if !ok {
		return ErrSessionNotFound
	}
	if stored.Revision != session.Revision {
		return ErrRevisionConflict
	}
	c := session.Clone()
	c.Revision++
	s.sessions[session.ID] = c
	return nil
}

func (s *storeMock) ListForIdentity(_ context.Context, scope identity.Scope) ([]Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sessions := make([]Session, 0)
	for _, session := range s.sessions {
		byUser := scope.UserID != nil && session.UserID != nil && *scope.UserID == *session.UserID
		byAnon := scope.AnonKey != "" && session.AnonKey == scope.AnonKey
		if byUser || byAnon {
			sessions = append(sessions, session.Clone())
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions, nil
}

// SetBeforeReplace installs a hook called before every Replace, used to
// simulate a concurrent writer.
func (s *storeMock) SetBeforeReplace(hook func(session Session)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.beforeReplace = hook
}
