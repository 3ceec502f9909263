package telegram

import (
	"sync"

	ruleDomain "github.com/okhotnikdev/mediagate/internal/modules/rule/domain"
)

type wizardStep int

const (
	stepSource wizardStep = iota
	stepSort
	stepWindow
	stepFrequency
	stepTarget
	stepConfirm
)

// wizardSession accumulates one owner's rule draft while the add-rule
// conversation is in progress. Sessions live only in this process; an
// abandoned draft disappears on restart.
type wizardSession struct {
	step  wizardStep
	draft ruleDomain.Rule
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*wizardSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: map[int64]*wizardSession{}}
}

func (s *sessionStore) get(ownerID int64) *wizardSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[ownerID]
}

func (s *sessionStore) start(ownerID int64) *wizardSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := &wizardSession{step: stepSource, draft: ruleDomain.Rule{OwnerID: ownerID}}
	s.sessions[ownerID] = session
	return session
}

func (s *sessionStore) clear(ownerID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[ownerID]
	delete(s.sessions, ownerID)
	return ok
}
