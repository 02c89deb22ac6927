// Package session keeps the signed-in user and their selected niche in
// process memory.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/roi-forecast/pkg/constants"
	"github.com/iwvelando/roi-forecast/pkg/quote"
	"github.com/rotisserie/eris"
)

// ErrNotFound is returned for an unknown session ID.
var ErrNotFound = eris.New("session: not found")

// Session is a mock login. Any email is accepted.
type Session struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Niche     quote.Niche `json:"niche"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Store is a concurrency-safe in-memory session table. Sessions unused for
// longer than the idle timeout are signed out.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*entry
	idleTimeout time.Duration
	now         func() time.Time
}

type entry struct {
	session  Session
	lastSeen time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		sessions:    make(map[string]*entry),
		idleTimeout: constants.SessionIdleTimeout,
		now:         time.Now,
	}
}

// Create signs a user in. The niche defaults to solar when unset.
func (s *Store) Create(email, name string, niche quote.Niche) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Session{}, eris.New("session: email is required")
	}
	if niche == quote.NicheUnknown {
		niche = quote.NicheSolar
	}
	if strings.TrimSpace(name) == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	sess := Session{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      strings.TrimSpace(name),
		Niche:     niche,
		CreatedAt: now.UTC(),
	}
	s.sessions[sess.ID] = &entry{session: sess, lastSeen: now}
	return sess, nil
}

// Get looks up a session by ID and marks it as used.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lookup(id)
	if err != nil {
		return Session{}, err
	}
	return e.session, nil
}

// SetNiche switches the niche of an existing session.
func (s *Store) SetNiche(id string, niche quote.Niche) (Session, error) {
	if niche == quote.NicheUnknown {
		return Session{}, eris.New("session: niche is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lookup(id)
	if err != nil {
		return Session{}, err
	}
	e.session.Niche = niche
	return e.session, nil
}

// Delete signs a session out. Deleting an unknown ID is not an error.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.now())
	return len(s.sessions)
}

// lookup returns a live entry and refreshes its idle clock. Callers hold mu.
func (s *Store) lookup(id string) (*entry, error) {
	now := s.now()
	e, ok := s.sessions[id]
	if ok && s.expired(e, now) {
		delete(s.sessions, id)
		ok = false
	}
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "id %s", id)
	}
	e.lastSeen = now
	return e, nil
}

func (s *Store) sweep(now time.Time) {
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.idleTimeout > 0 && now.Sub(e.lastSeen) > s.idleTimeout
}
