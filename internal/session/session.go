// Package session holds which user is signed in to the console. The store is
// passed explicitly to whoever needs it; it lives in memory only.
package session

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrAlreadySignedIn = errors.New("session: already signed in")
	ErrEmptyUserID     = errors.New("session: empty user id")
)

type Store struct {
	mu     sync.RWMutex
	userID string
	set    bool
}

func New() *Store { return &Store{} }

// UserID returns the signed-in user, ok=false before login.
func (s *Store) UserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.set
}

func (s *Store) SignedIn() bool {
	_, ok := s.UserID()
	return ok
}

// SignIn is called once by the login flow.
func (s *Store) SignIn(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrEmptyUserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set {
		return ErrAlreadySignedIn
	}
	s.userID, s.set = userID, true
	return nil
}
