// Package inmem provides a session repository that holds the session data in-memory
package inmem

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cwaldner/rostra/internal/models"
	"github.com/cwaldner/rostra/internal/repos"
)

const (
	// How long does a session last after the last update?
	expireMinutes = 60
)

// SessionRepo is a session repository that stores the session data in-memory
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

// New creates a new session repository instance
func New() *SessionRepo {
	repo := &SessionRepo{
		sessions: map[string]*models.Session{},
	}
	// Purge expired sessions roughly once a minute
	go func() {
		for range time.Tick(time.Minute) {
			repo.purge()
		}
	}()
	return repo
}

func (r *SessionRepo) purge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, sess := range r.sessions {
		if sess.Expired() {
			delete(r.sessions, id)
		}
	}
}

// CreateFor creates a new session for the given user ID
func (r *SessionRepo) CreateFor(userID uint) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess := models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Minute * expireMinutes),
	}
	r.sessions[sess.ID] = &sess
	copy := sess
	return &copy, nil
}

// GetByID returns the session associated with the given session ID and extends it's expiry if requested
func (r *SessionRepo) GetByID(sessionID string, extend bool) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		return nil, repos.ErrEntityNotExisting
	}
	if sess.Expired() {
		delete(r.sessions, sessionID)
		return nil, repos.ErrEntityNotExisting
	}
	if extend {
		sess.ExpiresAt = time.Now().Add(time.Minute * expireMinutes)
	}
	copy := *sess
	return &copy, nil
}

// Delete removes a session from the session storage
func (r *SessionRepo) Delete(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
