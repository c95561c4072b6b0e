// Package repos contains the repository interfaces needed in Rostra
// It exists to prevent circular dependencies between rostra and the repo implementations
package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cwaldner/rostra/internal/draft"
	"github.com/cwaldner/rostra/internal/models"
)

var (
	// ErrEntityNotExisting is fired by a repository when an entity that is updated or deleted does not exist
	ErrEntityNotExisting = fmt.Errorf("cannot update: Entity does not exist")
)

// PersonRepo defines a repository that handles storing and querying people and prospects
type PersonRepo interface {
	// Create creates a new person entry
	Create(p *models.Person) error
	// Update updates an existing person entry
	Update(p *models.Person) error
	// Delete removes an existing person entry from the storage
	Delete(id uint) error
	// GetByID returns the person having the given ID
	GetByID(id uint) (*models.Person, error)
	// Find searches for people matching the given search string - supports pagination
	Find(search string, offset uint, limit uint) ([]models.Person, uint, error)
}

// TransactionRepo defines a repository that handles the bookings inside transaction logs
type TransactionRepo interface {
	// Create creates a new transaction entry
	Create(t *models.Transaction) error
	// Update updates an existing transaction entry
	Update(t *models.Transaction) error
	// Delete removes an existing transaction entry from the storage
	Delete(id uint) error
	// GetByID returns the transaction having the given ID
	GetByID(id uint) (*models.Transaction, error)
	// FindByLog returns the transactions booked against the given log - supports pagination
	FindByLog(logID uint, offset uint, limit uint) ([]models.Transaction, uint, error)
}

// EventRepo defines a repository that handles storing and querying events including
// their roster and session schedule
type EventRepo interface {
	// Create creates a new event together with its roster and schedule rows
	Create(ev *models.Event) error
	// Update updates the given event, replacing its roster and schedule rows
	Update(ev *models.Event) error
	// Delete removes the given event and its associated rows
	Delete(id uint) error
	// GetByID returns the event with the given ID with roster and schedule loaded
	GetByID(id uint) (*models.Event, error)
	// Find searches for events matching the given search string - supports pagination
	// The returned events carry no roster or schedule
	Find(search string, offset uint, limit uint) ([]models.Event, uint, error)
}

// DraftRepo stores the event drafts currently being edited, keyed by an opaque token.
// Drafts expire when they are not touched for a while
type DraftRepo interface {
	// Create registers a new draft and returns the token it is reachable under
	Create(d draft.EventDraft) (string, error)
	// Get returns the draft stored under the given token and marks it as touched
	Get(token string) (*draft.EventDraft, error)
	// Replace stores a new draft state under an existing token
	Replace(token string, d draft.EventDraft) error
	// Delete discards the draft stored under the given token
	Delete(token string) error
}

// UserRepo defines a repository that is able to store, query and authenticate users
type UserRepo interface {
	// Create creates a new user
	Create(u *models.User) error
	// Update updates an existing user
	Update(u *models.User) error
	// Delete removes an existing user from the user storage
	Delete(id uint) error
	// GetByID returns the user with the given ID
	GetByID(id uint) (*models.User, error)
	// GetByCredentials returns the user which has the given username and password - this is used for login
	GetByCredentials(username string, password string) (*models.User, error)
	// Find searches for users matching the given search string - supports pagination
	Find(search string, offset uint, limit uint) ([]*models.User, error)
}

// SessionRepo stores information about active API sessions
type SessionRepo interface {
	// CreateFor creates a new session for the given user ID
	CreateFor(userID uint) (*models.Session, error)
	// GetByID returns the session associated with the given session ID and extends it's expiry if requested
	GetByID(sessionID string, extend bool) (*models.Session, error)
	// Delete removes a session from the session storage
	Delete(sessionID string) error
}

// -- Helpers for SQLX repos -------------------------------------------------------------------------------------------

// DoRollback rolls back a transaction and catches any error resulting from it while appending the original error
func DoRollback(tx *sqlx.Tx, originalError error) error {
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("doRollback: Transaction rollback failed: %v; Recent error: %v", err, originalError)
	}
	return originalError
}
