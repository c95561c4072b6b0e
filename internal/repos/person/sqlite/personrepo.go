// Package sqlite provides a person repository that stores its data inside a SQLite database
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwaldner/rostra/internal/log"
	"github.com/cwaldner/rostra/internal/models"
	"github.com/cwaldner/rostra/internal/repos"
	"github.com/jmoiron/sqlx"
)

const (
	personFields = `firstName, lastName, email, phone, kind, notes, createdAt, updatedAt`
)

// PersonRepo is a repository that stores people and prospects inside a SQLite database
type PersonRepo struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

// New creates a new person repository instance with the given database and logger
func New(db *sqlx.DB, logger *logrus.Entry) *PersonRepo {
	return &PersonRepo{
		db:     db,
		logger: logger,
	}
}

// Create creates a new person entry
func (r *PersonRepo) Create(p *models.Person) error {
	r.logger.WithField("name", p.DisplayName()).Debug("Adding new person")
	query := fmt.Sprintf("INSERT INTO People(%s) VALUES(?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))", personFields)
	res, err := r.db.Exec(query, p.FirstName, p.LastName, p.Email, p.Phone, p.Kind, p.Notes)
	if err != nil {
		return err
	}
	// Setting the dates like this should be enough for now
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	var id int64
	if id, err = res.LastInsertId(); err == nil {
		p.ID = uint(id)
	}
	return err
}

// Update updates an existing person entry
func (r *PersonRepo) Update(p *models.Person) error {
	r.logger.WithField(log.FldID, p.ID).Debug("Updating person")
	query := `UPDATE People SET firstName = ?, lastName = ?, email = ?, phone = ?, kind = ?, notes = ?,
        updatedAt = datetime('now') WHERE id = ?`
	res, err := r.db.Exec(query, p.FirstName, p.LastName, p.Email, p.Phone, p.Kind, p.Notes, p.ID)
	if err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	var num int64
	if num, err = res.RowsAffected(); err == nil {
		if num == 0 {
			return repos.ErrEntityNotExisting
		}
	}
	return err
}

// Delete removes an existing person entry from the storage
func (r *PersonRepo) Delete(id uint) error {
	r.logger.WithField(log.FldID, id).Debug("Deleting person")
	query := "DELETE FROM People WHERE id = ?"
	res, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}
	var num int64
	if num, err = res.RowsAffected(); err == nil {
		if num == 0 {
			return repos.ErrEntityNotExisting
		}
	}
	return err
}

// GetByID returns the person having the given ID
func (r *PersonRepo) GetByID(id uint) (*models.Person, error) {
	r.logger.WithField(log.FldID, id).Debug("Loading person")
	query := fmt.Sprintf("SELECT id, %s FROM People WHERE id = ?", personFields)
	var p models.Person
	err := r.db.Get(&p, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			// Nothing found
			return nil, repos.ErrEntityNotExisting
		}
		return nil, err
	}
	return &p, nil
}

// Find searches for people matching the given search string - supports pagination
func (r *PersonRepo) Find(search string, offset uint, limit uint) ([]models.Person, uint, error) {
	if limit == 0 {
		limit = 50
	}
	r.logger.WithFields(logrus.Fields{
		log.FldSearch: search,
		log.FldOffset: offset,
		log.FldLimit:  limit,
	}).Debug("Searching for people")
	// For now, we're using a simple LIKE search
	search = "%" + search + "%"
	query := fmt.Sprintf(`SELECT id, %s FROM People WHERE
        firstName LIKE $1 OR lastName LIKE $1 OR email LIKE $1
        ORDER BY lastName, firstName
        LIMIT $2 OFFSET $3`, personFields)
	var ret []models.Person
	err := r.db.Select(&ret, query, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	// Query the full count
	query = `SELECT COUNT(*) FROM People WHERE firstName LIKE $1 OR lastName LIKE $1 OR email LIKE $1`
	var numRows uint
	if err = r.db.Get(&numRows, query, search); err != nil {
		return nil, 0, err
	}
	return ret, numRows, nil
}
