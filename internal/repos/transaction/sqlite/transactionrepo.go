// Package sqlite provides a transaction repository that stores its data inside a SQLite database
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
	transactionFields = `logId, personId, amountCents, kind, occurredAt, note, createdAt, updatedAt`
)

// TransactionRepo is a repository that stores transaction-log bookings inside a SQLite database
type TransactionRepo struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

// New creates a new transaction repository instance with the given database and logger
func New(db *sqlx.DB, logger *logrus.Entry) *TransactionRepo {
	return &TransactionRepo{
		db:     db,
		logger: logger,
	}
}

// Create creates a new transaction entry
func (r *TransactionRepo) Create(t *models.Transaction) error {
	r.logger.WithField(log.FldLog, t.LogID).Debug("Adding new transaction")
	query := fmt.Sprintf("INSERT INTO Transactions(%s) VALUES(?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))",
		transactionFields)
	res, err := r.db.Exec(query, t.LogID, t.PersonID, t.AmountCents, t.Kind, t.OccurredAt, t.Note)
	if err != nil {
		return err
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	var id int64
	if id, err = res.LastInsertId(); err == nil {
		t.ID = uint(id)
	}
	return err
}

// Update updates an existing transaction entry
func (r *TransactionRepo) Update(t *models.Transaction) error {
	r.logger.WithField(log.FldID, t.ID).Debug("Updating transaction")
	query := `UPDATE Transactions SET logId = ?, personId = ?, amountCents = ?, kind = ?, occurredAt = ?, note = ?,
        updatedAt = datetime('now') WHERE id = ?`
	res, err := r.db.Exec(query, t.LogID, t.PersonID, t.AmountCents, t.Kind, t.OccurredAt, t.Note, t.ID)
	if err != nil {
		return err
	}
	t.UpdatedAt = time.Now()
	var num int64
	if num, err = res.RowsAffected(); err == nil {
		if num == 0 {
			return repos.ErrEntityNotExisting
		}
	}
	return err
}

// Delete removes an existing transaction entry from the storage
func (r *TransactionRepo) Delete(id uint) error {
	r.logger.WithField(log.FldID, id).Debug("Deleting transaction")
	query := "DELETE FROM Transactions WHERE id = ?"
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

// GetByID returns the transaction having the given ID
func (r *TransactionRepo) GetByID(id uint) (*models.Transaction, error) {
	r.logger.WithField(log.FldID, id).Debug("Loading transaction")
	query := fmt.Sprintf("SELECT id, %s FROM Transactions WHERE id = ?", transactionFields)
	var t models.Transaction
	err := r.db.Get(&t, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repos.ErrEntityNotExisting
		}
		return nil, err
	}
	return &t, nil
}

// FindByLog returns the transactions booked against the given log - supports pagination
func (r *TransactionRepo) FindByLog(logID uint, offset uint, limit uint) ([]models.Transaction, uint, error) {
	if limit == 0 {
		limit = 50
	}
	r.logger.WithFields(logrus.Fields{
		log.FldLog:    logID,
		log.FldOffset: offset,
		log.FldLimit:  limit,
	}).Debug("Listing transactions for log")
	query := fmt.Sprintf(`SELECT id, %s FROM Transactions WHERE logId = $1
        ORDER BY occurredAt, id
        LIMIT $2 OFFSET $3`, transactionFields)
	var ret []models.Transaction
	err := r.db.Select(&ret, query, logID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	query = `SELECT COUNT(*) FROM Transactions WHERE logId = $1`
	var numRows uint
	if err = r.db.Get(&numRows, query, logID); err != nil {
		return nil, 0, err
	}
	return ret, numRows, nil
}
