// Package sqlite provides an event repository that stores its data inside a SQLite database
// An event spans three tables: the Events row itself, its roster rows and its session rows.
// Create and Update replace the dependent rows inside one transaction
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
	eventFields = `name, description, kind, staffCapacity, participantCapacity, primaryLeaderId,
        startsAt, endsAt, staffOpenFrom, staffOpenUntil, participantOpenFrom, participantOpenUntil,
        isPublished, isActive, transactionLogId, createdAt, updatedAt`
)

// EventRepo is an repository that stores its data inside a SQLite database
type EventRepo struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

// New creates a new event repository instance with the given database and logger
func New(db *sqlx.DB, logger *logrus.Entry) *EventRepo {
	return &EventRepo{
		db:     db,
		logger: logger,
	}
}

// writeAssociations replaces the roster and session rows of the given event inside the running transaction
func writeAssociations(tx *sqlx.Tx, ev *models.Event) error {
	if _, err := tx.Exec("DELETE FROM EventRoster WHERE eventId = ?", ev.ID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM EventSessions WHERE eventId = ?", ev.ID); err != nil {
		return err
	}
	for _, entry := range ev.Roster {
		_, err := tx.Exec(
			"INSERT INTO EventRoster(eventId, personId, role, category, isLeader) VALUES(?, ?, ?, ?, ?)",
			ev.ID, entry.PersonID, entry.Role, entry.Category, entry.IsLeader,
		)
		if err != nil {
			return err
		}
	}
	for i, sess := range ev.Schedule {
		_, err := tx.Exec(
			"INSERT INTO EventSessions(eventId, position, startsAt, endsAt) VALUES(?, ?, ?, ?)",
			ev.ID, i, sess.StartsAt, sess.EndsAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Create creates a new event together with its roster and schedule rows
func (r *EventRepo) Create(ev *models.Event) error {
	r.logger.WithField("name", ev.Name).Debug("Adding new event")
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	query := fmt.Sprintf(
		"INSERT INTO Events(%s) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))",
		eventFields)
	res, err := tx.Exec(query,
		ev.Name, ev.Description, ev.Kind, ev.StaffCapacity, ev.ParticipantCapacity, ev.PrimaryLeaderID,
		ev.StartsAt, ev.EndsAt, ev.StaffOpenFrom, ev.StaffOpenUntil, ev.ParticipantOpenFrom, ev.ParticipantOpenUntil,
		ev.IsPublished, ev.IsActive, ev.TransactionLogID,
	)
	if err != nil {
		return repos.DoRollback(tx, err)
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return repos.DoRollback(tx, err)
	}
	ev.ID = uint(id)
	for i := range ev.Roster {
		ev.Roster[i].EventID = ev.ID
	}
	for i := range ev.Schedule {
		ev.Schedule[i].EventID = ev.ID
	}
	if err = writeAssociations(tx, ev); err != nil {
		return repos.DoRollback(tx, err)
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	// Setting the dates like this should be enough for now
	ev.CreatedAt = time.Now()
	ev.UpdatedAt = time.Now()
	return nil
}

// Update updates the given event, replacing its roster and schedule rows
func (r *EventRepo) Update(ev *models.Event) error {
	r.logger.WithField(log.FldID, ev.ID).Debug("Updating event")
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	query := `UPDATE Events SET name = ?, description = ?, kind = ?, staffCapacity = ?, participantCapacity = ?,
        primaryLeaderId = ?, startsAt = ?, endsAt = ?, staffOpenFrom = ?, staffOpenUntil = ?,
        participantOpenFrom = ?, participantOpenUntil = ?, isPublished = ?, isActive = ?, transactionLogId = ?,
        updatedAt = datetime('now') WHERE id = ?`
	res, err := tx.Exec(query,
		ev.Name, ev.Description, ev.Kind, ev.StaffCapacity, ev.ParticipantCapacity, ev.PrimaryLeaderID,
		ev.StartsAt, ev.EndsAt, ev.StaffOpenFrom, ev.StaffOpenUntil, ev.ParticipantOpenFrom, ev.ParticipantOpenUntil,
		ev.IsPublished, ev.IsActive, ev.TransactionLogID, ev.ID,
	)
	if err != nil {
		return repos.DoRollback(tx, err)
	}
	var num int64
	if num, err = res.RowsAffected(); err != nil {
		return repos.DoRollback(tx, err)
	}
	if num == 0 {
		return repos.DoRollback(tx, repos.ErrEntityNotExisting)
	}
	if err = writeAssociations(tx, ev); err != nil {
		return repos.DoRollback(tx, err)
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	ev.UpdatedAt = time.Now()
	return nil
}

// Delete removes the given event and its associated rows
func (r *EventRepo) Delete(id uint) error {
	r.logger.WithField(log.FldID, id).Debug("Deleting event")
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM Events WHERE id = ?", id)
	if err != nil {
		return repos.DoRollback(tx, err)
	}
	var num int64
	if num, err = res.RowsAffected(); err != nil {
		return repos.DoRollback(tx, err)
	}
	if num == 0 {
		return repos.DoRollback(tx, repos.ErrEntityNotExisting)
	}
	if _, err = tx.Exec("DELETE FROM EventRoster WHERE eventId = ?", id); err != nil {
		return repos.DoRollback(tx, err)
	}
	if _, err = tx.Exec("DELETE FROM EventSessions WHERE eventId = ?", id); err != nil {
		return repos.DoRollback(tx, err)
	}
	return tx.Commit()
}

// GetByID returns the event with the given ID with roster and schedule loaded
func (r *EventRepo) GetByID(id uint) (*models.Event, error) {
	r.logger.WithField(log.FldID, id).Debug("Loading event")
	query := fmt.Sprintf("SELECT id, %s FROM Events WHERE id = ?", eventFields)
	var ev models.Event
	err := r.db.Get(&ev, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			// Nothing found
			return nil, repos.ErrEntityNotExisting
		}
		return nil, err
	}
	query = `SELECT eventId, personId, role, category, isLeader FROM EventRoster
        WHERE eventId = ? ORDER BY role, personId`
	if err = r.db.Select(&ev.Roster, query, id); err != nil {
		return nil, err
	}
	query = `SELECT eventId, position, startsAt, endsAt FROM EventSessions
        WHERE eventId = ? ORDER BY position`
	if err = r.db.Select(&ev.Schedule, query, id); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Find searches for events matching the given search string - supports pagination
// The returned events carry no roster or schedule
func (r *EventRepo) Find(search string, offset uint, limit uint) ([]models.Event, uint, error) {
	if limit == 0 {
		limit = 50
	}
	r.logger.WithFields(logrus.Fields{
		log.FldSearch: search,
		log.FldOffset: offset,
		log.FldLimit:  limit,
	}).Debug("Searching for event")
	// For now, we're using a simple LIKE search
	search = "%" + search + "%"
	query := fmt.Sprintf(`SELECT id, %s FROM Events WHERE
        name LIKE $1 OR description LIKE $1
        LIMIT $2 OFFSET $3`, eventFields)
	var ret []models.Event
	err := r.db.Select(&ret, query, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	// Query the full count
	query = `SELECT COUNT(*) FROM Events WHERE name LIKE $1 OR description LIKE $1`
	var numRows uint
	if err = r.db.Get(&numRows, query, search); err != nil {
		return nil, 0, err
	}
	return ret, numRows, nil
}
