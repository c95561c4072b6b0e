// Package migrate handles SQL database migration for the internal Rostra database
package migrate

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var migrations []dbMigration

type dbMigration struct {
	Version uint
	Queries []string
}

// Execute runs the current DB migration on the given database
func (mig *dbMigration) Execute(db *sqlx.DB, logger *logrus.Entry) error {
	// Check if the migration has already run
	query := `SELECT success FROM Migrations WHERE version = $1`
	var success = false
	err := db.QueryRow(query, mig.Version).Scan(&success)
	if err != nil && err != sql.ErrNoRows {
		logger.WithError(err).Error("Failed to fetch version information")
		return err
	}
	if !success {
		// We need to execute this migration
		logger.Infof("Executing DB migration #%d", mig.Version)
		for i, query := range mig.Queries {
			logger.Infof("Query %d of %d...", (i + 1), len(mig.Queries))
			if _, err := db.Exec(query); err != nil {
				logger.WithError(err).Errorf("Query #%d failed", (i + 1))
				db.Exec(`REPLACE INTO Migrations(version, success) VALUES($1, 0)`, mig.Version)
				return err
			}
		}
		// Queries executed successfully - save our status
		db.Exec(`REPLACE INTO Migrations(version, success) VALUES($1, 1)`, mig.Version)
	}
	return nil
}

// ExecuteMigrationsOnDb executes the database migrations on the given database instance
func ExecuteMigrationsOnDb(db *sqlx.DB, logger *logrus.Entry) error {
	// Create the migrations table if it does not exist, yet
	query := `CREATE TABLE IF NOT EXISTS Migrations (
                version   INTEGER NOT NULL,
                success   INTEGER NOT NULL DEFAULT 0,
                PRIMARY KEY(version)
            )`
	if _, err := db.Exec(query); err != nil {
		logger.WithError(err).Error("Failed to create migrations table")
		return err
	}
	for _, mig := range migrations {
		if err := mig.Execute(db, logger); err != nil {
			logger.WithError(err).Errorf("Failed to execute migration #%d", mig.Version)
			return err
		}
	}
	return nil
}

// For now, the migrations are part of the package...
func init() {
	migrations = []dbMigration{
		{
			Version: 1,
			Queries: []string{
				`CREATE TABLE "People" (
                    id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
                    firstName VARCHAR(128) NOT NULL DEFAULT '',
                    lastName VARCHAR(128) NOT NULL DEFAULT '',
                    email VARCHAR(255) NOT NULL DEFAULT '',
                    phone VARCHAR(64) NOT NULL DEFAULT '',
                    kind VARCHAR(16) NOT NULL DEFAULT 'prospect',
                    notes TEXT NOT NULL DEFAULT '',
                    createdAt DATETIME NOT NULL,
                    updatedAt DATETIME NOT NULL
                )`,
				`CREATE INDEX idxPeopleName ON People (lastName, firstName)`,
				`CREATE TABLE "Events" (
                    id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
                    name VARCHAR(255) NOT NULL,
                    description TEXT NOT NULL DEFAULT '',
                    kind VARCHAR(16) NOT NULL DEFAULT 'standard',
                    staffCapacity INTEGER NOT NULL DEFAULT 0,
                    participantCapacity INTEGER NOT NULL DEFAULT 0,
                    primaryLeaderId INTEGER NOT NULL DEFAULT 0,
                    startsAt DATETIME,
                    endsAt DATETIME,
                    staffOpenFrom DATETIME,
                    staffOpenUntil DATETIME,
                    participantOpenFrom DATETIME,
                    participantOpenUntil DATETIME,
                    isPublished INTEGER NOT NULL DEFAULT 0,
                    isActive INTEGER NOT NULL DEFAULT 1,
                    transactionLogId INTEGER NOT NULL DEFAULT 0,
                    createdAt DATETIME NOT NULL,
                    updatedAt DATETIME NOT NULL
                )`,
				`CREATE TABLE "EventRoster" (
                    eventId INTEGER NOT NULL,
                    personId INTEGER NOT NULL,
                    role VARCHAR(16) NOT NULL,
                    category VARCHAR(16) NOT NULL,
                    isLeader INTEGER NOT NULL DEFAULT 0,
                    PRIMARY KEY(eventId, personId, role)
                )`,
				`CREATE INDEX idxRosterEvent ON EventRoster (eventId)`,
				`CREATE TABLE "EventSessions" (
                    eventId INTEGER NOT NULL,
                    position INTEGER NOT NULL,
                    startsAt DATETIME NOT NULL,
                    endsAt DATETIME NOT NULL,
                    PRIMARY KEY(eventId, position)
                )`,
				`CREATE TABLE "Transactions" (
                    id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
                    logId INTEGER NOT NULL,
                    personId INTEGER NOT NULL DEFAULT 0,
                    amountCents INTEGER NOT NULL DEFAULT 0,
                    kind VARCHAR(16) NOT NULL DEFAULT 'payment',
                    occurredAt DATETIME NOT NULL,
                    note TEXT NOT NULL DEFAULT '',
                    createdAt DATETIME NOT NULL,
                    updatedAt DATETIME NOT NULL
                )`,
				`CREATE INDEX idxTransactionsLog ON Transactions (logId)`,
			},
		},
	}
}
