package sqlite

import (
	"database/sql"
	"log"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"
	"github.com/pkg/errors"
)

type DB struct {
	db  *sql.DB
	dsn string
}

// NewDB opens a SQLite database at the given DSN. The same driver type backs
// both the shared and the local store; which tables exist is decided by the
// schema applied on top.
func NewDB(dsn string) (*DB, error) {
	if dsn == "" {
		return nil, errors.New("dsn is required")
	}

	// WAL keeps concurrent readers from blocking each other; busy_timeout
	// covers the write side owned by the ingestion path.
	db, err := sql.Open("sqlite", dsn+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		log.Printf("Failed to open database: %s", err)
		return nil, errors.Wrapf(err, "failed to open database: %s", dsn)
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &DB{db: db, dsn: dsn}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}
