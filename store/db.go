package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Sentinel errors callers can match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

type Store struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file and runs migrations.
// Foreign keys must be on so the ON DELETE CASCADE clauses in the schema
// actually fire.
func NewSQLiteStore(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	s := &Store{db: db}

	// Run migrations immediately on startup
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close allows main.go to close the connection
func (s *Store) Close() error {
	return s.db.Close()
}
