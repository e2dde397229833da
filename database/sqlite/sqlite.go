package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database file. A single connection is kept so that
// ":memory:" databases survive between queries.
func New(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	return db, nil
}
