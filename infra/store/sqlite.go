package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists reservations in a SQLite database.
type SQLiteStore struct {
	sqlStore
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{sqlStore{db: db, bind: questionMark}}
	if err := s.migrate(context.Background()); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return s, nil
}

// busyTimeoutMS is how long a connection waits on a lock held by another
// process before failing with SQLITE_BUSY.
const busyTimeoutMS = 5000

// sqliteDSN appends the busy timeout pragma to path.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", path, sep, busyTimeoutMS)
}

// openSQLite opens path, creating its directory when needed.
func openSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; one connection per handle, other processes
	// wait up to busyTimeoutMS.
	db.SetMaxOpenConns(1)
	return db, nil
}
