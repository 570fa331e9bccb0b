package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/aquacharge/core/trajectory"
)

// TrajectorySQLiteStore persists simulation runs to a SQLite database.
type TrajectorySQLiteStore struct {
	db *sql.DB
}

// NewTrajectorySQLiteStore opens or creates the database at path and ensures schema.
func NewTrajectorySQLiteStore(path string) (*TrajectorySQLiteStore, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS simulation_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL,
        ts INTEGER NOT NULL,
        vessel_id TEXT NOT NULL,
        record TEXT NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &TrajectorySQLiteStore{db: db}, nil
}

// Append writes the record to the database.
func (s *TrajectorySQLiteStore) Append(ctx context.Context, rec trajectory.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO simulation_runs (run_id, ts, vessel_id, record) VALUES (?, ?, ?, ?)`,
		rec.RunID, rec.Timestamp.UnixNano(), rec.VesselID, string(b))
	return err
}

// Query returns records matching q ordered by time.
func (s *TrajectorySQLiteStore) Query(ctx context.Context, q trajectory.Query) ([]trajectory.Record, error) {
	var args []any
	query := `SELECT record FROM simulation_runs WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	if q.VesselID != "" {
		query += ` AND vessel_id = ?`
		args = append(args, q.VesselID)
	}
	if q.RunID != "" {
		query += ` AND run_id = ?`
		args = append(args, q.RunID)
	}
	query += ` ORDER BY ts, id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []trajectory.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r trajectory.Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *TrajectorySQLiteStore) Close() error { return s.db.Close() }
