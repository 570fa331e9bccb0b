package store

import (
	"database/sql"
	"time"

	"github.com/kilianp07/aquacharge/core/metrics/energy"
)

// EnergySQLiteStore persists daily vessel energy totals in SQLite.
type EnergySQLiteStore struct {
	db *sql.DB
}

// NewEnergySQLiteStore opens or creates the database and ensures schema.
func NewEnergySQLiteStore(path string) (*EnergySQLiteStore, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS vessel_energy (
        vessel_id TEXT NOT NULL,
        day INTEGER NOT NULL,
        charged REAL NOT NULL,
        discharged REAL NOT NULL,
        PRIMARY KEY(vessel_id, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &EnergySQLiteStore{db: db}, nil
}

// Add accumulates r into the row for its vessel and day.
func (s *EnergySQLiteStore) Add(r energy.Record) error {
	d := energy.Day(r.Date)
	_, err := s.db.Exec(`INSERT INTO vessel_energy (vessel_id, day, charged, discharged)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(vessel_id, day) DO UPDATE SET
            charged = charged + excluded.charged,
            discharged = discharged + excluded.discharged`,
		r.VesselID, d.Unix(), r.ChargedKWh, r.DischargedKWh)
	return err
}

// Query returns the vessel's records between start and end inclusive.
func (s *EnergySQLiteStore) Query(vesselID string, start, end time.Time) ([]energy.Record, error) {
	rows, err := s.db.Query(`SELECT vessel_id, day, charged, discharged
        FROM vessel_energy WHERE vessel_id = ? AND day >= ? AND day <= ? ORDER BY day`,
		vesselID, energy.Day(start).Unix(), energy.Day(end).Unix())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []energy.Record
	for rows.Next() {
		var r energy.Record
		var day int64
		if err := rows.Scan(&r.VesselID, &day, &r.ChargedKWh, &r.DischargedKWh); err != nil {
			return nil, err
		}
		r.Date = time.Unix(day, 0).UTC()
		res = append(res, r)
	}
	return res, rows.Err()
}

// Close closes the underlying database.
func (s *EnergySQLiteStore) Close() error { return s.db.Close() }
