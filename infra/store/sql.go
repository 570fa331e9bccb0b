package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/aquacharge/core/booking"
	"github.com/kilianp07/aquacharge/core/model"
)

// placeholder renders the n-th (1-based) bind parameter of a SQL dialect.
type placeholder func(n int) string

func questionMark(int) string { return "?" }

func dollar(n int) string { return "$" + strconv.Itoa(n) }

const reservationColumns = `id, charger_id, station_id, vessel_id, user_id, charger_type, start_ns, end_ns, status, created_ns`

// sqlStore implements booking.ReservationStore over database/sql. Times are
// stored as UTC unix nanoseconds so both dialects share one schema.
type sqlStore struct {
	db   *sql.DB
	bind placeholder
}

func (s *sqlStore) q(query string) string {
	n := 0
	var b strings.Builder
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(s.bind(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reservations (
            id TEXT PRIMARY KEY,
            charger_id TEXT NOT NULL,
            station_id TEXT NOT NULL DEFAULT '',
            vessel_id TEXT NOT NULL DEFAULT '',
            user_id TEXT NOT NULL DEFAULT '',
            charger_type TEXT NOT NULL DEFAULT '',
            start_ns BIGINT NOT NULL,
            end_ns BIGINT NOT NULL,
            status TEXT NOT NULL,
            created_ns BIGINT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS reservations_charger_idx ON reservations (charger_id, start_ns)`,
		`CREATE INDEX IF NOT EXISTS reservations_vessel_idx ON reservations (vessel_id, start_ns)`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *sqlStore) Insert(ctx context.Context, r model.Reservation) error {
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO reservations (`+reservationColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		r.ID, r.ChargerID, r.StationID, r.VesselID, r.UserID, r.ChargerType,
		r.Interval.Start.UTC().UnixNano(), r.Interval.End.UTC().UnixNano(),
		r.Status.String(), r.CreatedAt.UTC().UnixNano())
	return err
}

func (s *sqlStore) Get(ctx context.Context, id string) (model.Reservation, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`), id)
	r, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, fmt.Errorf("%w: %s", booking.ErrNotFound, id)
	}
	return r, err
}

func (s *sqlStore) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE reservations SET status = ? WHERE id = ?`), status.String(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", booking.ErrNotFound, id)
	}
	return nil
}

func (s *sqlStore) ListByCharger(ctx context.Context, chargerID string) ([]model.Reservation, error) {
	return s.list(ctx, `charger_id = ?`, chargerID)
}

func (s *sqlStore) ListByVessel(ctx context.Context, vesselID string) ([]model.Reservation, error) {
	return s.list(ctx, `vessel_id = ?`, vesselID)
}

func (s *sqlStore) Close() error { return s.db.Close() }

func (s *sqlStore) list(ctx context.Context, where string, arg any) ([]model.Reservation, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT `+reservationColumns+` FROM reservations WHERE `+where+` ORDER BY start_ns, id`), arg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []model.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReservation(sc scanner) (model.Reservation, error) {
	var (
		r                         model.Reservation
		startNS, endNS, createdNS int64
		status                    string
	)
	if err := sc.Scan(&r.ID, &r.ChargerID, &r.StationID, &r.VesselID, &r.UserID, &r.ChargerType,
		&startNS, &endNS, &status, &createdNS); err != nil {
		return model.Reservation{}, err
	}
	st, err := model.ParseReservationStatus(status)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("reservation %s: %w", r.ID, err)
	}
	r.Status = st
	r.Interval = model.Interval{Start: time.Unix(0, startNS).UTC(), End: time.Unix(0, endNS).UTC()}
	r.CreatedAt = time.Unix(0, createdNS).UTC()
	return r, nil
}
