package inspection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aeroresponse/flightreview/internal/core/flight"
)

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS inspection_sessions (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    flight_id    TEXT    NOT NULL,
    status       TEXT    NOT NULL DEFAULT 'pending',
    notes        TEXT    NOT NULL DEFAULT '',
    created_at   INTEGER NOT NULL,
    opened_at    INTEGER NOT NULL DEFAULT 0,
    completed_at INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sessions_status ON inspection_sessions(status);

CREATE TABLE IF NOT EXISTS flight_archive (
    flight_id            TEXT PRIMARY KEY,
    date                 TEXT,
    alarm_subtype        TEXT,
    alarm_to_takeoff     REAL,
    awaiting_clearance   REAL,
    wp_out_calibrated    REAL,
    aed_drop_time        REAL,
    calibrated_delivery  REAL,
    out_distance_m       REAL,
    archived_at          INTEGER NOT NULL
);
`

// ErrNotFound is returned when a session ID does not exist.
var ErrNotFound = errors.New("inspection session not found")

// Store persists inspection sessions and archived flight KPIs in a local
// SQLite database.
type Store struct {
	dbPath string

	db     *sql.DB
	dbOnce sync.Once
	dbErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewStore creates a store backed by the database at dbPath. The
// connection opens lazily on first use.
func NewStore(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func (s *Store) getDB() (*sql.DB, error) {
	s.dbOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", s.dbPath))
		if err != nil {
			s.dbErr = fmt.Errorf("opening database: %w", err)
			return
		}

		if _, err = db.Exec(initSchemaSQL); err != nil {
			_ = db.Close()
			s.dbErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.db = db
	})

	return s.db, s.dbErr
}

// CreateSession opens a new pending inspection for a flight and returns
// its identifier.
func (s *Store) CreateSession(ctx context.Context, flightID string) (int64, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO inspection_sessions (flight_id, status, created_at) VALUES (?, ?, ?)`,
		flightID, StatusPending, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading session id: %w", err)
	}
	return id, nil
}

// Session retrieves one inspection session by ID.
func (s *Store) Session(ctx context.Context, id int64) (*Session, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx,
		`SELECT id, flight_id, status, notes, created_at, opened_at, completed_at
		 FROM inspection_sessions WHERE id = ?`, id)

	var session Session
	err = row.Scan(&session.ID, &session.FlightID, &session.Status, &session.Notes,
		&session.CreatedAt, &session.OpenedAt, &session.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return &session, nil
}

// Sessions lists inspections, optionally filtered by status, newest first.
func (s *Store) Sessions(ctx context.Context, status string) ([]*Session, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	query := `SELECT id, flight_id, status, notes, created_at, opened_at, completed_at
	          FROM inspection_sessions`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var session Session
		if err := rows.Scan(&session.ID, &session.FlightID, &session.Status, &session.Notes,
			&session.CreatedAt, &session.OpenedAt, &session.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

// Advance moves a session to its next status and stamps the transition
// time. Completed sessions cannot advance.
func (s *Store) Advance(ctx context.Context, id int64) (*Session, error) {
	session, err := s.Session(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := NextStatus(session.Status)
	if err != nil {
		return nil, err
	}

	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	switch next {
	case StatusInProgress:
		_, err = db.ExecContext(ctx,
			`UPDATE inspection_sessions SET status = ?, opened_at = ? WHERE id = ?`,
			next, now, id)
		session.OpenedAt = now
	case StatusCompleted:
		_, err = db.ExecContext(ctx,
			`UPDATE inspection_sessions SET status = ?, completed_at = ? WHERE id = ?`,
			next, now, id)
		session.CompletedAt = now
	}
	if err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}

	session.Status = next
	return session, nil
}

// SetNotes replaces a session's inspection notes.
func (s *Store) SetNotes(ctx context.Context, id int64, notes string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE inspection_sessions SET notes = ? WHERE id = ?`, notes, id)
	if err != nil {
		return fmt.Errorf("updating notes: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ArchiveFlight upserts a flight's derived KPIs so completed inspections
// keep their review evidence after log files rotate out.
func (s *Store) ArchiveFlight(ctx context.Context, summary *flight.Summary) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO flight_archive
		 (flight_id, date, alarm_subtype, alarm_to_takeoff, awaiting_clearance,
		  wp_out_calibrated, aed_drop_time, calibrated_delivery, out_distance_m, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(flight_id) DO UPDATE SET
		   date = excluded.date,
		   alarm_subtype = excluded.alarm_subtype,
		   alarm_to_takeoff = excluded.alarm_to_takeoff,
		   awaiting_clearance = excluded.awaiting_clearance,
		   wp_out_calibrated = excluded.wp_out_calibrated,
		   aed_drop_time = excluded.aed_drop_time,
		   calibrated_delivery = excluded.calibrated_delivery,
		   out_distance_m = excluded.out_distance_m,
		   archived_at = excluded.archived_at`,
		summary.FlightID, summary.Date, summary.Class,
		summary.KPIs.AlarmToTakeoff, summary.KPIs.AwaitingClearance,
		summary.KPIs.WpOutCalibrated, summary.KPIs.AedDropTime,
		summary.KPIs.CalibratedDeliveryTime, summary.OutDistanceM,
		time.Now().Unix())
	if err != nil {
		return fmt.Errorf("archiving flight: %w", err)
	}
	return nil
}

// ArchivedDeliveryTimes returns flight IDs and calibrated delivery times
// for archived flights of a subtype, newest first.
func (s *Store) ArchivedDeliveryTimes(ctx context.Context, subtype string) (map[string]float64, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT flight_id, calibrated_delivery FROM flight_archive
		 WHERE alarm_subtype = ? ORDER BY archived_at DESC`, subtype)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	times := make(map[string]float64)
	for rows.Next() {
		var id string
		var delivery float64
		if err := rows.Scan(&id, &delivery); err != nil {
			return nil, fmt.Errorf("scanning archive row: %w", err)
		}
		times[id] = delivery
	}
	return times, rows.Err()
}

// Close releases the database connection. Safe to call multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.db != nil {
			s.closeErr = s.db.Close()
		}
	})
	return s.closeErr
}
