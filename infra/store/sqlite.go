// Package store persists run results in a SQLite database, so repeated runs
// of the same site can be compared without re-parsing export files.
package store

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chargesim/chargesim/core/profile"
)

// SQLiteStore appends finished sessions and run summaries to a database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS sessions (
        run_id TEXT,
        event_id INTEGER,
        vehicle TEXT,
        point_id TEXT,
        admitted_step INTEGER,
        departed_step INTEGER,
        initial_soc REAL,
        final_soc REAL,
        target_soc REAL,
        energy_kwh REAL,
        target_reached INTEGER,
        PRIMARY KEY(run_id, event_id)
    );
    CREATE TABLE IF NOT EXISTS runs (
        run_id TEXT PRIMARY KEY,
        policy TEXT,
        started_at INTEGER,
        peak_kw REAL,
        total_energy_kwh REAL,
        sessions INTEGER,
        targets_reached INTEGER
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// AddSession inserts or replaces one finished session of a run.
func (s *SQLiteStore) AddSession(runID string, sum profile.SessionSummary) error {
	_, err := s.db.Exec(`INSERT INTO sessions
        (run_id, event_id, vehicle, point_id, admitted_step, departed_step,
         initial_soc, final_soc, target_soc, energy_kwh, target_reached)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(run_id, event_id) DO UPDATE SET
            final_soc = excluded.final_soc,
            departed_step = excluded.departed_step,
            energy_kwh = excluded.energy_kwh,
            target_reached = excluded.target_reached`,
		runID, sum.EventID, sum.Vehicle, sum.PointID, sum.AdmittedStep, sum.DepartedStep,
		sum.InitialSoC, sum.FinalSoC, sum.TargetSoC, sum.EnergyKWh, boolInt(sum.TargetReached))
	return err
}

// AddRun records the summary line of a completed run.
func (s *SQLiteStore) AddRun(runID, policy string, start time.Time, stats profile.Stats) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO runs
        (run_id, policy, started_at, peak_kw, total_energy_kwh, sessions, targets_reached)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, policy, start.Unix(), stats.PeakKW, stats.TotalEnergyKWh, stats.Sessions, stats.TargetsReached)
	return err
}

// Sessions returns the stored sessions of a run in event order.
func (s *SQLiteStore) Sessions(runID string) ([]profile.SessionSummary, error) {
	rows, err := s.db.Query(`SELECT event_id, vehicle, point_id, admitted_step,
        departed_step, initial_soc, final_soc, target_soc, energy_kwh, target_reached
        FROM sessions WHERE run_id = ? ORDER BY event_id`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []profile.SessionSummary
	for rows.Next() {
		var sum profile.SessionSummary
		var reached int
		if err := rows.Scan(&sum.EventID, &sum.Vehicle, &sum.PointID, &sum.AdmittedStep,
			&sum.DepartedStep, &sum.InitialSoC, &sum.FinalSoC, &sum.TargetSoC,
			&sum.EnergyKWh, &reached); err != nil {
			return nil, err
		}
		sum.TargetReached = reached != 0
		res = append(res, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
