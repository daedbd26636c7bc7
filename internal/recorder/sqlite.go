package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"LifeSupport/internal/logging"
	"LifeSupport/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log logging.Logger
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, log logging.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS day_steps (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			day           INTEGER NOT NULL,
			demand_oxygen INTEGER,
			demand_water  INTEGER,
			demand_food   INTEGER,
			demand_energy INTEGER,
			met_oxygen    INTEGER,
			met_water     INTEGER,
			met_food      INTEGER,
			met_energy    INTEGER,
			farm_bonus    INTEGER,
			oxygen        INTEGER,
			water         INTEGER,
			food          INTEGER,
			energy        INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_day_steps_run ON day_steps(run_id, day)`,

		`CREATE TABLE IF NOT EXISTS runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			residents      INTEGER,
			farms          INTEGER,
			days           INTEGER,
			initial_oxygen INTEGER,
			initial_water  INTEGER,
			initial_food   INTEGER,
			initial_energy INTEGER,
			final_oxygen   INTEGER,
			final_water    INTEGER,
			final_food     INTEGER,
			final_energy   INTEGER,
			started_at     INTEGER,
			finished_at    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_run ON runs(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordDay(evt *DayEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := evt.Record
	d, met, after := rec.Demand, rec.Report, rec.After
	_, err := r.db.Exec(`INSERT INTO day_steps
		(run_id, day,
		 demand_oxygen, demand_water, demand_food, demand_energy,
		 met_oxygen, met_water, met_food, met_energy, farm_bonus,
		 oxygen, water, food, energy)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		evt.RunID, rec.Day,
		d[model.Oxygen], d[model.Water], d[model.Food], d[model.Energy],
		met[model.Oxygen], met[model.Water], met[model.Food], met[model.Energy], rec.FarmBonus,
		after[model.Oxygen], after[model.Water], after[model.Food], after[model.Energy],
	)
	return err
}

func (r *SQLiteRecorder) RecordRun(evt *RunEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	in, out := evt.Initial, evt.Final
	_, err := r.db.Exec(`INSERT INTO runs
		(run_id, residents, farms, days,
		 initial_oxygen, initial_water, initial_food, initial_energy,
		 final_oxygen, final_water, final_food, final_energy,
		 started_at, finished_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		evt.RunID, evt.Residents, evt.Farms, evt.Days,
		in[model.Oxygen], in[model.Water], in[model.Food], in[model.Energy],
		out[model.Oxygen], out[model.Water], out[model.Food], out[model.Energy],
		evt.StartedAt.Unix(), evt.FinishedAt.Unix(),
	)
	return err
}

// DayCount returns how many day steps are stored for runID.
func (r *SQLiteRecorder) DayCount(runID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM day_steps WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

// LastStock returns the stock after the most recent stored day of runID.
func (r *SQLiteRecorder) LastStock(runID string) (model.Stock, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s model.Stock
	var day int
	err := r.db.QueryRow(`SELECT day, oxygen, water, food, energy FROM day_steps
		WHERE run_id = ? ORDER BY day DESC LIMIT 1`, runID).
		Scan(&day, &s[model.Oxygen], &s[model.Water], &s[model.Food], &s[model.Energy])
	if err != nil {
		return model.Stock{}, 0, fmt.Errorf("query last stock: %w", err)
	}
	return s, day, nil
}

// Verify cross-checks the stored steps of runID against the run's outcome.
func (r *SQLiteRecorder) Verify(runID string, days int, final model.Stock) error {
	n, err := r.DayCount(runID)
	if err != nil {
		return fmt.Errorf("verify run %s: %w", runID, err)
	}
	if n != days {
		return fmt.Errorf("verify run %s: %w: %d days stored, %d simulated", runID, ErrHistoryMismatch, n, days)
	}
	if days == 0 {
		return nil
	}
	last, day, err := r.LastStock(runID)
	if err != nil {
		return fmt.Errorf("verify run %s: %w", runID, err)
	}
	if last != final {
		return fmt.Errorf("verify run %s: %w: day %d stored %v, final %v", runID, ErrHistoryMismatch, day, last, final)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	r.log.Infof("closing sqlite recorder")
	return r.db.Close()
}
