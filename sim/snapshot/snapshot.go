// Package snapshot provides SQLite-based storage of the current simulation state.
// Every save fully replaces the previous one; no step history is kept.
package snapshot

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/commons-sim/commons-sim/sim"
)

// Meta keys written by SaveState.
const (
	MetaRunID    = "run_id"
	MetaLastStep = "last_step"
	MetaSeed     = "seed"
)

// DB wraps a SQLite connection for state persistence.
type DB struct {
	conn *sqlx.DB
}

// ResourceRow is one persisted resource.
type ResourceRow struct {
	ID       int  `db:"id"`
	Occupied bool `db:"occupied"`
	HolderID int  `db:"holder_id"`
}

// ConsumerRow is one persisted consumer.
type ConsumerRow struct {
	ID                 int     `db:"id"`
	HeldResource       int     `db:"held_resource"`
	UsageElapsed       int     `db:"usage_elapsed"`
	WaitElapsed        int     `db:"wait_elapsed"`
	Defecting          bool    `db:"defecting"`
	Trust              float64 `db:"trust"`
	Satisfaction       float64 `db:"satisfaction"`
	Autonomy           float64 `db:"autonomy"`
	WeightTrust        float64 `db:"w_trust"`
	WeightSatisfaction float64 `db:"w_satisfaction"`
	WeightAutonomy     float64 `db:"w_autonomy"`
	WeightScarcity     float64 `db:"w_scarcity"`
	MaxUsage           int     `db:"max_usage"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS resources (
		id INTEGER PRIMARY KEY,
		occupied INTEGER NOT NULL,
		holder_id INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS consumers (
		id INTEGER PRIMARY KEY,
		held_resource INTEGER NOT NULL,
		usage_elapsed INTEGER NOT NULL,
		wait_elapsed INTEGER NOT NULL,
		defecting INTEGER NOT NULL,
		trust REAL NOT NULL,
		satisfaction REAL NOT NULL,
		autonomy REAL NOT NULL,
		w_trust REAL NOT NULL,
		w_satisfaction REAL NOT NULL,
		w_autonomy REAL NOT NULL,
		w_scarcity REAL NOT NULL,
		max_usage INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS state_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveState replaces the stored state with the simulation's current state in
// one transaction, tagged with runID.
func (db *DB) SaveState(s *sim.Simulation, runID uuid.UUID, seed int64) error {
	logrus.Debugf("saving state: step %d, %d consumers, %d resources", s.StepCount, len(s.Consumers), len(s.Resources))

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM resources"); err != nil {
		return err
	}
	for _, r := range s.Resources {
		if _, err := tx.Exec("INSERT INTO resources (id, occupied, holder_id) VALUES (?, ?, ?)",
			r.ID, r.Occupied, r.HolderID); err != nil {
			return fmt.Errorf("insert resource %d: %w", r.ID, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM consumers"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO consumers
		(id, held_resource, usage_elapsed, wait_elapsed, defecting, trust, satisfaction, autonomy,
		 w_trust, w_satisfaction, w_autonomy, w_scarcity, max_usage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range s.Consumers {
		_, err := stmt.Exec(
			c.ID, c.HeldResource, c.UsageElapsed, c.WaitElapsed, c.Defecting,
			c.Trust, c.Satisfaction, c.Autonomy,
			c.Weights.Trust, c.Weights.Satisfaction, c.Weights.Autonomy, c.Weights.Scarcity,
			c.MaxUsageDuration,
		)
		if err != nil {
			return fmt.Errorf("insert consumer %d: %w", c.ID, err)
		}
	}

	meta := map[string]string{
		MetaRunID:    runID.String(),
		MetaLastStep: strconv.FormatInt(s.StepCount, 10),
		MetaSeed:     strconv.FormatInt(seed, 10),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT OR REPLACE INTO state_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	return tx.Commit()
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM state_meta WHERE key = ?", key)
	return value, err
}

// RunID returns the run that wrote the stored state.
func (db *DB) RunID() (uuid.UUID, error) {
	v, err := db.GetMeta(MetaRunID)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(v)
}

// LastStep returns the step count of the stored state.
func (db *DB) LastStep() (int64, error) {
	v, err := db.GetMeta(MetaLastStep)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

// LoadResources returns the stored resources ordered by ID.
func (db *DB) LoadResources() ([]ResourceRow, error) {
	var rows []ResourceRow
	err := db.conn.Select(&rows, "SELECT id, occupied, holder_id FROM resources ORDER BY id")
	return rows, err
}

// LoadConsumers returns the stored consumers ordered by ID.
func (db *DB) LoadConsumers() ([]ConsumerRow, error) {
	var rows []ConsumerRow
	err := db.conn.Select(&rows, `SELECT id, held_resource, usage_elapsed, wait_elapsed, defecting,
		trust, satisfaction, autonomy, w_trust, w_satisfaction, w_autonomy, w_scarcity, max_usage
		FROM consumers ORDER BY id`)
	return rows, err
}
