// Package resultlog is the append-only store of every query issued and its
// observed label sequence, keyed by session. The hypothesis graph is always
// rebuilt from this log, so it is the only state that must survive a crash.
package resultlog

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id  TEXT PRIMARY KEY,
	problem     TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT NOT NULL,
	plan         TEXT NOT NULL,
	labels_json  TEXT NOT NULL,
	query_count  INTEGER NOT NULL,
	created_at   TEXT NOT NULL,
	FOREIGN KEY (session_id) REFERENCES sessions(session_id)
);

CREATE INDEX IF NOT EXISTS idx_results_session ON results(session_id, id);
`

// #endregion schema

// #region store-struct

// Store manages sessions and their query results in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the handle for sibling packages sharing the database.
func (s *Store) DB() *sql.DB { return s.db }

// #endregion constructor

// #region sessions

// NewSession creates a session row for a problem and returns its id.
func (s *Store) NewSession(problem string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO sessions (session_id, problem, created_at) VALUES (?, ?, ?)`,
		id, problem, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("new session: %w", err)
	}
	return id, nil
}

// LatestSession returns the most recently created session id and problem.
func (s *Store) LatestSession() (id, problem string, err error) {
	row := s.db.QueryRow(`SELECT session_id, problem FROM sessions ORDER BY created_at DESC, session_id DESC LIMIT 1`)
	if err := row.Scan(&id, &problem); err != nil {
		return "", "", fmt.Errorf("latest session: %w", err)
	}
	return id, problem, nil
}

// #endregion sessions

// #region append

// Append records one answered query. queryCount is the collaborator's
// monotone counter at the time of the answer.
func (s *Store) Append(sessionID string, r probe.Result, queryCount int) error {
	labels, err := json.Marshal(r.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO results (session_id, plan, labels_json, query_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, string(r.Plan), string(labels), queryCount,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

// #endregion append

// #region load

// LoadAll returns every result of a session in append order.
func (s *Store) LoadAll(sessionID string) ([]probe.Result, error) {
	rows, err := s.db.Query(
		`SELECT plan, labels_json FROM results WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	defer rows.Close()

	var results []probe.Result
	for rows.Next() {
		var plan, labelsJSON string
		if err := rows.Scan(&plan, &labelsJSON); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var labels []probe.Label
		if err := json.Unmarshal([]byte(labelsJSON), &labels); err != nil {
			return nil, fmt.Errorf("unmarshal labels: %w", err)
		}
		results = append(results, probe.Result{Plan: probe.Plan(plan), Labels: labels})
	}
	return results, rows.Err()
}

// #endregion load
