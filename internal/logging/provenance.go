package logging

// #region imports
import (
	"database/sql"
	"fmt"
	"time"
)

// #endregion

// #region schema

const provenanceSchema = `
CREATE TABLE IF NOT EXISTS provenance_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT NOT NULL,
	iteration    INTEGER NOT NULL,
	phase        TEXT NOT NULL,
	verdict      TEXT NOT NULL,
	signals_json TEXT,
	reason       TEXT,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_provenance_session ON provenance_log(session_id, iteration);
`

// EnsureProvenanceSchema creates the provenance table if missing.
func EnsureProvenanceSchema(db *sql.DB) error {
	if _, err := db.Exec(provenanceSchema); err != nil {
		return fmt.Errorf("provenance schema: %w", err)
	}
	return nil
}

// #endregion schema

// #region types

// ProvenanceEntry is one iteration-level decision record.
type ProvenanceEntry struct {
	SessionID   string
	Iteration   int
	Phase       string
	Verdict     string
	SignalsJSON string
	Reason      string
	CreatedAt   time.Time
}

// #endregion types

// #region log-decision

// LogDecision writes a provenance row for one solver iteration.
func LogDecision(db *sql.DB, entry ProvenanceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO provenance_log (session_id, iteration, phase, verdict, signals_json, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		entry.Iteration,
		entry.Phase,
		entry.Verdict,
		nullIfEmpty(entry.SignalsJSON),
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// #endregion log-decision

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
