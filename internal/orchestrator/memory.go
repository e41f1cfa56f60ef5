package orchestrator

// #region imports
import (
	"database/sql"
	"math"
	"time"

	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region schema

const suffixOutcomesSchema = `
CREATE TABLE IF NOT EXISTS suffix_outcomes (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    suffix          TEXT NOT NULL,
    group_size      INTEGER NOT NULL,
    distinct_labels INTEGER NOT NULL,
    created_at      TEXT NOT NULL
);
`

const suffixOutcomesIndex = `
CREATE INDEX IF NOT EXISTS idx_suffix_outcomes_suffix
ON suffix_outcomes(suffix);
`

// #endregion

// #region memory-struct

// ProbeMemory persists how well each probe suffix has historically split
// signature groups, and ranks candidate suffixes by that observed
// information gain. Nil *ProbeMemory is valid and remembers nothing.
type ProbeMemory struct {
	db *sql.DB
}

// NewProbeMemory initializes the suffix_outcomes table.
func NewProbeMemory(db *sql.DB) (*ProbeMemory, error) {
	if _, err := db.Exec(suffixOutcomesSchema); err != nil {
		return nil, err
	}
	if _, err := db.Exec(suffixOutcomesIndex); err != nil {
		return nil, err
	}
	return &ProbeMemory{db: db}, nil
}

// #endregion

// #region record

// RecordOutcome persists one disambiguation round: a suffix probed across a
// group of groupSize members yielded distinctLabels different answers.
func (m *ProbeMemory) RecordOutcome(suffix probe.Plan, groupSize, distinctLabels int) error {
	if m == nil {
		return nil
	}
	_, err := m.db.Exec(`
		INSERT INTO suffix_outcomes (suffix, group_size, distinct_labels, created_at)
		VALUES (?, ?, ?, ?)`,
		string(suffix), groupSize, distinctLabels,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// #endregion

// #region gain

// Gain returns the decay-weighted historical split rate of a suffix in
// [0,1], or the neutral prior 0.5 when the suffix has never been tried.
// A round that split a group of n into k label classes scores (k-1)/(n-1).
func (m *ProbeMemory) Gain(suffix probe.Plan) float64 {
	if m == nil {
		return 0.5
	}
	rows, err := m.db.Query(`
		SELECT group_size, distinct_labels, created_at
		FROM suffix_outcomes WHERE suffix = ?`,
		string(suffix),
	)
	if err != nil {
		return 0.5
	}
	defer rows.Close()

	const halfLifeHours = 1.0
	now := time.Now()
	var weightedSum, totalWeight float64

	for rows.Next() {
		var size, distinct int
		var createdAtStr string
		if err := rows.Scan(&size, &distinct, &createdAtStr); err != nil {
			return 0.5
		}
		if size < 2 {
			continue
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			continue
		}
		score := float64(distinct-1) / float64(size-1)
		weight := math.Exp(-now.Sub(createdAt).Hours() / halfLifeHours)
		weightedSum += score * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0.5
	}
	return weightedSum / totalWeight
}

// #endregion
