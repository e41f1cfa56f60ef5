package orchestrator

// #region imports
import (
	"context"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region phase

// Phase is one state of the solving state machine.
type Phase string

const (
	PhaseInitialExploration  Phase = "initialExploration"
	PhaseIterativeRefinement Phase = "iterativeRefinement"
	PhaseFinalMapping        Phase = "finalMapping"
	PhaseDone                Phase = "done"
)

// #endregion

// #region verdict

// Verdict is the evaluator's decision for the current iteration.
type Verdict string

const (
	VerdictContinue Verdict = "continue"
	VerdictAdvance  Verdict = "advance"
	VerdictFinalize Verdict = "finalize"
)

// #endregion

// #region config

// Config bounds a solving session.
type Config struct {
	MaxIterations       int
	MaxPathLength       int
	MaxPlansPerBatch    int
	QueryBudget         int
	ConfidenceThreshold float64
	// RoomCount is the externally declared room count; 0 means undeclared.
	RoomCount int
}

// #endregion

// #region assessment

// Assessment is the evaluator's full signal set for one iteration.
type Assessment struct {
	DoorCoverage   float64 `json:"door_coverage"`
	GroupingStable bool    `json:"grouping_stable"`
	RoomCountMatch bool    `json:"room_count_match"`
	DistinctRooms  int     `json:"distinct_rooms"`
	Confidence     float64 `json:"confidence"`
	Verdict        Verdict `json:"verdict"`
}

// #endregion

// #region outcome

// Outcome summarizes an emitted session.
type Outcome struct {
	Chart         graph.Chart
	Correct       bool
	Submitted     bool
	LowConfidence bool
	Iterations    int
	Queries       int
	DistinctRooms int
}

// #endregion

// #region explorer

// Explorer is the external collaborator boundary: it executes plan batches
// and accepts the final structural guess. A failed call fails the session;
// retry is the caller's concern, never the orchestrator's.
type Explorer interface {
	Explore(ctx context.Context, plans []probe.Plan) ([]probe.Result, int, error)
	SubmitGuess(ctx context.Context, chart graph.Chart) (bool, error)
}

// #endregion
