package orchestrator

// #region imports
import (
	"github.com/danielpatrickdp/wayfinder/internal/graph"
)

// #endregion

// #region weights

// Confidence weighting. Heuristic; the door-coverage hard rule below is the
// invariant, the weights are tunable.
const (
	weightCoverage  = 0.5
	weightStability = 0.3
	weightRoomCount = 0.2
)

// #endregion

// #region evaluator

// Evaluator scores the hypothesis graph and decides whether the orchestrator
// should keep refining, escalate its planning, or finalize.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an evaluator for the session config.
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// #endregion evaluator

// #region evaluate

// Evaluate combines three signals: door-slot coverage, signature-grouping
// stability across the last two iterations, and agreement between the
// distinct-room estimate and the externally declared room count.
//
// Hard rule: never finalize while any door slot is unresolved, no matter how
// strong the other signals are.
func (e *Evaluator) Evaluate(g *graph.Graph, stable bool, distinctRooms int) Assessment {
	resolved, total := g.DoorCoverage()
	coverage := 0.0
	if total > 0 {
		coverage = float64(resolved) / float64(total)
	}

	match := e.cfg.RoomCount != 0 && distinctRooms == e.cfg.RoomCount

	confidence := weightCoverage * coverage
	if stable {
		confidence += weightStability
	}
	switch {
	case match:
		confidence += weightRoomCount
	case e.cfg.RoomCount == 0:
		// Undeclared count: neutral half credit, not a penalty.
		confidence += weightRoomCount / 2
	}

	a := Assessment{
		DoorCoverage:   coverage,
		GroupingStable: stable,
		RoomCountMatch: match,
		DistinctRooms:  distinctRooms,
		Confidence:     confidence,
	}

	switch {
	case coverage < 1.0:
		a.Verdict = VerdictContinue
	case confidence >= e.cfg.ConfidenceThreshold:
		a.Verdict = VerdictFinalize
	case stable:
		// Fully covered and nothing moving: more of the same probes won't
		// help, so ask the planner to escalate.
		a.Verdict = VerdictAdvance
	default:
		a.Verdict = VerdictContinue
	}
	return a
}

// #endregion evaluate
