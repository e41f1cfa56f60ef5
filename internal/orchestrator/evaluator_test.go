package orchestrator

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
)

// #region helpers

// closedRoom is a single room with all six doors looping back to itself.
func closedRoom(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	id := g.AddNode(2)
	for d := 0; d < 6; d++ {
		if err := g.SetDoor(id, d, id); err != nil {
			t.Fatalf("SetDoor: %v", err)
		}
	}
	return g
}

// #endregion helpers

// #region test-hard-rule

// An unresolved door must block finalization even when every soft signal
// is maxed out.
func TestEvaluateNeverFinalizesWithUnresolvedDoors(t *testing.T) {
	g := graph.New()
	id := g.AddNode(0)
	for d := 0; d < 5; d++ {
		g.SetDoor(id, d, id)
	}

	eval := NewEvaluator(Config{ConfidenceThreshold: 0.9, RoomCount: 1})
	a := eval.Evaluate(g, true, 1)

	if a.Confidence < 0.9 {
		t.Fatalf("test premise broken: confidence %.3f should clear the threshold", a.Confidence)
	}
	if a.Verdict != VerdictContinue {
		t.Errorf("verdict %s with door slot unresolved, want %s", a.Verdict, VerdictContinue)
	}
}

// #endregion test-hard-rule

// #region test-verdicts
func TestEvaluateFinalize(t *testing.T) {
	eval := NewEvaluator(Config{ConfidenceThreshold: 0.9, RoomCount: 1})
	a := eval.Evaluate(closedRoom(t), true, 1)

	if math.Abs(a.Confidence-1.0) > 1e-9 {
		t.Errorf("confidence %.3f, want 1.0", a.Confidence)
	}
	if !a.RoomCountMatch {
		t.Error("room count should match")
	}
	if a.Verdict != VerdictFinalize {
		t.Errorf("verdict %s, want %s", a.Verdict, VerdictFinalize)
	}
}

func TestEvaluateAdvanceOnStablePlateau(t *testing.T) {
	// Fully covered and stable, but the declared count says rooms are still
	// conflated: the planner should be told to escalate.
	eval := NewEvaluator(Config{ConfidenceThreshold: 0.9, RoomCount: 5})
	a := eval.Evaluate(closedRoom(t), true, 1)

	if a.Verdict != VerdictAdvance {
		t.Errorf("verdict %s, want %s", a.Verdict, VerdictAdvance)
	}
}

func TestEvaluateContinueWhileUnstable(t *testing.T) {
	eval := NewEvaluator(Config{ConfidenceThreshold: 0.9, RoomCount: 5})
	a := eval.Evaluate(closedRoom(t), false, 1)

	if a.Verdict != VerdictContinue {
		t.Errorf("verdict %s, want %s", a.Verdict, VerdictContinue)
	}
}

// #endregion test-verdicts

// #region test-undeclared

// An undeclared room count earns neutral half credit, not a penalty.
func TestEvaluateUndeclaredRoomCount(t *testing.T) {
	eval := NewEvaluator(Config{ConfidenceThreshold: 0.95, RoomCount: 0})
	a := eval.Evaluate(closedRoom(t), true, 1)

	want := weightCoverage + weightStability + weightRoomCount/2
	if math.Abs(a.Confidence-want) > 1e-9 {
		t.Errorf("confidence %.3f, want %.3f", a.Confidence, want)
	}
	if a.RoomCountMatch {
		t.Error("undeclared count must not report a match")
	}
}

// #endregion test-undeclared
