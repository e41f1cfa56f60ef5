package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/probe"
	"github.com/danielpatrickdp/wayfinder/internal/replay"
	"github.com/danielpatrickdp/wayfinder/internal/resultlog"
)

// #region helpers

func sessionConfig() Config {
	return Config{
		MaxIterations:       60,
		MaxPathLength:       12,
		MaxPlansPerBatch:    16,
		QueryBudget:         400,
		ConfidenceThreshold: 0.9,
	}
}

func solve(t *testing.T, lab *replay.Labyrinth, cfg Config) (Outcome, *replay.Harness) {
	t.Helper()
	h := replay.NewHarness(lab)
	o := New(h, cfg)
	out, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out, h
}

// #endregion helpers

// #region test-end-to-end
func TestRunSingleRoom(t *testing.T) {
	cfg := sessionConfig()
	cfg.RoomCount = 1
	out, _ := solve(t, replay.SingleRoom(), cfg)

	if !out.Submitted || !out.Correct {
		t.Fatalf("outcome submitted=%v correct=%v", out.Submitted, out.Correct)
	}
	if out.LowConfidence {
		t.Error("trivial world flagged low confidence")
	}
	if out.DistinctRooms != 1 {
		t.Errorf("distinct rooms %d, want 1", out.DistinctRooms)
	}
}

func TestRunTwoRoom(t *testing.T) {
	cfg := sessionConfig()
	cfg.RoomCount = 2
	out, h := solve(t, replay.TwoRoom(), cfg)

	if !out.Correct {
		t.Fatalf("guess rejected: %+v", out)
	}
	if out.DistinctRooms != 2 {
		t.Errorf("distinct rooms %d, want 2", out.DistinctRooms)
	}
	if out.Queries != h.QueryCount() {
		t.Errorf("outcome queries %d, harness counted %d", out.Queries, h.QueryCount())
	}
	if out.Queries > cfg.QueryBudget {
		t.Errorf("query budget exceeded: %d > %d", out.Queries, cfg.QueryBudget)
	}
}

// Hexagon repeats labels, so rooms 0/4 and 1/5 must be separated by their
// neighborhoods rather than their labels.
func TestRunHexagon(t *testing.T) {
	cfg := sessionConfig()
	cfg.RoomCount = 6
	out, _ := solve(t, replay.Hexagon(), cfg)

	if !out.Correct {
		t.Fatalf("guess rejected: %+v", out)
	}
	if out.DistinctRooms != 6 {
		t.Errorf("distinct rooms %d, want 6", out.DistinctRooms)
	}
}

// ringWorld is an n-room ring with labels repeating mod 4: door 0 steps
// forward, door 1 back, the rest are self-loops. At n=10 the opposite rooms
// agree on every walk of length two or less, so separating them takes
// deeper walks and the door structure itself.
func ringWorld(n int) *replay.Labyrinth {
	lab := &replay.Labyrinth{
		Labels: make([]probe.Label, n),
		Doors:  make([][probe.DoorCount]int, n),
	}
	for r := 0; r < n; r++ {
		lab.Labels[r] = probe.Label(r % 4)
		lab.Doors[r][0] = (r + 1) % n
		lab.Doors[r][1] = (r + n - 1) % n
		for d := 2; d < probe.DoorCount; d++ {
			lab.Doors[r][d] = r
		}
	}
	return lab
}

func TestRunTenRoomRing(t *testing.T) {
	cfg := sessionConfig()
	cfg.RoomCount = 10
	cfg.QueryBudget = 2000
	cfg.MaxIterations = 120

	out, _ := solve(t, ringWorld(10), cfg)

	if !out.Correct {
		t.Fatalf("guess rejected: %+v", out)
	}
	if out.DistinctRooms != 10 {
		t.Errorf("distinct rooms %d, want 10", out.DistinctRooms)
	}
	if out.Queries > cfg.QueryBudget {
		t.Errorf("query budget exceeded: %d > %d", out.Queries, cfg.QueryBudget)
	}
}

// #endregion test-end-to-end

// #region test-merge

// A node whose walks cover only part of the probe set still folds into the
// room it duplicates when they agree on everything both have seen.
func TestMergeDuplicatesFoldsPartialObservations(t *testing.T) {
	o := New(replay.NewHarness(replay.SingleRoom()), sessionConfig())

	g := graph.New()
	interior := g.AddNode(0)
	hub := g.AddNode(1)
	for d := 0; d < probe.DoorCount; d++ {
		g.SetDoor(interior, d, hub)
		g.SetDoor(hub, d, interior)
	}
	dup := g.AddNode(0)
	g.SetDoor(dup, 0, hub)

	o.mergeDuplicates(g, SignatureProbes())

	if g.Resolve(dup) != interior {
		t.Errorf("duplicate resolved to %d, want %d", g.Resolve(dup), interior)
	}
	if len(g.Canonical()) != 2 {
		t.Errorf("canonical count %d, want 2", len(g.Canonical()))
	}
}

// A node agreeing with two surviving candidates stays separate until more
// observations decide between them.
func TestMergeDuplicatesDefersAmbiguousCandidates(t *testing.T) {
	o := New(replay.NewHarness(replay.SingleRoom()), sessionConfig())

	g := graph.New()
	start := g.AddNode(0)
	left := g.AddNode(1)
	right := g.AddNode(1)
	mid := g.AddNode(2)
	g.SetDoor(start, 0, left)
	g.SetDoor(start, 1, right)
	g.SetDoor(left, 0, mid)
	g.SetDoor(right, 0, mid)
	g.SetDoor(left, 1, start) // left and right diverge behind door 1
	g.SetDoor(right, 1, mid)

	newcomer := g.AddNode(1)
	g.SetDoor(newcomer, 0, mid)

	o.mergeDuplicates(g, SignatureProbes())

	if g.Resolve(newcomer) != newcomer {
		t.Errorf("ambiguous node folded into %d", g.Resolve(newcomer))
	}
	if g.Resolve(left) != left || g.Resolve(right) != right {
		t.Error("diverging candidates merged with each other")
	}
}

// #endregion test-merge

// #region test-budget

// Exhausting the query budget forces a final mapping flagged low confidence
// rather than stalling or skipping the guess.
func TestRunBudgetExhaustionFlagsLowConfidence(t *testing.T) {
	cfg := sessionConfig()
	cfg.RoomCount = 6
	cfg.QueryBudget = 8

	out, _ := solve(t, replay.Hexagon(), cfg)

	if !out.LowConfidence {
		t.Error("starved session not flagged low confidence")
	}
	if !out.Submitted {
		t.Error("starved session must still submit its best guess")
	}
	if out.Queries > cfg.QueryBudget+cfg.MaxPlansPerBatch {
		t.Errorf("queries %d far beyond budget %d", out.Queries, cfg.QueryBudget)
	}
}

// #endregion test-budget

// #region test-failure

type failingExplorer struct{ calls int }

func (f *failingExplorer) Explore(context.Context, []probe.Plan) ([]probe.Result, int, error) {
	f.calls++
	return nil, 0, errors.New("collaborator unreachable")
}

func (f *failingExplorer) SubmitGuess(context.Context, graph.Chart) (bool, error) {
	return false, errors.New("collaborator unreachable")
}

// A collaborator failure fails the session immediately; there is no retry.
func TestRunPropagatesExploreFailure(t *testing.T) {
	f := &failingExplorer{}
	o := New(f, sessionConfig())
	_, err := o.Run(context.Background())
	if err == nil {
		t.Fatal("expected error from failing collaborator")
	}
	if !strings.Contains(err.Error(), "iteration 1") {
		t.Errorf("error %q lacks iteration context", err)
	}
	if f.calls != 1 {
		t.Errorf("explore called %d times, want exactly 1", f.calls)
	}
}

// #endregion test-failure

// #region test-cancel

// A cancelled context stops refinement but still emits an unsubmitted guess.
func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := replay.NewHarness(replay.TwoRoom())
	o := New(h, sessionConfig())
	out, err := o.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Submitted {
		t.Error("cancelled session submitted a guess")
	}
	if !out.LowConfidence {
		t.Error("cancelled session not flagged low confidence")
	}
	if len(h.Batches) != 0 {
		t.Errorf("cancelled session issued %d batches", len(h.Batches))
	}
}

// #endregion test-cancel

// #region test-persistence

// Attached stores see every result the orchestrator consumed, in order.
func TestRunPersistsResults(t *testing.T) {
	store, err := resultlog.NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()
	session, err := store.NewSession("probatio")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	cfg := sessionConfig()
	cfg.RoomCount = 2
	h := replay.NewHarness(replay.TwoRoom())
	o := New(h, cfg)
	o.AttachStore(store, session)

	out, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.Correct {
		t.Fatalf("guess rejected: %+v", out)
	}

	logged, err := store.LoadAll(session)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(logged) != out.Queries {
		t.Errorf("logged %d results, outcome reports %d queries", len(logged), out.Queries)
	}
	// The log must be replayable on its own.
	g, _ := graph.Build(logged)
	if len(g.Canonical()) == 0 {
		t.Error("rebuilt graph is empty")
	}
}

// #endregion test-persistence
