package replay

import (
	"context"
	"testing"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #region test-explore
func TestHarnessExploreCounts(t *testing.T) {
	h := NewHarness(TwoRoom())
	ctx := context.Background()

	results, count, err := h.Explore(ctx, []probe.Plan{"0", "00"})
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}
	if count != 2 || h.QueryCount() != 2 {
		t.Errorf("query count %d / %d, want 2", count, h.QueryCount())
	}
	if len(results) != 2 {
		t.Fatalf("results %+v", results)
	}
	if got := results[1].Labels; len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 0 {
		t.Errorf("labels for 00: %v", got)
	}

	if _, count, _ = h.Explore(ctx, []probe.Plan{"1"}); count != 3 {
		t.Errorf("counter not monotone: %d", count)
	}
	if len(h.Batches) != 2 {
		t.Errorf("%d batches recorded", len(h.Batches))
	}
}

// #endregion test-explore

// #region test-guess
func TestHarnessSubmitGuess(t *testing.T) {
	h := NewHarness(SingleRoom())
	ctx := context.Background()

	var conns []graph.Connection
	for d := 0; d < probe.DoorCount; d++ {
		conns = append(conns, graph.Connection{
			From: graph.Location{Room: 0, Door: d},
			To:   graph.Location{Room: 0, Door: d},
		})
	}
	correct, err := h.SubmitGuess(ctx, graph.Chart{Rooms: []int{0}, Connections: conns})
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if !correct {
		t.Error("exact chart rejected")
	}

	// A malformed chart is a wrong guess, never a transport error.
	correct, err = h.SubmitGuess(ctx, graph.Chart{Rooms: []int{0}})
	if err != nil {
		t.Fatalf("SubmitGuess malformed: %v", err)
	}
	if correct {
		t.Error("malformed chart accepted")
	}
	if len(h.Guesses) != 2 {
		t.Errorf("%d guesses recorded", len(h.Guesses))
	}
}

// #endregion test-guess
