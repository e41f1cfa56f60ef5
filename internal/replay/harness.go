package replay

// #region imports
import (
	"context"
	"sync"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region harness

// Harness exposes a labyrinth through the collaborator contract: batched
// plan execution with a monotone query counter, plus guess checking against
// the ground truth. It records everything it was asked, so tests can assert
// on the query load.
type Harness struct {
	mu      sync.Mutex
	lab     *Labyrinth
	queries int
	Batches [][]probe.Plan
	Guesses []graph.Chart
}

// NewHarness wraps a labyrinth.
func NewHarness(lab *Labyrinth) *Harness {
	return &Harness{lab: lab}
}

// #endregion harness

// #region explore

// Explore answers one result per plan. Each plan costs one query.
func (h *Harness) Explore(_ context.Context, plans []probe.Plan) ([]probe.Result, int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	batch := make([]probe.Plan, len(plans))
	copy(batch, plans)
	h.Batches = append(h.Batches, batch)

	results := make([]probe.Result, len(plans))
	for i, p := range plans {
		results[i] = probe.Result{Plan: p, Labels: h.lab.Walk(p)}
		h.queries++
	}
	return results, h.queries, nil
}

// QueryCount returns the number of plans answered so far.
func (h *Harness) QueryCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.queries
}

// #endregion explore

// #region submit-guess

// SubmitGuess checks the chart against the ground truth.
func (h *Harness) SubmitGuess(_ context.Context, chart graph.Chart) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Guesses = append(h.Guesses, chart)
	guessed, err := FromChart(chart)
	if err != nil {
		return false, nil // malformed guess is wrong, not a transport error
	}
	return Equivalent(h.lab, guessed), nil
}

// #endregion submit-guess
