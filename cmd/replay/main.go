package main

// #region imports
import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/danielpatrickdp/wayfinder/internal/logging"
	"github.com/danielpatrickdp/wayfinder/internal/orchestrator"
	"github.com/danielpatrickdp/wayfinder/internal/replay"
)

// #endregion

// #region main

// cmd/replay runs the full solving loop against a fixture labyrinth, no
// network. The harness knows the ground truth, so the run reports whether
// the emitted guess was actually right.
func main() {
	fixturePath := flag.String("fixture", "", "labyrinth fixture JSON (empty = built-in hexagon)")
	tracePath := flag.String("trace", "", "JSONL graph-state trace file (empty = off)")
	iterations := flag.Int("iterations", 60, "iteration cap")
	budget := flag.Int("budget", 400, "query budget")
	rooms := flag.Int("rooms", 0, "declared room count (0 = undeclared)")
	flag.Parse()

	lab := replay.Hexagon()
	if *fixturePath != "" {
		f, err := replay.LoadFixture(*fixturePath)
		if err != nil {
			log.Fatalf("fixture: %v", err)
		}
		lab, err = f.Labyrinth()
		if err != nil {
			log.Fatalf("fixture: %v", err)
		}
		log.Printf("[REPLAY] %s (%d rooms)", f.Description, len(f.Rooms))
	}

	harness := replay.NewHarness(lab)
	orch := orchestrator.New(harness, orchestrator.Config{
		MaxIterations:       *iterations,
		MaxPathLength:       12,
		MaxPlansPerBatch:    16,
		QueryBudget:         *budget,
		ConfidenceThreshold: 0.9,
		RoomCount:           *rooms,
	})
	if *tracePath != "" {
		tw, err := logging.NewTraceWriter(*tracePath)
		if err != nil {
			log.Fatalf("trace: %v", err)
		}
		defer tw.Close()
		orch.AttachTrace(tw)
	}

	outcome, err := orch.Run(context.Background())
	if err != nil {
		log.Fatalf("replay run: %v", err)
	}

	fmt.Printf("rooms=%d (truth %d) iterations=%d queries=%d correct=%v lowConfidence=%v\n",
		outcome.DistinctRooms, len(lab.Labels), outcome.Iterations, outcome.Queries,
		outcome.Correct, outcome.LowConfidence)
}

// #endregion main
