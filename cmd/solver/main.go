package main

// #region imports
import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielpatrickdp/wayfinder/internal/codec"
	"github.com/danielpatrickdp/wayfinder/internal/config"
	"github.com/danielpatrickdp/wayfinder/internal/logging"
	"github.com/danielpatrickdp/wayfinder/internal/orchestrator"
	"github.com/danielpatrickdp/wayfinder/internal/resultlog"
)

// #endregion

// #region main
func main() {
	cfgPath := flag.String("config", "wayfinder.yaml", "config file")
	dbPath := flag.String("db", envOr("WAYFINDER_DB", "wayfinder.db"), "result log database")
	tracePath := flag.String("trace", "", "JSONL graph-state trace file (empty = off)")
	problem := flag.String("problem", "", "problem name override")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *problem != "" {
		cfg.Problem = *problem
	}
	if cfg.TeamID == "" {
		log.Fatalf("no team id: set team_id in %s or WAYFINDER_TEAM_ID", *cfgPath)
	}

	store, err := resultlog.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("open result log: %v", err)
	}
	defer store.Close()
	if err := logging.EnsureProvenanceSchema(store.DB()); err != nil {
		log.Fatalf("provenance schema: %v", err)
	}

	client := codec.NewClient(cfg.APIURL, cfg.TeamID)

	// Cancellation lands at the next iteration boundary; a best-effort
	// guess is still emitted.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := client.SelectProblem(ctx, cfg.Problem); err != nil {
		log.Fatalf("select problem %q: %v", cfg.Problem, err)
	}
	log.Printf("[SOLVER] problem=%s api=%s", cfg.Problem, cfg.APIURL)

	sessionID, err := store.NewSession(cfg.Problem)
	if err != nil {
		log.Fatalf("new session: %v", err)
	}

	orch := orchestrator.New(client, solverConfig(cfg))
	orch.AttachStore(store, sessionID)
	if mem, err := orchestrator.NewProbeMemory(store.DB()); err != nil {
		log.Printf("[SOLVER] probe memory disabled: %v", err)
	} else {
		orch.AttachMemory(mem)
	}
	if *tracePath != "" {
		tw, err := logging.NewTraceWriter(*tracePath)
		if err != nil {
			log.Fatalf("trace: %v", err)
		}
		defer tw.Close()
		orch.AttachTrace(tw)
	}

	outcome, err := orch.Run(ctx)
	if err != nil {
		log.Fatalf("session %s failed: %v", sessionID, err)
	}

	fmt.Printf("session %s: rooms=%d iterations=%d queries=%d\n",
		sessionID, outcome.DistinctRooms, outcome.Iterations, outcome.Queries)
	switch {
	case !outcome.Submitted:
		fmt.Println("guess emitted but not submitted (cancelled)")
	case outcome.Correct:
		fmt.Println("guess accepted")
	default:
		fmt.Println("guess rejected; result log retained for resubmission")
	}
	if outcome.LowConfidence {
		fmt.Println("warning: low-confidence guess (unresolved doors or forced finalization)")
	}
}

// #endregion main

// #region helpers

func solverConfig(cfg config.Config) orchestrator.Config {
	return orchestrator.Config{
		MaxIterations:       cfg.Solver.MaxIterations,
		MaxPathLength:       cfg.Solver.MaxPathLength,
		MaxPlansPerBatch:    cfg.Solver.MaxPlansPerBatch,
		QueryBudget:         cfg.Solver.QueryBudget,
		ConfidenceThreshold: cfg.Solver.ConfidenceThreshold,
		RoomCount:           cfg.Solver.RoomCount,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
