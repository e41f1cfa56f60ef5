package main

// #region imports
import (
	"flag"
	"fmt"
	"log"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/resultlog"
)

// #endregion

// #region main

// cmd/inspect re-assembles a recorded session's hypothesis graph from the
// result log and prints what it knows: nodes, coverage, unresolved doors.
func main() {
	dbPath := flag.String("db", "wayfinder.db", "result log database")
	sessionID := flag.String("session", "", "session id (empty = latest)")
	flag.Parse()

	store, err := resultlog.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("open result log: %v", err)
	}
	defer store.Close()

	id := *sessionID
	problem := ""
	if id == "" {
		id, problem, err = store.LatestSession()
		if err != nil {
			log.Fatalf("no sessions recorded: %v", err)
		}
	}

	results, err := store.LoadAll(id)
	if err != nil {
		log.Fatalf("load session %s: %v", id, err)
	}

	g, _ := graph.Build(results)
	resolved, total := g.DoorCoverage()

	fmt.Printf("session %s", id)
	if problem != "" {
		fmt.Printf(" (%s)", problem)
	}
	fmt.Printf(": %d results\n", len(results))
	fmt.Printf("nodes=%d doors %d/%d resolved\n", len(g.Canonical()), resolved, total)

	for _, nid := range g.Canonical() {
		n, _ := g.Node(nid)
		fmt.Printf("  node %d label=%d doors=", nid, n.Label)
		for d := range n.Doors {
			if t := g.Door(nid, d); t == graph.Unset {
				fmt.Print("? ")
			} else {
				fmt.Printf("%d ", t)
			}
		}
		fmt.Println()
	}
	if slots := g.UnresolvedDoors(); len(slots) > 0 {
		fmt.Printf("unresolved: %v\n", slots)
	}
}

// #endregion main
