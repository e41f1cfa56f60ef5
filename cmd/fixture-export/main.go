package main

// #region imports
import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/danielpatrickdp/wayfinder/internal/replay"
)

// #endregion

// #region main

// cmd/fixture-export writes the built-in sample labyrinths as JSON fixtures
// for cmd/replay and the test suite.
func main() {
	outDir := flag.String("out", "fixtures", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create %s: %v", *outDir, err)
	}

	samples := []struct {
		name string
		desc string
		lab  *replay.Labyrinth
	}{
		{"single_room", "one room, every door a self-loop", replay.SingleRoom()},
		{"two_room", "two rooms fully connected door-for-door", replay.TwoRoom()},
		{"hexagon", "six-room ring with repeated labels", replay.Hexagon()},
	}

	for _, s := range samples {
		f := replay.FixtureFromLabyrinth(s.desc, s.lab)
		path := filepath.Join(*outDir, s.name+".json")
		if err := f.Save(path); err != nil {
			log.Fatalf("save %s: %v", path, err)
		}
		fmt.Printf("wrote %s (%d rooms, %d connections)\n", path, len(f.Rooms), len(f.Connections))
	}
}

// #endregion main
