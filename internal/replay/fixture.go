package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region fixture-types

// Fixture is the on-disk JSON form of a ground-truth labyrinth: the chart
// shape plus a human description.
type Fixture struct {
	Description  string             `json:"description"`
	Rooms        []int              `json:"rooms"`
	StartingRoom int                `json:"startingRoom"`
	Connections  []graph.Connection `json:"connections"`
}

// #endregion fixture-types

// #region load-save

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if _, err := f.Labyrinth(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

// Save writes the fixture as indented JSON.
func (f *Fixture) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// Labyrinth converts the fixture to a runnable labyrinth.
func (f *Fixture) Labyrinth() (*Labyrinth, error) {
	return FromChart(graph.Chart{
		Rooms:        f.Rooms,
		StartingRoom: f.StartingRoom,
		Connections:  f.Connections,
	})
}

// FixtureFromLabyrinth renders a labyrinth back into fixture form, pairing
// doors greedily the same way the chart emitter does.
func FixtureFromLabyrinth(description string, lab *Labyrinth) *Fixture {
	f := &Fixture{Description: description, StartingRoom: lab.Start}
	for _, l := range lab.Labels {
		f.Rooms = append(f.Rooms, int(l))
	}
	used := make([][probe.DoorCount]bool, len(lab.Labels))
	for r := range lab.Doors {
		for d := 0; d < probe.DoorCount; d++ {
			if used[r][d] {
				continue
			}
			t := lab.Doors[r][d]
			rd := -1
			for cand := 0; cand < probe.DoorCount; cand++ {
				if !used[t][cand] && lab.Doors[t][cand] == r {
					rd = cand
					break
				}
			}
			if rd == -1 {
				rd = d // asymmetric ground truth; stub on our own side
				t = r
			}
			used[r][d] = true
			used[t][rd] = true
			f.Connections = append(f.Connections, graph.Connection{
				From: graph.Location{Room: r, Door: d},
				To:   graph.Location{Room: t, Door: rd},
			})
		}
	}
	return f
}

// #endregion load-save

// #region sample-worlds

// SingleRoom is the smallest world: one room, every door a self-loop.
func SingleRoom() *Labyrinth {
	lab := &Labyrinth{Labels: []probe.Label{0}, Doors: make([][probe.DoorCount]int, 1)}
	return lab
}

// TwoRoom is two fully connected rooms: door d of room 0 leads to room 1
// and back, for every d.
func TwoRoom() *Labyrinth {
	lab := &Labyrinth{
		Labels: []probe.Label{0, 1},
		Doors:  make([][probe.DoorCount]int, 2),
	}
	for d := 0; d < probe.DoorCount; d++ {
		lab.Doors[0][d] = 1
		lab.Doors[1][d] = 0
	}
	return lab
}

// Hexagon is a six-room ring: door 0 steps forward, door 1 steps back,
// doors 2..5 are self-loops. Labels repeat, so rooms 0/4 and 1/5 can only
// be told apart by their neighborhoods.
func Hexagon() *Labyrinth {
	lab := &Labyrinth{
		Labels: []probe.Label{0, 1, 2, 3, 0, 1},
		Doors:  make([][probe.DoorCount]int, 6),
	}
	for r := 0; r < 6; r++ {
		lab.Doors[r][0] = (r + 1) % 6
		lab.Doors[r][1] = (r + 5) % 6
		for d := 2; d < probe.DoorCount; d++ {
			lab.Doors[r][d] = r
		}
	}
	return lab
}

// #endregion sample-worlds
