// Package replay simulates a ground-truth labyrinth so the solver can run
// without the network: in tests, and in cmd/replay against JSON fixtures.
package replay

// #region imports
import (
	"fmt"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region labyrinth

// Labyrinth is a fully known room graph. Doors[r][d] is the room behind
// door d of room r; every door leads somewhere.
type Labyrinth struct {
	Labels []probe.Label
	Doors  [][probe.DoorCount]int
	Start  int
}

// Validate checks the labyrinth is well-formed and total.
func (l *Labyrinth) Validate() error {
	if len(l.Labels) == 0 || len(l.Labels) != len(l.Doors) {
		return fmt.Errorf("labyrinth: %d labels, %d door rows", len(l.Labels), len(l.Doors))
	}
	if l.Start < 0 || l.Start >= len(l.Labels) {
		return fmt.Errorf("labyrinth: start %d out of range", l.Start)
	}
	for r, doors := range l.Doors {
		for d, t := range doors {
			if t < 0 || t >= len(l.Labels) {
				return fmt.Errorf("labyrinth: room %d door %d leads to unknown room %d", r, d, t)
			}
		}
	}
	return nil
}

// #endregion labyrinth

// #region walk

// Walk executes a plan from the start room and returns every label visited.
func (l *Labyrinth) Walk(plan probe.Plan) []probe.Label {
	cur := l.Start
	labels := []probe.Label{l.Labels[cur]}
	for _, d := range plan.Doors() {
		cur = l.Doors[cur][d]
		labels = append(labels, l.Labels[cur])
	}
	return labels
}

// #endregion walk

// #region from-chart

// FromChart builds a labyrinth from a structural guess. The chart's
// connection list must cover every door of every room exactly once.
func FromChart(chart graph.Chart) (*Labyrinth, error) {
	n := len(chart.Rooms)
	if n == 0 {
		return nil, fmt.Errorf("chart has no rooms")
	}
	lab := &Labyrinth{
		Labels: make([]probe.Label, n),
		Doors:  make([][probe.DoorCount]int, n),
		Start:  chart.StartingRoom,
	}
	for i, l := range chart.Rooms {
		lab.Labels[i] = probe.Label(l)
	}

	set := make([][probe.DoorCount]bool, n)
	place := func(loc graph.Location, target int) error {
		if loc.Room < 0 || loc.Room >= n || loc.Door < 0 || loc.Door >= probe.DoorCount {
			return fmt.Errorf("connection endpoint out of range: %+v", loc)
		}
		if set[loc.Room][loc.Door] {
			return fmt.Errorf("room %d door %d appears in two connections", loc.Room, loc.Door)
		}
		set[loc.Room][loc.Door] = true
		lab.Doors[loc.Room][loc.Door] = target
		return nil
	}
	for _, c := range chart.Connections {
		if err := place(c.From, c.To.Room); err != nil {
			return nil, err
		}
		// A door paired with itself is a single slot, not two.
		if c.From != c.To {
			if err := place(c.To, c.From.Room); err != nil {
				return nil, err
			}
		}
	}
	for r := 0; r < n; r++ {
		for d := 0; d < probe.DoorCount; d++ {
			if !set[r][d] {
				return nil, fmt.Errorf("room %d door %d missing from connections", r, d)
			}
		}
	}
	return lab, lab.Validate()
}

// #endregion from-chart

// #region equivalent

/// Equivalent reports whether two labyrinths are observationally identical:
// same room count and label-preserving bisimulation from the start rooms.
func Equivalent(a, b *Labyrinth) bool {
	if len(a.Labels) != len(b.Labels) {
		return false
	}
	type pairk struct{ x, y int }
	seen := map[pairk]bool{}
	queue := []pairk{{a.Start, b.Start}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if seen[p] {
			continue
		}
		seen[p] = true
		if a.Labels[p.x] != b.Labels[p.y] {
			return false
		}
		for d := 0; d < probe.DoorCount; d++ {
			queue = append(queue, pairk{a.Doors[p.x][d], b.Doors[p.y][d]})
		}
	}
	return true
}

// #endregion equivalent
