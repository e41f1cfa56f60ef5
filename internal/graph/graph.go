package graph

// #region imports
import (
	"fmt"
	"sort"

	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region types

// Unset marks a door slot with no observed target yet.
const Unset = -1

// Node is the current hypothesis for one physical room. Doors holds the
// target node id per door index, or Unset. Nodes are never deleted; a node
// proven identical to another is aliased to a canonical survivor.
type Node struct {
	ID    int
	Label probe.Label
	Doors [probe.DoorCount]int
}

// Graph owns all hypothesis nodes in a flat arena keyed by id. Merging is an
// alias map over ids so edges recorded against either party stay reachable.
type Graph struct {
	nodes []Node
	alias []int // alias[i] == i when i is canonical
	start int
}

// #endregion types

// #region constructor

// New returns an empty graph. The first node added becomes the start node.
func New() *Graph {
	return &Graph{start: Unset}
}

// #endregion constructor

// #region add-node

// AddNode creates a node with the given label and returns its id.
func (g *Graph) AddNode(label probe.Label) int {
	id := len(g.nodes)
	n := Node{ID: id, Label: label}
	for d := range n.Doors {
		n.Doors[d] = Unset
	}
	g.nodes = append(g.nodes, n)
	g.alias = append(g.alias, id)
	if g.start == Unset {
		g.start = id
	}
	return id
}

// #endregion add-node

// #region accessors

// Start returns the id of the starting node, or Unset on an empty graph.
func (g *Graph) Start() int { return g.start }

// Len returns the total number of nodes ever created, aliased included.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns a copy of the node record for id.
func (g *Graph) Node(id int) (Node, error) {
	if id < 0 || id >= len(g.nodes) {
		return Node{}, fmt.Errorf("node %d: out of range", id)
	}
	return g.nodes[id], nil
}

// Label returns the label of the canonical node for id.
func (g *Graph) Label(id int) probe.Label {
	return g.nodes[g.Resolve(id)].Label
}

// #endregion accessors

// #region set-door

// SetDoor records the directed observation node.doors[door] → target.
// Both endpoints are resolved to canonical ids first. A repeated observation
// of the same edge is a no-op; a conflicting one is an error, since a door
// leads to exactly one place.
func (g *Graph) SetDoor(id, door, target int) error {
	if door < 0 || door >= probe.DoorCount {
		return fmt.Errorf("door %d: out of range", door)
	}
	if target < 0 || target >= len(g.nodes) {
		return fmt.Errorf("door target %d: unknown node", target)
	}
	id = g.Resolve(id)
	target = g.Resolve(target)
	cur := g.nodes[id].Doors[door]
	if cur != Unset && g.Resolve(cur) != target {
		return fmt.Errorf("node %d door %d: already leads to %d, not %d", id, door, g.Resolve(cur), target)
	}
	g.nodes[id].Doors[door] = target
	return nil
}

// Door returns the canonical target of a door slot, or Unset.
func (g *Graph) Door(id, door int) int {
	t := g.nodes[g.Resolve(id)].Doors[door]
	if t == Unset {
		return Unset
	}
	return g.Resolve(t)
}

// #endregion set-door

// #region resolve

// Resolve follows the alias chain to the canonical id, compressing as it goes.
func (g *Graph) Resolve(id int) int {
	root := id
	for g.alias[root] != root {
		root = g.alias[root]
	}
	for g.alias[id] != root {
		id, g.alias[id] = g.alias[id], root
	}
	return root
}

// #endregion resolve

// #region merge

// Merge declares a and b the same physical room, together with every pair of
// door targets that equality implies: two equal rooms whose door d is
// resolved on both sides must agree on where that door leads, so those
// targets fold too, recursively. The implied closure is computed on a trial
// overlay first; a label mismatch anywhere in it rejects the whole merge and
// leaves the graph untouched. The lower canonical id survives each fold.
func (g *Graph) Merge(a, b int) error {
	trial := map[int]int{}
	resolve := func(id int) int {
		id = g.Resolve(id)
		for {
			next, ok := trial[id]
			if !ok {
				return id
			}
			id = next
		}
	}

	var folds [][2]int
	pending := [][2]int{{a, b}}
	for len(pending) > 0 {
		x, y := resolve(pending[0][0]), resolve(pending[0][1])
		pending = pending[1:]
		if x == y {
			continue
		}
		if x > y {
			x, y = y, x
		}
		if g.nodes[x].Label != g.nodes[y].Label {
			return fmt.Errorf("merge %d+%d: labels differ", x, y)
		}
		trial[y] = x
		folds = append(folds, [2]int{x, y})
		for d := 0; d < probe.DoorCount; d++ {
			tx, ty := g.nodes[x].Doors[d], g.nodes[y].Doors[d]
			if tx != Unset && ty != Unset {
				pending = append(pending, [2]int{tx, ty})
			}
		}
	}

	for _, f := range folds {
		x, y := g.Resolve(f[0]), g.Resolve(f[1])
		if x == y {
			continue
		}
		if x > y {
			x, y = y, x
		}
		for d := 0; d < probe.DoorCount; d++ {
			if g.nodes[x].Doors[d] == Unset {
				g.nodes[x].Doors[d] = g.nodes[y].Doors[d]
			}
		}
		g.alias[y] = x
	}
	return nil
}

// #endregion merge

// #region canonical

// Canonical returns the ascending list of canonical node ids.
func (g *Graph) Canonical() []int {
	var ids []int
	for i := range g.nodes {
		if g.Resolve(i) == i {
			ids = append(ids, i)
		}
	}
	sort.Ints(ids)
	return ids
}

// #endregion canonical

// #region walk

// Walk follows plan from the canonical node for id along resolved doors only.
// It returns the labels visited (starting with id's own) and true, or the
// partial labels and false the moment an unresolved door blocks the walk.
func (g *Graph) Walk(id int, plan probe.Plan) ([]probe.Label, bool) {
	cur := g.Resolve(id)
	labels := []probe.Label{g.nodes[cur].Label}
	for _, d := range plan.Doors() {
		next := g.nodes[cur].Doors[d]
		if next == Unset {
			return labels, false
		}
		cur = g.Resolve(next)
		labels = append(labels, g.nodes[cur].Label)
	}
	return labels, true
}

// #endregion walk

// #region coverage

// DoorCoverage returns resolved and total door-slot counts over canonical nodes.
func (g *Graph) DoorCoverage() (resolved, total int) {
	for _, id := range g.Canonical() {
		for d := 0; d < probe.DoorCount; d++ {
			total++
			if g.nodes[id].Doors[d] != Unset {
				resolved++
			}
		}
	}
	return resolved, total
}

// UnresolvedDoors lists (node, door) slots with no observation, in
// ascending (node, door) order.
func (g *Graph) UnresolvedDoors() [][2]int {
	var slots [][2]int
	for _, id := range g.Canonical() {
		for d := 0; d < probe.DoorCount; d++ {
			if g.nodes[id].Doors[d] == Unset {
				slots = append(slots, [2]int{id, d})
			}
		}
	}
	return slots
}

// #endregion coverage

// #region path-to

// PathTo returns a shortest plan from the start node to target over resolved
// doors, or false if target is unreachable. Lowest door index wins ties, so
// the result is deterministic.
func (g *Graph) PathTo(target int) (probe.Plan, bool) {
	target = g.Resolve(target)
	startID := g.Resolve(g.start)
	if startID == target {
		return "", true
	}
	prev := map[int][2]int{} // node → (parent, door)
	queue := []int{startID}
	seen := map[int]bool{startID: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for d := 0; d < probe.DoorCount; d++ {
			next := g.nodes[cur].Doors[d]
			if next == Unset {
				continue
			}
			next = g.Resolve(next)
			if seen[next] {
				continue
			}
			seen[next] = true
			prev[next] = [2]int{cur, d}
			if next == target {
				var doors []int
				for n := target; n != startID; n = prev[n][0] {
					doors = append(doors, prev[n][1])
				}
				for i, j := 0, len(doors)-1; i < j; i, j = i+1, j-1 {
					doors[i], doors[j] = doors[j], doors[i]
				}
				return probe.PlanFromDoors(doors...), true
			}
			queue = append(queue, next)
		}
	}
	return "", false
}

// #endregion path-to
