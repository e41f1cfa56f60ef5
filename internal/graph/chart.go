package graph

// #region imports
import (
	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region chart-types

// Location addresses one side of a connection.
type Location struct {
	Room int `json:"room"`
	Door int `json:"door"`
}

// Connection pairs two door slots. Every door of every room appears in
// exactly one connection; self-loops pair a door with itself or with another
// door of the same room, per what was actually observed.
type Connection struct {
	From Location `json:"from"`
	To   Location `json:"to"`
}

// Chart is the final structural guess: room labels indexed by final room id,
// the starting room index, and the full connection list.
type Chart struct {
	Rooms        []int        `json:"rooms"`
	StartingRoom int          `json:"startingRoom"`
	Connections  []Connection `json:"connections"`
}

// EmitSummary reports how much of the chart rests on placeholders rather
// than observations.
type EmitSummary struct {
	Placeholders  int // doors never observed, emitted as self-loop stubs
	Asymmetric    int // pairs whose return direction was never observed
	LowConfidence bool
}

// #endregion chart-types

// #region emit

// Emit converts the graph into a chart, pairing every directed door
// observation into a bidirectional connection. Unresolved doors get a
// self-loop placeholder and are counted in the summary. For a directed
// observation with no observed reverse, the lowest compatible unpaired door
// on the target becomes the return side.
func Emit(g *Graph) (Chart, EmitSummary) {
	ids := g.Canonical()
	index := make(map[int]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	chart := Chart{Rooms: make([]int, len(ids))}
	for i, id := range ids {
		chart.Rooms[i] = int(g.Label(id))
	}
	if g.Start() != Unset {
		chart.StartingRoom = index[g.Resolve(g.Start())]
	}

	var sum EmitSummary
	used := make([][probe.DoorCount]bool, len(ids))

	pair := func(fromRoom, fromDoor, toRoom, toDoor int) {
		chart.Connections = append(chart.Connections, Connection{
			From: Location{Room: fromRoom, Door: fromDoor},
			To:   Location{Room: toRoom, Door: toDoor},
		})
		used[fromRoom][fromDoor] = true
		used[toRoom][toDoor] = true
	}

	for i, id := range ids {
		for d := 0; d < probe.DoorCount; d++ {
			if used[i][d] {
				continue
			}
			target := g.Door(id, d)
			if target == Unset {
				// Never observed within budget: placeholder, not fatal.
				pair(i, d, i, d)
				sum.Placeholders++
				continue
			}
			ti := index[target]

			// Observed reverse edge wins.
			if rd := reverseDoor(g, target, id, ti, used); rd != Unset {
				pair(i, d, ti, rd)
				continue
			}
			// No observed return: claim the lowest unpaired door on the
			// target whose own observation doesn't contradict it.
			if rd := freeDoor(g, target, ti, used); rd != Unset {
				pair(i, d, ti, rd)
				sum.Asymmetric++
				continue
			}
			// Target fully paired already; the best remaining shape is a
			// stub on our own side.
			pair(i, d, i, d)
			sum.Asymmetric++
		}
	}

	sum.LowConfidence = sum.Placeholders > 0 || sum.Asymmetric > 0
	return chart, sum
}

// #endregion emit

// #region pairing-helpers

// reverseDoor finds an unpaired door on target observed to lead back to from.
// For a self-loop (target == from) the observed door itself qualifies, so a
// loop pairs a door with itself unless another loop door is free first.
func reverseDoor(g *Graph, target, from, targetIdx int, used [][probe.DoorCount]bool) int {
	for rd := 0; rd < probe.DoorCount; rd++ {
		if used[targetIdx][rd] {
			continue
		}
		if g.Door(target, rd) == from {
			return rd
		}
	}
	return Unset
}

// freeDoor finds the lowest unpaired door on target with no observation.
func freeDoor(g *Graph, target, targetIdx int, used [][probe.DoorCount]bool) int {
	for rd := 0; rd < probe.DoorCount; rd++ {
		if !used[targetIdx][rd] && g.Door(target, rd) == Unset {
			return rd
		}
	}
	return Unset
}

// #endregion pairing-helpers
