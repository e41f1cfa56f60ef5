package signature

import (
	"testing"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #region helpers

// twinRooms builds two same-labeled nodes whose neighborhoods differ only
// behind door 1 at depth one.
func twinRooms(t *testing.T) (*graph.Graph, int, int) {
	t.Helper()
	g := graph.New()
	a := g.AddNode(1)
	b := g.AddNode(1)
	x := g.AddNode(0)
	y := g.AddNode(3)
	g.SetDoor(a, 0, x)
	g.SetDoor(b, 0, x)
	g.SetDoor(a, 1, x)
	g.SetDoor(b, 1, y) // the divergence
	return g, a, b
}

// #endregion helpers

// #region test-compute
func TestComputeOmitsUnresolved(t *testing.T) {
	g, a, _ := twinRooms(t)
	probes := []probe.Plan{"", "0", "1", "2", "00"}
	sig := Compute(g, a, probes)

	if sig.PathLabels[""] != 1 {
		t.Errorf("own label entry %v", sig.PathLabels[""])
	}
	if sig.PathLabels["0"] != 0 || sig.PathLabels["1"] != 0 {
		t.Errorf("depth-1 entries %v", sig.PathLabels)
	}
	// Door 2 unresolved, and "00" blocked behind x's unresolved door:
	// omitted, never a mismatch.
	if _, ok := sig.PathLabels["2"]; ok {
		t.Error("unresolved probe present in signature")
	}
	if _, ok := sig.PathLabels["00"]; ok {
		t.Error("blocked probe present in signature")
	}
}

// #endregion test-compute

// #region test-hash
func TestHashDeterministic(t *testing.T) {
	sig := Signature{NodeID: 7, PathLabels: map[probe.Plan]probe.Label{
		"10": 2, "0": 1, "": 3,
	}}
	want := ":3|0:1|10:2"
	if got := Hash(sig); got != want {
		t.Errorf("hash %q, want %q", got, want)
	}
	// Map iteration order must not leak into the hash.
	for i := 0; i < 20; i++ {
		if Hash(sig) != want {
			t.Fatal("hash not deterministic")
		}
	}
}

// #endregion test-hash

// #region test-group
func TestGroupMatchesHashEquality(t *testing.T) {
	g, a, b := twinRooms(t)
	probes := []probe.Plan{"", "0", "1"}

	sigs := ComputeAll(g, probes)
	groups := Group(sigs)

	byID := map[int]Signature{}
	for _, s := range sigs {
		byID[s.NodeID] = s
	}

	// Co-grouped iff identical hash.
	together := false
	for _, grp := range groups {
		in := map[int]bool{}
		for _, id := range grp {
			in[id] = true
		}
		if in[a] && in[b] {
			together = true
		}
	}
	equal := Hash(byID[a]) == Hash(byID[b])
	if together != equal {
		t.Errorf("grouped=%v but hash equality=%v", together, equal)
	}
	if together {
		t.Error("diverging rooms co-grouped")
	}
}

func TestGroupOrdering(t *testing.T) {
	sigs := []Signature{
		{NodeID: 4, PathLabels: map[probe.Plan]probe.Label{"": 0}},
		{NodeID: 1, PathLabels: map[probe.Plan]probe.Label{"": 2}},
		{NodeID: 3, PathLabels: map[probe.Plan]probe.Label{"": 2}},
		{NodeID: 0, PathLabels: map[probe.Plan]probe.Label{"": 0}},
	}
	groups := Group(sigs)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// Sorted by minimum member id, members ascending.
	if groups[0][0] != 0 || groups[0][1] != 4 {
		t.Errorf("group 0: %v", groups[0])
	}
	if groups[1][0] != 1 || groups[1][1] != 3 {
		t.Errorf("group 1: %v", groups[1])
	}
}

// #endregion test-group

// #region test-divergence

// Two same-labeled but structurally distinct rooms: once a probe yields
// diverging labels, their signatures differ for good.
func TestDivergenceSeparates(t *testing.T) {
	g, a, b := twinRooms(t)

	// Without the divergent probe they are indistinguishable.
	same := []probe.Plan{"", "0"}
	if Hash(Compute(g, a, same)) != Hash(Compute(g, b, same)) {
		t.Fatal("expected identical signatures over the common domain")
	}

	// With it, never merged again.
	full := []probe.Plan{"", "0", "1"}
	if Hash(Compute(g, a, full)) == Hash(Compute(g, b, full)) {
		t.Fatal("divergent rooms hash equal")
	}
}

// #endregion test-divergence

// #region test-compatible
func TestCompatibleAgreesOnCommonDomain(t *testing.T) {
	rich := Signature{NodeID: 0, PathLabels: map[probe.Plan]probe.Label{
		"": 1, "0": 0, "1": 3, "00": 2,
	}}
	partial := Signature{NodeID: 5, PathLabels: map[probe.Plan]probe.Label{
		"": 1, "1": 3,
	}}
	if !Compatible(rich, partial) || !Compatible(partial, rich) {
		t.Error("agreeing partial signatures reported incompatible")
	}

	divergent := Signature{NodeID: 6, PathLabels: map[probe.Plan]probe.Label{
		"": 1, "1": 0,
	}}
	if Compatible(rich, divergent) {
		t.Error("diverging entry reported compatible")
	}
}

// A node probed only at its own label overlaps every same-labeled node;
// that alone is no evidence of identity.
func TestCompatibleRequiresMoreThanOwnLabel(t *testing.T) {
	rich := Signature{NodeID: 0, PathLabels: map[probe.Plan]probe.Label{
		"": 1, "0": 0,
	}}
	bare := Signature{NodeID: 7, PathLabels: map[probe.Plan]probe.Label{"": 1}}
	if Compatible(rich, bare) {
		t.Error("single shared entry reported compatible")
	}
}

// #endregion test-compatible
