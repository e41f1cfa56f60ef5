// Package signature distinguishes hypothesis nodes that share a label by the
// labels reachable from them. A signature is a partial map from probe suffix
// to observed label; missing entries mean "not yet probed", never "does not
// exist", so partial signatures compare only over their common domain of a
// fixed probe set (Compatible). Hashing and grouping compare full partial
// maps and serve the stability signal and disambiguation targeting; the
// decision to merge belongs to the orchestrator, never to this package.
package signature

// #region imports
import (
	"sort"
	"strings"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region types

// Signature holds what a node's neighborhood looks like under a probe set.
type Signature struct {
	NodeID     int
	PathLabels map[probe.Plan]probe.Label
}

// #endregion types

// #region compute

// Compute walks every probe in probeSet from node, following only resolved
// door edges. A probe blocked by an unresolved door is omitted from the
// signature rather than treated as a mismatch.
func Compute(g *graph.Graph, node int, probeSet []probe.Plan) Signature {
	sig := Signature{NodeID: node, PathLabels: make(map[probe.Plan]probe.Label, len(probeSet))}
	for _, p := range probeSet {
		labels, ok := g.Walk(node, p)
		if !ok {
			continue
		}
		sig.PathLabels[p] = labels[len(labels)-1]
	}
	return sig
}

// ComputeAll computes signatures for every canonical node in the graph.
func ComputeAll(g *graph.Graph, probeSet []probe.Plan) []Signature {
	ids := g.Canonical()
	sigs := make([]Signature, 0, len(ids))
	for _, id := range ids {
		sigs = append(sigs, Compute(g, id, probeSet))
	}
	return sigs
}

// #endregion compute

// #region hash

// Hash renders the signature deterministically for a fixed probe set:
// probe keys sorted lexicographically, "probe:label" pairs joined by "|".
func Hash(sig Signature) string {
	keys := make([]string, 0, len(sig.PathLabels))
	for p := range sig.PathLabels {
		keys = append(keys, string(p))
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteByte(byte('0' + sig.PathLabels[probe.Plan(k)]))
	}
	return b.String()
}

// #endregion hash

// #region group

// Group buckets node ids by identical hash. Groups come back sorted by each
// group's minimum id, members ascending, so iteration order is reproducible.
func Group(sigs []Signature) [][]int {
	buckets := map[string][]int{}
	for _, s := range sigs {
		h := Hash(s)
		buckets[h] = append(buckets[h], s.NodeID)
	}
	groups := make([][]int, 0, len(buckets))
	for _, ids := range buckets {
		sort.Ints(ids)
		groups = append(groups, ids)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

// #endregion group

// #region compatibility

// Compatible reports whether two partial signatures could describe the same
// room: they agree on every probe both have answered, and the common domain
// holds at least one probed suffix beyond the room's own label. Missing
// entries are "not yet probed", so they are never a mismatch; a lone
// own-label agreement is too weak to act on.
func Compatible(a, b Signature) bool {
	shared := 0
	for p, la := range a.PathLabels {
		lb, ok := b.PathLabels[p]
		if !ok {
			continue
		}
		if la != lb {
			return false
		}
		shared++
	}
	return shared >= 2
}

// #endregion compatibility
