package graph

// #region imports
import (
	"sort"

	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region build

// Build reconstructs a hypothesis graph from every result collected so far.
// It always rebuilds from scratch: a later result can retroactively prove two
// path prefixes equal, which makes incremental mutation unsafe. Malformed
// results are skipped. The returned map takes each seen path prefix (the
// empty prefix included) to its node id.
//
// Two passes. Pass one replays each plan prefix by prefix and creates a node
// the first time a prefix is seen, labeled with the matching observation;
// repeated explorations of the same prefix reuse the existing node. Pass two
// links prefix → prefix+door edges, one-way, exactly as observed.
//
// Build is idempotent and order-independent: any ordering or duplication of
// the same result set yields an isomorphic graph, because node creation keys
// on sorted prefixes, not arrival order.
func Build(results []probe.Result) (*Graph, map[string]int) {
	g := New()
	byPrefix := map[string]int{}

	valid := results[:0:0]
	for _, r := range results {
		if r.Valid() {
			valid = append(valid, r)
		}
	}

	// Pass 1: collect every prefix with its observed label, then create
	// nodes in sorted prefix order for order independence.
	labelAt := map[string]probe.Label{}
	for _, r := range valid {
		p := string(r.Plan)
		for i := 0; i <= len(p); i++ {
			labelAt[p[:i]] = r.Labels[i]
		}
	}
	prefixes := make([]string, 0, len(labelAt))
	for p := range labelAt {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) < len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})
	for _, p := range prefixes {
		byPrefix[p] = g.AddNode(labelAt[p])
	}

	// Pass 2: one directed edge per consecutive (prefix, prefix+door) pair.
	// SetDoor only errors on conflicting observations, which Build treats
	// like malformed input: the first observation wins.
	for _, r := range valid {
		p := string(r.Plan)
		for i := 0; i < len(p); i++ {
			from := byPrefix[p[:i]]
			to := byPrefix[p[:i+1]]
			door := int(p[i] - '0')
			_ = g.SetDoor(from, door, to)
		}
	}

	return g, byPrefix
}

// #endregion build
