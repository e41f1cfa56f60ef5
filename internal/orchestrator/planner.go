package orchestrator

// #region imports
import (
	"sort"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region planner-struct

// Planner produces the next batch of plans with escalating strategies:
// exhaustive first-door probes, two-step probes, frontier expansion over
// unresolved doors, targeted disambiguation of suspect signature groups,
// and deeper walks once everything shorter has been asked. Minimizing
// total queries is the objective, so every batch is
// deduplicated against everything already issued and capped by the batch
// size, path length, and remaining query budget.
type Planner struct {
	cfg    Config
	memory *ProbeMemory
	depth  int // frontier walk depth, escalated by Escalate
}

// NewPlanner creates a planner. memory may be nil.
func NewPlanner(cfg Config, memory *ProbeMemory) *Planner {
	return &Planner{cfg: cfg, memory: memory, depth: 2}
}

// Escalate deepens frontier expansion, up to the path-length cap.
func (p *Planner) Escalate() {
	if p.depth < p.cfg.MaxPathLength {
		p.depth++
	}
}

// #endregion planner-struct

// #region fixed-probes

// InitialProbes is the exhaustive first-door sweep: the six length-1 plans.
func InitialProbes() []probe.Plan {
	plans := make([]probe.Plan, probe.DoorCount)
	for d := 0; d < probe.DoorCount; d++ {
		plans[d] = probe.PlanFromDoors(d)
	}
	return plans
}

// PairProbes is every length-2 door sequence, in lexicographic order.
func PairProbes() []probe.Plan {
	plans := make([]probe.Plan, 0, probe.DoorCount*probe.DoorCount)
	for a := 0; a < probe.DoorCount; a++ {
		for b := 0; b < probe.DoorCount; b++ {
			plans = append(plans, probe.PlanFromDoors(a, b))
		}
	}
	return plans
}

// SignatureProbes is the fixed probe set signatures are computed over: the
// empty probe (the node's own label) plus every length-1 and length-2 plan.
// Fixed so signature hashes stay comparable across iterations.
func SignatureProbes() []probe.Plan {
	probes := []probe.Plan{""}
	probes = append(probes, InitialProbes()...)
	probes = append(probes, PairProbes()...)
	return probes
}

// #endregion fixed-probes

// #region plan

// Plan assembles the next batch. issued holds every plan ever sent;
// queriesUsed is the collaborator's counter so far. An empty round at the
// current frontier depth deepens the walk and tries again; at the
// path-length cap the deep-walk fallback gets its turn, so planning only
// runs dry once even that has nothing left to ask.
func (p *Planner) Plan(g *graph.Graph, groups [][]int, issued map[probe.Plan]bool, queriesUsed int) []probe.Plan {
	remaining := p.cfg.QueryBudget - queriesUsed
	if remaining <= 0 {
		return nil
	}
	limit := p.cfg.MaxPlansPerBatch
	if remaining < limit {
		limit = remaining
	}

	for {
		lastResort := p.depth >= p.cfg.MaxPathLength
		batch := p.assemble(g, groups, issued, limit, lastResort)
		if len(batch) > 0 || lastResort {
			return batch
		}
		p.depth++
	}
}

func (p *Planner) assemble(g *graph.Graph, groups [][]int, issued map[probe.Plan]bool, limit int, lastResort bool) []probe.Plan {
	var batch []probe.Plan
	taken := map[probe.Plan]bool{}
	add := func(plan probe.Plan) bool {
		if len(batch) >= limit {
			return false
		}
		if plan.Len() == 0 || plan.Len() > p.cfg.MaxPathLength {
			return true
		}
		if issued[plan] || taken[plan] {
			return true
		}
		taken[plan] = true
		batch = append(batch, plan)
		return true
	}

	// 1. Exhaustive first-door probes.
	for _, plan := range InitialProbes() {
		if !add(plan) {
			return batch
		}
	}

	// 2. Two-step probes, bidirectional hints included.
	for _, plan := range PairProbes() {
		if !add(plan) {
			return batch
		}
	}

	// 3. Frontier expansion: walk every unresolved door slot reachable
	// within the current depth.
	for _, plan := range p.frontierPlans(g) {
		if !add(plan) {
			return batch
		}
	}

	// 4. Targeted disambiguation of suspect signature groups.
	for _, plan := range p.disambiguationPlans(g, groups, issued) {
		if !add(plan) {
			return batch
		}
	}

	// 5. Last resort while rooms are still missing: every other strategy
	// ran dry at every depth, so extend each node's observation tree with
	// deeper walks.
	if lastResort && len(batch) == 0 {
		for _, plan := range p.deepPlans(g, issued) {
			if !add(plan) {
				return batch
			}
		}
	}

	return batch
}

// #endregion plan

// #region frontier

// frontierPlans targets each unresolved (node, door) slot: shortest known
// path to the node, then the unexplored door. Slots whose node lies deeper
// than the current escalation depth wait for a later round.
func (p *Planner) frontierPlans(g *graph.Graph) []probe.Plan {
	if g.Len() == 0 {
		return nil
	}
	var plans []probe.Plan
	for _, slot := range g.UnresolvedDoors() {
		path, ok := g.PathTo(slot[0])
		if !ok || path.Len() >= p.depth {
			continue
		}
		plans = append(plans, path+probe.PlanFromDoors(slot[1]))
	}
	return plans
}

// #endregion frontier

// #region disambiguation

// disambiguationPlans probes nodes suspected of conflating distinct rooms:
// whenever the room estimate is below the declared count (or no count is
// declared), every member of a multi-member signature group gets the
// best-ranked suffix it hasn't been asked yet.
func (p *Planner) disambiguationPlans(g *graph.Graph, groups [][]int, issued map[probe.Plan]bool) []probe.Plan {
	if g.Len() == 0 || !p.suspect(g) {
		return nil
	}

	var targets []int
	for _, group := range groups {
		if len(group) >= 2 {
			targets = append(targets, group...)
		}
	}
	return p.suffixPlans(g, targets, issued)
}

// deepPlans keeps the session moving when rooms are missing yet nothing is
// co-grouped: the short probe set cannot tell some rooms apart at all, so
// every canonical node's observation tree is extended with deeper walks
// until the structure itself contradicts a false identification.
func (p *Planner) deepPlans(g *graph.Graph, issued map[probe.Plan]bool) []probe.Plan {
	if g.Len() == 0 || !p.suspect(g) {
		return nil
	}
	return p.suffixPlans(g, g.Canonical(), issued)
}

// suspect reports whether the room estimate is still below the declared
// count. An undeclared count keeps the planner suspicious throughout.
func (p *Planner) suspect(g *graph.Graph) bool {
	return p.cfg.RoomCount == 0 || len(g.Canonical()) < p.cfg.RoomCount
}

func (p *Planner) suffixPlans(g *graph.Graph, targets []int, issued map[probe.Plan]bool) []probe.Plan {
	ranked := p.rankedSuffixes()
	var plans []probe.Plan
	for _, member := range targets {
		path, ok := g.PathTo(member)
		if !ok {
			continue
		}
		if plan, ok := p.firstUnissued(path, ranked, issued); ok {
			plans = append(plans, plan)
		}
	}
	return plans
}

// firstUnissued finds the best-ranked suffix the node at path has not been
// asked yet: the gain-ranked short suffixes first, then deeper suffixes
// assembled best-first from the top-ranked short ones, lengths growing with
// the escalated walk depth.
func (p *Planner) firstUnissued(path probe.Plan, ranked []probe.Plan, issued map[probe.Plan]bool) (probe.Plan, bool) {
	for _, suffix := range ranked {
		plan := path + suffix
		if plan.Len() <= p.cfg.MaxPathLength && !issued[plan] {
			return plan, true
		}
	}
	for length := 3; length <= p.depth; length++ {
		if path.Len()+length > p.cfg.MaxPathLength {
			break
		}
		for _, suffix := range deepSuffixes(length, ranked) {
			if plan := path + suffix; !issued[plan] {
				return plan, true
			}
		}
	}
	return "", false
}

// deepSuffixes assembles suffixes of exactly the given length by
// concatenating top-ranked short suffixes. The pool is capped per length;
// exhaustive enumeration at these depths would dwarf any query budget.
func deepSuffixes(length int, ranked []probe.Plan) []probe.Plan {
	const fanout = 8
	if length <= 2 {
		var out []probe.Plan
		for _, s := range ranked {
			if s.Len() == length {
				out = append(out, s)
			}
		}
		return out
	}
	heads := make([]probe.Plan, 0, fanout)
	for _, s := range ranked {
		if s.Len() == 2 {
			heads = append(heads, s)
			if len(heads) == fanout {
				break
			}
		}
	}
	tails := deepSuffixes(length-2, ranked)
	if len(tails) > fanout {
		tails = tails[:fanout]
	}
	var out []probe.Plan
	for _, h := range heads {
		for _, tl := range tails {
			out = append(out, h+tl)
		}
	}
	return out
}

// rankedSuffixes orders candidate suffixes by historical gain descending,
// then shortest, then lexicographic.
func (p *Planner) rankedSuffixes() []probe.Plan {
	candidates := append(InitialProbes(), PairProbes()...)
	sort.SliceStable(candidates, func(i, j int) bool {
		gi, gj := p.memory.Gain(candidates[i]), p.memory.Gain(candidates[j])
		if gi != gj {
			return gi > gj
		}
		if candidates[i].Len() != candidates[j].Len() {
			return candidates[i].Len() < candidates[j].Len()
		}
		return candidates[i] < candidates[j]
	})
	return candidates
}

// #endregion disambiguation
