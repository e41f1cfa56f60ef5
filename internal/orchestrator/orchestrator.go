package orchestrator

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/logging"
	"github.com/danielpatrickdp/wayfinder/internal/probe"
	"github.com/danielpatrickdp/wayfinder/internal/resultlog"
	"github.com/danielpatrickdp/wayfinder/internal/signature"
)

// #endregion

// #region orchestrator-struct

// Orchestrator drives the phase state machine: plan a batch, round-trip it
// through the collaborator, append the result log, rebuild the hypothesis
// graph, group signatures, score, and loop or finalize. One sequential flow;
// the collaborator call is the only suspension point, and cancellation is
// honored at iteration boundaries only.
type Orchestrator struct {
	explorer Explorer
	cfg      Config
	planner  *Planner
	eval     *Evaluator
	memory   *ProbeMemory

	store     *resultlog.Store // optional persistence of results + provenance
	sessionID string
	trace     *logging.TraceWriter // optional JSONL snapshots
}

// New wires an orchestrator around a collaborator.
func New(explorer Explorer, cfg Config) *Orchestrator {
	return &Orchestrator{
		explorer: explorer,
		cfg:      cfg,
		planner:  NewPlanner(cfg, nil),
		eval:     NewEvaluator(cfg),
	}
}

// AttachStore persists results and provenance rows under sessionID.
func (o *Orchestrator) AttachStore(store *resultlog.Store, sessionID string) {
	o.store = store
	o.sessionID = sessionID
}

// AttachMemory gives the planner its probe-gain history.
func (o *Orchestrator) AttachMemory(m *ProbeMemory) {
	o.memory = m
	o.planner = NewPlanner(o.cfg, m)
}

// AttachTrace writes one graph snapshot per iteration for the viewer.
func (o *Orchestrator) AttachTrace(w *logging.TraceWriter) {
	o.trace = w
}

// #endregion orchestrator-struct

// #region run

// Run executes the session and emits the structural guess. On collaborator
// failure the error is returned alongside whatever best-effort outcome
// exists; there is no internal retry. Context cancellation stops refinement
// at the next iteration boundary and still emits a guess.
func (o *Orchestrator) Run(ctx context.Context) (Outcome, error) {
	phase := PhaseInitialExploration
	issued := map[probe.Plan]bool{}
	var results []probe.Result
	var prevGroups [][]string
	g := graph.New()
	queries := 0
	iterations := 0
	lowConfidence := false
	var lastPlan probe.Plan

	for iter := 1; iter <= o.cfg.MaxIterations; iter++ {
		if ctx.Err() != nil {
			lowConfidence = true
			break
		}

		var plans []probe.Plan
		if phase == PhaseInitialExploration {
			for _, p := range InitialProbes() {
				if !issued[p] {
					plans = append(plans, p)
				}
			}
		} else {
			plans = o.planner.Plan(g, idGroups(g), issued, queries)
		}
		if len(plans) == 0 {
			// Nothing left worth asking within budget.
			if resolved, total := g.DoorCoverage(); resolved < total {
				lowConfidence = true
			}
			break
		}

		batch, queryCount, err := o.explorer.Explore(ctx, plans)
		if err != nil {
			return Outcome{Iterations: iterations, Queries: queries},
				fmt.Errorf("iteration %d: %w", iter, err)
		}
		iterations = iter
		queries = queryCount
		for _, r := range batch {
			issued[r.Plan] = true
			results = append(results, r)
			if o.store != nil {
				if err := o.store.Append(o.sessionID, r, queryCount); err != nil {
					log.Printf("[ORCH] result log append: %v", err)
				}
			}
		}
		if len(batch) > 0 {
			lastPlan = batch[len(batch)-1].Plan
		}

		// Rebuild from scratch: later results can prove old prefixes equal.
		var byPrefix map[string]int
		g, byPrefix = graph.Build(results)

		probes := SignatureProbes()
		o.mergeDuplicates(g, probes)
		groups := signature.Group(signature.ComputeAll(g, probes))

		rep := repPrefixes(g, byPrefix)
		cur := prefixGroups(g, groups, rep)
		o.recordSplits(prevGroups, byPrefix, g, probes)
		stable := samePrefixGroups(prevGroups, cur)

		assessment := o.eval.Evaluate(g, stable, len(g.Canonical()))
		if assessment.Verdict == VerdictAdvance {
			o.planner.Escalate()
		}

		o.logIteration(iter, phase, assessment)
		if o.trace != nil {
			if err := o.trace.Write(iter, lastPlan, g); err != nil {
				log.Printf("[ORCH] trace write: %v", err)
			}
		}

		resolved, total := g.DoorCoverage()
		budgetExhausted := queries >= o.cfg.QueryBudget || iter >= o.cfg.MaxIterations
		next := Transition(phase, assessment.Verdict, initialProbesDone(issued), resolved == total && total > 0, budgetExhausted)
		if next == PhaseFinalMapping {
			if resolved < total || assessment.Verdict != VerdictFinalize {
				// Forced by exhaustion, not earned by the evaluator.
				lowConfidence = true
			}
			prevGroups = cur
			phase = next
			break
		}
		prevGroups = cur
		phase = next
	}

	return o.finalize(ctx, g, iterations, queries, lowConfidence)
}

// #endregion run

// #region finalize

// finalize emits the structural guess from whatever graph exists and
// submits it. The graph is not mutated afterwards.
func (o *Orchestrator) finalize(ctx context.Context, g *graph.Graph, iterations, queries int, lowConfidence bool) (Outcome, error) {
	chart, summary := graph.Emit(g)
	out := Outcome{
		Chart:         chart,
		LowConfidence: lowConfidence || summary.LowConfidence,
		Iterations:    iterations,
		Queries:       queries,
		DistinctRooms: len(chart.Rooms),
	}
	log.Printf("[ORCH] final mapping: rooms=%d placeholders=%d asymmetric=%d lowConfidence=%v",
		len(chart.Rooms), summary.Placeholders, summary.Asymmetric, out.LowConfidence)

	if ctx.Err() != nil {
		// Cancelled session: the guess is still emitted, just not submitted.
		return out, nil
	}
	correct, err := o.explorer.SubmitGuess(ctx, chart)
	if err != nil {
		return out, fmt.Errorf("submit guess: %w", err)
	}
	out.Submitted = true
	out.Correct = correct
	return out, nil
}

// #endregion finalize

// #region merges

// mergeDuplicates folds nodes proven to duplicate an earlier node. Because
// signatures are partial, candidacy is agreement on the common probe domain
// (signature.Compatible); a node with more than one surviving candidate is
// left alone until further probes disambiguate it, and its subtree folds
// through the congruence of its parent's merge instead. Passes repeat until
// none succeeds, since each fold can unify door targets that blocked
// another. A rejected fold is skipped silently: the hypothesis was wrong and
// the next rebuild re-decides it with more data.
func (o *Orchestrator) mergeDuplicates(g *graph.Graph, probes []probe.Plan) {
	for {
		merged := false
		sigs := signature.ComputeAll(g, probes)
		for j := 1; j < len(sigs); j++ {
			id := sigs[j].NodeID
			if g.Resolve(id) != id {
				continue // folded earlier this pass
			}
			candidate := -1
			ambiguous := false
			for i := 0; i < j; i++ {
				prior := sigs[i].NodeID
				if g.Resolve(prior) != prior || g.Label(prior) != g.Label(id) {
					continue
				}
				if !signature.Compatible(sigs[i], sigs[j]) {
					continue
				}
				if candidate != -1 {
					ambiguous = true
					break
				}
				candidate = prior
			}
			if candidate == -1 || ambiguous {
				continue
			}
			if err := g.Merge(candidate, id); err != nil {
				continue
			}
			merged = true
		}
		if !merged {
			return
		}
	}
}

// #endregion merges

// #region bookkeeping

// initialProbesDone reports whether all six first-door probes are answered.
func initialProbesDone(issued map[probe.Plan]bool) bool {
	for _, p := range InitialProbes() {
		if !issued[p] {
			return false
		}
	}
	return true
}

// repPrefixes picks a stable representative path prefix per canonical node:
// the shortest, then lexicographically smallest, prefix that reaches it.
// Node ids change across rebuilds; prefixes don't.
func repPrefixes(g *graph.Graph, byPrefix map[string]int) map[int]string {
	prefixes := make([]string, 0, len(byPrefix))
	for p := range byPrefix {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) < len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})
	rep := map[int]string{}
	for _, p := range prefixes {
		id := g.Resolve(byPrefix[p])
		if _, ok := rep[id]; !ok {
			rep[id] = p
		}
	}
	return rep
}

// prefixGroups renders id groups as sorted representative-prefix groups,
// comparable across rebuilds.
func prefixGroups(g *graph.Graph, groups [][]int, rep map[int]string) [][]string {
	out := make([][]string, 0, len(groups))
	for _, group := range groups {
		names := make([]string, 0, len(group))
		for _, id := range group {
			names = append(names, rep[g.Resolve(id)])
		}
		sort.Strings(names)
		out = append(out, names)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// samePrefixGroups reports whether two grouping rounds are identical.
func samePrefixGroups(prev, cur [][]string) bool {
	if prev == nil || len(prev) != len(cur) {
		return false
	}
	for i := range cur {
		if len(prev[i]) != len(cur[i]) {
			return false
		}
		for j := range cur[i] {
			if prev[i][j] != cur[i][j] {
				return false
			}
		}
	}
	return true
}

// recordSplits credits probe suffixes that broke up last iteration's
// multi-member groups, feeding the planner's information-gain ranking.
func (o *Orchestrator) recordSplits(prevGroups [][]string, byPrefix map[string]int, g *graph.Graph, probes []probe.Plan) {
	if o.memory == nil {
		return
	}
	for _, group := range prevGroups {
		if len(group) < 2 {
			continue
		}
		members := make([]int, 0, len(group))
		for _, prefix := range group {
			if id, ok := byPrefix[prefix]; ok {
				members = append(members, g.Resolve(id))
			}
		}
		if len(members) < 2 {
			continue
		}
		for _, suffix := range probes {
			if suffix.Len() == 0 {
				continue
			}
			labels := map[probe.Label]bool{}
			defined := 0
			for _, id := range members {
				walked, ok := g.Walk(id, suffix)
				if !ok {
					continue
				}
				defined++
				labels[walked[len(walked)-1]] = true
			}
			if defined >= 2 && len(labels) >= 2 {
				if err := o.memory.RecordOutcome(suffix, len(group), len(labels)); err != nil {
					log.Printf("[ORCH] probe memory: %v", err)
				}
			}
		}
	}
}

// idGroups recomputes signature groups for the graph the planner is about
// to be handed. Groups carried across rebuilds hold stale node ids, so they
// are derived fresh instead.
func idGroups(g *graph.Graph) [][]int {
	if g.Len() == 0 {
		return nil
	}
	return signature.Group(signature.ComputeAll(g, SignatureProbes()))
}

// logIteration writes the operational line and the provenance row.
func (o *Orchestrator) logIteration(iter int, phase Phase, a Assessment) {
	log.Printf("[ORCH] iter=%d phase=%s coverage=%.2f stable=%v rooms=%d confidence=%.2f verdict=%s",
		iter, phase, a.DoorCoverage, a.GroupingStable, a.DistinctRooms, a.Confidence, a.Verdict)

	if o.store == nil {
		return
	}
	signals, _ := json.Marshal(a)
	err := logging.LogDecision(o.store.DB(), logging.ProvenanceEntry{
		SessionID:   o.sessionID,
		Iteration:   iter,
		Phase:       string(phase),
		Verdict:     string(a.Verdict),
		SignalsJSON: string(signals),
	})
	if err != nil {
		log.Printf("[ORCH] provenance: %v", err)
	}
}

// #endregion bookkeeping
