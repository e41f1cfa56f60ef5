package orchestrator

// #region transition

// Transition is the pure phase-transition function. It never inspects the
// graph itself, only the facts the caller derived from it:
//
//	initialExploration → iterativeRefinement once all six first-door probes
//	are answered.
//	iterativeRefinement → finalMapping when the evaluator finalizes and
//	every door is resolved, or unconditionally on budget exhaustion.
//	finalMapping → done once the guess is emitted (caller's move, not ours).
func Transition(current Phase, verdict Verdict, initialProbesDone, allDoorsResolved, budgetExhausted bool) Phase {
	switch current {
	case PhaseInitialExploration:
		if initialProbesDone {
			return PhaseIterativeRefinement
		}
		return PhaseInitialExploration
	case PhaseIterativeRefinement:
		if budgetExhausted {
			return PhaseFinalMapping
		}
		if verdict == VerdictFinalize && allDoorsResolved {
			return PhaseFinalMapping
		}
		return PhaseIterativeRefinement
	case PhaseFinalMapping:
		return PhaseFinalMapping
	default:
		return PhaseDone
	}
}

// #endregion transition
