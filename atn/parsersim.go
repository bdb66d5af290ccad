package atn

import "github.com/dekarrin/allstarrt/rttypes"

// BasicParserSimulator is a reference ParserSimulator implementing the
// SLL-only slice of ALL(*): it predicts by expanding configuration sets
// alt-by-alt under lookahead, the same shape as full adaptive LL(*)
// prediction, but it never falls back to a separate full-context pass on
// conflict. AttemptingFullContextEvent/ContextSensitivityEvent (§6) are
// therefore never emitted by this simulator; a caching, full ALL(*)
// simulator can be substituted later purely by satisfying ParserSimulator.
type BasicParserSimulator struct {
	atn *ATN
	cache *ContextCache
}

// NewBasicParserSimulator returns a simulator over the given parser ATN,
// using the process-wide shared context cache for a's content (§5) so that
// independently-constructed simulators over the same grammar intern
// PredictionContext nodes once rather than per instance.
func NewBasicParserSimulator(a *ATN) *BasicParserSimulator {
	return &BasicParserSimulator{atn: a, cache: SharedContextCache(a)}
}

func (s *BasicParserSimulator) ATN() *ATN { return s.atn }

// Reset re-fetches this ATN's shared context cache. It does not evict the
// cache's contents: other simulators over the same grammar may still be
// relying on the interned nodes it holds.
func (s *BasicParserSimulator) Reset() { s.cache = SharedContextCache(s.atn) }

// maxLookahead bounds the SLL expansion loop so a pathological or
// genuinely ambiguous grammar cannot hang prediction forever; on reaching
// it, the lowest surviving alt number wins, mirroring ALL(*)'s documented
// fallback of preferring the first alternative on an unresolved conflict.
const maxLookahead = 2000

// AdaptivePredict implements the ParserSimulator contract (§6).
func (s *BasicParserSimulator) AdaptivePredict(input rttypes.TokenStream, decision int, outerCtx *rttypes.ParserRuleContext) (int, error) {
	if decision < 0 || decision >= len(s.atn.DecisionToState) {
		return 0, &NoViableAltError{StartIndex: input.Index(), StopIndex: input.Index()}
	}
	d := s.atn.DecisionToState[decision]
	if d == nil {
		return 0, &NoViableAltError{StartIndex: input.Index(), StopIndex: input.Index()}
	}

	startIndex := input.Index()
	initialCtx := s.buildContext(outerCtx)

	// completesImmediately[i] records whether alt i+1 reaches RuleStop with
	// the call stack already exhausted (EmptyPredictionContext) in its very
	// first closure, i.e. it is viable having consumed zero further tokens
	// — the shape every star/plus loop's "stop looping" alternative takes.
	// A full ALL(*) simulator treats such a config as permanently viable at
	// every lookahead depth; this reference simulator instead special-cases
	// it as the fallback once no alt's transitions can consume the next
	// token, which is sufficient for the loop/block decisions generated
	// left-recursive and repetition rules actually pose (§4.5, §8 scenario
	// 5) without modeling full context propagation through RuleStop.
	completesImmediately := make([]bool, len(d.Transitions))
	configs := NewATNConfigSet(false)
	for i, t := range d.Transitions {
		altConfigs := NewATNConfigSet(false)
		s.closureInto(altConfigs, &ATNConfig{State: t.Target, Alt: i + 1, Context: initialCtx})
		for _, cfg := range altConfigs.Configs() {
			if cfg.State.Type == StateRuleStop && (cfg.Context == nil || cfg.Context == EmptyPredictionContext) {
				completesImmediately[i] = true
			}
			configs.Add(cfg)
		}
	}

	k := 1
	for {
		if configs.IsEmpty() {
			return 0, &NoViableAltError{StartIndex: startIndex, StopIndex: input.Index(), DeadEndConfigs: configs}
		}
		alts := configs.Alts().Values()
		if len(alts) == 1 {
			return alts[0], nil
		}
		if k > maxLookahead {
			return alts[0], nil
		}

		la := input.LA(k)
		reach := NewATNConfigSet(false)
		matchedAny := false
		for _, cfg := range configs.Configs() {
			for _, t := range cfg.State.Transitions {
				if isSymbolTransition(t.Kind) && t.Matches(la, 0, int32(s.atn.MaxTokenType)) {
					matchedAny = true
					s.closureInto(reach, &ATNConfig{State: t.Target, Alt: cfg.Alt, Context: cfg.Context})
				}
			}
		}
		if !matchedAny {
			for i, done := range completesImmediately {
				if done {
					return i + 1, nil
				}
			}
			return 0, &NoViableAltError{StartIndex: startIndex, StopIndex: input.Index(), DeadEndConfigs: configs}
		}
		configs = reach
		k++
	}
}

func isSymbolTransition(k TransitionKind) bool {
	switch k {
	case TransitionAtom, TransitionRange, TransitionSet, TransitionNotSet, TransitionWildcard:
		return true
	default:
		return false
	}
}

func (s *BasicParserSimulator) buildContext(ctx *rttypes.ParserRuleContext) *PredictionContext {
	if ctx == nil {
		return EmptyPredictionContext
	}
	parent := s.buildContext(ctx.ParentCtx())
	if ctx.InvokingState() < 0 {
		return parent
	}
	return s.cache.Intern(&PredictionContext{ReturnState: ctx.InvokingState(), Parent: parent})
}

// closureInto expands cfg over epsilon/rule/predicate/precedence
// transitions to a fixed point, adding every resulting configuration
// (including cfg itself) into set.
func (s *BasicParserSimulator) closureInto(set *ATNConfigSet, cfg *ATNConfig) {
	visited := map[string]bool{}
	var visit func(c *ATNConfig)
	visit = func(c *ATNConfig) {
		ctxHash := uint32(0)
		if c.Context != nil {
			ctxHash = c.Context.Hash()
		}
		key := keyOf(c.State.StateNumber, int(ctxHash)) + keyOf(c.Alt, 0)
		if visited[key] {
			return
		}
		visited[key] = true
		set.Add(c)

		if c.State.Type == StateRuleStop {
			if c.Context != nil && c.Context != EmptyPredictionContext {
				resumeAt := s.atn.State(c.Context.ReturnState)
				if resumeAt != nil {
					visit(&ATNConfig{State: resumeAt, Alt: c.Alt, Context: c.Context.Parent})
				}
			}
			return
		}
		for _, t := range c.State.Transitions {
			switch t.Kind {
			case TransitionEpsilon, TransitionPredicate, TransitionAction:
				visit(&ATNConfig{State: t.Target, Alt: c.Alt, Context: c.Context})
			case TransitionPrecedence:
				visit(&ATNConfig{State: t.Target, Alt: c.Alt, Context: c.Context})
			case TransitionRule:
				newCtx := s.cache.Intern(&PredictionContext{ReturnState: t.FollowState.StateNumber, Parent: c.Context})
				visit(&ATNConfig{State: t.RuleStart, Alt: c.Alt, Context: newCtx})
			}
		}
	}
	visit(cfg)
}
