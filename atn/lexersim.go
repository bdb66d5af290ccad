package atn

import (
	"fmt"

	"github.com/dekarrin/allstarrt/rttypes"
)

// BasicLexerSimulator is a reference LexerSimulator: a direct Thompson-NFA
// walk over the ATN with no DFA cache. It favors correctness and
// readability over the throughput a cached DFA gives the production ANTLR
// runtimes; swapping in a caching simulator later only requires satisfying
// LexerSimulator, nothing about Lexer itself has to change.
type BasicLexerSimulator struct {
	atn    *ATN
	line   int
	column int
}

// NewBasicLexerSimulator returns a simulator over the given lexer ATN.
func NewBasicLexerSimulator(a *ATN) *BasicLexerSimulator {
	return &BasicLexerSimulator{atn: a, line: 1, column: 0}
}

func (s *BasicLexerSimulator) Line() int   { return s.line }
func (s *BasicLexerSimulator) Column() int { return s.column }
func (s *BasicLexerSimulator) Reset() {
	s.line = 1
	s.column = 0
}

type lexerThread struct {
	state *ATNState
	ctx   *PredictionContext
}

// Match walks input starting at the TokensStart state for mode, returning
// the token type of the longest rule match found (ties broken by lowest
// rule index, i.e. earliest-declared rule wins, matching §4.3's dispatch
// through the ATN builder's rule ordering). On no match it returns an error
// wrapping *LexerNoViableAltError; the caller (Lexer.nextToken, §4.3) is
// responsible for notifying listeners and recovering.
func (s *BasicLexerSimulator) Match(input rttypes.CharSource, mode int) (int, error) {
	start := s.modeStart(mode)
	if start == nil {
		return 0, &LexerNoViableAltError{StartIndex: input.Index()}
	}

	startIndex := input.Index()
	frontier := []lexerThread{{state: start, ctx: EmptyPredictionContext}}

	type acceptance struct {
		index     int
		tokenType int
		ruleIndex int
	}
	var best *acceptance

	consumed := 0
	for {
		closed := s.closure(frontier)

		for _, th := range closed {
			if th.state.Type == StateRuleStop && th.ctx == EmptyPredictionContext {
				ruleIdx := th.state.RuleIndex
				tt := 0
				if ruleIdx < len(s.atn.ruleToTokenType) {
					tt = s.atn.ruleToTokenType[ruleIdx]
				}
				if best == nil || startIndex+consumed > best.index || ruleIdx < best.ruleIndex {
					best = &acceptance{index: startIndex + consumed, tokenType: tt, ruleIndex: ruleIdx}
				}
			}
		}

		la := input.LA(1)
		if la == rttypes.EOF {
			break
		}

		var next []lexerThread
		seen := map[int]bool{}
		for _, th := range closed {
			for _, t := range th.state.Transitions {
				if t.Kind == TransitionAtom || t.Kind == TransitionRange || t.Kind == TransitionSet || t.Kind == TransitionNotSet || t.Kind == TransitionWildcard {
					if t.Matches(la, 0, int32(s.atn.MaxTokenType)) {
						key := t.Target.StateNumber
						if !seen[key] {
							seen[key] = true
							next = append(next, lexerThread{state: t.Target, ctx: th.ctx})
						}
					}
				}
			}
		}
		if len(next) == 0 {
			break
		}
		if err := input.Consume(); err != nil {
			break
		}
		consumed++
		if la == '\n' {
			s.line++
			s.column = 0
		} else {
			s.column++
		}
		frontier = next
	}

	if best == nil {
		return 0, &LexerNoViableAltError{StartIndex: startIndex}
	}

	// rewind to just past the accepted lexeme
	if err := input.Seek(best.index); err != nil {
		return 0, err
	}
	return best.tokenType, nil
}

func (s *BasicLexerSimulator) modeStart(mode int) *ATNState {
	if mode < 0 || mode >= len(s.atn.modeToStartState) {
		return nil
	}
	return s.atn.modeToStartState[mode]
}

// closure follows epsilon/rule/predicate/action transitions to a fixed
// point, threading PredictionContext so that fragment-rule calls resume at
// their caller on RuleStop.
func (s *BasicLexerSimulator) closure(frontier []lexerThread) []lexerThread {
	visited := map[string]bool{}
	var out []lexerThread
	var visit func(th lexerThread)
	visit = func(th lexerThread) {
		ctxNum := 0
		if th.ctx != nil {
			ctxNum = th.ctx.ReturnState
		}
		key := keyOf(th.state.StateNumber, ctxNum)
		if visited[key] {
			return
		}
		visited[key] = true
		out = append(out, th)

		if th.state.Type == StateRuleStop {
			if th.ctx != nil && th.ctx != EmptyPredictionContext {
				resumeAt := s.atn.State(th.ctx.ReturnState)
				visit(lexerThread{state: resumeAt, ctx: th.ctx.Parent})
			}
			return
		}
		for _, t := range th.state.Transitions {
			switch t.Kind {
			case TransitionEpsilon, TransitionPredicate, TransitionAction, TransitionPrecedence:
				visit(lexerThread{state: t.Target, ctx: th.ctx})
			case TransitionRule:
				newCtx := &PredictionContext{ReturnState: t.FollowState.StateNumber, Parent: th.ctx}
				visit(lexerThread{state: t.RuleStart, ctx: newCtx})
			}
		}
	}
	for _, th := range frontier {
		visit(th)
	}
	return out
}

func keyOf(a, b int) string {
	return fmt.Sprintf("%d:%d", a, b)
}
