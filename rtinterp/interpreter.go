// Package rtinterp implements the ATN-walking parser driver described in
// §4.5: a host that only has a serialized ATN (no grammar-specific Go code
// generated from it) drives Interpreter.Parse directly instead of writing
// one rule method per grammar rule. cmd/rtdemo and rtserver reach it through
// internal/rtsample.Run to parse against a sample grammar chosen by name,
// without a code-generation step.
package rtinterp

import (
	"fmt"

	"github.com/dekarrin/allstarrt/atn"
	"github.com/dekarrin/allstarrt/rterrors"
	"github.com/dekarrin/allstarrt/rtparser"
	"github.com/dekarrin/allstarrt/rtrecognizer"
	"github.com/dekarrin/allstarrt/rttypes"
)

// minUserTokenType and maxSetTokenType bound the matches() guard §4.5
// prescribes for set-valued transitions (RANGE/SET/NOT_SET/WILDCARD).
const (
	minUserTokenType = 1
	maxSetTokenType  = 65535
)

// Interpreter is the ATN-walking driver. It embeds *rtparser.Parser so it
// gets match/consume/enterRule/left-recursion-promotion/listener fanout for
// free; its own job is purely the transition dispatch §4.5 describes.
type Interpreter struct {
	*rtparser.Parser
	atn *atn.ATN

	// pushRecursionStates marks, once at construction, the state each
	// precedence-rule decision's "keep looping" alternative lands on right
	// after its precedence check (the target of its TransitionPrecedence
	// edge) — eagerly identified (§4.5) the same way atn-build time would
	// mark it, since this is reached only by choosing to continue the loop,
	// never by the rule's initial entry, a new recursion context is pushed
	// every time it is visited.
	pushRecursionStates map[int]bool

	// decisionOf maps a decision state's number to its slot in
	// atn.DecisionToState, so visitState can hand AdaptivePredict the index
	// it expects rather than a state number.
	decisionOf map[int]int
}

// New builds an interpreter over a, reading from input and predicting
// through sim.
func New(base *rtrecognizer.Base, a *atn.ATN, input rttypes.TokenStream, sim atn.ParserSimulator, factory rttypes.TokenFactory) *Interpreter {
	in := &Interpreter{
		Parser:              rtparser.NewParser(base, input, sim, factory),
		atn:                 a,
		pushRecursionStates: map[int]bool{},
		decisionOf:          map[int]int{},
	}
	for i := 0; i < a.NumStates(); i++ {
		s := a.State(i)
		if s == nil || s.Type != atn.StateStarLoopEntry || !s.IsPrecedenceDecision() {
			continue
		}
		for _, t := range s.Transitions {
			if t.Kind == atn.TransitionPrecedence {
				in.pushRecursionStates[t.Target.StateNumber] = true
			}
		}
	}
	for i, d := range a.DecisionToState {
		if d != nil {
			in.decisionOf[d.StateNumber] = i
		}
	}
	return in
}

// Parse drives ruleIndex from a fresh root context to its RuleStop and
// returns the resulting parse tree.
func (in *Interpreter) Parse(ruleIndex int) (*rttypes.ParserRuleContext, error) {
	return in.rule(nil, -1, ruleIndex, 0)
}

// rule runs one rule invocation — ordinary or left-recursive — to its
// RuleStop. Left-recursive promotion (§4.2) happens inline here: every
// return visit to the rule's looping decision after the first pushes a new
// recursion context before continuing around the loop.
func (in *Interpreter) rule(parent *rttypes.ParserRuleContext, invokingState, ruleIndex, precedence int) (*rttypes.ParserRuleContext, error) {
	start := in.atn.RuleStart(ruleIndex)
	if start == nil {
		return nil, fmt.Errorf("rtinterp: unknown rule index %d", ruleIndex)
	}
	ctx := rttypes.NewParserRuleContext(parent, invokingState)

	if start.LeftRecursive {
		in.EnterRecursionRule(ctx, start.StateNumber, ruleIndex, precedence)
	} else {
		in.EnterRule(ctx, start.StateNumber, ruleIndex)
	}

	state := in.atn.State(in.CurrentState())
	for state.Type != atn.StateRuleStop {
		if state.Type == atn.StateStarLoopEntry && state.IsPrecedenceDecision() {
			next, err := in.visitPrecedenceDecision(state)
			if err != nil {
				return nil, err
			}
			state = next
			in.SetState(state.StateNumber)
			continue
		}

		if start.LeftRecursive && in.pushRecursionStates[state.StateNumber] {
			newCtx := rttypes.NewParserRuleContext(nil, state.StateNumber)
			in.PushNewRecursionContext(newCtx, state.StateNumber, ruleIndex)
		}

		next, err := in.visitState(state, ruleIndex)
		if err != nil {
			return nil, err
		}
		state = next
		in.SetState(state.StateNumber)
	}

	if start.LeftRecursive {
		return in.UnrollRecursionContexts(parent), nil
	}
	in.ExitRule()
	return ctx, nil
}

// visitState dispatches one transition out of state, honoring every
// serialization type §4.5 lists, and returns the ATN state control passes
// to next.
func (in *Interpreter) visitState(state *atn.ATNState, ruleIndex int) (*atn.ATNState, error) {
	t, err := in.chooseTransition(state)
	if err != nil {
		return nil, err
	}

	switch t.Kind {
	case atn.TransitionEpsilon:
		return t.Target, nil

	case atn.TransitionAction:
		in.Action(in.RuleContext(), t.ActionRuleIndex, t.ActionIndex)
		return t.Target, nil

	case atn.TransitionPredicate:
		if !in.Sempred(in.RuleContext(), t.PredRuleIndex, t.PredIndex) {
			return nil, in.raiseFailedPredicate(fmt.Sprintf("rule %s predicate failed", in.RuleName(t.PredRuleIndex)))
		}
		return t.Target, nil

	case atn.TransitionPrecedence:
		if !in.Precpred(in.RuleContext(), t.PrecedenceValue) {
			return nil, in.raiseFailedPredicate(fmt.Sprintf("rule %s requires precedence >= %d", in.RuleName(ruleIndex), t.PrecedenceValue))
		}
		return t.Target, nil

	case atn.TransitionAtom:
		if _, err := in.Match(int(t.Label)); err != nil {
			return nil, err
		}
		return t.Target, nil

	case atn.TransitionRange, atn.TransitionSet, atn.TransitionNotSet, atn.TransitionWildcard:
		if !t.Matches(in.InputStream().LA(1), minUserTokenType, maxSetTokenType) {
			return nil, rterrors.NewInputMismatchException(in)
		}
		if _, err := in.MatchWildcard(); err != nil {
			return nil, err
		}
		return t.Target, nil

	case atn.TransitionRule:
		if _, err := in.rule(in.RuleContext(), state.StateNumber, t.RuleIndex, t.Precedence); err != nil {
			return nil, err
		}
		return t.FollowState, nil

	default:
		return nil, fmt.Errorf("rtinterp: unhandled transition kind %v at state %d", t.Kind, state.StateNumber)
	}
}

// visitPrecedenceDecision implements a left-recursive rule's loop condition
// the way generated code states it directly (`precpred(_ctx, N) &&
// adaptivePredict(...) == continueAlt`): the precedence guard is checked
// before prediction runs at all, since BasicParserSimulator's closure (§6)
// does not evaluate semantic context the way a full ALL(*) simulator would
// — without this short-circuit, a lower-precedence nested call could have
// prediction choose "continue" purely from syntax and only then discover
// the predicate fails, aborting the parse instead of just stopping the
// loop, which is what real precedence climbing requires (§8 scenario 5).
func (in *Interpreter) visitPrecedenceDecision(state *atn.ATNState) (*atn.ATNState, error) {
	var continueTr, exitTr *atn.Transition
	for _, t := range state.Transitions {
		if t.Kind == atn.TransitionPrecedence {
			continueTr = t
		} else {
			exitTr = t
		}
	}
	if continueTr == nil || exitTr == nil {
		return nil, fmt.Errorf("rtinterp: precedence decision state %d missing continue/exit alternative", state.StateNumber)
	}
	if !in.Precpred(in.RuleContext(), continueTr.PrecedenceValue) {
		return exitTr.Target, nil
	}
	t, err := in.chooseTransition(state)
	if err != nil {
		return nil, err
	}
	return t.Target, nil
}

// chooseTransition picks state's single outgoing transition, or asks the
// prediction simulator which alternative to take at a decision state.
func (in *Interpreter) chooseTransition(state *atn.ATNState) (*atn.Transition, error) {
	if len(state.Transitions) == 1 {
		return state.Transitions[0], nil
	}
	decision, ok := in.decisionOf[state.StateNumber]
	if !ok {
		return nil, fmt.Errorf("rtinterp: state %d has %d transitions but is not a decision state", state.StateNumber, len(state.Transitions))
	}
	alt, err := in.AdaptivePredict(decision)
	if err != nil {
		return nil, err
	}
	if alt < 1 || alt > len(state.Transitions) {
		return nil, fmt.Errorf("rtinterp: decision %d predicted out-of-range alt %d", decision, alt)
	}
	return state.Transitions[alt-1], nil
}

// raiseFailedPredicate reports a FailedPredicate RecognitionException to the
// error strategy/observers and propagates it to the caller. A fully
// generated parser would let the strategy attempt to recover and resume;
// this driver keeps predicate failure fatal to the current Parse call,
// since which states are safe to resync to after a failed precedence
// predicate in an arbitrary grammar's ATN is not something a generic
// interpreter can infer the way a specific generated rule method can.
func (in *Interpreter) raiseFailedPredicate(msg string) error {
	exc := &rterrors.RecognitionException{
		Kind:           rterrors.FailedPredicate,
		OffendingToken: in.InputStream().LT(1),
		OffendingState: in.CurrentState(),
		Message:        msg,
	}
	in.ErrorHandler.ReportError(in, exc)
	return exc
}
