package atn

import "github.com/dekarrin/allstarrt/rtcollections"

// TransitionKind enumerates the serialization types §4.5 lists: EPSILON,
// ATOM, RANGE, SET, NOT_SET, WILDCARD, RULE, PREDICATE, ACTION, PRECEDENCE.
type TransitionKind int

const (
	TransitionEpsilon TransitionKind = iota
	TransitionAtom
	TransitionRange
	TransitionSet
	TransitionNotSet
	TransitionWildcard
	TransitionRule
	TransitionPredicate
	TransitionAction
	TransitionPrecedence
)

// Transition is an edge in the ATN graph. Which fields are meaningful
// depends on Kind; unused fields are left zero.
type Transition struct {
	Kind   TransitionKind
	Target *ATNState

	// ATOM / RANGE
	Label    int32
	LabelMin int32
	LabelMax int32

	// SET / NOT_SET
	Set *rtcollections.IntervalSet

	// RULE
	RuleStart   *ATNState
	FollowState *ATNState
	RuleIndex   int
	Precedence  int

	// PREDICATE
	PredRuleIndex int
	PredIndex     int
	IsCtxDependent bool

	// ACTION
	ActionRuleIndex int
	ActionIndex     int

	// PRECEDENCE
	PrecedenceValue int
}

// Matches reports whether symbol falls within this transition's label set,
// used by the interpreter's set-valued dispatch (§4.5: "matchWildcard
// guarded by transition.matches(...)").
func (t *Transition) Matches(symbol int, minType, maxType int32) bool {
	switch t.Kind {
	case TransitionAtom:
		return symbol == int(t.Label)
	case TransitionRange:
		return int32(symbol) >= t.LabelMin && int32(symbol) <= t.LabelMax
	case TransitionSet:
		return t.Set != nil && t.Set.Contains(symbol)
	case TransitionNotSet:
		if symbol < int(minType) || symbol > int(maxType) {
			return false
		}
		return t.Set == nil || !t.Set.Contains(symbol)
	case TransitionWildcard:
		return symbol >= int(minType) && symbol <= int(maxType)
	default:
		return false
	}
}

// NewEpsilonTransition creates an unconditional edge to target.
func NewEpsilonTransition(target *ATNState) *Transition {
	return &Transition{Kind: TransitionEpsilon, Target: target}
}

// NewAtomTransition creates an edge matched by exactly one symbol.
func NewAtomTransition(target *ATNState, label int32) *Transition {
	return &Transition{Kind: TransitionAtom, Target: target, Label: label}
}

// NewRangeTransition creates an edge matched by an inclusive symbol range.
func NewRangeTransition(target *ATNState, min, max int32) *Transition {
	return &Transition{Kind: TransitionRange, Target: target, LabelMin: min, LabelMax: max}
}

// NewSetTransition creates an edge matched by any symbol in set.
func NewSetTransition(target *ATNState, set *rtcollections.IntervalSet) *Transition {
	return &Transition{Kind: TransitionSet, Target: target, Set: set}
}

// NewNotSetTransition creates an edge matched by any in-range symbol NOT in
// set.
func NewNotSetTransition(target *ATNState, set *rtcollections.IntervalSet) *Transition {
	return &Transition{Kind: TransitionNotSet, Target: target, Set: set}
}

// NewWildcardTransition creates an edge matched by any in-range symbol.
func NewWildcardTransition(target *ATNState) *Transition {
	return &Transition{Kind: TransitionWildcard, Target: target}
}

// NewRuleTransition creates a call into ruleStart, resuming at followState
// with precedence on return (0 for non-left-recursive rules).
func NewRuleTransition(ruleStart, followState *ATNState, ruleIndex, precedence int) *Transition {
	return &Transition{
		Kind:        TransitionRule,
		Target:      ruleStart,
		RuleStart:   ruleStart,
		FollowState: followState,
		RuleIndex:   ruleIndex,
		Precedence:  precedence,
	}
}

// NewPredicateTransition creates a semantic-predicate edge.
func NewPredicateTransition(target *ATNState, ruleIndex, predIndex int, ctxDependent bool) *Transition {
	return &Transition{
		Kind:           TransitionPredicate,
		Target:         target,
		PredRuleIndex:  ruleIndex,
		PredIndex:      predIndex,
		IsCtxDependent: ctxDependent,
	}
}

// NewPrecedenceTransition creates a precpred(precedence) edge used at the
// head of a left-recursive alternative.
func NewPrecedenceTransition(target *ATNState, precedence int) *Transition {
	return &Transition{Kind: TransitionPrecedence, Target: target, PrecedenceValue: precedence}
}
