package atn

import (
	"sync"

	"github.com/dekarrin/allstarrt/rtcollections"
)

// GrammarType distinguishes lexer ATNs from parser ATNs, mirroring the
// distinction the deserializer needs (§6 "Persisted state").
type GrammarType int

const (
	GrammarLexer GrammarType = iota
	GrammarParser
)

// ATN is the Augmented Transition Network: the full state graph compiled
// from a grammar. A single ATN is shared read-only across every parser or
// lexer instance built from the same grammar; of the mutex pair below,
// stateMu guards the state-number table and mu guards the rule start/stop
// and mode lookup tables. DecisionToState is not guarded.
type ATN struct {
	GrammarType GrammarType

	// MaxTokenType is the maximum value for any symbol recognized by a
	// transition in this ATN.
	MaxTokenType int

	DecisionToState []*DecisionState

	states []*ATNState

	ruleToStartState []*RuleStartState
	ruleToStopState  []*RuleStopState

	modeToStartState []*ATNState
	modeNameToStartState map[string]*ATNState

	// ruleToTokenType maps a lexer rule index to the token type it
	// produces.
	ruleToTokenType []int

	mu      sync.Mutex
	stateMu sync.RWMutex
}

// NewATN creates an empty ATN of the given grammar type.
func NewATN(grammarType GrammarType, maxTokenType int) *ATN {
	return &ATN{
		GrammarType:          grammarType,
		MaxTokenType:         maxTokenType,
		modeNameToStartState: map[string]*ATNState{},
	}
}

// AddState registers s at its StateNumber slot, growing the backing slice
// if needed. Safe for use only during deserialization (single-writer); once
// a parser starts walking the ATN, states are read-only.
func (a *ATN) AddState(s *ATNState) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	for len(a.states) <= s.StateNumber {
		a.states = append(a.states, nil)
	}
	a.states[s.StateNumber] = s
}

// State returns the state with the given number.
func (a *ATN) State(number int) *ATNState {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	if number < 0 || number >= len(a.states) {
		return nil
	}
	return a.states[number]
}

// NumStates returns the number of allocated state slots.
func (a *ATN) NumStates() int {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return len(a.states)
}

// SetRuleStartStop registers the start/stop state pair for ruleIndex,
// growing the lookup slices as needed.
func (a *ATN) SetRuleStartStop(ruleIndex int, start *RuleStartState, stop *RuleStopState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for len(a.ruleToStartState) <= ruleIndex {
		a.ruleToStartState = append(a.ruleToStartState, nil)
		a.ruleToStopState = append(a.ruleToStopState, nil)
	}
	a.ruleToStartState[ruleIndex] = start
	a.ruleToStopState[ruleIndex] = stop
	start.StopState = stop
}

// RuleStart returns the start state of ruleIndex.
func (a *ATN) RuleStart(ruleIndex int) *RuleStartState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ruleIndex < 0 || ruleIndex >= len(a.ruleToStartState) {
		return nil
	}
	return a.ruleToStartState[ruleIndex]
}

// RuleStop returns the stop state of ruleIndex.
func (a *ATN) RuleStop(ruleIndex int) *RuleStopState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ruleIndex < 0 || ruleIndex >= len(a.ruleToStopState) {
		return nil
	}
	return a.ruleToStopState[ruleIndex]
}

// AddModeStartState registers the TokensStart state for a named lexer mode.
func (a *ATN) AddModeStartState(name string, s *ATNState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.modeToStartState = append(a.modeToStartState, s)
	a.modeNameToStartState[name] = s
}

// ModeStartState returns the TokensStart state for the named mode, or nil.
func (a *ATN) ModeStartState(name string) *ATNState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.modeNameToStartState[name]
}

// NextTokensInSameRule computes the FOLLOW set reachable from s without
// leaving its own rule: the epsilon/atom/set closure up to (but not
// through) a RuleStop. This is the building block both isExpectedToken
// (§4.2) and sync()'s "still inside expected territory" check (§4.4) use;
// walking further than one rule frame is the caller's job (it walks the
// invocation stack and unions each frame's contribution).
func (a *ATN) NextTokensInSameRule(s *ATNState) *rtcollections.IntervalSet {
	set := rtcollections.NewIntervalSet()
	if s == nil {
		return set
	}
	visited := map[int]bool{}
	var walk func(st *ATNState)
	walk = func(st *ATNState) {
		if st == nil || visited[st.StateNumber] {
			return
		}
		visited[st.StateNumber] = true
		if st.Type == StateRuleStop {
			// epsilon sentinel: this rule can complete here: the caller
			// should keep walking its own invocation stack.
			return
		}
		for _, t := range st.Transitions {
			switch t.Kind {
			case TransitionEpsilon, TransitionPredicate, TransitionAction, TransitionPrecedence:
				walk(t.Target)
			case TransitionAtom:
				set.AddOne(int(t.Label))
			case TransitionRange:
				set.AddRange(int(t.LabelMin), int(t.LabelMax))
			case TransitionSet:
				set.AddSet(t.Set)
			case TransitionNotSet:
				full := rtcollections.NewIntervalSet()
				full.AddRange(1, a.MaxTokenType)
				if t.Set != nil {
					set.AddSet(full.Subtract(t.Set))
				} else {
					set.AddSet(full)
				}
			case TransitionWildcard:
				set.AddRange(1, a.MaxTokenType)
			case TransitionRule:
				// calling into a sub-rule: its own FOLLOW contributes the
				// set of tokens that can start it.
				set.AddSet(a.NextTokensInSameRule(t.RuleStart))
				if ruleCanMatchEmpty(a, t.RuleStart) {
					walk(t.FollowState)
				}
			}
		}
	}
	walk(s)
	return set
}

// ruleCanMatchEmpty reports whether any epsilon/predicate-only path from s
// reaches its rule's stop state, i.e. whether the rule started at s can
// match the empty string. Used by NextTokensInSameRule's RULE-transition
// case to decide whether to also look past the call.
func ruleCanMatchEmpty(a *ATN, ruleStart *ATNState) bool {
	visited := map[int]bool{}
	var walk func(st *ATNState) bool
	walk = func(st *ATNState) bool {
		if st == nil || visited[st.StateNumber] {
			return false
		}
		visited[st.StateNumber] = true
		if st.Type == StateRuleStop {
			return true
		}
		for _, t := range st.Transitions {
			switch t.Kind {
			case TransitionEpsilon, TransitionPredicate, TransitionAction, TransitionPrecedence:
				if walk(t.Target) {
					return true
				}
			case TransitionRule:
				if ruleCanMatchEmpty(a, t.RuleStart) && walk(t.FollowState) {
					return true
				}
			}
		}
		return false
	}
	return walk(ruleStart)
}
