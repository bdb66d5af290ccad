package rterrors

import (
	"fmt"

	"github.com/dekarrin/allstarrt/atn"
	"github.com/dekarrin/allstarrt/rtcollections"
	"github.com/dekarrin/allstarrt/rtrecognizer"
	"github.com/dekarrin/allstarrt/rttypes"
)

// ErrorStrategy is the pluggable collaborator a Parser holds (§6
// "errorHandler: pluggable strategy"); DefaultErrorStrategy is the only
// implementation this runtime ships, but rtparser depends on the interface
// so a host can swap in a bail-out or silent strategy.
type ErrorStrategy interface {
	Reset(r RecognizerFacade)
	ReportError(r RecognizerFacade, e *RecognitionException)
	ReportMatch(r RecognizerFacade)
	Recover(r RecognizerFacade, e *RecognitionException) error
	Sync(r RecognizerFacade) error
	RecoverInline(r RecognizerFacade, expectedType int) (rttypes.Token, error)
	InErrorRecoveryMode() bool
}

// DefaultErrorStrategy is the single-token insertion/deletion,
// context-sensitive-FOLLOW-resync strategy described in §4.4.
type DefaultErrorStrategy struct {
	errorRecoveryMode bool
	lastErrorIndex    int
	lastErrorStates   *rtcollections.IntervalSet
}

// NewDefaultErrorStrategy returns a strategy with no recovery history.
func NewDefaultErrorStrategy() *DefaultErrorStrategy {
	return &DefaultErrorStrategy{lastErrorIndex: -1}
}

func (d *DefaultErrorStrategy) InErrorRecoveryMode() bool { return d.errorRecoveryMode }

// Reset clears recovery history; called when a parser rewinds to retry a
// rule (e.g. before a prediction attempt).
func (d *DefaultErrorStrategy) Reset(r RecognizerFacade) {
	d.errorRecoveryMode = false
	d.lastErrorIndex = -1
	d.lastErrorStates = nil
}

// ReportMatch ends recovery mode on a successful match (§4.2 "calls
// errorStrategy.reportMatch" on match success).
func (d *DefaultErrorStrategy) ReportMatch(r RecognizerFacade) {
	d.errorRecoveryMode = false
}

// ReportError dispatches by exception kind and notifies observers (§4.4).
// Any further error reported while already recovering is dropped silently,
// since the first report already describes the problem.
func (d *DefaultErrorStrategy) ReportError(r RecognizerFacade, e *RecognitionException) {
	if d.errorRecoveryMode {
		return
	}
	d.errorRecoveryMode = true

	var msg string
	switch e.Kind {
	case NoViableAlt:
		between := ""
		if e.StartToken != nil && e.OffendingToken != nil {
			between = textBetween(r, e.StartToken, e.OffendingToken)
		}
		msg = fmt.Sprintf("no viable alternative at input '%s'", escapeTokenText(between))
	case InputMismatch:
		msg = fmt.Sprintf("mismatched input %s expecting %s",
			quoteToken(e.OffendingToken), ExpectedTokens(r).String(r.TokenName))
	case FailedPredicate:
		msg = fmt.Sprintf("rule %s %s", r.RuleName(currentRuleIndex(r)), e.Message)
	default:
		msg = e.Error()
	}

	var line, col int
	if e.OffendingToken != nil {
		line, col = e.OffendingToken.Line(), e.OffendingToken.Column()
	}
	r.NotifySyntaxError(rtrecognizer.SyntaxError{
		Line:            line,
		Column:          col,
		Message:         wrapMessage(msg),
		OffendingSymbol: e.OffendingToken,
		Cause:           e,
	})
}

func currentRuleIndex(r RecognizerFacade) int {
	ctx := r.RuleContext()
	if ctx == nil {
		return -1
	}
	return ctx.RuleIndex()
}

// textBetween renders the input text spanned by [start,offending) for a
// no-viable-alternative message.
func textBetween(r RecognizerFacade, start, offending rttypes.Token) string {
	stream := r.InputStream()
	from, to := start.TokenIndex(), offending.TokenIndex()
	if from < 0 || to < 0 || to < from {
		return start.Text()
	}
	return stream.GetTextRange(from, to)
}

// Recover implements the panic-mode fallback (§4.4 recover(e)): guard
// against looping on the same input position/state, then resynchronize to
// the context-sensitive FOLLOW set.
func (d *DefaultErrorStrategy) Recover(r RecognizerFacade, e *RecognitionException) error {
	stream := r.InputStream()
	if d.lastErrorIndex == stream.Index() && d.lastErrorStates != nil && d.lastErrorStates.Contains(r.CurrentState()) {
		if stream.LA(1) != rttypes.TokenEOF {
			if _, err := r.Consume(); err != nil {
				return err
			}
		}
	}
	d.lastErrorIndex = stream.Index()
	if d.lastErrorStates == nil {
		d.lastErrorStates = rtcollections.NewIntervalSet()
	}
	d.lastErrorStates.AddOne(r.CurrentState())

	set := ExpectedTokens(r)
	return d.consumeUntil(r, set)
}

func (d *DefaultErrorStrategy) consumeUntil(r RecognizerFacade, set *rtcollections.IntervalSet) error {
	stream := r.InputStream()
	ttype := stream.LA(1)
	for ttype != rttypes.TokenEOF && !set.Contains(ttype) {
		if _, err := r.Consume(); err != nil {
			return err
		}
		ttype = stream.LA(1)
	}
	return nil
}

// Sync is the magic-sync pre-check invoked at loop/block decision states
// (§4.4 sync()).
func (d *DefaultErrorStrategy) Sync(r RecognizerFacade) error {
	if d.errorRecoveryMode {
		return nil
	}
	a := r.GetATN()
	s := a.State(r.CurrentState())
	if s == nil {
		return nil
	}
	la := r.InputStream().LA(1)
	if a.NextTokensInSameRule(s).Contains(la) || la == rttypes.TokenEOF || ExpectedTokens(r).Contains(la) {
		return nil
	}

	switch s.Type {
	case atn.StateBlockStart, atn.StatePlusBlockStart, atn.StateStarBlockStart, atn.StateStarLoopEntry:
		if tok, ok := d.singleTokenDeletion(r, -1); ok {
			_ = tok
			return nil
		}
		e := NewInputMismatchException(r)
		d.ReportError(r, e)
		return e
	case atn.StatePlusLoopBack, atn.StateStarLoopBack:
		d.reportUnwantedToken(r)
		recoverySet := a.NextTokensInSameRule(s).Or(ExpectedTokens(r))
		return d.consumeUntil(r, recoverySet)
	default:
		return nil
	}
}

// RecoverInline implements §4.4 recoverInline(): try single-token deletion,
// then single-token insertion, else fail with input mismatch. expectedType
// is the token type the caller's match(ttype) wanted; passing it explicitly
// (rather than recomputing "the one expected type" from a FOLLOW set) keeps
// deletion/insertion unambiguous even when the FOLLOW set has more than one
// member.
func (d *DefaultErrorStrategy) RecoverInline(r RecognizerFacade, expectedType int) (rttypes.Token, error) {
	if tok, ok := d.singleTokenDeletion(r, expectedType); ok {
		// The deletion itself only ate the unwanted token; accept the
		// recovered-to token for real now that reportMatch has cleared
		// recovery mode, so it lands as a terminal node, not an error node.
		if _, err := r.Consume(); err != nil {
			return nil, err
		}
		return tok, nil
	}
	if d.singleTokenInsertionPossible(r, expectedType) {
		d.reportMissingToken(r, expectedType)
		return d.conjureMissingToken(r, expectedType), nil
	}
	e := NewInputMismatchException(r)
	d.ReportError(r, e)
	return nil, e
}

// singleTokenDeletion handles "current token is an extra, unwanted token":
// if the token after it is what expectedType (or the broader FOLLOW set,
// when expectedType < 0 as from Sync) wants, drop the current one (as an
// error node, via r.Consume()) and report the next one as the match. The
// caller is responsible for actually consuming that next token once it
// decides to accept it (§4.4 recoverInline step 1).
func (d *DefaultErrorStrategy) singleTokenDeletion(r RecognizerFacade, expectedType int) (rttypes.Token, bool) {
	stream := r.InputStream()
	next := stream.LA(2)
	matches := next == expectedType
	if expectedType < 0 {
		matches = ExpectedTokens(r).Contains(next)
	}
	if !matches {
		return nil, false
	}
	d.reportUnwantedToken(r)
	if _, err := r.Consume(); err != nil {
		return nil, false
	}
	matched := stream.LT(1)
	d.ReportMatch(r)
	return matched, true
}

// singleTokenInsertionPossible reports whether the current lookahead could
// legally follow expectedType, i.e. expectedType was likely just omitted: it
// looks past the transition expectedType would have taken from the current
// state (stateAfterCurrent, §4.4) and asks whether LA(1) is in *that* FOLLOW
// set, extending up the invocation stack exactly like ExpectedTokens. When
// expectedType is unknown (MatchWildcard's recovery path passes -1, same
// convention Sync() uses), there is no single transition to look past, so it
// falls back to the current-state FOLLOW set.
func (d *DefaultErrorStrategy) singleTokenInsertionPossible(r RecognizerFacade, expectedType int) bool {
	if expectedType < 0 {
		return ExpectedTokens(r).Contains(r.InputStream().LA(1))
	}
	a := r.GetATN()
	s := a.State(r.CurrentState())
	next := nextStateFor(s, expectedType, a.MaxTokenType)
	if next == nil {
		return false
	}

	result := a.NextTokensInSameRule(next)
	ctx := r.RuleContext()
	for reachesRuleStop(next) && ctx != nil && ctx.InvokingState() >= 0 {
		next = a.State(ctx.InvokingState())
		result = result.Or(a.NextTokensInSameRule(next))
		ctx = ctx.ParentCtx()
	}
	result.Remove(rttypes.TokenEpsilon)
	return result.Contains(r.InputStream().LA(1))
}

// nextStateFor returns the state s would move to on seeing expectedType,
// i.e. the target of whichever of s's transitions matches it, or nil if none
// do (s is nil, or no alternative expects that type here).
func nextStateFor(s *atn.ATNState, expectedType int, maxTokenType int) *atn.ATNState {
	if s == nil {
		return nil
	}
	for _, t := range s.Transitions {
		switch t.Kind {
		case atn.TransitionAtom, atn.TransitionRange, atn.TransitionSet, atn.TransitionNotSet, atn.TransitionWildcard:
			if t.Matches(expectedType, 0, int32(maxTokenType)) {
				return t.Target
			}
		}
	}
	return nil
}

func (d *DefaultErrorStrategy) conjureMissingToken(r RecognizerFacade, expectedType int) rttypes.Token {
	cur := r.InputStream().LT(1)
	line, col := 0, 0
	if cur != nil {
		line, col = cur.Line(), cur.Column()
	}
	text := fmt.Sprintf("<missing %s>", r.TokenName(expectedType))
	tok := r.TokenFactory().Create(r.Provider(), expectedType, &text, rttypes.TokenDefaultChannel, -1, -1, line, col)
	tok.SetTokenIndex(-1)
	return tok
}

// reportUnwantedToken implements the ANTLR "extraneous input" template (§7,
// §8 scenario 3): the current lookahead itself is the fault (single-token
// deletion is about to drop it), so the message names the offending token
// directly rather than going through ReportError's generic mismatched-input
// dispatch.
func (d *DefaultErrorStrategy) reportUnwantedToken(r RecognizerFacade) {
	if d.errorRecoveryMode {
		return
	}
	d.errorRecoveryMode = true
	t := r.InputStream().LT(1)
	msg := fmt.Sprintf("extraneous input %s expecting %s", quoteToken(t), ExpectedTokens(r).String(r.TokenName))
	d.notifySyntaxError(r, t, msg)
}

// reportMissingToken implements the ANTLR "missing" template (§7, §8
// scenario 2): expectedType was never actually present in the input (single-
// token insertion is about to conjure it), so the message names what was
// expected before where it was expected to be.
func (d *DefaultErrorStrategy) reportMissingToken(r RecognizerFacade, expectedType int) {
	if d.errorRecoveryMode {
		return
	}
	d.errorRecoveryMode = true
	t := r.InputStream().LT(1)
	msg := fmt.Sprintf("missing %s at %s", ExpectedTokens(r).String(r.TokenName), quoteToken(t))
	d.notifySyntaxError(r, t, msg)
}

// notifySyntaxError emits a SyntaxError event built directly from a message
// string rather than a *RecognitionException, matching reportUnwantedToken/
// reportMissingToken's ANTLR counterparts (which notify listeners directly
// instead of dispatching through reportError's exception-kind switch).
func (d *DefaultErrorStrategy) notifySyntaxError(r RecognizerFacade, t rttypes.Token, msg string) {
	var line, col int
	if t != nil {
		line, col = t.Line(), t.Column()
	}
	r.NotifySyntaxError(rtrecognizer.SyntaxError{
		Line:            line,
		Column:          col,
		Message:         wrapMessage(msg),
		OffendingSymbol: t,
	})
}

// ExpectedTokens computes the context-sensitive FOLLOW set at the
// recognizer's current position: NextTokensInSameRule at the current ATN
// state, extended up the rule-invocation stack for as long as each frame's
// rule can complete from where it is (§4.2 isExpectedToken, §4.4 recover's
// "union ... up the call stack"). The epsilon sentinel never appears in the
// reported set.
func ExpectedTokens(r RecognizerFacade) *rtcollections.IntervalSet {
	a := r.GetATN()
	result := rtcollections.NewIntervalSet()

	state := a.State(r.CurrentState())
	ctx := r.RuleContext()
	for state != nil {
		follow := a.NextTokensInSameRule(state)
		result = result.Or(follow)
		if !reachesRuleStop(state) || ctx == nil || ctx.InvokingState() < 0 {
			break
		}
		state = a.State(ctx.InvokingState())
		ctx = ctx.ParentCtx()
	}
	result.Remove(rttypes.TokenEpsilon)
	return result
}

// reachesRuleStop reports whether s's rule can complete via an
// epsilon/predicate/action/precedence-only path (possibly through
// sub-rules), i.e. whether the FOLLOW computation should keep walking
// outward into the invoking rule.
func reachesRuleStop(s *atn.ATNState) bool {
	visited := map[int]bool{}
	var walk func(st *atn.ATNState) bool
	walk = func(st *atn.ATNState) bool {
		if st == nil || visited[st.StateNumber] {
			return false
		}
		visited[st.StateNumber] = true
		if st.Type == atn.StateRuleStop {
			return true
		}
		for _, t := range st.Transitions {
			switch t.Kind {
			case atn.TransitionEpsilon, atn.TransitionPredicate, atn.TransitionAction, atn.TransitionPrecedence:
				if walk(t.Target) {
					return true
				}
			case atn.TransitionRule:
				if walk(t.RuleStart) && walk(t.FollowState) {
					return true
				}
			}
		}
		return false
	}
	return walk(s)
}
