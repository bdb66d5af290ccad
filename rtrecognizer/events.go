package rtrecognizer

import "github.com/dekarrin/allstarrt/rtcollections"

// SyntaxError is the event emitted whenever the parser or lexer reports a
// recognition problem (§6). OffendingSymbol is nil for lexer errors, since a
// lexer has no token to point at yet.
type SyntaxError struct {
	Line            int
	Column          int
	Message         string
	OffendingSymbol interface{}
	Cause           error
}

// SyntaxErrorListener receives SyntaxError events (§6).
type SyntaxErrorListener interface {
	SyntaxError(e SyntaxError)
}

// AmbiguityEvent reports that the prediction simulator found more than one
// viable alternative for a decision and picked the lowest-numbered one
// (§6, §4.5).
type AmbiguityEvent struct {
	DecisionIndex int
	StartIndex    int
	StopIndex     int
	Exact         bool
	AmbigAlts     *rtcollections.BitSet
}

// AttemptingFullContextEvent reports that SLL prediction found a conflict
// and the simulator is about to retry with full outer context (§6). This
// runtime's BasicParserSimulator never actually performs the LL fallback
// (§9 "SLL-only simplification"); the event exists so a more capable
// simulator can be swapped in later without changing this interface.
type AttemptingFullContextEvent struct {
	DecisionIndex int
	StartIndex    int
	StopIndex     int
}

// ContextSensitivityEvent reports that full-context prediction resolved a
// conflict SLL could not (§6). See AttemptingFullContextEvent's note.
type ContextSensitivityEvent struct {
	DecisionIndex int
	StartIndex    int
	StopIndex     int
	PredictedAlt  int
}

// AmbiguityListener receives the three decision-quality events a prediction
// simulator can raise (§6).
type AmbiguityListener interface {
	Ambiguity(e AmbiguityEvent)
	AttemptingFullContext(e AttemptingFullContextEvent)
	ContextSensitivity(e ContextSensitivityEvent)
}
