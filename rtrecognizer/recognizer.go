// Package rtrecognizer holds the state and name tables shared by both Lexer
// and Parser (§4.0/§6), plus the observer-stream fan-out (§6, §9
// "standardize on a single observer model") that surrounding tooling
// subscribes to instead of the source's mixed listener/event-stream APIs.
package rtrecognizer

import "github.com/google/uuid"

// Base holds the bookkeeping a Lexer or Parser both need: the current ATN
// state, and the symbolic-name tables a generated recognizer would
// otherwise hardcode. SessionID tags every event this recognizer emits so a
// host consuming events from several concurrent recognizers (e.g. rtserver
// handling concurrent /parse requests) can tell them apart.
type Base struct {
	state int

	tokenNames map[int]string
	ruleNames  []string

	SessionID uuid.UUID

	listeners []SyntaxErrorListener
	ambig     []AmbiguityListener
}

// NewBase returns a recognizer base with a fresh session ID.
func NewBase(tokenNames map[int]string, ruleNames []string) *Base {
	return &Base{
		state:      -1,
		tokenNames: tokenNames,
		ruleNames:  ruleNames,
		SessionID:  uuid.New(),
	}
}

func (b *Base) State() int     { return b.state }
func (b *Base) SetState(s int) { b.state = s }

// TokenName returns the symbolic name of token type t; for a type missing
// from the table it returns "EOF" for -1, "INVALID" for 0, and "<unknown>"
// otherwise.
func (b *Base) TokenName(t int) string {
	if n, ok := b.tokenNames[t]; ok {
		return n
	}
	switch t {
	case -1:
		return "EOF"
	case 0:
		return "INVALID"
	default:
		return "<unknown>"
	}
}

// RuleName returns the name of rule index r, or "<unknown>" if out of range.
func (b *Base) RuleName(r int) string {
	if r < 0 || r >= len(b.ruleNames) {
		return "<unknown>"
	}
	return b.ruleNames[r]
}

// AddErrorListener subscribes to SyntaxError events.
func (b *Base) AddErrorListener(l SyntaxErrorListener) {
	b.listeners = append(b.listeners, l)
}

// RemoveErrorListeners clears all SyntaxError subscribers.
func (b *Base) RemoveErrorListeners() {
	b.listeners = nil
}

// AddAmbiguityListener subscribes to Ambiguity/AttemptingFullContext/
// ContextSensitivity events.
func (b *Base) AddAmbiguityListener(l AmbiguityListener) {
	b.ambig = append(b.ambig, l)
}

// NotifySyntaxError dispatches e to every subscriber, isolating one
// failing subscriber's panic from the others (§9 "proxy dispatcher that
// forwards to each subscriber and isolates one failing subscriber").
func (b *Base) NotifySyntaxError(e SyntaxError) {
	for _, l := range b.listeners {
		dispatchSafely(func() { l.SyntaxError(e) })
	}
}

// NotifyAmbiguity dispatches an AmbiguityEvent to every subscriber.
func (b *Base) NotifyAmbiguity(e AmbiguityEvent) {
	for _, l := range b.ambig {
		dispatchSafely(func() { l.Ambiguity(e) })
	}
}

// NotifyAttemptingFullContext dispatches an AttemptingFullContextEvent.
func (b *Base) NotifyAttemptingFullContext(e AttemptingFullContextEvent) {
	for _, l := range b.ambig {
		dispatchSafely(func() { l.AttemptingFullContext(e) })
	}
}

// NotifyContextSensitivity dispatches a ContextSensitivityEvent.
func (b *Base) NotifyContextSensitivity(e ContextSensitivityEvent) {
	for _, l := range b.ambig {
		dispatchSafely(func() { l.ContextSensitivity(e) })
	}
}

func dispatchSafely(f func()) {
	defer func() { recover() }()
	f()
}
