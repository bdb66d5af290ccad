// Package rterrors implements the default recovery strategy (§4.4): a
// small, closed set of recognition-exception kinds, and a DefaultErrorStrategy
// that performs single-token insertion/deletion and context-sensitive
// FOLLOW-set resynchronization. Within this module it depends only on
// rttypes, rtcollections, rtrecognizer and atn, so rtparser and rtlexer can
// both depend on it without either of them needing to import the other.
package rterrors

import (
	"fmt"

	"github.com/dekarrin/allstarrt/rttypes"
)

// ExceptionKind distinguishes the closed set of recognition-failure shapes
// the parser/lexer can report (§7's taxonomy), following the same
// "tagged sum over a fixed kind enum" shape tunaq's grammar package uses for
// its own small error hierarchies rather than a Go error-wrapping chain.
type ExceptionKind int

const (
	NoViableAlt ExceptionKind = iota
	InputMismatch
	FailedPredicate
	LexerNoViableAlt
)

func (k ExceptionKind) String() string {
	switch k {
	case NoViableAlt:
		return "no viable alternative"
	case InputMismatch:
		return "input mismatch"
	case FailedPredicate:
		return "failed predicate"
	case LexerNoViableAlt:
		return "lexer no viable alternative"
	default:
		return "unknown recognition exception"
	}
}

// RecognitionException is the value errorStrategy.reportError/recover act
// on. OffendingToken is nil for lexer errors. StartToken bounds the
// no-viable-alternative message's "input between" rendering.
type RecognitionException struct {
	Kind ExceptionKind

	StartToken      rttypes.Token
	OffendingToken  rttypes.Token
	OffendingState  int
	Message         string // set for FailedPredicate; the predicate's own text
	Cause           error  // wraps *atn.NoViableAltError / *atn.LexerNoViableAltError when present
}

func (e *RecognitionException) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return e.Kind.String()
}

func (e *RecognitionException) Unwrap() error { return e.Cause }

// NewInputMismatchException builds the InputMismatch case from the
// recognizer's current lookahead and state (§4.4 recoverInline step 3).
func NewInputMismatchException(r RecognizerFacade) *RecognitionException {
	return &RecognitionException{
		Kind:           InputMismatch,
		OffendingToken: r.InputStream().LT(1),
		OffendingState: r.CurrentState(),
	}
}
