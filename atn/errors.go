package atn

import "fmt"

// LexerNoViableAltError reports that no token rule matched the next
// character(s) starting at StartIndex (§7 "Lexer - No viable alternative").
type LexerNoViableAltError struct {
	StartIndex     int
	DeadEndConfigs *ATNConfigSet
}

func (e *LexerNoViableAltError) Error() string {
	return fmt.Sprintf("atn: no viable alternative for lexer rule at input index %d", e.StartIndex)
}

// NoViableAltError reports that prediction found no alt for a parser
// decision (§7 "Recognition - No viable alternative"). StartIndex and
// StopIndex bound the offending span in the token stream.
type NoViableAltError struct {
	StartIndex, StopIndex int
	DeadEndConfigs        *ATNConfigSet
}

func (e *NoViableAltError) Error() string {
	return fmt.Sprintf("atn: no viable alternative between token indices %d and %d", e.StartIndex, e.StopIndex)
}
