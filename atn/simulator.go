package atn

import "github.com/dekarrin/allstarrt/rttypes"

// LexerSimulator is the §6 "ATN simulator, lexer variant" collaborator
// contract: drive a char source against this ATN starting in the given
// mode, returning the matched token type (or an error wrapping
// *LexerNoViableAltError).
type LexerSimulator interface {
	Match(input rttypes.CharSource, mode int) (int, error)
	Line() int
	Column() int
	Reset()
}

// ParserSimulator is the §6 "ATN simulator, parser variant" collaborator
// contract. outerCtx supplies the invocation-stack context SLL prediction
// needs to look past a RuleStop into the calling rule; it may be nil at the
// top level.
type ParserSimulator interface {
	AdaptivePredict(input rttypes.TokenStream, decision int, outerCtx *rttypes.ParserRuleContext) (int, error)
	Reset()
	ATN() *ATN
}
