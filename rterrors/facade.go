package rterrors

import (
	"github.com/dekarrin/allstarrt/atn"
	"github.com/dekarrin/allstarrt/rtrecognizer"
	"github.com/dekarrin/allstarrt/rttypes"
)

// RecognizerFacade is the minimal surface DefaultErrorStrategy needs from a
// Parser (package rtparser), kept here rather than imported so that rtparser
// can depend on rterrors without rterrors depending back on rtparser.
// *rtparser.Parser satisfies this structurally.
type RecognizerFacade interface {
	CurrentState() int
	RuleContext() *rttypes.ParserRuleContext
	InputStream() rttypes.TokenStream
	GetATN() *atn.ATN
	TokenFactory() rttypes.TokenFactory
	Provider() rttypes.TokenProvider
	TokenName(t int) string
	RuleName(ruleIndex int) string
	NotifySyntaxError(e rtrecognizer.SyntaxError)

	// Consume advances past the current token and returns it, same as the
	// parser's own consume() (§4.2): it attaches the token to the current
	// rule context as an error node (while in recovery) or terminal node
	// (otherwise). Error-recovery consumption must go through this, not
	// InputStream().Consume() directly, so every token panic-mode or
	// single-token-deletion recovery eats still lands in the tree (§8
	// invariant 5).
	Consume() (rttypes.Token, error)
}
