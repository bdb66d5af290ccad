package rtparser

import "github.com/dekarrin/allstarrt/rttypes"

// ParseTreeListener receives tree-construction events as the parser walks a
// rule (§4.2 "fires enterEveryRule/enterRule ... fires visitTerminal/
// visitErrorNode on registered listeners"). Generated parsers normally also
// fire a per-rule-name method (EnterExprContext, etc); since this runtime
// has no code generator, EnterEveryRule/ExitEveryRule are the only hooks —
// a host wanting per-rule behavior type-switches on ctx.RuleIndex() itself.
type ParseTreeListener interface {
	EnterEveryRule(ctx *rttypes.ParserRuleContext)
	ExitEveryRule(ctx *rttypes.ParserRuleContext)
	VisitTerminal(node *rttypes.TerminalNode)
	VisitErrorNode(node *rttypes.ErrorNode)
}
