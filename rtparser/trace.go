package rtparser

import (
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/allstarrt/rttypes"
)

// traceListener is the built-in ParseTreeListener Parser.SetTrace installs
// (§6 "trace: install a tracing parse listener"). It writes one line per
// event; Out defaults to os.Stderr when constructed via SetTrace.
type traceListener struct {
	p   *Parser
	Out io.Writer
}

func (t *traceListener) out() io.Writer {
	if t.Out != nil {
		return t.Out
	}
	return os.Stderr
}

func (t *traceListener) EnterEveryRule(ctx *rttypes.ParserRuleContext) {
	fmt.Fprintf(t.out(), "enter rule %s, LT(1)=%s\n", t.p.RuleName(ctx.RuleIndex()), textOf(t.p.input.LT(1)))
}

func (t *traceListener) ExitEveryRule(ctx *rttypes.ParserRuleContext) {
	fmt.Fprintf(t.out(), "exit rule %s, LT(1)=%s\n", t.p.RuleName(ctx.RuleIndex()), textOf(t.p.input.LT(1)))
}

func (t *traceListener) VisitTerminal(n *rttypes.TerminalNode) {
	fmt.Fprintf(t.out(), "consume %s rule %s\n", textOf(n.Symbol()), t.p.RuleName(t.currentRule()))
}

func (t *traceListener) VisitErrorNode(n *rttypes.ErrorNode) {
	fmt.Fprintf(t.out(), "consume (error) %s rule %s\n", textOf(n.Symbol()), t.p.RuleName(t.currentRule()))
}

func (t *traceListener) currentRule() int {
	if t.p.ctx == nil {
		return -1
	}
	return t.p.ctx.RuleIndex()
}

func textOf(tok rttypes.Token) string {
	if tok == nil {
		return "<nil>"
	}
	return tok.Text()
}
