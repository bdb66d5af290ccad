// Package rtparser implements the parser control loop described in §4.2: the
// API generated rule methods call into — match, enterRule/exitRule,
// left-recursion promotion, and the parse-tree/listener fanout around them.
// It has no code generator behind it, so a host drives Parser directly (or
// through package rtinterp's interpreter driver, §4.5) instead of subclassing it
// per grammar.
package rtparser

import (
	"fmt"

	"github.com/dekarrin/allstarrt/atn"
	"github.com/dekarrin/allstarrt/rterrors"
	"github.com/dekarrin/allstarrt/rtrecognizer"
	"github.com/dekarrin/allstarrt/rttypes"
)

// recursionFrame is the auxiliary-stack entry enterRecursionRule pushes
// before a left-recursive rule starts looping (§4.2): the context and
// invoking state in effect just before promotion began.
type recursionFrame struct {
	ctx           *rttypes.ParserRuleContext
	invokingState int
}

// Parser is the runtime core described in §4.2. BuildParseTree, TrimParseTree
// and Trace mirror the §6 "configurable options (parser)" surface; ErrorHandler
// is the pluggable strategy slot the same section describes.
type Parser struct {
	*rtrecognizer.Base

	input     rttypes.TokenStream
	simulator atn.ParserSimulator
	factory   rttypes.TokenFactory

	ErrorHandler rterrors.ErrorStrategy

	BuildParseTree bool
	TrimParseTree  bool

	ctx             *rttypes.ParserRuleContext
	precedenceStack []int
	recursionFrames []recursionFrame

	listeners     []ParseTreeListener
	traceListener *traceListener

	// SempredHook and ActionHook let an interpreter driver or a hand-written
	// host supply the rule-specific semantics a generated parser would
	// normally embed as methods; both are optional and default to
	// always-true / no-op.
	SempredHook func(ctx *rttypes.ParserRuleContext, ruleIndex, actionIndex int) bool
	ActionHook  func(ctx *rttypes.ParserRuleContext, ruleIndex, actionIndex int)
}

// NewParser returns a parser reading from input, predicting decisions
// through simulator, building tokens via factory. BuildParseTree defaults to
// true, matching generated-parser convention; ErrorHandler defaults to
// rterrors.NewDefaultErrorStrategy().
func NewParser(base *rtrecognizer.Base, input rttypes.TokenStream, simulator atn.ParserSimulator, factory rttypes.TokenFactory) *Parser {
	return &Parser{
		Base:           base,
		input:          input,
		simulator:      simulator,
		factory:        factory,
		ErrorHandler:   rterrors.NewDefaultErrorStrategy(),
		BuildParseTree: true,
	}
}

// --- rterrors.RecognizerFacade ---

func (p *Parser) CurrentState() int                       { return p.Base.State() }
func (p *Parser) RuleContext() *rttypes.ParserRuleContext { return p.ctx }
func (p *Parser) InputStream() rttypes.TokenStream        { return p.input }
func (p *Parser) GetATN() *atn.ATN                        { return p.simulator.ATN() }
func (p *Parser) TokenFactory() rttypes.TokenFactory      { return p.factory }

// Provider builds the TokenProvider conjured tokens (single-token insertion,
// §4.4) are stamped with. It carries only the lexer side of the pair: a
// synthetic token has no char-source span of its own, so its Text() comes
// from the factory's textOverride instead.
func (p *Parser) Provider() rttypes.TokenProvider {
	return rttypes.TokenProvider{Lexer: p.input.GetTokenSource()}
}

// Reset rewinds the parser to re-parse the same token stream from the start
// (§8 "idempotence of reset"): seeks the input back to 0, drops the current
// rule context and precedence bookkeeping, and resets the error strategy's
// recovery history.
func (p *Parser) Reset() error {
	if err := p.input.Seek(0); err != nil {
		return fmt.Errorf("rtparser: reset: %w", err)
	}
	p.ctx = nil
	p.SetState(-1)
	p.precedenceStack = nil
	p.recursionFrames = nil
	p.ErrorHandler.Reset(p)
	return nil
}

// NotifyErrorListeners is the convenience form generated code calls directly
// (as opposed to going through the error strategy) to report a problem at
// the current lookahead token.
func (p *Parser) NotifyErrorListeners(msg string) {
	t := p.input.LT(1)
	var line, col int
	if t != nil {
		line, col = t.Line(), t.Column()
	}
	p.NotifySyntaxError(rtrecognizer.SyntaxError{Line: line, Column: col, Message: msg, OffendingSymbol: t})
}

// --- parse-tree listeners ---

// AddParseListener subscribes l to enter/exit/visit events on every rule.
func (p *Parser) AddParseListener(l ParseTreeListener) {
	p.listeners = append(p.listeners, l)
}

// RemoveParseListeners clears every subscribed ParseTreeListener.
func (p *Parser) RemoveParseListeners() {
	p.listeners = nil
}

// SetTrace installs or removes the built-in tracing listener (§6 "trace:
// install a tracing parse listener").
func (p *Parser) SetTrace(on bool) {
	if !on {
		if p.traceListener != nil {
			p.removeListener(p.traceListener)
			p.traceListener = nil
		}
		return
	}
	if p.traceListener == nil {
		p.traceListener = &traceListener{p: p}
		p.AddParseListener(p.traceListener)
	}
}

func (p *Parser) removeListener(target ParseTreeListener) {
	out := p.listeners[:0]
	for _, l := range p.listeners {
		if l != target {
			out = append(out, l)
		}
	}
	p.listeners = out
}

func (p *Parser) fireEnterEveryRule(ctx *rttypes.ParserRuleContext) {
	for _, l := range p.listeners {
		l.EnterEveryRule(ctx)
	}
}

func (p *Parser) fireExitEveryRule(ctx *rttypes.ParserRuleContext) {
	for _, l := range p.listeners {
		l.ExitEveryRule(ctx)
	}
}

func (p *Parser) fireVisitTerminal(n *rttypes.TerminalNode) {
	for _, l := range p.listeners {
		l.VisitTerminal(n)
	}
}

func (p *Parser) fireVisitErrorNode(n *rttypes.ErrorNode) {
	for _, l := range p.listeners {
		l.VisitErrorNode(n)
	}
}

// --- match / consume ---

// Match implements §4.2 match(ttype): on success, reports the match to the
// error strategy (clearing recovery mode) and consumes; on mismatch,
// delegates to the error strategy's inline recovery. A conjured
// (single-token-insertion) result is attached as an error node when
// BuildParseTree is set, since it was never actually present in the input.
func (p *Parser) Match(ttype int) (rttypes.Token, error) {
	cur := p.input.LT(1)
	if cur != nil && cur.Type() == ttype {
		p.ErrorHandler.ReportMatch(p)
		return p.Consume()
	}

	tok, err := p.ErrorHandler.RecoverInline(p, ttype)
	if err != nil {
		return nil, err
	}
	p.attachRecoveredToken(tok)
	return tok, nil
}

// MatchWildcard implements §4.2 matchWildcard(): succeeds for any positive
// token type. Passing expectedType=-1 into RecoverInline tells the error
// strategy to judge insertion/deletion against the full context-sensitive
// FOLLOW set rather than one specific type (same convention Sync() uses).
func (p *Parser) MatchWildcard() (rttypes.Token, error) {
	cur := p.input.LT(1)
	if cur != nil && cur.Type() > 0 {
		p.ErrorHandler.ReportMatch(p)
		return p.Consume()
	}

	tok, err := p.ErrorHandler.RecoverInline(p, -1)
	if err != nil {
		return nil, err
	}
	p.attachRecoveredToken(tok)
	return tok, nil
}

func (p *Parser) attachRecoveredToken(tok rttypes.Token) {
	if !p.BuildParseTree || p.ctx == nil || tok.TokenIndex() != -1 {
		return
	}
	n := p.ctx.AddErrorNode(tok)
	p.fireVisitErrorNode(n)
}

// Consume implements §4.2 consume() / the rterrors.RecognizerFacade.Consume
// contract: always advances past the current token (failing only if already
// at EOF), then attaches it to the current context as an error node while
// recovering (§8 invariant 5) or a terminal node otherwise.
func (p *Parser) Consume() (rttypes.Token, error) {
	o := p.input.LT(1)
	if err := p.input.Consume(); err != nil {
		return nil, err
	}

	if p.ctx != nil {
		if p.ErrorHandler.InErrorRecoveryMode() {
			n := p.ctx.AddErrorNode(o)
			p.fireVisitErrorNode(n)
		} else if p.BuildParseTree {
			n := p.ctx.AddTerminalNode(o)
			p.fireVisitTerminal(n)
		}
	}
	return o, nil
}

// Sync delegates to the error strategy's magic-sync pre-check (§4.4),
// called by generated code at every loop/block decision state.
func (p *Parser) Sync() error {
	return p.ErrorHandler.Sync(p)
}

// --- rule entry/exit ---

// EnterRule implements §4.2 enterRule(ctx,state,ruleIndex): sets the current
// ATN state, makes ctx current, stamps its start token, links it into
// its parent when BuildParseTree is set, and fires enterEveryRule.
func (p *Parser) EnterRule(ctx *rttypes.ParserRuleContext, state, ruleIndex int) {
	p.SetState(state)
	ctx.SetRuleIndex(ruleIndex)
	p.ctx = ctx
	ctx.Start = p.input.LT(1)
	if p.BuildParseTree {
		if parent := ctx.ParentCtx(); parent != nil {
			parent.AddChild(ctx)
		}
	}
	p.fireEnterEveryRule(ctx)
}

// ExitRule implements §4.2 exitRule(): stamps the stop token, fires exit
// events while ctx is still current, then reverts context and state to the
// caller's frame.
func (p *Parser) ExitRule() {
	ctx := p.ctx
	ctx.Stop = p.input.LT(-1)
	p.fireExitEveryRule(ctx)
	if p.TrimParseTree {
		ctx.Trim()
	}
	p.ctx = ctx.ParentCtx()
	p.SetState(ctx.InvokingState())
}

// --- left-recursion promotion ---

// EnterRecursionRule implements §4.2's left-recursion entry: pushes the
// frame in effect before promotion began onto the auxiliary stack, pushes
// precedence, and makes ctx current without yet linking it to a parent
// (PushNewRecursionContext does that relinking on each loop iteration).
func (p *Parser) EnterRecursionRule(ctx *rttypes.ParserRuleContext, state, ruleIndex, precedence int) {
	p.recursionFrames = append(p.recursionFrames, recursionFrame{ctx: p.ctx, invokingState: p.CurrentState()})
	p.precedenceStack = append(p.precedenceStack, precedence)
	p.SetState(state)
	ctx.SetRuleIndex(ruleIndex)
	p.ctx = ctx
	ctx.Start = p.input.LT(1)
	p.fireEnterEveryRule(ctx)
}

// PushNewRecursionContext implements §4.2's re-rooting step: the previous
// (shorter) context becomes a child of newCtx, preserving its start token so
// invariant 4 (§8) holds once the loop eventually unrolls.
func (p *Parser) PushNewRecursionContext(newCtx *rttypes.ParserRuleContext, state, ruleIndex int) {
	previous := p.ctx
	previous.SetParentCtx(newCtx)
	previous.SetInvokingState(state)
	previous.Stop = p.input.LT(-1)

	newCtx.SetRuleIndex(ruleIndex)
	newCtx.Start = previous.Start
	if p.BuildParseTree {
		newCtx.AddChild(previous)
	}
	p.ctx = newCtx
	p.fireEnterEveryRule(newCtx)
}

// UnrollRecursionContexts implements §4.2's unwinding step: pops the
// precedence stack, stamps the final stop token, fires exit events for every
// intermediate frame down to parent, then restores the pre-promotion frame
// from the auxiliary stack. It returns the final promoted context so a
// caller can link it into parent's children itself if it isn't already.
func (p *Parser) UnrollRecursionContexts(parent *rttypes.ParserRuleContext) *rttypes.ParserRuleContext {
	if n := len(p.precedenceStack); n > 0 {
		p.precedenceStack = p.precedenceStack[:n-1]
	}
	retCtx := p.ctx
	retCtx.Stop = p.input.LT(-1)

	hasListeners := len(p.listeners) > 0
	if hasListeners {
		for p.ctx != parent {
			p.fireExitEveryRule(p.ctx)
			p.ctx = p.ctx.ParentCtx()
		}
	} else {
		p.ctx = parent
	}

	retCtx.SetParentCtx(parent)
	if p.BuildParseTree && parent != nil {
		parent.AddChild(retCtx)
	}

	if n := len(p.recursionFrames); n > 0 {
		frame := p.recursionFrames[n-1]
		p.recursionFrames = p.recursionFrames[:n-1]
		p.SetState(frame.invokingState)
	}
	return retCtx
}

// Precpred implements §4.2 precpred(_,p): p must be at least the current
// precedence level (the top of the precedence stack) for a left-recursive
// alternative to be taken.
func (p *Parser) Precpred(ctx *rttypes.ParserRuleContext, precedence int) bool {
	if len(p.precedenceStack) == 0 {
		return false
	}
	return precedence >= p.precedenceStack[len(p.precedenceStack)-1]
}

// --- semantic hooks & prediction ---

// Sempred evaluates the semantic predicate a generated rule would normally
// implement directly; SempredHook is nil-safe (always true).
func (p *Parser) Sempred(ctx *rttypes.ParserRuleContext, ruleIndex, actionIndex int) bool {
	if p.SempredHook == nil {
		return true
	}
	return p.SempredHook(ctx, ruleIndex, actionIndex)
}

// Action runs the embedded action a generated rule would normally implement
// directly; ActionHook is nil-safe (no-op).
func (p *Parser) Action(ctx *rttypes.ParserRuleContext, ruleIndex, actionIndex int) {
	if p.ActionHook != nil {
		p.ActionHook(ctx, ruleIndex, actionIndex)
	}
}

// AdaptivePredict asks the prediction simulator which alternative of
// decision to take, given the current rule context as outer context for
// SLL's look-past-RuleStop behavior.
func (p *Parser) AdaptivePredict(decision int) (int, error) {
	return p.simulator.AdaptivePredict(p.input, decision, p.ctx)
}

// IsExpectedToken implements §4.2 isExpectedToken(sym): true if sym is in
// the context-sensitive FOLLOW computed by walking the rule-invocation stack
// (rterrors.ExpectedTokens does the actual walk; it is re-exported here
// because generated code calls it through the parser, not the error
// strategy).
func (p *Parser) IsExpectedToken(sym int) bool {
	return rterrors.ExpectedTokens(p).Contains(sym)
}
