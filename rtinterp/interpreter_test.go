package rtinterp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/allstarrt/atn"
	"github.com/dekarrin/allstarrt/rtrecognizer"
	"github.com/dekarrin/allstarrt/rttypes"
)

const (
	tokX    = 1
	tokEq   = 2
	tokInt  = 3
	tokSemi = 4
	tokPlus = 5
)

// fakeStream is the same minimal in-memory rttypes.TokenStream the sibling
// packages' tests use.
type fakeStream struct {
	toks []rttypes.Token
	pos  int
}

func newFakeStream(types ...int) *fakeStream {
	var toks []rttypes.Token
	for i, ty := range types {
		tok := rttypes.NewCommonToken(rttypes.TokenProvider{}, ty, rttypes.TokenDefaultChannel, -1, -1)
		tok.SetTokenIndex(i)
		tok.SetText(textFor(ty))
		toks = append(toks, tok)
	}
	return &fakeStream{toks: toks}
}

func textFor(ty int) string {
	switch ty {
	case tokX:
		return "x"
	case tokEq:
		return "="
	case tokInt:
		return "N"
	case tokSemi:
		return ";"
	case tokPlus:
		return "+"
	case rttypes.TokenEOF:
		return "<EOF>"
	default:
		return "?"
	}
}

func (f *fakeStream) Consume() error {
	if f.pos >= len(f.toks)-1 {
		return rttypes.ErrStateError
	}
	f.pos++
	return nil
}
func (f *fakeStream) LA(i int) int {
	t := f.LT(i)
	if t == nil {
		return 0
	}
	return t.Type()
}
func (f *fakeStream) Mark() int          { return 0 }
func (f *fakeStream) Release(int)        {}
func (f *fakeStream) Index() int         { return f.pos }
func (f *fakeStream) Seek(i int) error   { f.pos = i; return nil }
func (f *fakeStream) Size() int          { return len(f.toks) }
func (f *fakeStream) SourceName() string { return "<test>" }
func (f *fakeStream) LT(k int) rttypes.Token {
	if k == 0 {
		return nil
	}
	var idx int
	if k > 0 {
		idx = f.pos + k - 1
	} else {
		idx = f.pos + k
	}
	if idx < 0 {
		return nil
	}
	if idx >= len(f.toks) {
		return f.toks[len(f.toks)-1]
	}
	return f.toks[idx]
}
func (f *fakeStream) Get(i int) rttypes.Token             { return f.toks[i] }
func (f *fakeStream) GetTokenSource() rttypes.TokenSource { return nil }
func (f *fakeStream) GetTextRange(start, stop int) string {
	s := ""
	for i := start; i <= stop && i < len(f.toks); i++ {
		s += f.toks[i].Text()
	}
	return s
}
func (f *fakeStream) GetAllText() string { return f.GetTextRange(0, len(f.toks)-1) }
func (f *fakeStream) Fill() error        { return nil }

func newInterpreter(toks *fakeStream, a *atn.ATN, ruleNames []string, sim atn.ParserSimulator) *Interpreter {
	tokenNames := map[int]string{tokX: "X", tokEq: "EQ", tokInt: "INT", tokSemi: "SEMI", tokPlus: "PLUS"}
	base := rtrecognizer.NewBase(tokenNames, ruleNames)
	return New(base, a, toks, sim, rttypes.NewCommonTokenFactory(false))
}

// fakeParserSim is a deterministic stand-in for atn.ParserSimulator: it
// always chooses "continue the loop" (alt 1) when the next lookahead token
// is tokPlus, and "exit" (alt 2) otherwise. This isolates these tests to
// rtinterp's own dispatch/promotion logic — whether BasicParserSimulator's
// closure algorithm resolves the same decision correctly is exercised by
// atn's own tests instead.
type fakeParserSim struct {
	a *atn.ATN
}

func (s *fakeParserSim) ATN() *atn.ATN { return s.a }
func (s *fakeParserSim) Reset()        {}
func (s *fakeParserSim) AdaptivePredict(input rttypes.TokenStream, decision int, outerCtx *rttypes.ParserRuleContext) (int, error) {
	if input.LA(1) == tokPlus {
		return 1, nil
	}
	return 2, nil
}

// buildStatATN models `stat: 'x' '=' INT ;` as a proper rule (start/stop
// states registered), exercising plain EPSILON/ATOM dispatch with no decision
// states at all. It stops right after INT without matching EOF, just as
// rtparser's own Test_Parser_Match_cleanParse stops after ';': a token stream's
// Consume() rejects advancing past its own EOF sentinel (rtstream's real
// BufferedTokenStream does too), so a rule never actually matches/consumes
// EOF itself.
func buildStatATN() *atn.ATN {
	a := atn.NewATN(atn.GrammarParser, 10)
	s0 := atn.NewATNState(0, 0, atn.StateRuleStart)
	s1 := atn.NewATNState(1, 0, atn.StateBasic)
	s2 := atn.NewATNState(2, 0, atn.StateBasic)
	s3 := atn.NewATNState(3, 0, atn.StateBasic)
	stop := atn.NewATNState(4, 0, atn.StateRuleStop)
	for _, s := range []*atn.ATNState{s0, s1, s2, s3, stop} {
		a.AddState(s)
	}
	s0.AddTransition(atn.NewEpsilonTransition(s1))
	s1.AddTransition(atn.NewAtomTransition(s2, tokX))
	s2.AddTransition(atn.NewAtomTransition(s3, tokEq))
	s3.AddTransition(atn.NewAtomTransition(stop, tokInt))
	a.SetRuleStartStop(0, &atn.RuleStartState{ATNState: s0}, &atn.RuleStopState{ATNState: stop})
	return a
}

func Test_Interpreter_Parse_linearRule(t *testing.T) {
	toks := newFakeStream(tokX, tokEq, tokInt, rttypes.TokenEOF)
	a := buildStatATN()
	in := newInterpreter(toks, a, []string{"stat"}, atn.NewBasicParserSimulator(a))

	ctx, err := in.Parse(0)
	require.NoError(t, err)
	assert.Equal(t, "x=N", ctx.GetText())
	assert.Len(t, ctx.Children(), 3)
	for _, ch := range ctx.Children() {
		_, isErr := ch.(*rttypes.ErrorNode)
		assert.False(t, isErr)
	}
	assert.Equal(t, 3, toks.Index(), "only the three matched tokens are consumed, not the trailing EOF")
}

// buildExprATN models the standard left-recursion elimination of
// `e: e '+' e | INT ;`: a primary alt (INT) feeding a precedence-gated star
// loop whose continuing alternative matches '+' and recurses into e at
// precedence opPrec+1, forcing left-associativity (§8 scenario 5).
func buildExprATN() (a *atn.ATN, opPrec int) {
	opPrec = 2
	a = atn.NewATN(atn.GrammarParser, 10)

	s0 := atn.NewATNState(0, 0, atn.StateRuleStart)
	s1 := atn.NewATNState(1, 0, atn.StateBasic)
	s2 := atn.NewATNState(2, 0, atn.StateBasic)
	loop := atn.NewATNState(3, 0, atn.StateStarLoopEntry)
	loop.SetPrecedenceDecision(true)
	p1 := atn.NewATNState(4, 0, atn.StateBasic)
	p2 := atn.NewATNState(5, 0, atn.StateBasic)
	p3 := atn.NewATNState(6, 0, atn.StateBasic)
	loopBack := atn.NewATNState(7, 0, atn.StateStarLoopBack)
	stop := atn.NewATNState(8, 0, atn.StateRuleStop)

	for _, s := range []*atn.ATNState{s0, s1, s2, loop, p1, p2, p3, loopBack, stop} {
		a.AddState(s)
	}

	s0.AddTransition(atn.NewEpsilonTransition(s1))
	s1.AddTransition(atn.NewAtomTransition(s2, tokInt))
	s2.AddTransition(atn.NewEpsilonTransition(loop))
	loop.AddTransition(atn.NewPrecedenceTransition(p1, opPrec))
	loop.AddTransition(atn.NewEpsilonTransition(stop))
	p1.AddTransition(atn.NewAtomTransition(p2, tokPlus))
	p2.AddTransition(atn.NewRuleTransition(s0, p3, 0, opPrec+1))
	p3.AddTransition(atn.NewEpsilonTransition(loopBack))
	loopBack.AddTransition(atn.NewEpsilonTransition(loop))

	a.SetRuleStartStop(0, &atn.RuleStartState{ATNState: s0, LeftRecursive: true}, &atn.RuleStopState{ATNState: stop})
	a.DecisionToState = append(a.DecisionToState, &atn.DecisionState{ATNState: loop, DecisionIndex: 0})
	return a, opPrec
}

// Test_Interpreter_Parse_leftRecursion drives scenario 5 (§8): `1+2+3`
// against a left-recursive `e` produces a left-associative tree
// e(e(e(1)+2)+3), and promotion preserves the original first token's start
// (invariant 4).
func Test_Interpreter_Parse_leftRecursion(t *testing.T) {
	toks := newFakeStream(tokInt, tokPlus, tokInt, tokPlus, tokInt, rttypes.TokenEOF)
	for i, text := range map[int]string{0: "1", 2: "2", 4: "3"} {
		toks.toks[i].(rttypes.WritableToken).SetText(text)
	}
	a, _ := buildExprATN()
	in := newInterpreter(toks, a, []string{"e"}, &fakeParserSim{a: a})

	root, err := in.Parse(0)
	require.NoError(t, err)

	firstTok := toks.toks[0]
	assert.Equal(t, firstTok, root.Start)

	require.Len(t, root.Children(), 3)
	inner, ok := root.Children()[0].(*rttypes.ParserRuleContext)
	require.True(t, ok, "first child of the outermost e must itself be an e context")
	assert.Equal(t, firstTok, inner.Start)

	require.Len(t, inner.Children(), 3)
	innermost, ok := inner.Children()[0].(*rttypes.ParserRuleContext)
	require.True(t, ok)
	assert.Equal(t, firstTok, innermost.Start)
	require.Len(t, innermost.Children(), 1)

	rhs1, ok := inner.Children()[2].(*rttypes.ParserRuleContext)
	require.True(t, ok)
	assert.Equal(t, "2", rhs1.GetText())

	rhs2, ok := root.Children()[2].(*rttypes.ParserRuleContext)
	require.True(t, ok)
	assert.Equal(t, "3", rhs2.GetText())

	assert.Equal(t, 5, toks.Index(), "all five tokens before EOF must be consumed")
}
