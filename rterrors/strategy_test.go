package rterrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/allstarrt/atn"
	"github.com/dekarrin/allstarrt/rtrecognizer"
	"github.com/dekarrin/allstarrt/rttypes"
)

const (
	tokA = 1
	tokB = 2
	tokC = 3
)

// fakeStream is a minimal, fully in-memory rttypes.TokenStream over a fixed
// token slice, used so rterrors tests don't need a real lexer/rtstream wiring.
type fakeStream struct {
	toks []rttypes.Token
	pos  int
}

func newFakeStream(types ...int) *fakeStream {
	var toks []rttypes.Token
	for _, ty := range types {
		tok := rttypes.NewCommonToken(rttypes.TokenProvider{}, ty, rttypes.TokenDefaultChannel, -1, -1)
		tok.SetText(tokenText(ty))
		toks = append(toks, tok)
	}
	return &fakeStream{toks: toks}
}

func tokenText(ty int) string {
	switch ty {
	case tokA:
		return "a"
	case tokB:
		return "b"
	case tokC:
		return "c"
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
	idx := f.pos + i - 1
	if idx < 0 || idx >= len(f.toks) {
		return rttypes.TokenEOF
	}
	return f.toks[idx].Type()
}
func (f *fakeStream) Mark() int          { return 0 }
func (f *fakeStream) Release(marker int) {}
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
	if idx < 0 || idx >= len(f.toks) {
		return nil
	}
	return f.toks[idx]
}
func (f *fakeStream) Get(i int) rttypes.Token                  { return f.toks[i] }
func (f *fakeStream) GetTokenSource() rttypes.TokenSource      { return nil }
func (f *fakeStream) GetTextRange(start, stop int) string {
	s := ""
	for i := start; i <= stop && i < len(f.toks); i++ {
		s += f.toks[i].Text()
	}
	return s
}
func (f *fakeStream) GetAllText() string { return f.GetTextRange(0, len(f.toks)-1) }
func (f *fakeStream) Fill() error        { return nil }

// fakeFacade wires a fixed ATN state and a fakeStream together to satisfy
// RecognizerFacade for tests.
type fakeFacade struct {
	a      *atn.ATN
	state  int
	stream *fakeStream
	ctx    *rttypes.ParserRuleContext
	errs   []rtrecognizer.SyntaxError
}

func (f *fakeFacade) CurrentState() int                    { return f.state }
func (f *fakeFacade) RuleContext() *rttypes.ParserRuleContext { return f.ctx }
func (f *fakeFacade) InputStream() rttypes.TokenStream      { return f.stream }
func (f *fakeFacade) GetATN() *atn.ATN                      { return f.a }
func (f *fakeFacade) TokenFactory() rttypes.TokenFactory    { return rttypes.NewCommonTokenFactory(false) }
func (f *fakeFacade) Provider() rttypes.TokenProvider       { return rttypes.TokenProvider{} }
func (f *fakeFacade) TokenName(t int) string {
	switch t {
	case tokA:
		return "A"
	case tokB:
		return "B"
	case tokC:
		return "C"
	default:
		return "<unknown>"
	}
}
func (f *fakeFacade) RuleName(idx int) string { return "rule" }
func (f *fakeFacade) NotifySyntaxError(e rtrecognizer.SyntaxError) {
	f.errs = append(f.errs, e)
}
func (f *fakeFacade) Consume() (rttypes.Token, error) {
	tok := f.stream.LT(1)
	if err := f.stream.Consume(); err != nil {
		return nil, err
	}
	return tok, nil
}

// buildLinearATN builds s0 --A--> s1 --B--> s2(RuleStop), all in rule 0.
func buildLinearATN(t *testing.T) (*atn.ATN, int, int) {
	t.Helper()
	a := atn.NewATN(atn.GrammarParser, 10)
	s0 := atn.NewATNState(0, 0, atn.StateBasic)
	s1 := atn.NewATNState(1, 0, atn.StateBasic)
	stop := atn.NewATNState(2, 0, atn.StateRuleStop)
	a.AddState(s0)
	a.AddState(s1)
	a.AddState(stop)
	s0.AddTransition(atn.NewAtomTransition(s1, tokA))
	s1.AddTransition(atn.NewAtomTransition(stop, tokB))
	return a, s0.StateNumber, s1.StateNumber
}

func Test_ExpectedTokens_singleRule(t *testing.T) {
	a, s0, s1 := buildLinearATN(t)
	f := &fakeFacade{a: a, state: s0, stream: newFakeStream(tokA, tokB, rttypes.TokenEOF)}

	expected := ExpectedTokens(f)
	assert.True(t, expected.Contains(tokA))
	assert.False(t, expected.Contains(tokB))

	f.state = s1
	expected = ExpectedTokens(f)
	assert.True(t, expected.Contains(tokB))
}

func Test_DefaultErrorStrategy_RecoverInline_singleTokenInsertion(t *testing.T) {
	a, s0, _ := buildLinearATN(t)
	stream := newFakeStream(tokB, rttypes.TokenEOF) // tokA omitted entirely
	f := &fakeFacade{a: a, state: s0, stream: stream}

	d := NewDefaultErrorStrategy()
	tok, err := d.RecoverInline(f, tokA)
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, tokA, tok.Type())
	assert.Equal(t, -1, tok.TokenIndex())
	assert.Contains(t, tok.Text(), "missing")
	require.Len(t, f.errs, 1)
	assert.Equal(t, "missing A at 'b'", f.errs[0].Message, `§8 scenario 2's template: "missing <expected> at <lookahead>"`)
}

func Test_DefaultErrorStrategy_RecoverInline_singleTokenDeletion(t *testing.T) {
	a, s0, _ := buildLinearATN(t)
	stream := newFakeStream(tokC, tokA, tokB, rttypes.TokenEOF) // tokC is a stray extra token
	f := &fakeFacade{a: a, state: s0, stream: stream}

	d := NewDefaultErrorStrategy()
	tok, err := d.RecoverInline(f, tokA)
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, tokA, tok.Type())
	// the stray tokC and the recovered-to tokA are both consumed: one as
	// an error node, one accepted as the real match.
	assert.Equal(t, 2, stream.Index())
	require.Len(t, f.errs, 1)
	assert.Equal(t, "extraneous input 'c' expecting A", f.errs[0].Message, `§8 scenario 3's template: "extraneous input <offending> expecting <expected>"`)
}

func Test_DefaultErrorStrategy_RecoverInline_inputMismatch(t *testing.T) {
	a, s0, _ := buildLinearATN(t)
	stream := newFakeStream(tokC, tokC, rttypes.TokenEOF)
	f := &fakeFacade{a: a, state: s0, stream: stream}

	d := NewDefaultErrorStrategy()
	tok, err := d.RecoverInline(f, tokA)
	assert.Nil(t, tok)
	require.Error(t, err)
	assert.True(t, d.InErrorRecoveryMode())
}

func Test_DefaultErrorStrategy_Recover_resyncsToFollowSet(t *testing.T) {
	a, _, s1 := buildLinearATN(t)
	stream := newFakeStream(tokC, tokC, tokB, rttypes.TokenEOF)
	f := &fakeFacade{a: a, state: s1, stream: stream}

	d := NewDefaultErrorStrategy()
	e := &RecognitionException{Kind: NoViableAlt, OffendingToken: stream.LT(1)}
	err := d.Recover(f, e)
	require.NoError(t, err)
	assert.Equal(t, tokB, stream.LA(1))
}

func Test_DefaultErrorStrategy_Recover_guardsNoProgressLoop(t *testing.T) {
	// LA(1) is tokA at every position, which is already in the FOLLOW set at
	// s0, so consumeUntil never advances on its own; a second Recover() call
	// at the same index/state must force-consume one token to make progress.
	a, s0, _ := buildLinearATN(t)
	stream := newFakeStream(tokA, tokA, rttypes.TokenEOF)
	f := &fakeFacade{a: a, state: s0, stream: stream}

	d := NewDefaultErrorStrategy()
	e := &RecognitionException{Kind: NoViableAlt}

	require.NoError(t, d.Recover(f, e))
	assert.Equal(t, 0, stream.Index())

	require.NoError(t, d.Recover(f, e))
	assert.Equal(t, 1, stream.Index())
}

func Test_escapeTokenText_escapesWhitespace(t *testing.T) {
	assert.Equal(t, `a\nb\tc`, escapeTokenText("a\nb\tc"))
}

func Test_quoteToken_eofIsQuotedLikeAnyOtherToken(t *testing.T) {
	eof := rttypes.NewCommonToken(rttypes.TokenProvider{}, rttypes.TokenEOF, rttypes.TokenDefaultChannel, -1, -1)
	assert.Equal(t, "'<EOF>'", quoteToken(eof), `§8 scenario 2 expects "missing ';' at '<EOF>'", quotes and all`)

	a := rttypes.NewCommonToken(rttypes.TokenProvider{}, tokA, rttypes.TokenDefaultChannel, -1, -1)
	a.SetText("a")
	assert.Equal(t, "'a'", quoteToken(a))
}
