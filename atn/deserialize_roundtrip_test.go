package atn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/allstarrt/atn"
	"github.com/dekarrin/allstarrt/rtinterp"
	"github.com/dekarrin/allstarrt/rtrecognizer"
	"github.com/dekarrin/allstarrt/rttypes"
)

const (
	rtTokX   = 1
	rtTokEq  = 2
	rtTokInt = 3
)

// fakeStream is a minimal in-memory rttypes.TokenStream, the same shape
// rtinterp's own tests use.
type fakeStream struct {
	toks []rttypes.Token
	pos  int
}

func newFakeStream(types ...int) *fakeStream {
	var toks []rttypes.Token
	for i, ty := range types {
		tok := rttypes.NewCommonToken(rttypes.TokenProvider{}, ty, rttypes.TokenDefaultChannel, -1, -1)
		tok.SetTokenIndex(i)
		tok.SetText(rtTextFor(ty))
		toks = append(toks, tok)
	}
	return &fakeStream{toks: toks}
}

func rtTextFor(ty int) string {
	switch ty {
	case rtTokX:
		return "x"
	case rtTokEq:
		return "="
	case rtTokInt:
		return "N"
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

// buildRoundTripFixtureATN models `stat: 'x' '=' ;`, hand-wired the way
// a grammar tool's in-memory build step would before serializing it.
func buildRoundTripFixtureATN() *atn.ATN {
	a := atn.NewATN(atn.GrammarParser, 10)
	s0 := atn.NewATNState(0, 0, atn.StateRuleStart)
	s1 := atn.NewATNState(1, 0, atn.StateBasic)
	s2 := atn.NewATNState(2, 0, atn.StateBasic)
	stop := atn.NewATNState(3, 0, atn.StateRuleStop)
	for _, s := range []*atn.ATNState{s0, s1, s2, stop} {
		a.AddState(s)
	}
	s0.AddTransition(atn.NewEpsilonTransition(s1))
	s1.AddTransition(atn.NewAtomTransition(s2, rtTokX))
	s2.AddTransition(atn.NewAtomTransition(stop, rtTokEq))
	a.SetRuleStartStop(0, &atn.RuleStartState{ATNState: s0}, &atn.RuleStopState{ATNState: stop})
	return a
}

// Test_Deserialize_thenParse drives §6's persisted-state contract end to
// end: an ATN is hand-built (standing in for a grammar tool's output),
// serialized, handed to Deserialize as the sole way a generated parser
// package would ever obtain it, and then actually parses a token stream
// through rtinterp — not just inspected for structural equality.
func Test_Deserialize_thenParse(t *testing.T) {
	built := buildRoundTripFixtureATN()
	data := atn.Serialize(built)

	restored, err := atn.Deserialize(data)
	require.NoError(t, err)

	toks := newFakeStream(rtTokX, rtTokEq, rttypes.TokenEOF)
	tokenNames := map[int]string{rtTokX: "X", rtTokEq: "EQ", rtTokInt: "INT"}
	base := rtrecognizer.NewBase(tokenNames, []string{"stat"})
	sim := atn.NewBasicParserSimulator(restored)
	in := rtinterp.New(base, restored, toks, sim, rttypes.NewCommonTokenFactory(false))

	ctx, err := in.Parse(0)
	require.NoError(t, err)
	assert.Equal(t, "x=", ctx.GetText())
	assert.Equal(t, 2, toks.Index(), "only the two matched tokens are consumed, not the trailing EOF")
}
