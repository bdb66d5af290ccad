// Package rtstream implements the buffered, on-demand token source (§4.1):
// BufferedTokenStream pulls from a lexer lazily and exposes a tokens-by-index
// view; CommonTokenStream layers channel filtering on top of it.
package rtstream

import (
	"fmt"

	"github.com/dekarrin/allstarrt/rttypes"
)

// fetchBlockSize is how many tokens Fill() pulls per lexer round (§4.1).
const fetchBlockSize = 1000

// hooks is the template-method seam the channel-filtering subclass
// overrides (§9 "polymorphism across token-source variants"): AdjustSeekIndex
// is consulted after every cursor move, LookToken backs LT. BufferedTokenStream
// satisfies this with identity/no-filtering behavior and points its own self
// field at itself by default; CommonTokenStream repoints self at itself once
// constructed so that internal calls from shared code (fetch, lazy init)
// dispatch to the override instead of the base behavior -- Go's embedding
// does not give virtual dispatch on its own, so this indirection is what
// makes the override actually take effect.
type hooks interface {
	AdjustSeekIndex(i int) int
	LookToken(k int) rttypes.Token
}

// BufferedTokenStream is the unfiltered base implementation: every token the
// lexer produces, on any channel, is visible through it.
type BufferedTokenStream struct {
	source     rttypes.TokenSource
	tokens     []rttypes.Token
	p          int // -1 == uninitialized
	fetchedEOF bool
	marks      []int
	self       hooks
}

// NewBufferedTokenStream returns a stream pulling from source.
func NewBufferedTokenStream(source rttypes.TokenSource) *BufferedTokenStream {
	b := &BufferedTokenStream{source: source, p: -1}
	b.self = b
	return b
}

// AdjustSeekIndex is the identity hook: the base stream does not filter.
func (b *BufferedTokenStream) AdjustSeekIndex(i int) int { return i }

// LookToken is the base hook: direct index lookup with forward fetch.
func (b *BufferedTokenStream) LookToken(k int) rttypes.Token {
	if k == 0 {
		return nil
	}
	if k < 0 {
		return b.lookBack(-k)
	}
	b.lazyInit()
	n := k - 1
	if b.p+n >= len(b.tokens) {
		b.fetch(k - (len(b.tokens) - b.p))
	}
	idx := b.p + n
	if idx >= len(b.tokens) {
		return b.tokens[len(b.tokens)-1] // EOF
	}
	return b.tokens[idx]
}

func (b *BufferedTokenStream) lookBack(k int) rttypes.Token {
	idx := b.p - k
	if idx < 0 || idx >= len(b.tokens) {
		return nil
	}
	return b.tokens[idx]
}

func (b *BufferedTokenStream) lazyInit() {
	if b.p == -1 {
		b.setup()
	}
}

func (b *BufferedTokenStream) setup() {
	b.sync(0)
	b.p = b.self.AdjustSeekIndex(0)
}

// sync ensures at least i+1 tokens are buffered (index i exists), fetching
// more from the lexer as needed.
func (b *BufferedTokenStream) sync(i int) bool {
	n := i - len(b.tokens) + 1
	if n > 0 {
		fetched := b.fetch(n)
		return fetched >= n
	}
	return true
}

// fetch pulls up to n tokens from the underlying lexer, stopping early and
// latching fetchedEOF once EOF is produced.
func (b *BufferedTokenStream) fetch(n int) int {
	if b.fetchedEOF {
		return 0
	}
	fetched := 0
	for i := 0; i < n; i++ {
		tok, err := b.source.NextToken()
		if err != nil {
			return fetched
		}
		if wt, ok := tok.(rttypes.WritableToken); ok {
			wt.SetTokenIndex(len(b.tokens))
		}
		b.tokens = append(b.tokens, tok)
		fetched++
		if tok.Type() == rttypes.TokenEOF {
			b.fetchedEOF = true
			break
		}
	}
	return fetched
}

// Consume implements IntSource.Consume (§4.1): requires lookahead(1)!=EOF
// unless the cursor is already sitting on a fetched pre-EOF token, which it
// never is for a well-formed caller since match() always checks first.
func (b *BufferedTokenStream) Consume() error {
	if b.LA(1) == rttypes.TokenEOF {
		return fmt.Errorf("rtstream: consume at EOF: %w", rttypes.ErrStateError)
	}
	b.lazyInit()
	b.p = b.self.AdjustSeekIndex(b.p + 1)
	return nil
}

// LA implements IntSource.LA via LookToken(i).Type().
func (b *BufferedTokenStream) LA(i int) int {
	t := b.self.LookToken(i)
	if t == nil {
		return 0
	}
	return t.Type()
}

// LT returns the token at lookahead k (§4.1 "lookToken").
func (b *BufferedTokenStream) LT(k int) rttypes.Token {
	b.lazyInit()
	return b.self.LookToken(k)
}

// Mark records the current cursor position.
func (b *BufferedTokenStream) Mark() int {
	b.marks = append(b.marks, b.p)
	return len(b.marks) - 1
}

// Release releases a mark, in reverse order of acquisition (§3).
func (b *BufferedTokenStream) Release(marker int) {
	if marker < 0 || marker >= len(b.marks) {
		panic("rtstream: release of unknown mark")
	}
	b.marks = b.marks[:marker]
}

// Index returns the current cursor position.
func (b *BufferedTokenStream) Index() int { return b.p }

// Seek repositions the cursor to i, fetching as needed.
func (b *BufferedTokenStream) Seek(i int) error {
	b.lazyInit()
	if i == b.p {
		return nil
	}
	if i > b.p {
		b.sync(i)
		i = min(i, len(b.tokens)-1)
	}
	b.p = b.self.AdjustSeekIndex(i)
	return nil
}

// Size returns the number of tokens currently buffered (not the total
// input length, which may be unknown until EOF is fetched).
func (b *BufferedTokenStream) Size() int { return len(b.tokens) }

func (b *BufferedTokenStream) SourceName() string { return b.source.SourceName() }

// Get returns the token at buffer index i, validating bounds.
func (b *BufferedTokenStream) Get(i int) rttypes.Token {
	if i < 0 || i >= len(b.tokens) {
		panic(fmt.Sprintf("rtstream: token index %d out of range: %v", i, rttypes.ErrRangeError))
	}
	return b.tokens[i]
}

func (b *BufferedTokenStream) GetTokenSource() rttypes.TokenSource { return b.source }

// GetTextRange returns the concatenated text of tokens [start,stop].
func (b *BufferedTokenStream) GetTextRange(start, stop int) string {
	b.Fill()
	if start < 0 {
		start = 0
	}
	if stop >= len(b.tokens) {
		stop = len(b.tokens) - 1
	}
	s := ""
	for i := start; i <= stop; i++ {
		s += b.tokens[i].Text()
	}
	return s
}

// GetAllText returns the text of every buffered token after a full Fill.
func (b *BufferedTokenStream) GetAllText() string {
	b.Fill()
	return b.GetTextRange(0, len(b.tokens)-1)
}

// Fill pulls tokens in fetchBlockSize blocks until EOF (§4.1).
func (b *BufferedTokenStream) Fill() error {
	b.lazyInit()
	for {
		n := b.fetch(fetchBlockSize)
		if n < fetchBlockSize {
			return nil
		}
	}
}

// GetTokens returns every token in [from,to] whose type is in types (or all
// types if types is nil), or nil if none match (§4.1).
func (b *BufferedTokenStream) GetTokens(from, to int, types map[int]bool) []rttypes.Token {
	b.Fill()
	if from < 0 || to >= len(b.tokens) || from > to {
		panic(fmt.Sprintf("rtstream: GetTokens range [%d,%d] invalid: %v", from, to, rttypes.ErrRangeError))
	}
	var out []rttypes.Token
	for i := from; i <= to; i++ {
		t := b.tokens[i]
		if types == nil || types[t.Type()] {
			out = append(out, t)
		}
	}
	return out
}

// GetHiddenTokensToRight collects tokens strictly after i up to (excluding)
// the next default-channel token, restricted to channel (or any non-default
// channel if channel==-1) (§4.1).
func (b *BufferedTokenStream) GetHiddenTokensToRight(i int, channel int) []rttypes.Token {
	b.Fill()
	var out []rttypes.Token
	for j := i + 1; j < len(b.tokens); j++ {
		t := b.tokens[j]
		if t.Channel() == rttypes.TokenDefaultChannel {
			break
		}
		if channel == -1 || t.Channel() == channel {
			out = append(out, t)
		}
	}
	return out
}

// GetHiddenTokensToLeft is the symmetric walk backward from i (§4.1).
func (b *BufferedTokenStream) GetHiddenTokensToLeft(i int, channel int) []rttypes.Token {
	var out []rttypes.Token
	for j := i - 1; j >= 0; j-- {
		t := b.tokens[j]
		if t.Channel() == rttypes.TokenDefaultChannel {
			break
		}
		if channel == -1 || t.Channel() == channel {
			out = append([]rttypes.Token{t}, out...)
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
