package rttypes

import "fmt"

// Reserved token types and channels (§3).
const (
	TokenInvalidType = 0
	TokenEpsilon     = -2
	TokenEOF         = EOF

	TokenDefaultChannel = 0
	TokenHiddenChannel  = 1
)

// TokenProvider identifies the lexer that emitted a token and the char
// source it read from. A Token holds one of these so that, e.g., error
// messages can recover the grammar/file a token came from without the token
// itself owning the lexer.
type TokenProvider struct {
	Lexer      TokenSourceInfo
	CharSource CharSource
}

// TokenSourceInfo is the minimal surface a Token needs from the lexer that
// produced it; Lexer (in package rtlexer) satisfies this structurally.
type TokenSourceInfo interface {
	SourceName() string
}

// Token is an immutable-preferred record of a single lexed symbol.
type Token interface {
	Type() int
	Line() int
	Column() int
	Channel() int
	TokenIndex() int
	StartIndex() int
	StopIndex() int
	Text() string
	Provider() TokenProvider
}

// WritableToken is the mutable view a lexer/factory uses to build a Token
// before it is handed off as immutable to the rest of the runtime.
type WritableToken interface {
	Token

	SetType(t int)
	SetLine(l int)
	SetColumn(c int)
	SetChannel(ch int)
	SetTokenIndex(i int)
	SetStartIndex(i int)
	SetStopIndex(i int)
	SetText(text string)
}

// CommonToken is the default Token/WritableToken implementation used
// throughout the runtime.
type CommonToken struct {
	typ          int
	line         int
	column       int
	channel      int
	tokenIndex   int
	startIndex   int
	stopIndex    int
	textOverride string
	hasText      bool
	provider     TokenProvider
}

// NewCommonToken creates a token with tokenIndex and text unset (tokenIndex
// defaults to -1, meaning "conjured" until a buffer assigns it a real one).
func NewCommonToken(provider TokenProvider, typ, channel, start, stop int) *CommonToken {
	return &CommonToken{
		typ:        typ,
		channel:    channel,
		tokenIndex: -1,
		startIndex: start,
		stopIndex:  stop,
		provider:   provider,
	}
}

func (t *CommonToken) Type() int        { return t.typ }
func (t *CommonToken) Line() int        { return t.line }
func (t *CommonToken) Column() int      { return t.column }
func (t *CommonToken) Channel() int     { return t.channel }
func (t *CommonToken) TokenIndex() int  { return t.tokenIndex }
func (t *CommonToken) StartIndex() int  { return t.startIndex }
func (t *CommonToken) StopIndex() int   { return t.stopIndex }
func (t *CommonToken) Provider() TokenProvider { return t.provider }

// Text returns textOverride if set, else the char-source slice
// [startIndex,stopIndex]; a token with neither returns "<EOF>" if it is an
// EOF token and the empty string otherwise.
func (t *CommonToken) Text() string {
	if t.hasText {
		return t.textOverride
	}
	if t.provider.CharSource != nil && t.startIndex >= 0 && t.stopIndex >= t.startIndex {
		return t.provider.CharSource.GetText(Interval{t.startIndex, t.stopIndex})
	}
	if t.typ == TokenEOF {
		return "<EOF>"
	}
	return ""
}

func (t *CommonToken) SetType(v int)       { t.typ = v }
func (t *CommonToken) SetLine(v int)       { t.line = v }
func (t *CommonToken) SetColumn(v int)     { t.column = v }
func (t *CommonToken) SetChannel(v int)    { t.channel = v }
func (t *CommonToken) SetTokenIndex(v int) { t.tokenIndex = v }
func (t *CommonToken) SetStartIndex(v int) { t.startIndex = v }
func (t *CommonToken) SetStopIndex(v int)  { t.stopIndex = v }
func (t *CommonToken) SetText(v string) {
	t.textOverride = v
	t.hasText = true
}

func (t *CommonToken) String() string {
	return fmt.Sprintf("[@%d,%d:%d=%q,<%d>,%d:%d]", t.tokenIndex, t.startIndex, t.stopIndex, t.Text(), t.typ, t.line, t.column)
}

// TokenFactory produces tokens from raw lexer state. copyText controls
// whether text is eagerly materialized at creation time (needed when the
// underlying char source is unbuffered and won't retain the bytes long
// enough for lazy Text() to work).
type TokenFactory interface {
	Create(provider TokenProvider, typ int, text *string, channel, start, stop, line, column int) WritableToken
}

// CommonTokenFactory is the default TokenFactory.
type CommonTokenFactory struct {
	CopyText bool
}

// NewCommonTokenFactory returns a factory with the given copyText policy.
func NewCommonTokenFactory(copyText bool) *CommonTokenFactory {
	return &CommonTokenFactory{CopyText: copyText}
}

func (f *CommonTokenFactory) Create(provider TokenProvider, typ int, text *string, channel, start, stop, line, column int) WritableToken {
	t := NewCommonToken(provider, typ, channel, start, stop)
	t.SetLine(line)
	t.SetColumn(column)
	if text != nil {
		t.SetText(*text)
	} else if f.CopyText && provider.CharSource != nil && start >= 0 && stop >= start {
		t.SetText(provider.CharSource.GetText(Interval{start, stop}))
	}
	return t
}
