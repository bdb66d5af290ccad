// Package rtlexer implements the lexer base described in §4.3: a nextToken
// loop that drives an atn.LexerSimulator over a char source, with mode-stack
// management and the SKIP/MORE sentinel protocol a lexer rule action uses to
// suppress or extend the token currently being built.
package rtlexer

import (
	"errors"
	"fmt"

	"github.com/dekarrin/allstarrt/atn"
	"github.com/dekarrin/allstarrt/rtrecognizer"
	"github.com/dekarrin/allstarrt/rttypes"
)

// Sentinel token types a rule action can assign to suppress (Skip) or
// extend (More) the token currently being assembled (§4.3 "skip()/more()
// set the sentinel types; the outer loop interprets them"). These mirror
// the reserved values the real antlr4 runtimes use, including More's
// collision with TokenEpsilon: the two live in unrelated namespaces (an
// internal lexer-loop sentinel vs. a parser transition label) so the
// overlap is harmless.
const (
	LexerMore = -2
	LexerSkip = -3

	LexerDefaultMode = 0
)

// Lexer drives simulator over input to produce a Token stream. Generated
// lexers would normally subclass this to attach rule actions (calling Skip/
// More/PushMode/PopMode from within a rule body); this runtime has no code
// generator and no action hook, so each token's type is the one the
// simulator returns, including the ATN's declarative `-> skip`/`-> more`
// rule commands (baked into ruleToTokenType at build time).
type Lexer struct {
	*rtrecognizer.Base

	input     rttypes.CharSource
	simulator atn.LexerSimulator
	factory   rttypes.TokenFactory

	modeStack []int
	mode      int

	typ     int
	channel int
	text    string
	hasText bool

	tokenStartCharIndex int
	tokenStartLine      int
	tokenStartColumn    int

	hitEOF   bool
	eofToken rttypes.Token
}

// NewLexer returns a Lexer reading input through simulator, producing
// tokens via factory.
func NewLexer(base *rtrecognizer.Base, input rttypes.CharSource, simulator atn.LexerSimulator, factory rttypes.TokenFactory) *Lexer {
	return &Lexer{
		Base:      base,
		input:     input,
		simulator: simulator,
		factory:   factory,
		mode:      LexerDefaultMode,
	}
}

func (l *Lexer) Line() int              { return l.simulator.Line() }
func (l *Lexer) Column() int            { return l.simulator.Column() }
func (l *Lexer) SourceName() string     { return l.input.SourceName() }
func (l *Lexer) TokenFactory() rttypes.TokenFactory { return l.factory }

// Reset rewinds the lexer (and its simulator) to lex the same input again
// from the start (§8 "idempotence of reset").
func (l *Lexer) Reset() {
	if err := l.input.Seek(0); err != nil {
		panic(fmt.Sprintf("rtlexer: reset: %v", err))
	}
	l.simulator.Reset()
	l.modeStack = nil
	l.mode = LexerDefaultMode
	l.hitEOF = false
	l.eofToken = nil
}

// PushMode pushes the current mode and switches to m.
func (l *Lexer) PushMode(m int) {
	l.modeStack = append(l.modeStack, l.mode)
	l.mode = m
}

// PopMode restores the mode active before the last PushMode. Popping an
// empty stack is a usage error (§7 "pop empty mode stack").
func (l *Lexer) PopMode() int {
	if len(l.modeStack) == 0 {
		panic(fmt.Sprintf("rtlexer: pop of empty mode stack: %v", rttypes.ErrStateError))
	}
	l.mode = l.modeStack[len(l.modeStack)-1]
	l.modeStack = l.modeStack[:len(l.modeStack)-1]
	return l.mode
}

// Mode returns the currently active lexer mode.
func (l *Lexer) Mode() int { return l.mode }

// Skip sets the pending token type to LexerSkip. NextToken resets the
// pending type before each match and then acts only on the type the
// simulator returns, so Skip does not change which tokens are emitted.
func (l *Lexer) Skip() { l.typ = LexerSkip }

// More sets the pending token type to LexerMore. As with Skip, NextToken
// does not read the pending type, so More does not extend the token.
func (l *Lexer) More() { l.typ = LexerMore }

// SetType sets the pending token type. As with Skip, NextToken does not read
// it: the emitted token carries the type the simulator returned.
func (l *Lexer) SetType(t int) { l.typ = t }

// SetChannel routes the token under construction onto channel ch instead of
// the default.
func (l *Lexer) SetChannel(ch int) { l.channel = ch }

// SetText overrides the text the emitted token will carry, instead of the
// char-source slice between its start and stop indices.
func (l *Lexer) SetText(s string) {
	l.text = s
	l.hasText = true
}

// NextToken implements §4.3's nextToken(): mark, loop matching (handling
// SKIP/MORE/no-viable-alt), release the mark, emit.
func (l *Lexer) NextToken() (rttypes.Token, error) {
	if l.eofToken != nil {
		return l.eofToken, nil
	}
	if l.hitEOF {
		l.eofToken = l.makeEOFToken()
		return l.eofToken, nil
	}

	for {
		if l.hitEOF {
			l.eofToken = l.makeEOFToken()
			return l.eofToken, nil
		}
		l.typ = rttypes.TokenInvalidType
		l.channel = rttypes.TokenDefaultChannel
		l.hasText = false
		l.text = ""

		l.tokenStartCharIndex = l.input.Index()
		l.tokenStartLine = l.simulator.Line()
		l.tokenStartColumn = l.simulator.Column()

		mark := l.input.Mark()
		ttype, err := l.matchOnce()
		l.input.Release(mark)

		if err != nil {
			var lerr *atn.LexerNoViableAltError
			if errors.As(err, &lerr) {
				l.NotifySyntaxError(rtrecognizer.SyntaxError{
					Line:    l.tokenStartLine,
					Column:  l.tokenStartColumn,
					Message: fmt.Sprintf("token recognition error at: '%c'", l.input.LA(1)),
					Cause:   lerr,
				})
				if l.input.LA(1) != rttypes.EOF {
					if cerr := l.input.Consume(); cerr != nil {
						return nil, cerr
					}
				}
				if l.input.LA(1) == rttypes.EOF {
					l.hitEOF = true
				}
				continue
			}
			return nil, err
		}

		if ttype == LexerSkip {
			if l.input.LA(1) == rttypes.EOF {
				l.hitEOF = true
			}
			continue
		}
		if ttype == LexerMore {
			// More is only meaningful as an intermediate value inside
			// matchOnce's own loop; seeing it here means a simulator
			// returned it directly, which this runtime treats as "keep
			// going" exactly like inside matchOnce.
			continue
		}

		if l.input.LA(1) == rttypes.EOF {
			l.hitEOF = true
		}
		return l.emit(ttype), nil
	}
}

// matchOnce repeatedly calls the simulator until it reports a type other
// than More, so a rule chain using More accumulates into a single token
// without resetting tokenStartCharIndex.
func (l *Lexer) matchOnce() (int, error) {
	for {
		ttype, err := l.simulator.Match(l.input, l.mode)
		if err != nil {
			return 0, err
		}
		l.typ = ttype
		if ttype == LexerMore {
			continue
		}
		return ttype, nil
	}
}

func (l *Lexer) emit(ttype int) rttypes.Token {
	stopIndex := l.input.Index() - 1
	provider := rttypes.TokenProvider{Lexer: l, CharSource: l.input}
	var textPtr *string
	if l.hasText {
		textPtr = &l.text
	}
	return l.factory.Create(provider, ttype, textPtr, l.channel, l.tokenStartCharIndex, stopIndex, l.tokenStartLine, l.tokenStartColumn)
}

func (l *Lexer) makeEOFToken() rttypes.Token {
	idx := l.input.Index()
	provider := rttypes.TokenProvider{Lexer: l, CharSource: l.input}
	return l.factory.Create(provider, rttypes.TokenEOF, nil, rttypes.TokenDefaultChannel, idx, idx-1, l.simulator.Line(), l.simulator.Column())
}
