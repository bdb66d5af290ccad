// Package rtsample builds a handful of tiny, hand-wired grammars — the same
// ones spec §8's seed scenarios describe — so cmd/rtdemo and rtserver have
// something runnable without a grammar-tool codegen step. Each grammar is
// assembled the way rtinterp's own tests build ATNs by hand (buildStatATN,
// buildExprATN): NewATNState/AddTransition calls wiring a handful of states
// together, no deserializer involved. A real grammar tool would emit the
// serialized byte string atn/deserialize.go reads instead of Go source.
package rtsample

import (
	"github.com/dekarrin/allstarrt/atn"
	"github.com/dekarrin/allstarrt/rttypes"
)

func isDigit(r int) bool { return r >= '0' && r <= '9' }

func isIdentStart(r int) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentPart(r int) bool {
	return isIdentStart(r) || isDigit(r)
}

// lexerSim is a single hand-rolled atn.LexerSimulator shared by every
// sample grammar: it recognizes C-like identifiers and keywords, decimal
// integers, a fixed table of single-character punctuation, and skips
// whitespace. It never touches package atn's lexer-ATN walk
// (BasicLexerSimulator) — like rtlexer's own tests, a grammar this small is
// easier to express as a direct scan than as a state graph, and
// atn.LexerSimulator is the seam that lets either shape plug into Lexer.
type lexerSim struct {
	line, col int

	keywords map[string]int
	punct    map[int]int
	identTok int
	intTok   int
}

func newLexerSim(keywords map[string]int, punct map[int]int, identTok, intTok int) *lexerSim {
	return &lexerSim{line: 1, keywords: keywords, punct: punct, identTok: identTok, intTok: intTok}
}

func (s *lexerSim) Line() int   { return s.line }
func (s *lexerSim) Column() int { return s.col }
func (s *lexerSim) Reset()      { s.line, s.col = 1, 0 }

func (s *lexerSim) advance(input rttypes.CharSource) {
	if input.LA(1) == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
	input.Consume()
}

func (s *lexerSim) Match(input rttypes.CharSource, mode int) (int, error) {
	la := input.LA(1)

	switch {
	case la == ' ' || la == '\t' || la == '\r' || la == '\n':
		for la == ' ' || la == '\t' || la == '\r' || la == '\n' {
			s.advance(input)
			la = input.LA(1)
		}
		return -3, nil // rtlexer.LexerSkip, duplicated here to avoid an import cycle
	case isIdentStart(la):
		start := input.Index()
		for isIdentPart(input.LA(1)) {
			s.advance(input)
		}
		text := input.GetText(rttypes.Interval{Start: start, Stop: input.Index() - 1})
		if tt, ok := s.keywords[text]; ok {
			return tt, nil
		}
		return s.identTok, nil
	case isDigit(la):
		for isDigit(input.LA(1)) {
			s.advance(input)
		}
		return s.intTok, nil
	default:
		if tt, ok := s.punct[la]; ok {
			s.advance(input)
			return tt, nil
		}
		return 0, &atn.LexerNoViableAltError{StartIndex: input.Index()}
	}
}
