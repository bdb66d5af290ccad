// Package rtsource provides concrete symbol sources. StringCharSource is
// the code-point-indexed CharSource (§3) that drives a Lexer reading from an
// in-memory string; it plays the role tunaq's lex/reader.go plays for its
// table-driven lexers, generalized to the mark/seek/getText contract this
// runtime's lexer needs.
package rtsource

import (
	"fmt"

	"github.com/dekarrin/allstarrt/rttypes"
)

// StringCharSource is a CharSource over a fully in-memory rune slice. Marks
// are tracked as a stack of indices; because the whole source lives in
// memory for the run's duration, any live mark's window is trivially seekable.
type StringCharSource struct {
	runes      []rune
	index      int
	marks      []int
	name       string
}

// NewStringCharSource returns a CharSource over text, labeled name for error
// messages.
func NewStringCharSource(text, name string) *StringCharSource {
	return &StringCharSource{runes: []rune(text), index: 0, name: name}
}

func (s *StringCharSource) Consume() error {
	if s.index >= len(s.runes) {
		return fmt.Errorf("rtsource: consume past EOF: %w", rttypes.ErrStateError)
	}
	s.index++
	return nil
}

func (s *StringCharSource) LA(i int) int {
	if i == 0 {
		return 0
	}
	pos := s.index + i - 1
	if i < 0 {
		pos = s.index + i
	}
	if pos < 0 || pos >= len(s.runes) {
		return rttypes.EOF
	}
	return int(s.runes[pos])
}

func (s *StringCharSource) Mark() int {
	s.marks = append(s.marks, s.index)
	return len(s.marks) - 1
}

func (s *StringCharSource) Release(marker int) {
	if marker < 0 || marker >= len(s.marks) {
		panic(fmt.Sprintf("rtsource: release of unknown mark %d", marker))
	}
	s.marks = s.marks[:marker]
}

func (s *StringCharSource) Index() int { return s.index }

func (s *StringCharSource) Seek(i int) error {
	if i < 0 {
		i = 0
	}
	if i > len(s.runes) {
		i = len(s.runes)
	}
	s.index = i
	return nil
}

func (s *StringCharSource) Size() int { return len(s.runes) }

func (s *StringCharSource) SourceName() string {
	if s.name == "" {
		return "<unknown>"
	}
	return s.name
}

func (s *StringCharSource) GetText(interval rttypes.Interval) string {
	start, stop := interval.Start, interval.Stop
	if start < 0 {
		start = 0
	}
	if stop >= len(s.runes) {
		stop = len(s.runes) - 1
	}
	if start > stop {
		return ""
	}
	return string(s.runes[start : stop+1])
}
