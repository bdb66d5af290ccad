package rttypes

// EOF is the one-past-end sentinel returned by a symbol source once input is
// exhausted. It is also a valid, reserved token type (see Token below).
const EOF = -1

// IntSource is a pull-based stream of signed integers: the common interface
// shared by character sources and token sources. Implementations are not
// required to be safe for concurrent use; a single parse or lex owns one
// source.
type IntSource interface {
	// Consume advances the source by exactly one underlying symbol. It
	// returns an error wrapping ErrStateError if the source is already
	// positioned at EOF.
	Consume() error

	// LA returns the symbol at lookahead offset i without consuming it. i==1
	// is the next symbol, i==0 is undefined (returns a caller-visible zero
	// value), and negative i looks backward into symbols already consumed,
	// as long as they remain inside a live marked region.
	LA(i int) int

	// Mark records the current position and returns an opaque handle. Marks
	// nest; between a live mark and the current index, Seek is guaranteed to
	// work for any index in that window. The returned handle must be passed
	// to Release exactly once.
	Mark() int

	// Release releases a mark obtained from Mark. Marks must be released in
	// the reverse order they were acquired.
	Release(marker int)

	// Index returns the current zero-based position in the source.
	Index() int

	// Seek repositions the source to index i. Implementations may
	// fast-forward through filtered symbols to reach i.
	Seek(i int) error

	// Size returns the number of symbols in the source, or -1 if the source
	// cannot report a length (e.g. an unbounded or streaming source). A
	// buffered token stream reports how many tokens it has buffered so far.
	Size() int

	// SourceName returns a human-readable name for error messages (a file
	// path, "<unknown>", etc).
	SourceName() string
}

// Interval is a closed range used by CharSource.GetText and by rule-context
// source spans.
type Interval struct {
	Start, Stop int
}

// CharSource extends IntSource with code-point-indexed text extraction. It is
// the abstraction a Lexer pulls characters from.
type CharSource interface {
	IntSource

	// GetText returns the exact substring of code points covering interval.
	// Both endpoints are inclusive indices into the source. The interval
	// must lie within a currently live marked region (or behind the current
	// index, if the source retains everything it has produced).
	GetText(interval Interval) string
}
