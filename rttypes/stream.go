package rttypes

// TokenSource is what a BufferedTokenStream pulls from: a lexer. It is the
// "token provider" half of the §6 contract (core -> parser is the other
// half, expressed as TokenStream below).
type TokenSource interface {
	NextToken() (Token, error)
	Line() int
	Column() int
	SourceName() string
	TokenFactory() TokenFactory
}

// TokenStream is the tokens-by-index view the parser consumes (§4.1). Both
// rtstream.BufferedTokenStream and its channel-filtering subclass implement
// this.
type TokenStream interface {
	IntSource

	LT(k int) Token
	Get(i int) Token
	GetTokenSource() TokenSource
	GetTextRange(start, stop int) string
	GetAllText() string
	Fill() error
}
