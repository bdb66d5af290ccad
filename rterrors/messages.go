package rterrors

import (
	"strings"

	"github.com/dekarrin/rosed"
	"golang.org/x/text/width"

	"github.com/dekarrin/allstarrt/rttypes"
)

var whitespaceEscapes = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// escapeTokenText renders a token's text safely for a single-line message
// (§7: "whitespace in displayed tokens is escaped"), folding full-width
// punctuation survivors down to their narrow form first so the escaped
// result lines up consistently whichever terminal renders it.
func escapeTokenText(s string) string {
	if folded, _, err := width.Fold.String(s); err == nil {
		s = folded
	}
	return whitespaceEscapes.Replace(s)
}

// quoteToken renders tok as `'<text>'` (§7: "the token is surrounded by
// single quotes"), including the EOF sentinel itself: §8 scenario 2's fixed
// message is `"missing ';' at '<EOF>'"`, quotes and all.
func quoteToken(tok rttypes.Token) string {
	if tok == nil {
		return "'<EOF>'"
	}
	if tok.Type() == rttypes.TokenEOF {
		return "'<EOF>'"
	}
	return "'" + escapeTokenText(tok.Text()) + "'"
}

// wrapMessage wraps long recovery/ambiguity messages for fixed-width
// terminal display before they reach a SyntaxError event's Message field.
func wrapMessage(s string) string {
	return rosed.Edit(s).Wrap(100).String()
}
