package rtsample

import (
	"github.com/dekarrin/allstarrt/atn"
	"github.com/dekarrin/allstarrt/internal/rtconfig"
	"github.com/dekarrin/allstarrt/rtinterp"
	"github.com/dekarrin/allstarrt/rtlexer"
	"github.com/dekarrin/allstarrt/rtrecognizer"
	"github.com/dekarrin/allstarrt/rtsource"
	"github.com/dekarrin/allstarrt/rtstream"
	"github.com/dekarrin/allstarrt/rttypes"
)

// errCollector is the SyntaxErrorListener both cmd/rtdemo and rtserver use
// to gather every SyntaxError a parse produces instead of reacting to them
// one at a time as they're emitted (§6 observer streams).
type errCollector struct {
	errs []rtrecognizer.SyntaxError
}

func (c *errCollector) SyntaxError(e rtrecognizer.SyntaxError) {
	c.errs = append(c.errs, e)
}

// Result is what a driven sample parse hands back to its caller.
type Result struct {
	Tree      *rttypes.ParserRuleContext
	Errors    []rtrecognizer.SyntaxError
	Tokens    []rttypes.Token
	SessionID string
}

// Run lexes and parses text against g, applying opts, and returns the
// resulting tree (nil if the interpreter's rule() call aborted on an
// unrecoverable mismatch — rtinterp documents why it doesn't attempt a
// generated parser's per-rule catch/resync), the SyntaxError events raised
// along the way, and every token lexed from the input, not counting the
// trailing EOF token.
func Run(g Grammar, text string, opts rtconfig.Options) (Result, error) {
	lexBase := rtrecognizer.NewBase(g.TokenNames, g.RuleNames)
	lexErrs := &errCollector{}
	lexBase.AddErrorListener(lexErrs)

	src := rtsource.NewStringCharSource(text, "<input>")
	lex := rtlexer.NewLexer(lexBase, src, g.NewLexerSim(), rttypes.NewCommonTokenFactory(opts.CopyText))

	tokens := rtstream.NewCommonTokenStream(lex, opts.DefaultChannel)

	parseBase := rtrecognizer.NewBase(g.TokenNames, g.RuleNames)
	parseErrs := &errCollector{}
	parseBase.AddErrorListener(parseErrs)

	sim := atn.NewBasicParserSimulator(g.ParserATN)
	in := rtinterp.New(parseBase, g.ParserATN, tokens, sim, rttypes.NewCommonTokenFactory(opts.CopyText))
	in.BuildParseTree = opts.BuildParseTree
	in.TrimParseTree = opts.TrimParseTree
	in.SetTrace(opts.Trace)

	tree, parseErr := in.Parse(g.StartRule)

	_ = tokens.Fill()
	var allToks []rttypes.Token
	if tokens.Size() > 0 {
		for _, t := range tokens.GetTokens(0, tokens.Size()-1, nil) {
			if t.Type() != rttypes.TokenEOF {
				allToks = append(allToks, t)
			}
		}
	}

	return Result{
		Tree:      tree,
		Errors:    append(append([]rtrecognizer.SyntaxError{}, lexErrs.errs...), parseErrs.errs...),
		Tokens:    allToks,
		SessionID: parseBase.SessionID.String(),
	}, parseErr
}
