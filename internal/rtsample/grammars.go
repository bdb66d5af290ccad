package rtsample

import (
	"github.com/dekarrin/allstarrt/atn"
)

// Grammar bundles everything cmd/rtdemo and rtserver need to lex and parse
// one of the seed grammars spec §8 describes: the lexer and parser ATNs,
// the rule/token name tables a Base needs, and the entry rule index.
type Grammar struct {
	Name        string
	Description string

	TokenNames map[int]string
	RuleNames  []string
	StartRule  int

	NewLexerSim func() atn.LexerSimulator
	ParserATN   *atn.ATN
}

// Registry lists every sample grammar, in the order cmd/rtdemo's --list
// flag should print them.
func Registry() []Grammar {
	return []Grammar{
		StatGrammar(),
		ExprGrammar(),
		CmdGrammar(),
	}
}

// Find returns the named grammar and true, or a zero Grammar and false.
func Find(name string) (Grammar, bool) {
	for _, g := range Registry() {
		if g.Name == name {
			return g, true
		}
	}
	return Grammar{}, false
}

const (
	statTokX   = 1
	statTokEq  = 2
	statTokInt = 3
	statTokSemi = 4
)

// StatGrammar implements spec §8 scenarios 1-3: `stat: 'x' '=' INT ';' ;`,
// a purely linear rule (no decision states at all), the same shape
// rtinterp's own buildStatATN test fixture uses, extended one state further
// to also match the trailing ';'.
func StatGrammar() Grammar {
	a := atn.NewATN(atn.GrammarParser, statTokSemi)
	s0 := atn.NewATNState(0, 0, atn.StateRuleStart)
	s1 := atn.NewATNState(1, 0, atn.StateBasic)
	s2 := atn.NewATNState(2, 0, atn.StateBasic)
	s3 := atn.NewATNState(3, 0, atn.StateBasic)
	s4 := atn.NewATNState(4, 0, atn.StateBasic)
	stop := atn.NewATNState(5, 0, atn.StateRuleStop)
	for _, s := range []*atn.ATNState{s0, s1, s2, s3, s4, stop} {
		a.AddState(s)
	}
	s0.AddTransition(atn.NewEpsilonTransition(s1))
	s1.AddTransition(atn.NewAtomTransition(s2, statTokX))
	s2.AddTransition(atn.NewAtomTransition(s3, statTokEq))
	s3.AddTransition(atn.NewAtomTransition(s4, statTokInt))
	s4.AddTransition(atn.NewAtomTransition(stop, statTokSemi))

	a.SetRuleStartStop(0, &atn.RuleStartState{ATNState: s0}, &atn.RuleStopState{ATNState: stop})

	return Grammar{
		Name:        "stat",
		Description: "stat: 'x' '=' INT ';' ;",
		TokenNames:  map[int]string{statTokX: "'x'", statTokEq: "'='", statTokInt: "INT", statTokSemi: "';'"},
		RuleNames:   []string{"stat"},
		StartRule:   0,
		NewLexerSim: func() atn.LexerSimulator {
			return newLexerSim(
				map[string]int{"x": statTokX},
				map[int]int{'=': statTokEq, ';': statTokSemi},
				statTokInt, // identTok: identifiers other than "x" lex as INT rather than raising a lex error
				statTokInt,
			)
		},
		ParserATN: a,
	}
}

const (
	exprTokInt  = 1
	exprTokPlus = 2
)

// ExprGrammar implements spec §8 scenario 5: the left-recursion-eliminated
// form of `e: e '+' e | INT ;`, identical in shape to
// rtinterp's buildExprATN test fixture.
func ExprGrammar() Grammar {
	const opPrec = 2
	a := atn.NewATN(atn.GrammarParser, exprTokPlus)

	s0 := atn.NewATNState(0, 0, atn.StateRuleStart)
	s1 := atn.NewATNState(1, 0, atn.StateBasic)
	s2 := atn.NewATNState(2, 0, atn.StateBasic)
	loop := atn.NewATNState(3, 0, atn.StateStarLoopEntry)
	loop.SetPrecedenceDecision(true)
	p1 := atn.NewATNState(4, 0, atn.StateBasic)
	p2 := atn.NewATNState(5, 0, atn.StateBasic)
	p3 := atn.NewATNState(6, 0, atn.StateBasic)
	loopBack := atn.NewATNState(7, 0, atn.StateStarLoopBack)
	stop := atn.NewATNState(8, 0, atn.StateRuleStop)

	for _, s := range []*atn.ATNState{s0, s1, s2, loop, p1, p2, p3, loopBack, stop} {
		a.AddState(s)
	}

	s0.AddTransition(atn.NewEpsilonTransition(s1))
	s1.AddTransition(atn.NewAtomTransition(s2, exprTokInt))
	s2.AddTransition(atn.NewEpsilonTransition(loop))
	loop.AddTransition(atn.NewPrecedenceTransition(p1, opPrec))
	loop.AddTransition(atn.NewEpsilonTransition(stop))
	p1.AddTransition(atn.NewAtomTransition(p2, exprTokPlus))
	p2.AddTransition(atn.NewRuleTransition(s0, p3, 0, opPrec+1))
	p3.AddTransition(atn.NewEpsilonTransition(loopBack))
	loopBack.AddTransition(atn.NewEpsilonTransition(loop))

	a.SetRuleStartStop(0, &atn.RuleStartState{ATNState: s0, LeftRecursive: true}, &atn.RuleStopState{ATNState: stop})
	a.DecisionToState = append(a.DecisionToState, &atn.DecisionState{ATNState: loop, DecisionIndex: 0})

	return Grammar{
		Name:        "expr",
		Description: "e: e '+' e | INT ; (left-associative)",
		TokenNames:  map[int]string{exprTokInt: "INT", exprTokPlus: "'+'"},
		RuleNames:   []string{"e"},
		StartRule:   0,
		NewLexerSim: func() atn.LexerSimulator {
			return newLexerSim(nil, map[int]int{'+': exprTokPlus}, exprTokInt, exprTokInt)
		},
		ParserATN: a,
	}
}

const (
	cmdTokGo = 1
	cmdTokID = 2
)

// CmdGrammar implements spec §8 scenario 6: `cmd: 'go' ID ;`.
func CmdGrammar() Grammar {
	a := atn.NewATN(atn.GrammarParser, cmdTokID)
	s0 := atn.NewATNState(0, 0, atn.StateRuleStart)
	s1 := atn.NewATNState(1, 0, atn.StateBasic)
	s2 := atn.NewATNState(2, 0, atn.StateBasic)
	stop := atn.NewATNState(3, 0, atn.StateRuleStop)
	for _, s := range []*atn.ATNState{s0, s1, s2, stop} {
		a.AddState(s)
	}
	s0.AddTransition(atn.NewEpsilonTransition(s1))
	s1.AddTransition(atn.NewAtomTransition(s2, cmdTokGo))
	s2.AddTransition(atn.NewAtomTransition(stop, cmdTokID))
	a.SetRuleStartStop(0, &atn.RuleStartState{ATNState: s0}, &atn.RuleStopState{ATNState: stop})

	return Grammar{
		Name:        "cmd",
		Description: "cmd: 'go' ID ;",
		TokenNames:  map[int]string{cmdTokGo: "'go'", cmdTokID: "ID"},
		RuleNames:   []string{"cmd"},
		StartRule:   0,
		NewLexerSim: func() atn.LexerSimulator {
			return newLexerSim(map[string]int{"go": cmdTokGo}, nil, cmdTokID, cmdTokID)
		},
		ParserATN: a,
	}
}
