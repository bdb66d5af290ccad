package rttypes

import "strings"

// ParseTree is the common interface over every node that can appear as a
// child in a parse tree: rule invocations, terminals, and error nodes.
type ParseTree interface {
	Parent() ParseTree
	Children() []ParseTree
	GetText() string
}

// ParserRuleContext is a node in the parse/invocation tree (§3). A single
// concrete type is used for every rule, since concrete generated parsers
// (which would normally subclass this per rule, attaching named accessor
// methods) are an external collaborator outside this runtime's scope;
// RuleIndex is set by whatever drives the parse (a generated rule method or
// the interpreter driver in package rtinterp).
type ParserRuleContext struct {
	parent        *ParserRuleContext
	invokingState int
	ruleIndex     int
	children      []ParseTree

	Start Token
	Stop  Token

	// Exception is set when this rule returned via error recovery rather
	// than a clean match.
	Exception error
}

// NewParserRuleContext creates a context invoked from parent at the ATN
// state invokingState (-1 for the root context with no parent).
func NewParserRuleContext(parent *ParserRuleContext, invokingState int) *ParserRuleContext {
	return &ParserRuleContext{parent: parent, invokingState: invokingState, ruleIndex: -1}
}

func (c *ParserRuleContext) Parent() ParseTree {
	if c.parent == nil {
		return nil
	}
	return c.parent
}

// ParentCtx returns the typed parent, or nil at the root.
func (c *ParserRuleContext) ParentCtx() *ParserRuleContext { return c.parent }

// SetParentCtx relinks c under a new parent. Used by left-recursion
// promotion (§4.2) to re-root a subtree; never used to relink a context
// across separate parses (§3 invariant c).
func (c *ParserRuleContext) SetParentCtx(p *ParserRuleContext) { c.parent = p }

func (c *ParserRuleContext) InvokingState() int        { return c.invokingState }
func (c *ParserRuleContext) SetInvokingState(s int)     { c.invokingState = s }
func (c *ParserRuleContext) RuleIndex() int             { return c.ruleIndex }
func (c *ParserRuleContext) SetRuleIndex(idx int)       { c.ruleIndex = idx }

func (c *ParserRuleContext) Children() []ParseTree { return c.children }

// GetText concatenates the text of every child, terminal or not, in order.
// Invariant 1 (§8) relies on this equaling the on-channel lexer output for a
// fully-recognized input.
func (c *ParserRuleContext) GetText() string {
	var sb strings.Builder
	for _, ch := range c.children {
		sb.WriteString(ch.GetText())
	}
	return sb.String()
}

// SourceInterval returns [start.TokenIndex, stop.TokenIndex] when both Start
// and Stop are set (§3 invariant b); otherwise returns (-1,-1).
func (c *ParserRuleContext) SourceInterval() (int, int) {
	if c.Start == nil || c.Stop == nil {
		return -1, -1
	}
	return c.Start.TokenIndex(), c.Stop.TokenIndex()
}

// AddChild appends child to the context's children. It does not change
// child's parent link; callers set that themselves.
func (c *ParserRuleContext) AddChild(child ParseTree) {
	c.children = append(c.children, child)
}

// RemoveLastChild drops the most recently added child, if any. Used to back
// out a speculative child attached during a recovery attempt that failed.
func (c *ParserRuleContext) RemoveLastChild() {
	if len(c.children) > 0 {
		c.children = c.children[:len(c.children)-1]
	}
}

// AddTerminalNode wraps tok as a TerminalNode child of c and returns it.
func (c *ParserRuleContext) AddTerminalNode(tok Token) *TerminalNode {
	n := &TerminalNode{symbol: tok, parent: c}
	c.AddChild(n)
	return n
}

// AddErrorNode wraps tok as an ErrorNode child of c and returns it. Error
// nodes are distinguished from terminal nodes by type, not by a flag, so
// that a type switch over a context's children always tells the two apart
// (§8 invariant 5).
func (c *ParserRuleContext) AddErrorNode(tok Token) *ErrorNode {
	n := &ErrorNode{TerminalNode{symbol: tok, parent: c}}
	c.AddChild(n)
	return n
}

// Trim drops nil child slots left behind by speculative construction. Used
// on rule exit when TrimParseTree is enabled.
func (c *ParserRuleContext) Trim() {
	out := c.children[:0]
	for _, ch := range c.children {
		if ch != nil {
			out = append(out, ch)
		}
	}
	c.children = out
}

// TerminalNode is a leaf parse-tree node wrapping a matched token.
type TerminalNode struct {
	symbol Token
	parent ParseTree
}

func (n *TerminalNode) Parent() ParseTree   { return n.parent }
func (n *TerminalNode) Children() []ParseTree { return nil }
func (n *TerminalNode) GetText() string {
	if n.symbol == nil {
		return ""
	}
	return n.symbol.Text()
}
func (n *TerminalNode) Symbol() Token { return n.symbol }

// ErrorNode is a leaf parse-tree node standing in for a token that
// conjured-or-skipped during error recovery rather than cleanly matched.
// It embeds TerminalNode so it shares Symbol()/GetText() behavior, but its
// distinct type lets callers (and AddChild/AddErrorNode above) tell error
// nodes apart from clean matches without a boolean flag.
type ErrorNode struct {
	TerminalNode
}
