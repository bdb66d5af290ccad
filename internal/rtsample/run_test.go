package rtsample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/allstarrt/internal/rtconfig"
)

func TestRun_StatGrammar_ValidInput(t *testing.T) {
	g, ok := Find("stat")
	require.True(t, ok)

	res, err := Run(g, "x=3;", rtconfig.Defaults())

	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Tree)
	assert.NotEmpty(t, res.SessionID)
	assert.Len(t, res.Tokens, 4)
}

func TestRun_StatGrammar_LexErrorIsCollected(t *testing.T) {
	g, ok := Find("stat")
	require.True(t, ok)

	res, err := Run(g, "x=3;#", rtconfig.Defaults())

	require.NoError(t, err)
	require.NotEmpty(t, res.Errors)
}

func TestRun_ExprGrammar_LeftAssociative(t *testing.T) {
	g, ok := Find("expr")
	require.True(t, ok)

	res, err := Run(g, "1+2+3", rtconfig.Defaults())

	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Tree)
}

func TestRun_CmdGrammar_MismatchProducesParseError(t *testing.T) {
	g, ok := Find("cmd")
	require.True(t, ok)

	_, err := Run(g, "go", rtconfig.Defaults())

	assert.Error(t, err)
}

func TestFind_UnknownGrammarNotFound(t *testing.T) {
	_, ok := Find("nope")
	assert.False(t, ok)
}

func TestRegistry_ListsAllSampleGrammars(t *testing.T) {
	names := make(map[string]bool)
	for _, g := range Registry() {
		names[g.Name] = true
	}
	assert.True(t, names["stat"])
	assert.True(t, names["expr"])
	assert.True(t, names["cmd"])
}
