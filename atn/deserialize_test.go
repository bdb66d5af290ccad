package atn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dsTokX   = 1
	dsTokEq  = 2
	dsTokInt = 3
)

// buildDeserializeFixtureATN models `stat: 'x' '=' ;`, small enough to
// hand-inspect after a round trip.
func buildDeserializeFixtureATN() *ATN {
	a := NewATN(GrammarParser, 10)
	s0 := NewATNState(0, 0, StateRuleStart)
	s1 := NewATNState(1, 0, StateBasic)
	s2 := NewATNState(2, 0, StateBasic)
	stop := NewATNState(3, 0, StateRuleStop)
	for _, s := range []*ATNState{s0, s1, s2, stop} {
		a.AddState(s)
	}
	s0.AddTransition(NewEpsilonTransition(s1))
	s1.AddTransition(NewAtomTransition(s2, dsTokX))
	s2.AddTransition(NewAtomTransition(stop, dsTokEq))
	a.SetRuleStartStop(0, &RuleStartState{ATNState: s0}, &RuleStopState{ATNState: stop})
	return a
}

// Test_Serialize_Deserialize_roundTrip exercises §6's persisted-state
// contract end to end: encode an ATN with Serialize (rezi's binary
// envelope), decode it back with Deserialize, and check the result is
// structurally identical to the original rather than merely non-nil.
func Test_Serialize_Deserialize_roundTrip(t *testing.T) {
	original := buildDeserializeFixtureATN()

	data := Serialize(original)
	require.NotEmpty(t, data)

	got, err := Deserialize(data)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, original.GrammarType, got.GrammarType)
	assert.Equal(t, original.MaxTokenType, got.MaxTokenType)
	assert.Equal(t, original.NumStates(), got.NumStates())

	for i := 0; i < original.NumStates(); i++ {
		wantState := original.State(i)
		gotState := got.State(i)
		require.NotNil(t, gotState, "state %d", i)
		assert.Equal(t, wantState.Type, gotState.Type, "state %d type", i)
		require.Len(t, gotState.Transitions, len(wantState.Transitions), "state %d transitions", i)
		for j, wantT := range wantState.Transitions {
			gotT := gotState.Transitions[j]
			assert.Equal(t, wantT.Kind, gotT.Kind, "state %d transition %d kind", i, j)
			assert.Equal(t, wantT.Label, gotT.Label, "state %d transition %d label", i, j)
			if wantT.Target != nil {
				require.NotNil(t, gotT.Target)
				assert.Equal(t, wantT.Target.StateNumber, gotT.Target.StateNumber)
			}
		}
	}

	wantStart := original.RuleStart(0)
	gotStart := got.RuleStart(0)
	require.NotNil(t, gotStart)
	assert.Equal(t, wantStart.StateNumber, gotStart.StateNumber)

	wantStop := original.RuleStop(0)
	gotStop := got.RuleStop(0)
	require.NotNil(t, gotStop)
	assert.Equal(t, wantStop.StateNumber, gotStop.StateNumber)
}

// Test_SharedContextCache_sameContentSharesCache confirms CacheKey (and the
// blake2b hash behind it) actually gates cache identity: two simulators
// built from independently-constructed ATNs with identical serialized
// content share the same ContextCache, while a structurally different ATN
// gets its own.
func Test_SharedContextCache_sameContentSharesCache(t *testing.T) {
	a1 := buildDeserializeFixtureATN()
	a2 := buildDeserializeFixtureATN() // separately built, same shape

	sim1 := NewBasicParserSimulator(a1)
	sim2 := NewBasicParserSimulator(a2)
	assert.Same(t, sim1.cache, sim2.cache, "identical grammars must share one ContextCache")

	differentGrammar := NewATN(GrammarParser, 10)
	s0 := NewATNState(0, 0, StateRuleStart)
	stop := NewATNState(1, 0, StateRuleStop)
	differentGrammar.AddState(s0)
	differentGrammar.AddState(stop)
	s0.AddTransition(NewEpsilonTransition(stop))
	differentGrammar.SetRuleStartStop(0, &RuleStartState{ATNState: s0}, &RuleStopState{ATNState: stop})

	sim3 := NewBasicParserSimulator(differentGrammar)
	assert.NotSame(t, sim1.cache, sim3.cache, "a different grammar must not share the cache")

	key1 := CacheKey(Serialize(a1))
	key3 := CacheKey(Serialize(differentGrammar))
	assert.NotEqual(t, key1, key3)
	assert.Len(t, key1, 64, "blake2b-256 hex digest is 64 characters")
}
