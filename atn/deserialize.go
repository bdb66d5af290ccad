package atn

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/allstarrt/rtcollections"
)

// Persisted state (§6): a grammar tool emits an ATN as a serialized byte
// string; this runtime never builds an ATN itself, only decodes one. The
// wire layout below is this port's own framing (no external grammar tool
// ships with this repo), built on top of rezi's binary envelope the same
// way tunaq's save-game format layers rezi over a game-specific
// MarshalBinary (server/dao/sqlite/sqlite.go: `rezi.EncBinary(g)`).
type transitionImage struct {
	Kind            int32
	Target          int32
	Label           int32
	LabelMin        int32
	LabelMax        int32
	SetIntervals    [][2]int32
	NotSet          bool
	RuleStart       int32
	FollowState     int32
	RuleIndex       int32
	Precedence      int32
	PredRuleIndex   int32
	PredIndex       int32
	IsCtxDependent  bool
	ActionRuleIndex int32
	ActionIndex     int32
	PrecedenceValue int32
}

type stateImage struct {
	Type        int32
	RuleIndex   int32
	Transitions []transitionImage
	Precedence  bool // StarLoopEntry precedenceRuleDecision flag
}

// atnImage is the de/serializable snapshot of an ATN.
type atnImage struct {
	GrammarType      int32
	MaxTokenType     int32
	States           []stateImage
	DecisionStates   []int32 // state numbers that are decisions, in decision order
	RuleStartStates  []int32
	RuleStopStates   []int32
	RuleToTokenType  []int32
	ModeStartStates  []int32
	ModeNames        []string
}

// MarshalBinary implements encoding.BinaryMarshaler with a small
// length-prefixed binary layout. It intentionally does not try to be a
// general-purpose codec; it only needs to round-trip what ATN actually
// holds.
func (img *atnImage) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	w := func(v int32) { binary.Write(&buf, binary.BigEndian, v) }
	wBool := func(v bool) {
		if v {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	}
	wStr := func(s string) {
		w(int32(len(s)))
		buf.WriteString(s)
	}

	w(img.GrammarType)
	w(img.MaxTokenType)

	w(int32(len(img.States)))
	for _, st := range img.States {
		w(st.Type)
		w(st.RuleIndex)
		wBool(st.Precedence)
		w(int32(len(st.Transitions)))
		for _, t := range st.Transitions {
			w(t.Kind)
			w(t.Target)
			w(t.Label)
			w(t.LabelMin)
			w(t.LabelMax)
			wBool(t.NotSet)
			w(int32(len(t.SetIntervals)))
			for _, iv := range t.SetIntervals {
				w(iv[0])
				w(iv[1])
			}
			w(t.RuleStart)
			w(t.FollowState)
			w(t.RuleIndex)
			w(t.Precedence)
			w(t.PredRuleIndex)
			w(t.PredIndex)
			wBool(t.IsCtxDependent)
			w(t.ActionRuleIndex)
			w(t.ActionIndex)
			w(t.PrecedenceValue)
		}
	}

	w(int32(len(img.DecisionStates)))
	for _, d := range img.DecisionStates {
		w(d)
	}
	w(int32(len(img.RuleStartStates)))
	for _, r := range img.RuleStartStates {
		w(r)
	}
	for _, r := range img.RuleStopStates {
		w(r)
	}
	w(int32(len(img.RuleToTokenType)))
	for _, r := range img.RuleToTokenType {
		w(r)
	}
	w(int32(len(img.ModeStartStates)))
	for i, m := range img.ModeStartStates {
		w(m)
		wStr(img.ModeNames[i])
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for the layout
// MarshalBinary writes.
func (img *atnImage) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	rd := func() int32 {
		var v int32
		binary.Read(r, binary.BigEndian, &v)
		return v
	}
	rdBool := func() bool {
		b, _ := r.ReadByte()
		return b != 0
	}
	rdStr := func() string {
		n := rd()
		buf := make([]byte, n)
		r.Read(buf)
		return string(buf)
	}

	img.GrammarType = rd()
	img.MaxTokenType = rd()

	numStates := int(rd())
	img.States = make([]stateImage, numStates)
	for i := 0; i < numStates; i++ {
		st := &img.States[i]
		st.Type = rd()
		st.RuleIndex = rd()
		st.Precedence = rdBool()
		numT := int(rd())
		st.Transitions = make([]transitionImage, numT)
		for j := 0; j < numT; j++ {
			t := &st.Transitions[j]
			t.Kind = rd()
			t.Target = rd()
			t.Label = rd()
			t.LabelMin = rd()
			t.LabelMax = rd()
			t.NotSet = rdBool()
			numIv := int(rd())
			t.SetIntervals = make([][2]int32, numIv)
			for k := 0; k < numIv; k++ {
				t.SetIntervals[k][0] = rd()
				t.SetIntervals[k][1] = rd()
			}
			t.RuleStart = rd()
			t.FollowState = rd()
			t.RuleIndex = rd()
			t.Precedence = rd()
			t.PredRuleIndex = rd()
			t.PredIndex = rd()
			t.IsCtxDependent = rdBool()
			t.ActionRuleIndex = rd()
			t.ActionIndex = rd()
			t.PrecedenceValue = rd()
		}
	}

	img.DecisionStates = readInt32Slice(rd)
	numRules := int(rd())
	img.RuleStartStates = make([]int32, numRules)
	for i := range img.RuleStartStates {
		img.RuleStartStates[i] = rd()
	}
	img.RuleStopStates = make([]int32, numRules)
	for i := range img.RuleStopStates {
		img.RuleStopStates[i] = rd()
	}
	img.RuleToTokenType = readInt32Slice(rd)

	numModes := int(rd())
	img.ModeStartStates = make([]int32, numModes)
	img.ModeNames = make([]string, numModes)
	for i := 0; i < numModes; i++ {
		img.ModeStartStates[i] = rd()
		img.ModeNames[i] = rdStr()
	}

	return nil
}

func readInt32Slice(rd func() int32) []int32 {
	n := int(rd())
	out := make([]int32, n)
	for i := range out {
		out[i] = rd()
	}
	return out
}

// Serialize encodes a into the grammar-tool wire format.
func Serialize(a *ATN) []byte {
	img := toImage(a)
	return rezi.EncBinary(img)
}

// Deserialize decodes a grammar-tool-emitted byte string into a live ATN
// (§6 "Persisted state"). It is the sole entry point a generated parser
// package uses to obtain its ATN at init time.
func Deserialize(data []byte) (*ATN, error) {
	img := &atnImage{}
	n, err := rezi.DecBinary(data, img)
	if err != nil {
		return nil, fmt.Errorf("atn: decode serialized ATN: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("atn: decode serialized ATN: consumed %d of %d bytes", n, len(data))
	}
	return fromImage(img), nil
}

func toImage(a *ATN) *atnImage {
	img := &atnImage{
		GrammarType:  int32(a.GrammarType),
		MaxTokenType: int32(a.MaxTokenType),
	}
	for _, st := range a.states {
		if st == nil {
			img.States = append(img.States, stateImage{Type: int32(StateInvalid)})
			continue
		}
		si := stateImage{Type: int32(st.Type), RuleIndex: int32(st.RuleIndex), Precedence: st.precedenceRuleDecision}
		for _, t := range st.Transitions {
			ti := transitionImage{Kind: int32(t.Kind), Label: t.Label, LabelMin: t.LabelMin, LabelMax: t.LabelMax}
			if t.Target != nil {
				ti.Target = int32(t.Target.StateNumber)
			}
			if t.Set != nil {
				for _, iv := range t.Set.Intervals() {
					ti.SetIntervals = append(ti.SetIntervals, [2]int32{int32(iv.Start), int32(iv.Stop)})
				}
			}
			if t.RuleStart != nil {
				ti.RuleStart = int32(t.RuleStart.StateNumber)
			}
			if t.FollowState != nil {
				ti.FollowState = int32(t.FollowState.StateNumber)
			}
			ti.RuleIndex = int32(t.RuleIndex)
			ti.Precedence = int32(t.Precedence)
			ti.PredRuleIndex = int32(t.PredRuleIndex)
			ti.PredIndex = int32(t.PredIndex)
			ti.IsCtxDependent = t.IsCtxDependent
			ti.ActionRuleIndex = int32(t.ActionRuleIndex)
			ti.ActionIndex = int32(t.ActionIndex)
			ti.PrecedenceValue = int32(t.PrecedenceValue)
			si.Transitions = append(si.Transitions, ti)
		}
		img.States = append(img.States, si)
	}
	for _, d := range a.DecisionToState {
		img.DecisionStates = append(img.DecisionStates, int32(d.StateNumber))
	}
	for i := range a.ruleToStartState {
		img.RuleStartStates = append(img.RuleStartStates, int32(a.ruleToStartState[i].StateNumber))
		img.RuleStopStates = append(img.RuleStopStates, int32(a.ruleToStopState[i].StateNumber))
	}
	for _, tt := range a.ruleToTokenType {
		img.RuleToTokenType = append(img.RuleToTokenType, int32(tt))
	}
	for name, st := range a.modeNameToStartState {
		img.ModeStartStates = append(img.ModeStartStates, int32(st.StateNumber))
		img.ModeNames = append(img.ModeNames, name)
	}
	return img
}

func fromImage(img *atnImage) *ATN {
	a := NewATN(GrammarType(img.GrammarType), int(img.MaxTokenType))

	states := make([]*ATNState, len(img.States))
	for i, si := range img.States {
		s := NewATNState(i, int(si.RuleIndex), StateType(si.Type))
		s.SetPrecedenceDecision(si.Precedence)
		states[i] = s
	}

	for i, si := range img.States {
		for _, ti := range si.Transitions {
			t := &Transition{
				Kind:            TransitionKind(ti.Kind),
				Label:           ti.Label,
				LabelMin:        ti.LabelMin,
				LabelMax:        ti.LabelMax,
				RuleIndex:       int(ti.RuleIndex),
				Precedence:      int(ti.Precedence),
				PredRuleIndex:   int(ti.PredRuleIndex),
				PredIndex:       int(ti.PredIndex),
				IsCtxDependent:  ti.IsCtxDependent,
				ActionRuleIndex: int(ti.ActionRuleIndex),
				ActionIndex:     int(ti.ActionIndex),
				PrecedenceValue: int(ti.PrecedenceValue),
			}
			if int(ti.Target) < len(states) {
				t.Target = states[ti.Target]
			}
			if len(ti.SetIntervals) > 0 {
				set := rtcollections.NewIntervalSet()
				for _, iv := range ti.SetIntervals {
					set.AddRange(int(iv[0]), int(iv[1]))
				}
				t.Set = set
			}
			if int(ti.RuleStart) < len(states) {
				t.RuleStart = states[ti.RuleStart]
			}
			if int(ti.FollowState) < len(states) {
				t.FollowState = states[ti.FollowState]
			}
			states[i].AddTransition(t)
		}
	}

	for _, s := range states {
		a.AddState(s)
	}
	for _, num := range img.DecisionStates {
		st := states[num]
		a.DecisionToState = append(a.DecisionToState, &DecisionState{ATNState: st, DecisionIndex: len(a.DecisionToState)})
	}
	for i := range img.RuleStartStates {
		start := &RuleStartState{ATNState: states[img.RuleStartStates[i]]}
		stop := &RuleStopState{ATNState: states[img.RuleStopStates[i]]}
		a.SetRuleStartStop(i, start, stop)
	}
	for _, tt := range img.RuleToTokenType {
		a.ruleToTokenType = append(a.ruleToTokenType, int(tt))
	}
	for i, num := range img.ModeStartStates {
		a.AddModeStartState(img.ModeNames[i], states[num])
	}

	return a
}
