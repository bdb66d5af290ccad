package rtrecognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingErrorListener struct {
	got []SyntaxError
}

func (r *recordingErrorListener) SyntaxError(e SyntaxError) {
	r.got = append(r.got, e)
}

type panickingErrorListener struct{}

func (panickingErrorListener) SyntaxError(e SyntaxError) {
	panic("boom")
}

type recordingAmbigListener struct {
	ambig       []AmbiguityEvent
	fullCtx     []AttemptingFullContextEvent
	ctxSensCall []ContextSensitivityEvent
}

func (r *recordingAmbigListener) Ambiguity(e AmbiguityEvent) { r.ambig = append(r.ambig, e) }
func (r *recordingAmbigListener) AttemptingFullContext(e AttemptingFullContextEvent) {
	r.fullCtx = append(r.fullCtx, e)
}
func (r *recordingAmbigListener) ContextSensitivity(e ContextSensitivityEvent) {
	r.ctxSensCall = append(r.ctxSensCall, e)
}

func Test_Base_TokenName_RuleName(t *testing.T) {
	b := NewBase(map[int]string{1: "FOO"}, []string{"start", "expr"})

	assert.Equal(t, "FOO", b.TokenName(1))
	assert.Equal(t, "EOF", b.TokenName(-1))
	assert.Equal(t, "<unknown>", b.TokenName(99))

	assert.Equal(t, "start", b.RuleName(0))
	assert.Equal(t, "expr", b.RuleName(1))
	assert.Equal(t, "<unknown>", b.RuleName(5))
}

func Test_Base_NotifySyntaxError_fansOutToAllListeners(t *testing.T) {
	b := NewBase(nil, nil)
	a := &recordingErrorListener{}
	bb := &recordingErrorListener{}
	b.AddErrorListener(a)
	b.AddErrorListener(bb)

	b.NotifySyntaxError(SyntaxError{Line: 1, Column: 2, Message: "bad"})

	assert.Len(t, a.got, 1)
	assert.Len(t, bb.got, 1)
	assert.Equal(t, "bad", a.got[0].Message)
}

func Test_Base_NotifySyntaxError_isolatesPanickingListener(t *testing.T) {
	b := NewBase(nil, nil)
	b.AddErrorListener(panickingErrorListener{})
	survivor := &recordingErrorListener{}
	b.AddErrorListener(survivor)

	assert.NotPanics(t, func() {
		b.NotifySyntaxError(SyntaxError{Message: "x"})
	})
	assert.Len(t, survivor.got, 1)
}

func Test_Base_RemoveErrorListeners(t *testing.T) {
	b := NewBase(nil, nil)
	l := &recordingErrorListener{}
	b.AddErrorListener(l)
	b.RemoveErrorListeners()

	b.NotifySyntaxError(SyntaxError{Message: "x"})
	assert.Empty(t, l.got)
}

func Test_Base_AmbiguityEvents(t *testing.T) {
	b := NewBase(nil, nil)
	l := &recordingAmbigListener{}
	b.AddAmbiguityListener(l)

	b.NotifyAmbiguity(AmbiguityEvent{DecisionIndex: 1})
	b.NotifyAttemptingFullContext(AttemptingFullContextEvent{DecisionIndex: 1})
	b.NotifyContextSensitivity(ContextSensitivityEvent{DecisionIndex: 1, PredictedAlt: 2})

	assert.Len(t, l.ambig, 1)
	assert.Len(t, l.fullCtx, 1)
	assert.Len(t, l.ctxSensCall, 1)
	assert.Equal(t, 2, l.ctxSensCall[0].PredictedAlt)
}

func Test_Base_SessionID_isUniquePerInstance(t *testing.T) {
	a := NewBase(nil, nil)
	b := NewBase(nil, nil)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}
