package proctor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []Submission
}

func (r *recorder) submit(s Submission) { r.calls = append(r.calls, s) }

func TestFocusLost_WarnsThenTerminates(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec.submit)
	require.True(t, s.Answer("q1", "a"))

	for i := 1; i <= 3; i++ {
		assert.Equal(t, StateWarned, s.FocusLost())
		assert.Equal(t, i, s.Violations())
		assert.Empty(t, rec.calls)
	}

	assert.Equal(t, StateTerminated, s.FocusLost())
	require.Len(t, rec.calls, 1)
	sub := rec.calls[0]
	assert.True(t, sub.Forced)
	assert.Equal(t, 4, sub.TabSwitchCount)
	require.NotNil(t, sub.TerminationReason)
	assert.Equal(t, TerminationReason, *sub.TerminationReason)
	assert.Equal(t, map[string]string{"q1": "a"}, sub.Answers)
}

func TestFocusLost_IgnoredWhileInFlight(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec.submit)
	for i := 0; i < 4; i++ {
		s.FocusLost()
	}
	require.True(t, s.InFlight())

	assert.Equal(t, StateTerminated, s.FocusLost())
	assert.False(t, s.Submit())
	assert.Equal(t, 4, s.Violations())
	assert.Len(t, rec.calls, 1)
}

func TestTerminated_AnswersFrozen(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec.submit)
	for i := 0; i < 4; i++ {
		s.FocusLost()
	}
	s.Resolve(nil)

	assert.False(t, s.Answer("q1", "b"))
	assert.Equal(t, StateTerminated, s.FocusLost())
	assert.Equal(t, StateTerminated, s.State())
	assert.False(t, s.Submit(), "delivered submission is not sent again")
	assert.Len(t, rec.calls, 1)
}

func TestManualSubmit(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec.submit)
	s.Answer("q1", "a")
	s.Answer("q2", "b")
	s.Answer("q2", "")
	s.FocusLost()

	require.True(t, s.Submit())
	require.Len(t, rec.calls, 1)
	sub := rec.calls[0]
	assert.False(t, sub.Forced)
	assert.Nil(t, sub.TerminationReason)
	assert.Equal(t, 1, sub.TabSwitchCount)
	assert.Equal(t, map[string]string{"q1": "a"}, sub.Answers)

	assert.False(t, s.Submit(), "second click while in flight is ignored")
	s.Resolve(nil)
	assert.Equal(t, StateSubmitted, s.State())
	assert.False(t, s.Submit())
	assert.Equal(t, StateSubmitted, s.FocusLost())
	assert.Len(t, rec.calls, 1)
}

func TestManualSubmit_FailureAllowsRetry(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec.submit)
	s.FocusLost()
	s.Submit()
	s.Resolve(errors.New("network down"))

	assert.Equal(t, StateWarned, s.State())
	assert.True(t, s.Answer("q1", "c"))
	require.True(t, s.Submit())
	require.Len(t, rec.calls, 2)
	assert.Equal(t, "c", rec.calls[1].Answers["q1"])
}

func TestForcedSubmit_FailureResendsFrozenAnswers(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec.submit)
	s.Answer("q1", "a")
	for i := 0; i < 4; i++ {
		s.FocusLost()
	}
	s.Resolve(errors.New("timeout"))

	assert.Equal(t, StateTerminated, s.State())
	assert.False(t, s.Answer("q1", "b"))
	require.True(t, s.Submit())
	require.Len(t, rec.calls, 2)
	assert.Equal(t, rec.calls[0], rec.calls[1])
}

func TestWithMaxWarnings(t *testing.T) {
	rec := &recorder{}
	s := NewSession(rec.submit, WithMaxWarnings(1))
	assert.Equal(t, StateWarned, s.FocusLost())
	assert.Equal(t, StateTerminated, s.FocusLost())
	require.Len(t, rec.calls, 1)
	assert.Equal(t, 2, rec.calls[0].TabSwitchCount)
}
