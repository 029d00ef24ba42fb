package grading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func sampleKey() AnswerKey {
	return AnswerKey{
		AssessmentID: "a1",
		Questions: []Question{
			{ID: "q1", CorrectOptionID: "b", Options: []Choice{{ID: "a"}, {ID: "b"}}, Explanation: "because"},
			{ID: "q2", CorrectOptionID: "a", Options: []Choice{{ID: "a"}, {ID: "b"}}},
			{ID: "q3", CorrectOptionID: "c", Points: 3, Options: []Choice{{ID: "c"}, {ID: "d"}}},
		},
	}
}

func TestGrade_MixedAnswers(t *testing.T) {
	engine := NewEngine(WithClock(func() time.Time { return fixedNow }))
	sub := Submission{
		AssessmentID: "a1",
		UserID:       "u1",
		Answers:      map[string]string{"q1": "b", "q2": "b"},
		StartedAt:    fixedNow.Add(-90 * time.Second),
		SubmittedAt:  fixedNow,
	}

	report, err := engine.Grade(sampleKey(), sub)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalQuestions)
	assert.Equal(t, 1, report.CorrectCount)
	assert.Equal(t, 1.0, report.Score)
	assert.Equal(t, 5.0, report.MaxScore)
	assert.InDelta(t, 20.0, report.ScorePercent, 1e-9)
	assert.Equal(t, fixedNow, report.GradedAt)

	require.Len(t, report.Detailed, 3)
	assert.True(t, report.Detailed[0].IsCorrect)
	assert.Equal(t, "because", report.Detailed[0].Explanation)
	assert.False(t, report.Detailed[1].IsCorrect)
	require.NotNil(t, report.Detailed[1].Selected)
	assert.Equal(t, "b", *report.Detailed[1].Selected)
	assert.Nil(t, report.Detailed[2].Selected, "unanswered question has no selection")
	assert.Equal(t, 0.0, report.Detailed[2].PointsAwarded)

	assert.InDelta(t, 90.0, report.Analytics.TimeTakenSeconds, 1e-9)
	assert.InDelta(t, 100.0/3, report.Analytics.AccuracyPercent, 1e-9)
	assert.InDelta(t, 30.0, report.Analytics.AvgTimePerQuestionSeconds, 1e-9)
}

func TestGrade_AllCorrect(t *testing.T) {
	engine := NewEngine()
	sub := Submission{AssessmentID: "a1", Answers: map[string]string{"q1": "b", "q2": "a", "q3": "c"}}

	report, err := engine.Grade(sampleKey(), sub)
	require.NoError(t, err)
	assert.Equal(t, report.TotalQuestions, report.CorrectCount)
	assert.Equal(t, report.MaxScore, report.Score)
	assert.Equal(t, 100.0, report.ScorePercent)
}

func TestGrade_IgnoresAnswersOutsideKey(t *testing.T) {
	engine := NewEngine()
	sub := Submission{AssessmentID: "a1", Answers: map[string]string{"q1": "b", "ghost": "a", "other": "x"}}

	report, err := engine.Grade(sampleKey(), sub)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalQuestions)
	assert.Equal(t, 1, report.CorrectCount)
	for _, d := range report.Detailed {
		assert.NotEqual(t, "ghost", d.QuestionID)
	}
}

func TestGrade_ExactMatchOnly(t *testing.T) {
	engine := NewEngine()
	sub := Submission{AssessmentID: "a1", Answers: map[string]string{"q1": "B", "q2": " a"}}

	report, err := engine.Grade(sampleKey(), sub)
	require.NoError(t, err)
	assert.Equal(t, 0, report.CorrectCount)
}

func TestGrade_BlankSelectionIsUnanswered(t *testing.T) {
	engine := NewEngine()
	sub := Submission{AssessmentID: "a1", Answers: map[string]string{"q1": ""}}

	report, err := engine.Grade(sampleKey(), sub)
	require.NoError(t, err)
	assert.Nil(t, report.Detailed[0].Selected)
}

func TestGrade_DuplicateKeyQuestionCountedOnce(t *testing.T) {
	engine := NewEngine()
	key := sampleKey()
	key.Questions = append(key.Questions, key.Questions[0])
	sub := Submission{AssessmentID: "a1", Answers: map[string]string{"q1": "b"}}

	report, err := engine.Grade(key, sub)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalQuestions)
	assert.Equal(t, 1, report.CorrectCount)
}

func TestGrade_ClockSkewClampsTime(t *testing.T) {
	engine := NewEngine()
	sub := Submission{
		AssessmentID: "a1",
		StartedAt:    fixedNow,
		SubmittedAt:  fixedNow.Add(-time.Minute),
	}

	report, err := engine.Grade(sampleKey(), sub)
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Analytics.TimeTakenSeconds)
	assert.Equal(t, 0.0, report.Analytics.AvgTimePerQuestionSeconds)
}

func TestGrade_AssessmentMismatch(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Grade(sampleKey(), Submission{AssessmentID: "other"})
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}

func TestGrade_EmptyKey(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Grade(AnswerKey{AssessmentID: "a1"}, Submission{AssessmentID: "a1"})
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}

func TestGrade_CarriesProctoringFields(t *testing.T) {
	engine := NewEngine()
	reason := "excessive tab switching"
	sub := Submission{AssessmentID: "a1", TabSwitchCount: 4, TerminationReason: &reason}

	report, err := engine.Grade(sampleKey(), sub)
	require.NoError(t, err)
	assert.Equal(t, 4, report.TabSwitchCount)
	require.NotNil(t, report.TerminationReason)
	assert.Equal(t, reason, *report.TerminationReason)
}

func TestGrade_DefaultPoints(t *testing.T) {
	engine := NewEngine(WithDefaultPoints(2))
	sub := Submission{AssessmentID: "a1", Answers: map[string]string{"q1": "b"}}

	report, err := engine.Grade(sampleKey(), sub)
	require.NoError(t, err)
	assert.Equal(t, 2.0, report.Score)
	assert.Equal(t, 7.0, report.MaxScore)
}
