// Package grading scores a candidate's submission against an answer key.
// The engine is pure: it reads no storage and keeps no state between calls.
package grading

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidSubmission = errors.New("invalid submission")

type Choice struct {
	ID   string
	Text string
}

type Question struct {
	ID               string
	Text             string
	Options          []Choice
	CorrectOptionID  string
	Points           float64
	TimeLimitSeconds *int
	Explanation      string
}

// AnswerKey is the set of questions a submission is graded against. For a
// subsetted attempt it holds only the presented questions.
type AnswerKey struct {
	AssessmentID string
	Questions    []Question
}

type Submission struct {
	AssessmentID      string
	UserID            string
	Answers           map[string]string // question id -> selected option id
	StartedAt         time.Time
	SubmittedAt       time.Time
	TabSwitchCount    int
	TerminationReason *string
}

type Detail struct {
	QuestionID    string
	Selected      *string
	Correct       string
	IsCorrect     bool
	PointsAwarded float64
	MaxPoints     float64
	Explanation   string
}

type Analytics struct {
	TimeTakenSeconds          float64
	AccuracyPercent           float64
	AvgTimePerQuestionSeconds float64
}

type Report struct {
	AssessmentID      string
	UserID            string
	Score             float64
	MaxScore          float64
	ScorePercent      float64
	TotalQuestions    int
	CorrectCount      int
	Detailed          []Detail
	Analytics         Analytics
	GradedAt          time.Time
	TabSwitchCount    int
	TerminationReason *string
}

type config struct {
	now           func() time.Time
	defaultPoints float64
}

type Option func(*config)

// WithClock overrides the clock used for GradedAt.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithDefaultPoints sets the weight of questions without a positive Points value.
func WithDefaultPoints(p float64) Option {
	return func(c *config) {
		if p > 0 {
			c.defaultPoints = p
		}
	}
}

type Engine struct {
	cfg config
}

func NewEngine(opts ...Option) *Engine {
	cfg := config{now: time.Now, defaultPoints: 1}
	for _, o := range opts {
		o(&cfg)
	}
	return &Engine{cfg: cfg}
}

// Grade walks the key, never the submission, so answers for questions outside
// the key are ignored and every key question is counted exactly once.
func (e *Engine) Grade(key AnswerKey, sub Submission) (Report, error) {
	if key.AssessmentID != sub.AssessmentID {
		return Report{}, fmt.Errorf("%w: submission for assessment %q graded against key %q",
			ErrInvalidSubmission, sub.AssessmentID, key.AssessmentID)
	}

	report := Report{
		AssessmentID:      key.AssessmentID,
		UserID:            sub.UserID,
		Detailed:          make([]Detail, 0, len(key.Questions)),
		TabSwitchCount:    sub.TabSwitchCount,
		TerminationReason: sub.TerminationReason,
	}

	seen := make(map[string]struct{}, len(key.Questions))
	for _, q := range key.Questions {
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}

		points := q.Points
		if points <= 0 {
			points = e.cfg.defaultPoints
		}
		d := Detail{
			QuestionID:  q.ID,
			Correct:     q.CorrectOptionID,
			MaxPoints:   points,
			Explanation: q.Explanation,
		}
		if selected, ok := sub.Answers[q.ID]; ok && selected != "" {
			sel := selected
			d.Selected = &sel
			d.IsCorrect = selected == q.CorrectOptionID
		}
		if d.IsCorrect {
			d.PointsAwarded = points
			report.CorrectCount++
			report.Score += points
		}
		report.MaxScore += points
		report.Detailed = append(report.Detailed, d)
	}

	report.TotalQuestions = len(report.Detailed)
	if report.TotalQuestions == 0 {
		return Report{}, fmt.Errorf("%w: no gradeable questions for assessment %q", ErrInvalidSubmission, key.AssessmentID)
	}

	if report.MaxScore > 0 {
		report.ScorePercent = 100 * report.Score / report.MaxScore
	}
	report.Analytics = analyze(sub, report.CorrectCount, report.TotalQuestions)
	report.GradedAt = e.cfg.now()
	return report, nil
}

func analyze(sub Submission, correct, total int) Analytics {
	var a Analytics
	if !sub.StartedAt.IsZero() && !sub.SubmittedAt.IsZero() {
		if elapsed := sub.SubmittedAt.Sub(sub.StartedAt).Seconds(); elapsed > 0 {
			a.TimeTakenSeconds = elapsed
		}
	}
	if total > 0 {
		a.AccuracyPercent = 100 * float64(correct) / float64(total)
		a.AvgTimePerQuestionSeconds = a.TimeTakenSeconds / float64(total)
	}
	return a
}
