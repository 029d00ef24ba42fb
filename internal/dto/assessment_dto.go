package dto

import "time"

type OptionDTO struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// CandidateQuestionDTO never carries the answer key.
type CandidateQuestionDTO struct {
	ID               string      `json:"id"`
	Text             string      `json:"text"`
	Options          []OptionDTO `json:"options"`
	Points           float64     `json:"points"`
	TimeLimitSeconds *int        `json:"time_limit_seconds,omitempty"`
}

// CandidateAssessmentDTO is what a candidate receives before or while attempting.
type CandidateAssessmentDTO struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description,omitempty"`
	Difficulty      string                 `json:"difficulty,omitempty"`
	DurationMinutes *int                   `json:"duration_minutes,omitempty"`
	AttemptNumber   int                    `json:"attempt_number"`
	Questions       []CandidateQuestionDTO `json:"questions" copier:"-"`
}

type CandidateAssessmentSummaryDTO struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Difficulty      string     `json:"difficulty,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	ScheduledFrom   *time.Time `json:"scheduled_from,omitempty"`
	ScheduledTo     *time.Time `json:"scheduled_to,omitempty"`
	Status          string     `json:"status"` // "completed" or "upcoming"
	CreatedAt       time.Time  `json:"created_at"`
}

type StartAttemptDTO struct {
	UserID string `json:"user_id" binding:"required"`
}

type StartAttemptResponseDTO struct {
	ResultID      uint                   `json:"result_id"`
	AttemptNumber int                    `json:"attempt_number"`
	StartedAt     time.Time              `json:"started_at"`
	Assessment    CandidateAssessmentDTO `json:"assessment"`
}

type AnswerDTO struct {
	QuestionID string `json:"question_id" binding:"required"`
	OptionID   string `json:"option_id"`
}

// GradeSubmissionDTO is the body of POST /assessments/{id}/grade.
type GradeSubmissionDTO struct {
	UserID            string      `json:"user_id" binding:"required"`
	Answers           []AnswerDTO `json:"answers" binding:"dive"`
	TimeStarted       *time.Time  `json:"time_started"`
	TimeSubmitted     *time.Time  `json:"time_submitted"`
	TabSwitchCount    int         `json:"tab_switch_count" binding:"gte=0"`
	TerminationReason *string     `json:"termination_reason"`
}

type QuestionResultDTO struct {
	QuestionID    string  `json:"question_id"`
	Selected      *string `json:"selected"`
	Correct       string  `json:"correct"`
	IsCorrect     bool    `json:"is_correct"`
	PointsAwarded float64 `json:"points_awarded"`
	MaxPoints     float64 `json:"max_points"`
	Explanation   string  `json:"explanation,omitempty"`
}

type AnalyticsDTO struct {
	TimeTakenSeconds          float64 `json:"time_taken_seconds"`
	AccuracyPercent           float64 `json:"accuracy_percent"`
	AvgTimePerQuestionSeconds float64 `json:"avg_time_per_question_seconds"`
}

// AttemptResultDTO is a graded attempt.
type AttemptResultDTO struct {
	ID                uint                `json:"id"`
	AssessmentID      string              `json:"assessment_id"`
	UserID            string              `json:"user_id"`
	AttemptNumber     int                 `json:"attempt_number"`
	Score             float64             `json:"score"`
	MaxScore          float64             `json:"max_score"`
	ScorePercent      float64             `json:"score_percent"`
	PerformanceBand   string              `json:"performance_band"`
	TotalQuestions    int                 `json:"total_questions"`
	CorrectCount      int                 `json:"correct_count"`
	Detailed          []QuestionResultDTO `json:"detailed,omitempty" copier:"-"`
	Analytics         AnalyticsDTO        `json:"analytics"`
	TimeStarted       *time.Time          `json:"time_started,omitempty"`
	TimeSubmitted     *time.Time          `json:"time_submitted,omitempty"`
	GradedAt          *time.Time          `json:"graded_at,omitempty"`
	TabSwitchCount    int                 `json:"tab_switch_count"`
	TerminationReason *string             `json:"termination_reason,omitempty"`
}
