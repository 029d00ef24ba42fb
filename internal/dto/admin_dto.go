package dto

import "time"

// OptionCreateDTO is one answer option of a new question. An empty ID is assigned by the server.
type OptionCreateDTO struct {
	ID   string `json:"id"`
	Text string `json:"text" binding:"required"`
}

// QuestionCreateDTO is used within AssessmentCreateDTO.
type QuestionCreateDTO struct {
	ID               string            `json:"id"`
	Text             string            `json:"text" binding:"required"`
	Options          []OptionCreateDTO `json:"options" binding:"required,min=2,dive"`
	CorrectOptionID  string            `json:"correct_option_id"`
	CorrectIndex     *int              `json:"correct_index"` // alternative to CorrectOptionID
	Points           float64           `json:"points" binding:"gte=0"`
	TimeLimitSeconds *int              `json:"time_limit_seconds"`
	Explanation      string            `json:"explanation"`
}

// AssessmentCreateDTO creates an assessment from explicit questions or, when
// Questions is empty, from a generation prompt.
type AssessmentCreateDTO struct {
	Title           string              `json:"title" binding:"required"`
	Description     string              `json:"description"`
	Difficulty      string              `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	CreatedBy       string              `json:"created_by"`
	DurationMinutes *int                `json:"duration_minutes" binding:"omitempty,gt=0"`
	ScheduledFrom   *time.Time          `json:"scheduled_from"`
	ScheduledTo     *time.Time          `json:"scheduled_to"`
	TimePerQuestion *int                `json:"time_per_question" binding:"omitempty,gt=0"`
	AssignedTo      []string            `json:"assigned_to"`
	Questions       []QuestionCreateDTO `json:"questions" binding:"omitempty,dive"`
	Prompt          string              `json:"prompt"`
	QuestionCount   int                 `json:"question_count" binding:"omitempty,gt=0,lte=150"`
}

type AssignmentUpdateDTO struct {
	AssignedTo []string `json:"assigned_to" binding:"required"`
}

type RetakeGrantDTO struct {
	UserID string `json:"user_id" binding:"required"`
}

// QuestionDTO is the examiner view of a question, answer key included.
type QuestionDTO struct {
	ID               string      `json:"id"`
	Text             string      `json:"text"`
	Options          []OptionDTO `json:"options" copier:"-"`
	CorrectOptionID  string      `json:"correct_option_id"`
	Points           float64     `json:"points"`
	TimeLimitSeconds *int        `json:"time_limit_seconds,omitempty"`
	Explanation      string      `json:"explanation,omitempty"`
}

// AssessmentResponseDTO is the examiner view of an assessment.
type AssessmentResponseDTO struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description,omitempty"`
	Difficulty        string        `json:"difficulty,omitempty"`
	CreatedBy         string        `json:"created_by,omitempty"`
	DurationMinutes   *int          `json:"duration_minutes,omitempty"`
	ScheduledFrom     *time.Time    `json:"scheduled_from,omitempty"`
	ScheduledTo       *time.Time    `json:"scheduled_to,omitempty"`
	QuestionCount     int           `json:"question_count"`
	Questions         []QuestionDTO `json:"questions,omitempty" copier:"-"`
	AssignedTo        []string      `json:"assigned_to" copier:"-"`
	RetakePermissions []string      `json:"retake_permissions" copier:"-"`
	CreatedAt         time.Time     `json:"created_at"`
}

// ExaminerResultDTO is one graded attempt as listed to examiners.
type ExaminerResultDTO struct {
	AttemptResultDTO
	IsReattempt   bool `json:"is_reattempt"`
	RetakeGranted bool `json:"retake_granted"`
}

type AssessmentResultsDTO struct {
	Assessment AssessmentResponseDTO `json:"assessment"`
	Results    []ExaminerResultDTO   `json:"results"`
}

// UserResultDTO is one graded attempt in a candidate's history across assessments.
type UserResultDTO struct {
	ResultID          uint       `json:"result_id"`
	AssessmentID      string     `json:"assessment_id"`
	AssessmentTitle   string     `json:"assessment_title"`
	AttemptNumber     int        `json:"attempt_number"`
	Score             float64    `json:"score"`
	MaxScore          float64    `json:"max_score"`
	Percentage        float64    `json:"percentage"`
	PerformanceBand   string     `json:"performance_band"`
	TabSwitchCount    int        `json:"tab_switch_count"`
	TerminationReason *string    `json:"termination_reason,omitempty"`
	GradedAt          *time.Time `json:"graded_at,omitempty"`
}

type UserResultsDTO struct {
	UserID  string          `json:"user_id"`
	Results []UserResultDTO `json:"results"`
}
