package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptStarted AttemptStatus = "started"
	AttemptGraded  AttemptStatus = "graded"
)

// Result is one row of the attempt ledger. A started row is the placeholder
// written when the candidate begins; grading overwrites it in place.
type Result struct {
	ID                        uint           `gorm:"primarykey" json:"id"`
	AssessmentID              string         `gorm:"size:64;not null;uniqueIndex:idx_results_attempt,priority:1" json:"assessment_id"`
	UserID                    string         `gorm:"size:64;not null;uniqueIndex:idx_results_attempt,priority:2;index" json:"user_id"`
	AttemptNumber             int            `gorm:"not null;uniqueIndex:idx_results_attempt,priority:3" json:"attempt_number"`
	Status                    AttemptStatus  `gorm:"size:16;not null;default:'started';index" json:"status"`
	Score                     float64        `json:"score"`
	MaxScore                  float64        `json:"max_score"`
	ScorePercent              float64        `json:"score_percent"`
	TotalQuestions            int            `gorm:"not null;default:0" json:"total_questions"`
	CorrectCount              int            `json:"correct_count"`
	Detailed                  datatypes.JSON `json:"detailed,omitempty"`
	PresentedQuestionIDs      datatypes.JSON `json:"presented_question_ids,omitempty"`
	TimeTakenSeconds          float64        `json:"time_taken_seconds"`
	AccuracyPercent           float64        `json:"accuracy_percent"`
	AvgTimePerQuestionSeconds float64        `json:"avg_time_per_question_seconds"`
	TimeStarted               *time.Time     `json:"time_started,omitempty"`
	TimeSubmitted             *time.Time     `json:"time_submitted,omitempty"`
	StartedAt                 time.Time      `json:"started_at"`
	GradedAt                  *time.Time     `gorm:"index" json:"graded_at,omitempty"`
	TabSwitchCount            int            `json:"tab_switch_count"`
	TerminationReason         *string        `json:"termination_reason,omitempty"`
	CreatedAt                 time.Time      `json:"created_at"`
	UpdatedAt                 time.Time      `json:"updated_at"`
}

func (r *Result) IsPlaceholder() bool {
	return r.Status == AttemptStarted
}

func (r *Result) PresentedIDs() []string {
	return decodeIDs(r.PresentedQuestionIDs)
}

func (r *Result) SetPresentedIDs(ids []string) {
	r.PresentedQuestionIDs = encodeIDs(ids)
}

func (r *Result) Details() []QuestionResult {
	if len(r.Detailed) == 0 {
		return nil
	}
	var out []QuestionResult
	if err := json.Unmarshal(r.Detailed, &out); err != nil {
		return nil
	}
	return out
}

func (r *Result) SetDetails(details []QuestionResult) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	r.Detailed = raw
	return nil
}
