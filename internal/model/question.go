package model

// Option is one selectable answer of a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is stored inside the assessment's questions JSON column.
// CorrectOptionID is the answer key and must never reach a candidate.
type Question struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	Options          []Option `json:"options"`
	CorrectOptionID  string   `json:"correct_option_id"`
	Points           float64  `json:"points,omitempty"`
	TimeLimitSeconds *int     `json:"time_limit_seconds,omitempty"`
	Explanation      string   `json:"explanation,omitempty"`
}

func (q Question) HasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// QuestionResult is one entry of a graded result's detailed breakdown.
type QuestionResult struct {
	QuestionID    string  `json:"question_id"`
	Selected      *string `json:"selected"`
	Correct       string  `json:"correct"`
	IsCorrect     bool    `json:"is_correct"`
	PointsAwarded float64 `json:"points_awarded"`
	MaxPoints     float64 `json:"max_points"`
	Explanation   string  `json:"explanation,omitempty"`
}
