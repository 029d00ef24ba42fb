package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Assessment struct {
	ID                string         `gorm:"primaryKey;size:64" json:"id"`
	Title             string         `gorm:"not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description,omitempty"`
	Difficulty        string         `gorm:"size:32" json:"difficulty,omitempty"`
	CreatedBy         string         `gorm:"size:64;index" json:"created_by,omitempty"`
	DurationMinutes   *int           `json:"duration_minutes,omitempty"` // advisory only
	ScheduledFrom     *time.Time     `json:"scheduled_from,omitempty"`
	ScheduledTo       *time.Time     `json:"scheduled_to,omitempty"`
	Questions         datatypes.JSON `gorm:"not null" json:"questions"`
	AssignedTo        datatypes.JSON `json:"assigned_to,omitempty"`
	RetakePermissions datatypes.JSON `json:"retake_permissions,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuestionList decodes the answer key.
func (a *Assessment) QuestionList() ([]Question, error) {
	if len(a.Questions) == 0 {
		return nil, nil
	}
	var qs []Question
	if err := json.Unmarshal(a.Questions, &qs); err != nil {
		return nil, fmt.Errorf("failed to decode questions of assessment %s: %w", a.ID, err)
	}
	return qs, nil
}

func (a *Assessment) SetQuestions(qs []Question) error {
	if qs == nil {
		qs = []Question{}
	}
	raw, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}
	a.Questions = raw
	return nil
}

func (a *Assessment) AssignedUsers() []string {
	return decodeIDs(a.AssignedTo)
}

func (a *Assessment) SetAssignedUsers(ids []string) {
	a.AssignedTo = encodeIDs(ids)
}

func (a *Assessment) IsAssignedTo(userID string) bool {
	return slices.Contains(a.AssignedUsers(), userID)
}

func (a *Assessment) RetakeGrants() []string {
	return decodeIDs(a.RetakePermissions)
}

func (a *Assessment) HasRetakeGrant(userID string) bool {
	return slices.Contains(a.RetakeGrants(), userID)
}

// GrantRetake reports whether the grant set changed.
func (a *Assessment) GrantRetake(userID string) bool {
	grants := a.RetakeGrants()
	if slices.Contains(grants, userID) {
		return false
	}
	a.RetakePermissions = encodeIDs(append(grants, userID))
	return true
}

// ConsumeRetake removes the user's grant and reports whether one existed.
// A grant is "one more time" as the examiner dialog words it, so grading the
// retake uses it up.
func (a *Assessment) ConsumeRetake(userID string) bool {
	grants := a.RetakeGrants()
	i := slices.Index(grants, userID)
	if i < 0 {
		return false
	}
	a.RetakePermissions = encodeIDs(slices.Delete(grants, i, i+1))
	return true
}

func decodeIDs(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}
	return ids
}

func encodeIDs(ids []string) datatypes.JSON {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	raw, _ := json.Marshal(out)
	return raw
}
