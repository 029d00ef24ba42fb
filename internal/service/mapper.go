package service

import (
	"github.com/jinzhu/copier"
	"github.com/lshigami/assessment-engine/internal/dto"
	"github.com/lshigami/assessment-engine/internal/grading"
	"github.com/lshigami/assessment-engine/internal/model"
)

func questionIDs(qs []model.Question) []string {
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return ids
}

// presentedQuestions returns the bank questions named by ids, in ids order.
// Unknown ids are skipped. A nil ids slice means the whole bank.
func presentedQuestions(bank []model.Question, ids []string) []model.Question {
	if ids == nil {
		return bank
	}
	byID := make(map[string]model.Question, len(bank))
	for _, q := range bank {
		byID[q.ID] = q
	}
	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			out = append(out, q)
		}
	}
	return out
}

func toAnswerKey(assessmentID string, qs []model.Question) grading.AnswerKey {
	key := grading.AnswerKey{AssessmentID: assessmentID, Questions: make([]grading.Question, 0, len(qs))}
	for _, q := range qs {
		gq := grading.Question{
			ID:               q.ID,
			Text:             q.Text,
			CorrectOptionID:  q.CorrectOptionID,
			Points:           q.Points,
			TimeLimitSeconds: q.TimeLimitSeconds,
			Explanation:      q.Explanation,
			Options:          make([]grading.Choice, len(q.Options)),
		}
		for i, o := range q.Options {
			gq.Options[i] = grading.Choice{ID: o.ID, Text: o.Text}
		}
		key.Questions = append(key.Questions, gq)
	}
	return key
}

func toCandidateQuestions(qs []model.Question) []dto.CandidateQuestionDTO {
	out := make([]dto.CandidateQuestionDTO, 0, len(qs))
	for _, q := range qs {
		cq := dto.CandidateQuestionDTO{
			ID:               q.ID,
			Text:             q.Text,
			Points:           q.Points,
			TimeLimitSeconds: q.TimeLimitSeconds,
		}
		copier.Copy(&cq.Options, &q.Options)
		if cq.Points <= 0 {
			cq.Points = 1
		}
		out = append(out, cq)
	}
	return out
}

func toExaminerQuestions(qs []model.Question) []dto.QuestionDTO {
	out := make([]dto.QuestionDTO, 0, len(qs))
	for _, q := range qs {
		eq := dto.QuestionDTO{}
		copier.Copy(&eq, &q)
		copier.Copy(&eq.Options, &q.Options)
		if eq.Points <= 0 {
			eq.Points = 1
		}
		out = append(out, eq)
	}
	return out
}

func toAssessmentResponse(a *model.Assessment, withQuestions bool) (*dto.AssessmentResponseDTO, error) {
	var resp dto.AssessmentResponseDTO
	copier.Copy(&resp, a)

	qs, err := a.QuestionList()
	if err != nil {
		return nil, err
	}
	resp.QuestionCount = len(qs)
	if withQuestions {
		resp.Questions = toExaminerQuestions(qs)
	}
	resp.AssignedTo = nonNil(a.AssignedUsers())
	resp.RetakePermissions = nonNil(a.RetakeGrants())
	return &resp, nil
}

func toCandidateAssessment(a *model.Assessment, attemptNumber int, qs []model.Question) dto.CandidateAssessmentDTO {
	var resp dto.CandidateAssessmentDTO
	copier.Copy(&resp, a)
	resp.AttemptNumber = attemptNumber
	resp.Questions = toCandidateQuestions(qs)
	return resp
}

func toResultDTO(r *model.Result, sc ScoreConverterService) dto.AttemptResultDTO {
	var resp dto.AttemptResultDTO
	copier.Copy(&resp, r)
	copier.Copy(&resp.Detailed, r.Details())
	resp.ScorePercent = sc.ToPercent(r.Score, r.MaxScore)
	resp.PerformanceBand = sc.PerformanceBand(resp.ScorePercent)
	resp.Analytics = dto.AnalyticsDTO{
		TimeTakenSeconds:          r.TimeTakenSeconds,
		AccuracyPercent:           r.AccuracyPercent,
		AvgTimePerQuestionSeconds: r.AvgTimePerQuestionSeconds,
	}
	return resp
}

func toQuestionResults(details []grading.Detail) []model.QuestionResult {
	out := make([]model.QuestionResult, 0, len(details))
	copier.Copy(&out, &details)
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
