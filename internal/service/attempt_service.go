package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/assessment-engine/config"
	"github.com/lshigami/assessment-engine/internal/dto"
	"github.com/lshigami/assessment-engine/internal/grading"
	"github.com/lshigami/assessment-engine/internal/model"
	"github.com/lshigami/assessment-engine/internal/repository"
	"github.com/lshigami/assessment-engine/internal/selection"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService drives an attempt from start to graded result against the ledger.
type AttemptService interface {
	// Start records a started placeholder for the pair unless one exists.
	// It does not check retake eligibility; callers gate it with CanAttempt.
	Start(ctx context.Context, assessmentID, userID string) (*dto.StartAttemptResponseDTO, error)
	CanAttempt(ctx context.Context, assessmentID, userID string) (bool, error)
	// PresentedAssessment returns the questions the candidate sees next.
	PresentedAssessment(ctx context.Context, assessmentID, userID string) (*dto.CandidateAssessmentDTO, error)
	Grade(ctx context.Context, assessmentID string, req dto.GradeSubmissionDTO) (*dto.AttemptResultDTO, error)
	AttemptNumber(ctx context.Context, assessmentID, userID string, resultID uint) (int, error)
	ListResults(ctx context.Context, assessmentID string) (*dto.AssessmentResultsDTO, error)
	UserResults(ctx context.Context, assessmentID, userID string) ([]dto.AttemptResultDTO, error)
	// ResultsByUser is the candidate's graded history over all assessments, newest first.
	ResultsByUser(ctx context.Context, userID string) (*dto.UserResultsDTO, error)
}

type attemptService struct {
	db             *gorm.DB
	assessmentRepo repository.AssessmentRepository
	resultRepo     repository.ResultRepository
	engine         *grading.Engine
	selector       *selection.Selector
	sc             ScoreConverterService
	now            func() time.Time
}

func NewAttemptService(
	db *gorm.DB,
	assessmentRepo repository.AssessmentRepository,
	resultRepo repository.ResultRepository,
	sc ScoreConverterService,
	cfg *config.Config,
) AttemptService {
	return &attemptService{
		db:             db,
		assessmentRepo: assessmentRepo,
		resultRepo:     resultRepo,
		engine:         grading.NewEngine(),
		selector:       selection.NewSelector(cfg.Assessment.SelectionSecret, cfg.Assessment.MaxPresented),
		sc:             sc,
		now:            time.Now,
	}
}

func (s *attemptService) loadAssessment(ctx context.Context, tx *gorm.DB, id string) (*model.Assessment, []model.Question, error) {
	assessment, err := s.assessmentRepo.FindByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAssessmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to load assessment %s: %w", id, err)
	}
	bank, err := assessment.QuestionList()
	if err != nil {
		return nil, nil, err
	}
	return assessment, bank, nil
}

func placeholderOf(rows []model.Result) *model.Result {
	for i := range rows {
		if rows[i].IsPlaceholder() {
			return &rows[i]
		}
	}
	return nil
}

func hasGraded(rows []model.Result) bool {
	for _, r := range rows {
		if r.Status == model.AttemptGraded {
			return true
		}
	}
	return false
}

func nextAttemptNumber(rows []model.Result) int {
	next := 1
	for _, r := range rows {
		if r.AttemptNumber >= next {
			next = r.AttemptNumber + 1
		}
	}
	return next
}

func (s *attemptService) Start(ctx context.Context, assessmentID, userID string) (*dto.StartAttemptResponseDTO, error) {
	assessment, bank, err := s.loadAssessment(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}

	var started *model.Result
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.resultRepo.FindByPair(ctx, tx, assessmentID, userID, true)
		if err != nil {
			return err
		}
		if p := placeholderOf(rows); p != nil {
			started = p
			return nil
		}
		next := nextAttemptNumber(rows)
		r := &model.Result{
			AssessmentID:  assessmentID,
			UserID:        userID,
			AttemptNumber: next,
			Status:        model.AttemptStarted,
			StartedAt:     s.now(),
		}
		r.SetPresentedIDs(s.selector.Pick(assessmentID, userID, next, questionIDs(bank)))
		if err := s.resultRepo.Create(ctx, tx, r); err != nil {
			return err
		}
		started = r
		return nil
	})
	if err != nil {
		// A concurrent start for the same pair wins the unique index; reuse its placeholder.
		rows, findErr := s.resultRepo.FindByPair(ctx, nil, assessmentID, userID, false)
		if findErr != nil || placeholderOf(rows) == nil {
			log.Error().Err(err).Str("assessmentID", assessmentID).Str("userID", userID).Msg("Failed to start attempt")
			return nil, fmt.Errorf("failed to start attempt: %w", err)
		}
		started = placeholderOf(rows)
	}

	log.Info().Str("assessmentID", assessmentID).Str("userID", userID).
		Int("attempt", started.AttemptNumber).Msg("Attempt started")
	return &dto.StartAttemptResponseDTO{
		ResultID:      started.ID,
		AttemptNumber: started.AttemptNumber,
		StartedAt:     started.StartedAt,
		Assessment:    toCandidateAssessment(assessment, started.AttemptNumber, presentedQuestions(bank, started.PresentedIDs())),
	}, nil
}

// CanAttempt is false only when a graded result exists and no retake is granted.
// A started placeholder does not block.
func (s *attemptService) CanAttempt(ctx context.Context, assessmentID, userID string) (bool, error) {
	assessment, _, err := s.loadAssessment(ctx, nil, assessmentID)
	if err != nil {
		return false, err
	}
	graded, err := s.resultRepo.CountGraded(ctx, nil, assessmentID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to count attempts: %w", err)
	}
	return graded == 0 || assessment.HasRetakeGrant(userID), nil
}

func (s *attemptService) PresentedAssessment(ctx context.Context, assessmentID, userID string) (*dto.CandidateAssessmentDTO, error) {
	assessment, bank, err := s.loadAssessment(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	rows, err := s.resultRepo.FindByPair(ctx, nil, assessmentID, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	var (
		attempt int
		ids     []string
	)
	if p := placeholderOf(rows); p != nil {
		attempt, ids = p.AttemptNumber, p.PresentedIDs()
	} else {
		attempt = nextAttemptNumber(rows)
		ids = s.selector.Pick(assessmentID, userID, attempt, questionIDs(bank))
	}
	resp := toCandidateAssessment(assessment, attempt, presentedQuestions(bank, ids))
	return &resp, nil
}

func toSubmission(assessmentID string, req dto.GradeSubmissionDTO) grading.Submission {
	sub := grading.Submission{
		AssessmentID:      assessmentID,
		UserID:            req.UserID,
		Answers:           make(map[string]string, len(req.Answers)),
		TabSwitchCount:    req.TabSwitchCount,
		TerminationReason: req.TerminationReason,
	}
	for _, a := range req.Answers {
		if a.OptionID != "" {
			sub.Answers[a.QuestionID] = a.OptionID
		}
	}
	if req.TimeStarted != nil {
		sub.StartedAt = *req.TimeStarted
	}
	if req.TimeSubmitted != nil {
		sub.SubmittedAt = *req.TimeSubmitted
	}
	return sub
}

// sameSession finds a graded row produced by an earlier delivery of this very
// submission, recognised by its client start time.
func sameSession(rows []model.Result, startedAt *time.Time) *model.Result {
	if startedAt == nil || startedAt.IsZero() {
		return nil
	}
	for i := len(rows) - 1; i >= 0; i-- {
		r := &rows[i]
		if r.Status == model.AttemptGraded && r.TimeStarted != nil &&
			r.TimeStarted.Truncate(time.Microsecond).Equal(startedAt.Truncate(time.Microsecond)) {
			return r
		}
	}
	return nil
}

func applyReport(r *model.Result, report grading.Report, req dto.GradeSubmissionDTO) error {
	gradedAt := report.GradedAt
	r.Status = model.AttemptGraded
	r.Score = report.Score
	r.MaxScore = report.MaxScore
	r.ScorePercent = report.ScorePercent
	r.TotalQuestions = report.TotalQuestions
	r.CorrectCount = report.CorrectCount
	r.TimeTakenSeconds = report.Analytics.TimeTakenSeconds
	r.AccuracyPercent = report.Analytics.AccuracyPercent
	r.AvgTimePerQuestionSeconds = report.Analytics.AvgTimePerQuestionSeconds
	r.TimeStarted = req.TimeStarted
	r.TimeSubmitted = req.TimeSubmitted
	r.GradedAt = &gradedAt
	r.TabSwitchCount = report.TabSwitchCount
	r.TerminationReason = report.TerminationReason
	return r.SetDetails(toQuestionResults(report.Detailed))
}

// Grade scores the submission and writes it to the ledger in one transaction:
// a started placeholder is overwritten in place, a repeated delivery of an
// already graded session overwrites that row, anything else is a new attempt.
func (s *attemptService) Grade(ctx context.Context, assessmentID string, req dto.GradeSubmissionDTO) (*dto.AttemptResultDTO, error) {
	if _, _, err := s.loadAssessment(ctx, nil, assessmentID); err != nil {
		return nil, err
	}
	if req.TimeSubmitted == nil {
		submitted := s.now()
		req.TimeSubmitted = &submitted
	}
	sub := toSubmission(assessmentID, req)

	var saved *model.Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assessment, bank, err := s.loadAssessment(ctx, tx, assessmentID)
		if err != nil {
			return err
		}
		rows, err := s.resultRepo.FindByPair(ctx, tx, assessmentID, req.UserID, true)
		if err != nil {
			return err
		}

		target := placeholderOf(rows)
		if target == nil {
			target = sameSession(rows, req.TimeStarted)
		}
		var ids []string
		if target != nil {
			ids = target.PresentedIDs()
			if req.TimeStarted == nil && target.IsPlaceholder() {
				started := target.StartedAt
				req.TimeStarted = &started
				sub.StartedAt = started
			}
		} else {
			if hasGraded(rows) && !assessment.HasRetakeGrant(req.UserID) {
				return ErrAlreadyAttempted
			}
			next := nextAttemptNumber(rows)
			ids = s.selector.Pick(assessmentID, req.UserID, next, questionIDs(bank))
			target = &model.Result{
				AssessmentID:  assessmentID,
				UserID:        req.UserID,
				AttemptNumber: next,
				StartedAt:     s.now(),
			}
			target.SetPresentedIDs(ids)
		}

		report, err := s.engine.Grade(toAnswerKey(assessmentID, presentedQuestions(bank, ids)), sub)
		if err != nil {
			return err
		}
		if err := applyReport(target, report, req); err != nil {
			return err
		}

		isRetake := false
		for _, r := range rows {
			if r.Status == model.AttemptGraded && r.ID != target.ID {
				isRetake = true
				break
			}
		}

		if target.ID == 0 {
			err = s.resultRepo.Create(ctx, tx, target)
		} else {
			err = s.resultRepo.Update(ctx, tx, target)
		}
		if err != nil {
			return err
		}

		// The grant covers exactly one more graded attempt.
		if isRetake && assessment.ConsumeRetake(req.UserID) {
			if err := s.assessmentRepo.Update(ctx, tx, assessment); err != nil {
				return err
			}
		}
		saved = target
		return nil
	})
	if err != nil {
		if errors.Is(err, grading.ErrInvalidSubmission) || errors.Is(err, ErrAssessmentNotFound) || errors.Is(err, ErrAlreadyAttempted) {
			return nil, err
		}
		log.Error().Err(err).Str("assessmentID", assessmentID).Str("userID", req.UserID).Msg("Failed to record graded attempt")
		return nil, fmt.Errorf("failed to grade attempt: %w", err)
	}

	log.Info().Str("assessmentID", assessmentID).Str("userID", req.UserID).
		Int("attempt", saved.AttemptNumber).Float64("score", saved.Score).Float64("maxScore", saved.MaxScore).
		Int("tabSwitches", saved.TabSwitchCount).Msg("Attempt graded")
	resp := toResultDTO(saved, s.sc)
	return &resp, nil
}

func (s *attemptService) gradedFor(ctx context.Context, assessmentID, userID string) ([]model.Result, error) {
	rows, err := s.resultRepo.FindGraded(ctx, assessmentID, &userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	return rows, nil
}

// AttemptNumber is the 1-based position of the result among the pair's graded
// results ordered by graded_at.
func (s *attemptService) AttemptNumber(ctx context.Context, assessmentID, userID string, resultID uint) (int, error) {
	rows, err := s.gradedFor(ctx, assessmentID, userID)
	if err != nil {
		return 0, err
	}
	for i, r := range rows {
		if r.ID == resultID {
			return i + 1, nil
		}
	}
	return 0, ErrResultNotFound
}

func (s *attemptService) UserResults(ctx context.Context, assessmentID, userID string) ([]dto.AttemptResultDTO, error) {
	if _, _, err := s.loadAssessment(ctx, nil, assessmentID); err != nil {
		return nil, err
	}
	rows, err := s.gradedFor(ctx, assessmentID, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AttemptResultDTO, 0, len(rows))
	for i := range rows {
		item := toResultDTO(&rows[i], s.sc)
		item.AttemptNumber = i + 1
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *attemptService) ListResults(ctx context.Context, assessmentID string) (*dto.AssessmentResultsDTO, error) {
	assessment, _, err := s.loadAssessment(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	rows, err := s.resultRepo.FindGraded(ctx, assessmentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	meta, err := toAssessmentResponse(assessment, false)
	if err != nil {
		return nil, err
	}
	resp := &dto.AssessmentResultsDTO{Assessment: *meta, Results: make([]dto.ExaminerResultDTO, 0, len(rows))}
	perUser := make(map[string]int)
	for i := range rows {
		perUser[rows[i].UserID]++
		item := dto.ExaminerResultDTO{
			AttemptResultDTO: toResultDTO(&rows[i], s.sc),
			RetakeGranted:    assessment.HasRetakeGrant(rows[i].UserID),
		}
		item.AttemptNumber = perUser[rows[i].UserID]
		item.IsReattempt = item.AttemptNumber > 1
		resp.Results = append(resp.Results, item)
	}
	return resp, nil
}

const unknownAssessmentTitle = "Unknown Assessment"

func (s *attemptService) ResultsByUser(ctx context.Context, userID string) (*dto.UserResultsDTO, error) {
	rows, err := s.resultRepo.FindGradedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	titles := make(map[string]string)
	resp := &dto.UserResultsDTO{UserID: userID, Results: make([]dto.UserResultDTO, 0, len(rows))}
	for _, r := range rows {
		title, ok := titles[r.AssessmentID]
		if !ok {
			title = unknownAssessmentTitle
			assessment, err := s.assessmentRepo.FindByID(ctx, nil, r.AssessmentID)
			switch {
			case err == nil:
				title = assessment.Title
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return nil, fmt.Errorf("failed to load assessment %s: %w", r.AssessmentID, err)
			}
			titles[r.AssessmentID] = title
		}

		percent := s.sc.ToPercent(r.Score, r.MaxScore)
		resp.Results = append(resp.Results, dto.UserResultDTO{
			ResultID:          r.ID,
			AssessmentID:      r.AssessmentID,
			AssessmentTitle:   title,
			AttemptNumber:     r.AttemptNumber,
			Score:             r.Score,
			MaxScore:          r.MaxScore,
			Percentage:        percent,
			PerformanceBand:   s.sc.PerformanceBand(percent),
			TabSwitchCount:    r.TabSwitchCount,
			TerminationReason: r.TerminationReason,
			GradedAt:          r.GradedAt,
		})
	}
	return resp, nil
}
