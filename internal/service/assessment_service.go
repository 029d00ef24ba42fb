package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lshigami/assessment-engine/config"
	"github.com/lshigami/assessment-engine/internal/dto"
	"github.com/lshigami/assessment-engine/internal/model"
	"github.com/lshigami/assessment-engine/internal/repository"
	"github.com/lshigami/assessment-engine/internal/selection"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	StatusCompleted = "completed"
	StatusUpcoming  = "upcoming"
)

// AssessmentService covers authoring, assignment and retake grants.
type AssessmentService interface {
	CreateAssessment(ctx context.Context, req dto.AssessmentCreateDTO) (*dto.AssessmentResponseDTO, error)
	GetAssessment(ctx context.Context, id string) (*dto.AssessmentResponseDTO, error)
	ListAssessments(ctx context.Context) ([]dto.AssessmentResponseDTO, error)
	DeleteAssessment(ctx context.Context, id string) error
	UpdateAssignments(ctx context.Context, id string, userIDs []string) (*dto.AssessmentResponseDTO, error)
	GrantRetake(ctx context.Context, id, userID string) (*dto.AssessmentResponseDTO, error)
	ListForCandidate(ctx context.Context, userID string) ([]dto.CandidateAssessmentSummaryDTO, error)
}

type assessmentService struct {
	assessmentRepo repository.AssessmentRepository
	resultRepo     repository.ResultRepository
	generator      QuestionGeneratorService
	maxBankSize    int
}

func NewAssessmentService(
	assessmentRepo repository.AssessmentRepository,
	resultRepo repository.ResultRepository,
	generator QuestionGeneratorService,
	cfg *config.Config,
) AssessmentService {
	maxBank := cfg.Assessment.MaxBankSize
	if maxBank <= 0 {
		maxBank = selection.MaxBankSize
	}
	return &assessmentService{
		assessmentRepo: assessmentRepo,
		resultRepo:     resultRepo,
		generator:      generator,
		maxBankSize:    maxBank,
	}
}

func (s *assessmentService) CreateAssessment(ctx context.Context, req dto.AssessmentCreateDTO) (*dto.AssessmentResponseDTO, error) {
	var (
		questions []model.Question
		err       error
	)
	switch {
	case len(req.Questions) > 0:
		questions, err = buildQuestions(req.Questions)
		if err != nil {
			return nil, err
		}
	case strings.TrimSpace(req.Prompt) != "":
		if s.generator == nil {
			return nil, ErrGeneratorUnavailable
		}
		questions, err = s.generator.GenerateQuestions(ctx, req.Prompt, req.Difficulty, req.QuestionCount)
		if err != nil {
			return nil, fmt.Errorf("failed to generate questions: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: questions or a generation prompt are required", ErrInvalidAssessment)
	}

	questions = selection.Limit(questions, s.maxBankSize)
	if req.TimePerQuestion != nil {
		for i := range questions {
			limit := *req.TimePerQuestion
			questions[i].TimeLimitSeconds = &limit
		}
	}

	assessment := &model.Assessment{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		Difficulty:      req.Difficulty,
		CreatedBy:       req.CreatedBy,
		DurationMinutes: req.DurationMinutes,
		ScheduledFrom:   req.ScheduledFrom,
		ScheduledTo:     req.ScheduledTo,
	}
	if err := assessment.SetQuestions(questions); err != nil {
		return nil, err
	}
	assessment.SetAssignedUsers(req.AssignedTo)
	assessment.RetakePermissions = nil

	if err := s.assessmentRepo.Create(ctx, assessment); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create assessment")
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}
	log.Info().Str("assessmentID", assessment.ID).Int("questions", len(questions)).Msg("Assessment created")
	return toAssessmentResponse(assessment, true)
}

// buildQuestions validates examiner input and assigns ids where missing.
func buildQuestions(in []dto.QuestionCreateDTO) ([]model.Question, error) {
	out := make([]model.Question, 0, len(in))
	seenQuestion := make(map[string]struct{}, len(in))
	for qi, qd := range in {
		q := model.Question{
			ID:               strings.TrimSpace(qd.ID),
			Text:             qd.Text,
			Points:           qd.Points,
			TimeLimitSeconds: qd.TimeLimitSeconds,
			Explanation:      qd.Explanation,
		}
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if _, dup := seenQuestion[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrInvalidAssessment, q.ID)
		}
		seenQuestion[q.ID] = struct{}{}
		if q.Points <= 0 {
			q.Points = 1
		}
		if len(qd.Options) < 2 {
			return nil, fmt.Errorf("%w: question %d needs at least two options", ErrInvalidAssessment, qi+1)
		}

		seenOption := make(map[string]struct{}, len(qd.Options))
		for _, od := range qd.Options {
			opt := model.Option{ID: strings.TrimSpace(od.ID), Text: od.Text}
			if opt.ID == "" {
				opt.ID = uuid.NewString()
			}
			if _, dup := seenOption[opt.ID]; dup {
				return nil, fmt.Errorf("%w: question %d has duplicate option id %q", ErrInvalidAssessment, qi+1, opt.ID)
			}
			seenOption[opt.ID] = struct{}{}
			q.Options = append(q.Options, opt)
		}

		switch {
		case qd.CorrectOptionID != "":
			q.CorrectOptionID = qd.CorrectOptionID
		case qd.CorrectIndex != nil && *qd.CorrectIndex >= 0 && *qd.CorrectIndex < len(q.Options):
			q.CorrectOptionID = q.Options[*qd.CorrectIndex].ID
		}
		if !q.HasOption(q.CorrectOptionID) {
			return nil, fmt.Errorf("%w: question %d has no valid correct option", ErrInvalidAssessment, qi+1)
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *assessmentService) find(ctx context.Context, tx *gorm.DB, id string) (*model.Assessment, error) {
	assessment, err := s.assessmentRepo.FindByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to load assessment %s: %w", id, err)
	}
	return assessment, nil
}

func (s *assessmentService) GetAssessment(ctx context.Context, id string) (*dto.AssessmentResponseDTO, error) {
	assessment, err := s.find(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return toAssessmentResponse(assessment, true)
}

func (s *assessmentService) ListAssessments(ctx context.Context) ([]dto.AssessmentResponseDTO, error) {
	assessments, err := s.assessmentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	resp := make([]dto.AssessmentResponseDTO, 0, len(assessments))
	for i := range assessments {
		item, err := toAssessmentResponse(&assessments[i], false)
		if err != nil {
			log.Warn().Err(err).Str("assessmentID", assessments[i].ID).Msg("Skipping assessment with unreadable questions")
			continue
		}
		resp = append(resp, *item)
	}
	return resp, nil
}

func (s *assessmentService) DeleteAssessment(ctx context.Context, id string) error {
	if err := s.assessmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssessmentNotFound
		}
		return fmt.Errorf("failed to delete assessment %s: %w", id, err)
	}
	log.Info().Str("assessmentID", id).Msg("Assessment deleted")
	return nil
}

func (s *assessmentService) UpdateAssignments(ctx context.Context, id string, userIDs []string) (*dto.AssessmentResponseDTO, error) {
	assessment, err := s.find(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	assessment.SetAssignedUsers(userIDs)
	if err := s.assessmentRepo.Update(ctx, nil, assessment); err != nil {
		return nil, fmt.Errorf("failed to update assignments of %s: %w", id, err)
	}
	return toAssessmentResponse(assessment, false)
}

// GrantRetake is idempotent: granting twice leaves a single grant.
func (s *assessmentService) GrantRetake(ctx context.Context, id, userID string) (*dto.AssessmentResponseDTO, error) {
	assessment, err := s.find(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if assessment.GrantRetake(userID) {
		if err := s.assessmentRepo.Update(ctx, nil, assessment); err != nil {
			return nil, fmt.Errorf("failed to grant retake on %s: %w", id, err)
		}
		log.Info().Str("assessmentID", id).Str("userID", userID).Msg("Retake granted")
	}
	return toAssessmentResponse(assessment, false)
}

// ListForCandidate marks an assessment completed once the candidate has a
// graded attempt and holds no retake grant.
func (s *assessmentService) ListForCandidate(ctx context.Context, userID string) ([]dto.CandidateAssessmentSummaryDTO, error) {
	assessments, err := s.assessmentRepo.FindAssignedTo(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments for %s: %w", userID, err)
	}
	graded, err := s.resultRepo.FindGradedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for %s: %w", userID, err)
	}
	done := make(map[string]bool, len(graded))
	for _, r := range graded {
		done[r.AssessmentID] = true
	}

	resp := make([]dto.CandidateAssessmentSummaryDTO, 0, len(assessments))
	for i := range assessments {
		a := &assessments[i]
		status := StatusUpcoming
		if done[a.ID] && !a.HasRetakeGrant(userID) {
			status = StatusCompleted
		}
		resp = append(resp, dto.CandidateAssessmentSummaryDTO{
			ID:              a.ID,
			Title:           a.Title,
			Difficulty:      a.Difficulty,
			DurationMinutes: a.DurationMinutes,
			ScheduledFrom:   a.ScheduledFrom,
			ScheduledTo:     a.ScheduledTo,
			Status:          status,
			CreatedAt:       a.CreatedAt,
		})
	}
	return resp, nil
}
