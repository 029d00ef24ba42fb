package user

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/assessment-engine/internal/controller"
	"github.com/lshigami/assessment-engine/internal/dto"
	"github.com/lshigami/assessment-engine/internal/service"
	"github.com/rs/zerolog/log"
)

type AssessmentController struct {
	assessmentService service.AssessmentService
	attemptService    service.AttemptService
}

func NewAssessmentController(as service.AssessmentService, ats service.AttemptService) *AssessmentController {
	return &AssessmentController{assessmentService: as, attemptService: ats}
}

func alreadyAttempted(ctx *gin.Context) {
	ctx.JSON(http.StatusConflict, dto.ErrorResponse{
		Message:          "You have already completed this assessment.",
		AlreadyAttempted: true,
	})
}

// ListAssessments godoc
// @Summary (Candidate) List assigned assessments
// @Description Assessments assigned to the user, marked "completed" once graded unless a retake was granted.
// @Tags Candidate - Assessments
// @Produce json
// @Param user_id query string true "Candidate user ID"
// @Success 200 {array} dto.CandidateAssessmentSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Missing user_id"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /candidate/assessments [get]
func (c *AssessmentController) ListAssessments(ctx *gin.Context) {
	userID := strings.TrimSpace(ctx.Query("user_id"))
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "user_id query parameter is required"})
		return
	}
	list, err := c.assessmentService.ListForCandidate(ctx.Request.Context(), userID)
	if err != nil {
		controller.RespondError(ctx, "Failed to retrieve assessments", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// GetAssessment godoc
// @Summary (Candidate) Get the questions of an assessment
// @Description Returns the presented subset of questions without answer keys, or 409 when the candidate already completed the assessment.
// @Tags Candidate - Assessments
// @Produce json
// @Param assessment_id path string true "Assessment ID"
// @Param user_id query string true "Candidate user ID"
// @Success 200 {object} dto.CandidateAssessmentDTO
// @Failure 400 {object} dto.ErrorResponse "Missing user_id"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 409 {object} dto.ErrorResponse "Already attempted"
// @Router /assessments/{assessment_id} [get]
func (c *AssessmentController) GetAssessment(ctx *gin.Context) {
	assessmentID := ctx.Param("assessment_id")
	userID := strings.TrimSpace(ctx.Query("user_id"))
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "user_id query parameter is required"})
		return
	}

	ok, err := c.attemptService.CanAttempt(ctx.Request.Context(), assessmentID, userID)
	if err != nil {
		controller.RespondError(ctx, "Failed to load assessment", err)
		return
	}
	if !ok {
		log.Info().Str("assessmentID", assessmentID).Str("userID", userID).Msg("Candidate GetAssessment: already attempted")
		alreadyAttempted(ctx)
		return
	}

	resp, err := c.attemptService.PresentedAssessment(ctx.Request.Context(), assessmentID, userID)
	if err != nil {
		controller.RespondError(ctx, "Failed to load assessment", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// StartAttempt godoc
// @Summary (Candidate) Start an attempt
// @Description Records a started placeholder for the candidate. Calling it again returns the same attempt.
// @Tags Candidate - Attempts
// @Accept json
// @Produce json
// @Param assessment_id path string true "Assessment ID"
// @Param body body dto.StartAttemptDTO true "Candidate"
// @Success 200 {object} dto.StartAttemptResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 409 {object} dto.ErrorResponse "Already attempted"
// @Router /assessments/{assessment_id}/start [post]
func (c *AssessmentController) StartAttempt(ctx *gin.Context) {
	assessmentID := ctx.Param("assessment_id")
	var req dto.StartAttemptDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, err)
		return
	}

	ok, err := c.attemptService.CanAttempt(ctx.Request.Context(), assessmentID, req.UserID)
	if err != nil {
		controller.RespondError(ctx, "Failed to start attempt", err)
		return
	}
	if !ok {
		alreadyAttempted(ctx)
		return
	}

	resp, err := c.attemptService.Start(ctx.Request.Context(), assessmentID, req.UserID)
	if err != nil {
		controller.RespondError(ctx, "Failed to start attempt", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GradeAttempt godoc
// @Summary (Candidate) Submit answers for grading
// @Description Grades the answers against the questions presented in this attempt and records the result.
// @Tags Candidate - Attempts
// @Accept json
// @Produce json
// @Param assessment_id path string true "Assessment ID"
// @Param submission body dto.GradeSubmissionDTO true "Answers and proctoring data"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid submission"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 409 {object} dto.ErrorResponse "Already attempted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assessments/{assessment_id}/grade [post]
func (c *AssessmentController) GradeAttempt(ctx *gin.Context) {
	assessmentID := ctx.Param("assessment_id")
	var req dto.GradeSubmissionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, err)
		return
	}

	log.Info().Str("assessmentID", assessmentID).Str("userID", req.UserID).
		Int("answerCount", len(req.Answers)).Int("tabSwitches", req.TabSwitchCount).
		Msg("Received submission for grading")

	result, err := c.attemptService.Grade(ctx.Request.Context(), assessmentID, req)
	if err != nil {
		controller.RespondError(ctx, "Failed to grade submission", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
