package admin

import (
	"net/http"

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

// CreateAssessment godoc
// @Summary (Admin) Create an assessment
// @Description Creates an assessment from explicit questions, or generates them from a prompt when no questions are given. Banks are capped at 150 questions.
// @Tags Admin - Assessments
// @Accept json
// @Produce json
// @Param assessment body dto.AssessmentCreateDTO true "Assessment data"
// @Success 201 {object} dto.AssessmentResponseDTO "Assessment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 503 {object} dto.ErrorResponse "Question generator unavailable"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assessments [post]
func (c *AssessmentController) CreateAssessment(ctx *gin.Context) {
	var req dto.AssessmentCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, err)
		return
	}

	resp, err := c.assessmentService.CreateAssessment(ctx.Request.Context(), req)
	if err != nil {
		log.Warn().Err(err).Str("title", req.Title).Msg("Admin CreateAssessment: service error")
		controller.RespondError(ctx, "Failed to create assessment", err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListAssessments godoc
// @Summary (Admin) List assessments
// @Tags Admin - Assessments
// @Produce json
// @Success 200 {array} dto.AssessmentResponseDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assessments [get]
func (c *AssessmentController) ListAssessments(ctx *gin.Context) {
	list, err := c.assessmentService.ListAssessments(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, "Failed to retrieve assessments", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// GetAssessment godoc
// @Summary (Admin) Get an assessment with its graded results
// @Description Returns the full question bank with answer keys and every graded attempt, oldest first.
// @Tags Admin - Assessments
// @Produce json
// @Param assessment_id path string true "Assessment ID"
// @Success 200 {object} dto.AssessmentResultsDTO
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assessments/{assessment_id} [get]
func (c *AssessmentController) GetAssessment(ctx *gin.Context) {
	resp, err := c.attemptService.ListResults(ctx.Request.Context(), ctx.Param("assessment_id"))
	if err != nil {
		controller.RespondError(ctx, "Failed to retrieve assessment", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateAssignments godoc
// @Summary (Admin) Replace the assigned candidates
// @Tags Admin - Assessments
// @Accept json
// @Produce json
// @Param assessment_id path string true "Assessment ID"
// @Param body body dto.AssignmentUpdateDTO true "Candidate user IDs"
// @Success 200 {object} dto.AssessmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Router /admin/assessments/{assessment_id}/assignments [patch]
func (c *AssessmentController) UpdateAssignments(ctx *gin.Context) {
	var req dto.AssignmentUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, err)
		return
	}
	resp, err := c.assessmentService.UpdateAssignments(ctx.Request.Context(), ctx.Param("assessment_id"), req.AssignedTo)
	if err != nil {
		controller.RespondError(ctx, "Failed to update assignments", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GrantRetake godoc
// @Summary (Admin) Allow a candidate one more attempt
// @Description Granting twice is a no-op. The grant is consumed when the retake is graded.
// @Tags Admin - Assessments
// @Accept json
// @Produce json
// @Param assessment_id path string true "Assessment ID"
// @Param body body dto.RetakeGrantDTO true "Candidate"
// @Success 200 {object} dto.AssessmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Router /admin/assessments/{assessment_id}/retake [post]
func (c *AssessmentController) GrantRetake(ctx *gin.Context) {
	var req dto.RetakeGrantDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, err)
		return
	}
	assessmentID := ctx.Param("assessment_id")
	resp, err := c.assessmentService.GrantRetake(ctx.Request.Context(), assessmentID, req.UserID)
	if err != nil {
		controller.RespondError(ctx, "Failed to grant retake", err)
		return
	}
	log.Info().Str("assessmentID", assessmentID).Str("userID", req.UserID).Msg("Retake granted")
	ctx.JSON(http.StatusOK, resp)
}

// UserResults godoc
// @Summary (Admin) Graded attempts of one candidate
// @Tags Admin - Assessments
// @Produce json
// @Param assessment_id path string true "Assessment ID"
// @Param user_id path string true "Candidate user ID"
// @Success 200 {array} dto.AttemptResultDTO
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Router /admin/assessments/{assessment_id}/results/{user_id} [get]
func (c *AssessmentController) UserResults(ctx *gin.Context) {
	results, err := c.attemptService.UserResults(ctx.Request.Context(), ctx.Param("assessment_id"), ctx.Param("user_id"))
	if err != nil {
		controller.RespondError(ctx, "Failed to retrieve results", err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}

// DeleteAssessment godoc
// @Summary (Admin) Delete an assessment
// @Tags Admin - Assessments
// @Param assessment_id path string true "Assessment ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Router /admin/assessments/{assessment_id} [delete]
func (c *AssessmentController) DeleteAssessment(ctx *gin.Context) {
	if err := c.assessmentService.DeleteAssessment(ctx.Request.Context(), ctx.Param("assessment_id")); err != nil {
		controller.RespondError(ctx, "Failed to delete assessment", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ResultsByUser godoc
// @Summary (Admin) A candidate's results across all assessments
// @Description Graded attempts of one user, newest first, with the assessment title and percentage.
// @Tags Admin - Users
// @Produce json
// @Param user_id path string true "Candidate user ID"
// @Success 200 {object} dto.UserResultsDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/users/{user_id}/results [get]
func (c *AssessmentController) ResultsByUser(ctx *gin.Context) {
	resp, err := c.attemptService.ResultsByUser(ctx.Request.Context(), ctx.Param("user_id"))
	if err != nil {
		controller.RespondError(ctx, "Failed to retrieve user results", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
