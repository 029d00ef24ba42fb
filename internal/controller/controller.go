package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/assessment-engine/internal/dto"
	"github.com/lshigami/assessment-engine/internal/grading"
	"github.com/lshigami/assessment-engine/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrAssessmentNotFound), errors.Is(err, service.ErrResultNotFound):
		return http.StatusNotFound
	case errors.Is(err, grading.ErrInvalidSubmission), errors.Is(err, service.ErrInvalidAssessment):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAlreadyAttempted):
		return http.StatusConflict
	case errors.Is(err, service.ErrGeneratorUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a dto.ErrorResponse. Internal errors are logged
// and their details withheld.
func RespondError(ctx *gin.Context, msg string, err error) {
	status := StatusFor(err)
	resp := dto.ErrorResponse{Message: msg}
	switch status {
	case http.StatusInternalServerError:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg(msg)
	case http.StatusConflict:
		resp.AlreadyAttempted = true
		resp.Details = []string{err.Error()}
	default:
		resp.Details = []string{err.Error()}
	}
	ctx.JSON(status, resp)
}

// BadRequest answers a request that failed binding.
func BadRequest(ctx *gin.Context, err error) {
	log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Failed to bind request")
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
}

const (
	healthy   = "healthy"
	unhealthy = "unhealthy"
)

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Health godoc
// @Summary Service and database health
// @Description Reports application health and whether the database answers a ping.
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse "Database unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	resp := dto.HealthResponse{
		Status:    healthy,
		Timestamp: time.Now().UTC(),
		Checks:    dto.HealthChecks{Database: healthy, Application: healthy},
	}

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()
	sqlDB, err := c.db.DB()
	if err == nil {
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		log.Error().Err(err).Msg("Database health check failed")
		resp.Status = unhealthy
		resp.Checks.Database = unhealthy
		ctx.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
