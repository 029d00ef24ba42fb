package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/assessment-engine/config"
	"github.com/lshigami/assessment-engine/database"
	_ "github.com/lshigami/assessment-engine/docs" // Swagger docs
	"github.com/lshigami/assessment-engine/internal/controller"
	adminctrl "github.com/lshigami/assessment-engine/internal/controller/admin"
	userctrl "github.com/lshigami/assessment-engine/internal/controller/user"
	"github.com/lshigami/assessment-engine/internal/logger"
	"github.com/lshigami/assessment-engine/internal/middleware"
	"github.com/lshigami/assessment-engine/internal/model"
	"github.com/lshigami/assessment-engine/internal/repository"
	"github.com/lshigami/assessment-engine/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Assessment Engine API
// @version 1.0
// @description Grading, attempt lifecycle and proctoring for multiple-choice assessments.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			controller.NewHealthController,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewAssessmentRepository,
			repository.NewResultRepository,
		),

		fx.Provide(
			service.NewGeminiQuestionGenerator,
			service.NewScoreConverterService,
			service.NewAssessmentService,
			service.NewAttemptService,
		),

		fx.Provide(
			middleware.NewRateLimiter,
			adminctrl.NewAssessmentController,
			userctrl.NewAssessmentController,
			userctrl.NewProctorController,
		),

		fx.Invoke(logger.Apply),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

func NewGinEngine(cfg *config.Config, health *controller.HealthController) *gin.Engine {
	if logger.ParseLevel(cfg.Log.Level) == zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	origins := cfg.CORS.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: origins[0] != "*",
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", health.Health)

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	limiter *middleware.RateLimiter,
	adminCtrl *adminctrl.AssessmentController,
	candidateCtrl *userctrl.AssessmentController,
	proctorCtrl *userctrl.ProctorController,
) {
	api := router.Group("/api/v1", limiter.Middleware())

	admin := api.Group("/admin/assessments")
	{
		admin.POST("", adminCtrl.CreateAssessment)
		admin.GET("", adminCtrl.ListAssessments)
		admin.GET("/:assessment_id", adminCtrl.GetAssessment)
		admin.DELETE("/:assessment_id", adminCtrl.DeleteAssessment)
		admin.PATCH("/:assessment_id/assignments", adminCtrl.UpdateAssignments)
		admin.POST("/:assessment_id/retake", adminCtrl.GrantRetake)
		admin.GET("/:assessment_id/results/:user_id", adminCtrl.UserResults)
	}
	api.GET("/admin/users/:user_id/results", adminCtrl.ResultsByUser)

	api.GET("/candidate/assessments", candidateCtrl.ListAssessments)
	assessments := api.Group("/assessments")
	{
		assessments.GET("/:assessment_id", candidateCtrl.GetAssessment)
		assessments.POST("/:assessment_id/start", candidateCtrl.StartAttempt)
		assessments.POST("/:assessment_id/grade", candidateCtrl.GradeAttempt)
		assessments.GET("/:assessment_id/proctor", proctorCtrl.Proctor)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Assessment API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(&model.Assessment{}, &model.Result{}); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
