package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aptis-platform/scoring-service/internal/services"
	"github.com/aptis-platform/scoring-service/internal/utils"
)

type HandlerManager struct {
	scoringHandler *ScoringHandler
	reportHandler  *ReportHandler
}

func NewHandlerManager(
	scoringService services.ScoringService,
	reportService services.ReportService,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		scoringHandler: NewScoringHandler(scoringService, validator, logger),
		reportHandler:  NewReportHandler(reportService, logger),
	}
}

// SetupRoutes sets up all API routes. The auth middleware must put user_id
// and user_role in the Gin context for the grading endpoints.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if authMiddleware != nil {
		v1.Use(authMiddleware)
	}
	{
		// Scoring routes
		scoring := v1.Group("/scoring")
		{
			scoring.POST("/calculate", hm.scoringHandler.ScoreAnswer)
			scoring.POST("/attempts/:attempt_id/auto", hm.scoringHandler.GradeAttempt)
			scoring.GET("/attempts/:attempt_id/sections", hm.scoringHandler.SectionScores)
			scoring.POST("/questions/:question_id/regrade", hm.scoringHandler.RegradeQuestion)
		}

		// Report routes
		reports := v1.Group("/reports")
		{
			reports.GET("/attempts/:attempt_id/export", hm.reportHandler.ExportAttemptScores)
		}
	}
}
