package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aptis-platform/scoring-service/internal/models"
	"github.com/aptis-platform/scoring-service/internal/services"
	"github.com/aptis-platform/scoring-service/internal/utils"
)

type ScoringHandler struct {
	BaseHandler
	scoringService services.ScoringService
	validator      *utils.Validator
}

func NewScoringHandler(
	scoringService services.ScoringService,
	validator *utils.Validator,
	logger utils.Logger,
) *ScoringHandler {
	return &ScoringHandler{
		BaseHandler:    NewBaseHandler(logger),
		scoringService: scoringService,
		validator:      validator,
	}
}

// ScoreAnswer scores a submitted answer against a question without persisting
// @Summary Score answer preview
// @Description Grades an answer payload against a question and returns the result without storing it
// @Tags scoring
// @Accept json
// @Produce json
// @Param answer body services.ScoreAnswerRequest true "Answer payload"
// @Success 200 {object} scoring.Result
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /scoring/calculate [post]
func (h *ScoringHandler) ScoreAnswer(c *gin.Context) {
	var req services.ScoreAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Scoring answer preview", "question_id", req.QuestionID)

	result, err := h.scoringService.ScoreAnswer(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GradeAttempt grades every answer of a submitted attempt
// @Summary Grade attempt
// @Description Scores all answers of a submitted attempt and persists grades and totals
// @Tags scoring
// @Produce json
// @Param attempt_id path uint true "Attempt ID"
// @Success 200 {object} services.AttemptGradeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /scoring/attempts/{attempt_id}/auto [post]
func (h *ScoringHandler) GradeAttempt(c *gin.Context) {
	attemptID := h.parseIDParam(c, "attempt_id")
	if attemptID == 0 {
		return
	}

	graderID, ok := h.requireGrader(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Grading attempt", "attempt_id", attemptID)

	result, err := h.scoringService.GradeAttempt(c.Request.Context(), attemptID, graderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SectionScores returns the per-section score breakdown of an attempt
// @Summary Section scores
// @Description Aggregates an attempt's answers per exam section
// @Tags scoring
// @Produce json
// @Param attempt_id path uint true "Attempt ID"
// @Success 200 {object} SuccessResponse{data=[]services.SectionScoreResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /scoring/attempts/{attempt_id}/sections [get]
func (h *ScoringHandler) SectionScores(c *gin.Context) {
	attemptID := h.parseIDParam(c, "attempt_id")
	if attemptID == 0 {
		return
	}

	sections, err := h.scoringService.SectionScores(c.Request.Context(), attemptID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Section scores calculated",
		Data:    sections,
	})
}

// RegradeQuestion rescores every graded answer of a question
// @Summary Re-grade question
// @Description Rescores all graded answers of a question and refreshes attempt totals
// @Tags scoring
// @Produce json
// @Param question_id path uint true "Question ID"
// @Success 200 {object} services.RegradeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /scoring/questions/{question_id}/regrade [post]
func (h *ScoringHandler) RegradeQuestion(c *gin.Context) {
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	graderID, ok := h.requireGrader(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Re-grading question", "question_id", questionID)

	result, err := h.scoringService.ReGradeQuestion(c.Request.Context(), questionID, graderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// requireGrader ensures the caller is an authenticated teacher or admin.
func (h *ScoringHandler) requireGrader(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}

	role, _ := c.Get("user_role")
	userRole, ok := role.(models.UserRole)
	if !ok || (userRole != models.RoleTeacher && userRole != models.RoleAdmin) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Grading requires teacher or admin role",
		})
		return "", false
	}

	id, _ := userID.(string)
	return id, true
}

func (h *ScoringHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return 0
	}
	return uint(id)
}

func (h *ScoringHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrAttemptNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Attempt not found",
		})
	case errors.Is(err, services.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Question not found",
		})
	case errors.Is(err, services.ErrExamNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Exam not found",
		})
	case errors.Is(err, services.ErrAttemptNotSubmitted):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Attempt has not been submitted for grading",
		})
	case errors.Is(err, services.ErrAttemptHasNoAnswers):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Attempt has no answers to grade",
		})
	case errors.Is(err, services.ErrGradingInvalidScore):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid score value",
		})
	case errors.Is(err, services.ErrGradingPermissionDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Permission denied for grading",
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
