package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aptis-platform/scoring-service/internal/cache"
	"github.com/aptis-platform/scoring-service/internal/events"
	"github.com/aptis-platform/scoring-service/internal/models"
	"github.com/aptis-platform/scoring-service/internal/repositories"
	"github.com/aptis-platform/scoring-service/internal/scoring"
	"github.com/aptis-platform/scoring-service/internal/utils"
)

const answerKeyTTL = 15 * time.Minute

type scoringService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
}

func NewScoringService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) ScoringService {
	return &scoringService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// answerKey is the cached grading reference for one question: the engine
// input shape plus the max score to grade against.
type answerKey struct {
	View     scoring.Question `json:"view"`
	MaxScore float64          `json:"max_score"`
}

func answerKeyCacheKey(questionID uint) string {
	return fmt.Sprintf("scoring:question:%d", questionID)
}

// ===== PREVIEW SCORING =====

func (s *scoringService) ScoreAnswer(ctx context.Context, req *ScoreAnswerRequest) (*scoring.Result, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	key, err := s.loadAnswerKey(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}

	maxScore := key.MaxScore
	if req.MaxScore != nil && *req.MaxScore > 0 {
		maxScore = *req.MaxScore
	}

	answer := scoring.Answer{
		AnswerJSON:      []byte(req.AnswerJSON),
		TextAnswer:      req.TextAnswer,
		AudioURL:        req.AudioURL,
		TranscribedText: req.TranscribedText,
	}

	result := scoring.ScoreQuestion(key.View, answer, maxScore)
	return &result, nil
}

// loadAnswerKey returns the grading reference for a question, serving from
// the cache when possible.
func (s *scoringService) loadAnswerKey(ctx context.Context, questionID uint) (*answerKey, error) {
	cacheKey := answerKeyCacheKey(questionID)

	var cached answerKey
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	question, err := s.repo.Question().GetByIDWithDetails(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	key := &answerKey{
		View:     question.ScoringView(),
		MaxScore: question.EffectiveMaxScore(),
	}

	if err := s.cache.Set(ctx, cacheKey, key, answerKeyTTL); err != nil {
		s.logger.Warn("Failed to cache answer key", "question_id", questionID, "error", err)
	}

	return key, nil
}

// ===== ATTEMPT GRADING =====

func (s *scoringService) GradeAttempt(ctx context.Context, attemptID uint, graderID string) (*AttemptGradeResponse, error) {
	s.logger.Info("Grading attempt",
		"attempt_id", attemptID,
		"grader_id", graderID)

	attempt, err := s.repo.Attempt().GetByIDWithAnswers(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	if attempt.Status == models.AttemptStatusInProgress {
		return nil, ErrAttemptNotSubmitted
	}
	if len(attempt.Answers) == 0 {
		return nil, ErrAttemptHasNoAnswers
	}

	gradedAt := time.Now()
	details := s.scoreAttemptAnswers(attempt)

	// Persist per-answer grades and the attempt totals atomically.
	txRepo, err := s.repo.(repositories.TransactionRepository).Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			txRepo.(repositories.TransactionRepository).Rollback(ctx)
		}
	}()

	for _, detail := range details {
		if err = txRepo.Answer().UpdateGrade(ctx, detail.AnswerID, detail.Score, detail.Percentage, detail.Feedback, gradedAt); err != nil {
			return nil, fmt.Errorf("failed to store grade for answer %d: %w", detail.AnswerID, err)
		}
	}

	totalScore, totalPercentage := overallTotals(details)
	if err = txRepo.Attempt().UpdateScore(ctx, attemptID, totalScore, totalPercentage, gradedAt); err != nil {
		return nil, fmt.Errorf("failed to store attempt totals: %w", err)
	}

	if err = txRepo.(repositories.TransactionRepository).Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	sections := s.sectionBreakdown(attempt, details)
	passed := totalPercentage >= attempt.Exam.PassingScore

	response := &AttemptGradeResponse{
		AttemptID:       attemptID,
		ExamID:          attempt.ExamID,
		StudentID:       attempt.StudentID,
		Status:          models.AttemptStatusGraded,
		TotalScore:      totalScore,
		TotalPercentage: totalPercentage,
		Passed:          passed,
		GradedAt:        gradedAt,
		Sections:        sections,
	}

	s.publishAttemptGraded(ctx, attempt, response)

	s.logger.Info("Attempt graded",
		"attempt_id", attemptID,
		"total_score", totalScore,
		"total_percentage", totalPercentage,
		"passed", passed)

	return response, nil
}

// scoreAttemptAnswers runs the engine over every answer of the attempt.
func (s *scoringService) scoreAttemptAnswers(attempt *models.ExamAttempt) []QuestionScoreDetail {
	details := make([]QuestionScoreDetail, 0, len(attempt.Answers))
	for i := range attempt.Answers {
		answer := &attempt.Answers[i]
		maxScore := answer.EffectiveMaxScore()
		result := scoring.ScoreQuestion(answer.Question.ScoringView(), answer.ScoringView(), maxScore)

		details = append(details, QuestionScoreDetail{
			AnswerID:   answer.ID,
			QuestionID: answer.QuestionID,
			Type:       answer.Question.Type,
			Score:      result.Score,
			MaxScore:   maxScore,
			Percentage: result.Percentage,
			Feedback:   result.Feedback,
		})
	}
	return details
}

// ===== SECTION AGGREGATION =====

func (s *scoringService) SectionScores(ctx context.Context, attemptID uint) ([]*SectionScoreResponse, error) {
	attempt, err := s.repo.Attempt().GetByIDWithAnswers(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if len(attempt.Answers) == 0 {
		return nil, ErrAttemptHasNoAnswers
	}

	details := make([]QuestionScoreDetail, 0, len(attempt.Answers))
	for i := range attempt.Answers {
		answer := &attempt.Answers[i]
		maxScore := answer.EffectiveMaxScore()

		if answer.GradedAt != nil && answer.Score != nil && answer.Percentage != nil {
			detail := QuestionScoreDetail{
				AnswerID:   answer.ID,
				QuestionID: answer.QuestionID,
				Type:       answer.Question.Type,
				Score:      *answer.Score,
				MaxScore:   maxScore,
				Percentage: *answer.Percentage,
			}
			if answer.Feedback != nil {
				detail.Feedback = *answer.Feedback
			}
			details = append(details, detail)
			continue
		}

		// Not yet graded: score on the fly without persisting.
		result := scoring.ScoreQuestion(answer.Question.ScoringView(), answer.ScoringView(), maxScore)
		details = append(details, QuestionScoreDetail{
			AnswerID:   answer.ID,
			QuestionID: answer.QuestionID,
			Type:       answer.Question.Type,
			Score:      result.Score,
			MaxScore:   maxScore,
			Percentage: result.Percentage,
			Feedback:   result.Feedback,
		})
	}

	return s.sectionBreakdown(attempt, details), nil
}

// sectionBreakdown groups scored answers by exam section and aggregates each
// group with the engine. Questions not assigned to a section are left out of
// the breakdown but still count toward attempt totals.
func (s *scoringService) sectionBreakdown(attempt *models.ExamAttempt, details []QuestionScoreDetail) []*SectionScoreResponse {
	sectionOf := make(map[uint]uint, len(attempt.Answers))
	for i := range attempt.Answers {
		answer := &attempt.Answers[i]
		if answer.Question.ExamSectionID != nil {
			sectionOf[answer.ID] = *answer.Question.ExamSectionID
		}
	}

	grouped := make(map[uint][]QuestionScoreDetail)
	for _, detail := range details {
		sectionID, ok := sectionOf[detail.AnswerID]
		if !ok {
			continue
		}
		grouped[sectionID] = append(grouped[sectionID], detail)
	}

	sections := make([]*SectionScoreResponse, 0, len(attempt.Exam.Sections))
	for _, section := range attempt.Exam.Sections {
		sectionDetails, ok := grouped[section.ID]
		if !ok {
			continue
		}

		questionScores := make([]scoring.QuestionScore, len(sectionDetails))
		for i, detail := range sectionDetails {
			questionScores[i] = scoring.QuestionScore{
				Score:      detail.Score,
				MaxScore:   detail.MaxScore,
				Percentage: detail.Percentage,
			}
		}
		sectionResult := scoring.SectionScore(questionScores, section.MaxScore)

		sections = append(sections, &SectionScoreResponse{
			SectionID:      section.ID,
			SkillType:      section.SkillType,
			MaxScore:       section.MaxScore,
			Score:          sectionResult.Score,
			Percentage:     sectionResult.Percentage,
			TotalQuestions: sectionResult.TotalQuestions,
			CorrectAnswers: sectionResult.CorrectAnswers,
			Questions:      sectionDetails,
		})
	}

	return sections
}

// overallTotals sums raw points across all answers and derives the attempt
// percentage from the raw-to-max ratio.
func overallTotals(details []QuestionScoreDetail) (float64, int) {
	totalScore := 0.0
	totalMax := 0.0
	for _, detail := range details {
		totalScore += detail.Score
		maxScore := detail.MaxScore
		if maxScore <= 0 {
			maxScore = 1
		}
		totalMax += maxScore
	}
	if totalMax <= 0 {
		return 0, 0
	}

	totalScore = math.Round(totalScore*100) / 100
	percentage := int(math.Round(totalScore / totalMax * 100))
	return totalScore, percentage
}

// ===== RE-GRADING =====

func (s *scoringService) ReGradeQuestion(ctx context.Context, questionID uint, graderID string) (*RegradeResponse, error) {
	s.logger.Info("Re-grading question",
		"question_id", questionID,
		"grader_id", graderID)

	// The answer key may have changed; drop the cached copy before reloading.
	if err := s.cache.Delete(ctx, answerKeyCacheKey(questionID)); err != nil {
		s.logger.Warn("Failed to invalidate answer key cache", "question_id", questionID, "error", err)
	}

	question, err := s.repo.Question().GetByIDWithDetails(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	graded := true
	answers, err := s.repo.Answer().GetByQuestion(ctx, questionID, repositories.AnswerFilters{IsGraded: &graded})
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	view := question.ScoringView()
	regradedAt := time.Now()
	affected := make(map[uint]bool)

	for _, answer := range answers {
		maxScore := answer.EffectiveMaxScore()
		result := scoring.ScoreQuestion(view, answer.ScoringView(), maxScore)

		if err := s.repo.Answer().UpdateGrade(ctx, answer.ID, result.Score, result.Percentage, result.Feedback, regradedAt); err != nil {
			return nil, fmt.Errorf("failed to store rescored answer %d: %w", answer.ID, err)
		}
		affected[answer.AttemptID] = true
	}

	affectedAttempts := make([]uint, 0, len(affected))
	for attemptID := range affected {
		affectedAttempts = append(affectedAttempts, attemptID)
		if err := s.refreshAttemptTotals(ctx, attemptID); err != nil {
			s.logger.Error("Failed to refresh attempt totals after regrade",
				"attempt_id", attemptID,
				"question_id", questionID,
				"error", err)
		}
	}

	s.publishQuestionRegraded(ctx, question, len(answers), affectedAttempts, graderID, regradedAt)

	return &RegradeResponse{
		QuestionID:       questionID,
		AnswersRescored:  len(answers),
		AffectedAttempts: affectedAttempts,
	}, nil
}

// refreshAttemptTotals recomputes a graded attempt's totals from its stored
// per-answer scores.
func (s *scoringService) refreshAttemptTotals(ctx context.Context, attemptID uint) error {
	attempt, err := s.repo.Attempt().GetByIDWithAnswers(ctx, attemptID)
	if err != nil {
		return fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.Status != models.AttemptStatusGraded {
		return nil
	}

	details := make([]QuestionScoreDetail, 0, len(attempt.Answers))
	for i := range attempt.Answers {
		answer := &attempt.Answers[i]
		if answer.Score == nil || answer.Percentage == nil {
			continue
		}
		details = append(details, QuestionScoreDetail{
			AnswerID:   answer.ID,
			Score:      *answer.Score,
			MaxScore:   answer.EffectiveMaxScore(),
			Percentage: *answer.Percentage,
		})
	}

	gradedAt := time.Now()
	if attempt.GradedAt != nil {
		gradedAt = *attempt.GradedAt
	}

	totalScore, totalPercentage := overallTotals(details)
	return s.repo.Attempt().UpdateScore(ctx, attemptID, totalScore, totalPercentage, gradedAt)
}

// ===== EVENT PUBLISHING =====

func (s *scoringService) publishAttemptGraded(ctx context.Context, attempt *models.ExamAttempt, response *AttemptGradeResponse) {
	summaries := make([]events.SectionScoreSummary, len(response.Sections))
	for i, section := range response.Sections {
		summaries[i] = events.SectionScoreSummary{
			SectionID:      section.SectionID,
			SkillType:      string(section.SkillType),
			Score:          section.Score,
			Percentage:     section.Percentage,
			TotalQuestions: section.TotalQuestions,
			CorrectAnswers: section.CorrectAnswers,
		}
	}

	event := &events.GradingEvent{
		ID:        events.GenerateEventID(),
		Type:      events.EventAttemptGraded,
		Timestamp: time.Now(),
		Source:    "scoring-service",
		Version:   "1.0",
		Data: events.AttemptGradedEvent{
			AttemptID:       response.AttemptID,
			ExamID:          response.ExamID,
			ExamTitle:       attempt.Exam.Title,
			StudentID:       response.StudentID,
			TotalScore:      response.TotalScore,
			TotalPercentage: response.TotalPercentage,
			Passed:          response.Passed,
			GradedAt:        response.GradedAt,
			Sections:        summaries,
		},
	}

	if err := s.publisher.PublishGradingEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish attempt graded event",
			"attempt_id", response.AttemptID,
			"error", err)
	}
}

func (s *scoringService) publishQuestionRegraded(ctx context.Context, question *models.Question, rescored int, affectedAttempts []uint, graderID string, regradedAt time.Time) {
	event := &events.GradingEvent{
		ID:        events.GenerateEventID(),
		Type:      events.EventQuestionRegraded,
		Timestamp: time.Now(),
		Source:    "scoring-service",
		Version:   "1.0",
		Data: events.QuestionRegradedEvent{
			QuestionID:       question.ID,
			QuestionType:     string(question.Type),
			AnswersRescored:  rescored,
			AffectedAttempts: affectedAttempts,
			RegradedBy:       graderID,
			RegradedAt:       regradedAt,
		},
	}

	if err := s.publisher.PublishGradingEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish question regraded event",
			"question_id", question.ID,
			"error", err)
	}
}
