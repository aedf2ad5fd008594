package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/aptis-platform/scoring-service/internal/models"
	"github.com/aptis-platform/scoring-service/internal/scoring"
)

// MockScoringService is a mock implementation of ScoringService.
type MockScoringService struct {
	mock.Mock
}

func (m *MockScoringService) ScoreAnswer(ctx context.Context, req *ScoreAnswerRequest) (*scoring.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scoring.Result), args.Error(1)
}

func (m *MockScoringService) GradeAttempt(ctx context.Context, attemptID uint, graderID string) (*AttemptGradeResponse, error) {
	args := m.Called(ctx, attemptID, graderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AttemptGradeResponse), args.Error(1)
}

func (m *MockScoringService) SectionScores(ctx context.Context, attemptID uint) ([]*SectionScoreResponse, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*SectionScoreResponse), args.Error(1)
}

func (m *MockScoringService) ReGradeQuestion(ctx context.Context, questionID uint, graderID string) (*RegradeResponse, error) {
	args := m.Called(ctx, questionID, graderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RegradeResponse), args.Error(1)
}

func TestExportAttemptScores(t *testing.T) {
	t.Run("builds a workbook with section and question sheets", func(t *testing.T) {
		repo := newMockRepository()
		repo.attempt.On("GetByID", mock.Anything, uint(7)).Return(&models.ExamAttempt{
			ID:        7,
			StudentID: "student-1",
		}, nil)

		scoringSvc := new(MockScoringService)
		scoringSvc.On("SectionScores", mock.Anything, uint(7)).Return([]*SectionScoreResponse{
			{
				SectionID:      21,
				SkillType:      models.SkillReading,
				MaxScore:       100,
				Score:          66.67,
				Percentage:     67,
				TotalQuestions: 2,
				CorrectAnswers: 1,
				Questions: []QuestionScoreDetail{
					{AnswerID: 101, QuestionID: 11, Type: "READING_MCQ", Score: 1, MaxScore: 1, Percentage: 100, Feedback: "Correct answer"},
					{AnswerID: 102, QuestionID: 12, Type: "READING_GAP_FILL", Score: 1, MaxScore: 2, Percentage: 50, Feedback: "1/2 gaps filled correctly"},
				},
			},
		}, nil)

		service := NewReportService(repo, scoringSvc, testLogger())
		data, filename, err := service.ExportAttemptScores(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, "attempt_7_scores.xlsx", filename)
		assert.NotEmpty(t, data)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		assert.NoError(t, err)
		defer f.Close()

		sheets := f.GetSheetList()
		assert.Contains(t, sheets, "Section Scores")
		assert.Contains(t, sheets, "Questions")
		assert.NotContains(t, sheets, "Sheet1")

		header, err := f.GetCellValue("Section Scores", "A1")
		assert.NoError(t, err)
		assert.Equal(t, "Section ID", header)

		skill, err := f.GetCellValue("Section Scores", "B2")
		assert.NoError(t, err)
		assert.Equal(t, "Reading", skill)

		score, err := f.GetCellValue("Section Scores", "C2")
		assert.NoError(t, err)
		assert.Equal(t, "66.67", score)

		feedback, err := f.GetCellValue("Questions", "G3")
		assert.NoError(t, err)
		assert.Equal(t, "1/2 gaps filled correctly", feedback)
	})

	t.Run("attempt not found", func(t *testing.T) {
		repo := newMockRepository()
		repo.attempt.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		service := NewReportService(repo, new(MockScoringService), testLogger())
		_, _, err := service.ExportAttemptScores(context.Background(), 99)

		assert.ErrorIs(t, err, ErrAttemptNotFound)
	})

	t.Run("section scoring failure propagates", func(t *testing.T) {
		repo := newMockRepository()
		repo.attempt.On("GetByID", mock.Anything, uint(7)).Return(&models.ExamAttempt{ID: 7}, nil)

		scoringSvc := new(MockScoringService)
		scoringSvc.On("SectionScores", mock.Anything, uint(7)).Return(nil, ErrAttemptHasNoAnswers)

		service := NewReportService(repo, scoringSvc, testLogger())
		_, _, err := service.ExportAttemptScores(context.Background(), 7)

		assert.ErrorIs(t, err, ErrAttemptHasNoAnswers)
	})
}
