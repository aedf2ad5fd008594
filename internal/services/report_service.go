package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/aptis-platform/scoring-service/internal/repositories"
)

type reportService struct {
	repo    repositories.Repository
	scoring ScoringService
	logger  *slog.Logger
}

func NewReportService(repo repositories.Repository, scoringService ScoringService, logger *slog.Logger) ReportService {
	return &reportService{
		repo:    repo,
		scoring: scoringService,
		logger:  logger,
	}
}

func (s *reportService) ExportAttemptScores(ctx context.Context, attemptID uint) ([]byte, string, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrAttemptNotFound
		}
		return nil, "", fmt.Errorf("failed to get attempt: %w", err)
	}

	sections, err := s.scoring.SectionScores(ctx, attemptID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()

	if err := s.writeSectionSheet(f, sections); err != nil {
		return nil, "", err
	}
	if err := s.writeQuestionSheet(f, sections); err != nil {
		return nil, "", err
	}

	// Drop the default sheet left behind by excelize
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("failed to remove default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("attempt_%d_scores.xlsx", attemptID)

	s.logger.Info("Exported attempt score report",
		"attempt_id", attemptID,
		"student_id", attempt.StudentID,
		"sections", len(sections),
		"filename", filename)

	return buf.Bytes(), filename, nil
}

func (s *reportService) writeSectionSheet(f *excelize.File, sections []*SectionScoreResponse) error {
	sheetName := "Section Scores"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Section ID", "Skill", "Score", "Max Score", "Percentage",
		"Questions", "Correct Answers",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, section := range sections {
		row := []interface{}{
			section.SectionID,
			string(section.SkillType),
			section.Score,
			section.MaxScore,
			section.Percentage,
			section.TotalQuestions,
			section.CorrectAnswers,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	return nil
}

func (s *reportService) writeQuestionSheet(f *excelize.File, sections []*SectionScoreResponse) error {
	sheetName := "Questions"

	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headers := []string{
		"Section ID", "Question ID", "Question Type", "Score", "Max Score",
		"Percentage", "Feedback",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, section := range sections {
		for _, question := range section.Questions {
			row := []interface{}{
				section.SectionID,
				question.QuestionID,
				string(question.Type),
				question.Score,
				question.MaxScore,
				question.Percentage,
				question.Feedback,
			}
			for colIndex, value := range row {
				cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex)
				f.SetCellValue(sheetName, cell, value)
			}
			rowIndex++
		}
	}

	return nil
}
