package models

import (
	"time"

	"gorm.io/gorm"
)

type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "InProgress"
	AttemptStatusSubmitted  AttemptStatus = "Submitted"
	AttemptStatusGraded     AttemptStatus = "Graded"
	AttemptStatusTimedOut   AttemptStatus = "TimedOut"
)

type ExamAttempt struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	ExamID    uint          `json:"exam_id" gorm:"not null;index"`
	StudentID string        `json:"student_id" gorm:"not null;size:255;index"`
	Status    AttemptStatus `json:"status" gorm:"default:InProgress;index"`

	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at"`
	GradedAt    *time.Time `json:"graded_at"`

	// Filled by grading: the rescaled overall score and percentage.
	TotalScore      *float64 `json:"total_score"`
	TotalPercentage *int     `json:"total_percentage"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Exam    Exam            `json:"exam" gorm:"foreignKey:ExamID"`
	Answers []StudentAnswer `json:"answers" gorm:"foreignKey:AttemptID"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}
