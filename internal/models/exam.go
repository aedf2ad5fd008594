package models

import (
	"time"

	"gorm.io/gorm"
)

type ExamStatus string

const (
	ExamStatusDraft    ExamStatus = "Draft"
	ExamStatusActive   ExamStatus = "Active"
	ExamStatusExpired  ExamStatus = "Expired"
	ExamStatusArchived ExamStatus = "Archived"
)

type SkillType string

const (
	SkillListening SkillType = "Listening"
	SkillReading   SkillType = "Reading"
	SkillWriting   SkillType = "Writing"
	SkillSpeaking  SkillType = "Speaking"
)

type Exam struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description  *string    `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Status       ExamStatus `json:"status" gorm:"default:Draft;index" validate:"omitempty,oneof=Draft Active Expired Archived"`
	Duration     int        `json:"duration" gorm:"not null" validate:"required,min=5,max=300"`
	PassingScore int        `json:"passing_score" gorm:"not null" validate:"required,min=0,max=100"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Sections []ExamSection `json:"sections" gorm:"foreignKey:ExamID"`
	Attempts []ExamAttempt `json:"attempts" gorm:"foreignKey:ExamID"`
}

// ExamSection groups the questions of one skill; section scores are reported
// against the section's max score.
type ExamSection struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ExamID       uint      `json:"exam_id" gorm:"not null;index"`
	SkillType    SkillType `json:"skill_type" gorm:"not null;size:20"`
	SectionOrder int       `json:"section_order" gorm:"default:0"`
	MaxScore     float64   `json:"max_score" gorm:"default:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []Question `json:"questions" gorm:"foreignKey:ExamSectionID"`
}

func (Exam) TableName() string {
	return "exams"
}
