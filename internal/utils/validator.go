package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/aptis-platform/scoring-service/internal/errors"
	"github.com/aptis-platform/scoring-service/internal/models"
	"github.com/aptis-platform/scoring-service/internal/scoring"
)

// Validator wraps the go-playground validator with the platform's custom rules.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate checks a request struct and converts rule failures into the
// shared ValidationErrors type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

// Engine exposes the underlying validate instance for handler-level bindings.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// Custom validation functions

func ValidateQuestionType(fl validator.FieldLevel) bool {
	value := scoring.QuestionType(fl.Field().String())
	for _, validType := range scoring.AllQuestionTypes() {
		if validType == value {
			return true
		}
	}
	return false
}

func ValidateSkillType(fl validator.FieldLevel) bool {
	validSkills := []models.SkillType{
		models.SkillListening,
		models.SkillReading,
		models.SkillWriting,
		models.SkillSpeaking,
	}

	value := fl.Field().String()
	for _, validSkill := range validSkills {
		if string(validSkill) == value {
			return true
		}
	}
	return false
}

func ValidateUserRole(fl validator.FieldLevel) bool {
	validRoles := []models.UserRole{
		models.RoleStudent,
		models.RoleTeacher,
		models.RoleAdmin,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}

func ValidateExamStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.ExamStatus{
		models.ExamStatusDraft,
		models.ExamStatusActive,
		models.ExamStatusExpired,
		models.ExamStatusArchived,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", ValidateQuestionType)
	validate.RegisterValidation("skill_type", ValidateSkillType)
	validate.RegisterValidation("user_role", ValidateUserRole)
	validate.RegisterValidation("exam_status", ValidateExamStatus)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
