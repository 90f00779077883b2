package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/interview-sim/interview-service/internal/errors"
	"github.com/interview-sim/interview-service/internal/models"
)

// Custom validation functions

func ValidateQuestionCategory(fl validator.FieldLevel) bool {
	validCategories := []models.QuestionCategory{
		models.CategoryTechnical,
		models.CategoryBehavioral,
		models.CategoryProject,
		models.CategoryFundamentals,
		models.CategoryCommunication,
	}

	value := fl.Field().String()
	for _, category := range validCategories {
		if string(category) == value {
			return true
		}
	}
	return false
}

func ValidateCaptureKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == string(models.CaptureAudio) || value == string(models.CaptureVideo)
}

func ValidateEvaluationVariant(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == string(models.EvaluationBasic) || value == string(models.EvaluationEnhanced)
}

// Validator wraps go-playground/validator with the custom rules registered.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()

	validate.RegisterValidation("question_category", ValidateQuestionCategory)
	validate.RegisterValidation("capture_kind", ValidateCaptureKind)
	validate.RegisterValidation("evaluation_variant", ValidateEvaluationVariant)

	// Report field names from json tags so errors match the wire format.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate}
}

// Validate checks struct tags and returns field-by-field validation errors.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	if _, ok := err.(validator.ValidationErrors); ok {
		return apperrors.ToValidationErrors(err)
	}
	return err
}
