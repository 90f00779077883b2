package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("position", "is required", "")

	if err.Field != "position" {
		t.Errorf("Expected field to be 'position', got '%s'", err.Field)
	}

	if err.Message != "is required" {
		t.Errorf("Expected message to be 'is required', got '%s'", err.Message)
	}

	expected := "validation error on field 'position': is required"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("position", "is required", nil))
	expected := "validation failed: position is required"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("count", "must be at least 1", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestToValidationErrors(t *testing.T) {
	type request struct {
		Position string `validate:"required"`
		Count    int    `validate:"min=1,max=20"`
	}

	validate := validator.New()
	err := validate.Struct(&request{Position: "", Count: 0})
	if err == nil {
		t.Fatal("Expected validation to fail")
	}

	errs := ToValidationErrors(err)
	if len(errs) != 2 {
		t.Fatalf("Expected 2 validation errors, got %d", len(errs))
	}

	if errs[0].Field != "Position" || errs[0].Message != "is required" {
		t.Errorf("Unexpected first error: %+v", errs[0])
	}

	if errs[1].Field != "Count" || errs[1].Message != "must be at least 1" {
		t.Errorf("Unexpected second error: %+v", errs[1])
	}

	if errs[1].Rule != "min" {
		t.Errorf("Expected rule 'min', got '%s'", errs[1].Rule)
	}
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	errs := ToValidationErrors(validator.New().Var("ok", "required"))
	if errs != nil {
		t.Errorf("Expected nil for passing validation, got %v", errs)
	}
}
