package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator checks request structs and form documents.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a validator with the form tags registered.
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags and returns errors.ValidationErrors
// on failure.
func (v *Validator) ValidateStruct(s any) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// ValidateForm checks the form fields and then every question config.
func (v *Validator) ValidateForm(form *models.Form) error {
	if err := v.ValidateStruct(form); err != nil {
		return err
	}
	return ValidateQuestions(form.Questions)
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("form_status", validateFormStatus)

	// Report json field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return models.IsKnownType(models.QuestionType(fl.Field().String()))
}

func validateFormStatus(fl validator.FieldLevel) bool {
	switch models.FormStatus(fl.Field().String()) {
	case models.FormStatusDraft, models.FormStatusPublished:
		return true
	}
	return false
}
