package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with the domain enum tags registered
func New() *CustomValidator {
	v := validator.New()

	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("issue_outcome", func(fl validator.FieldLevel) bool {
		return entities.IssueOutcome(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("meeting_type", func(fl validator.FieldLevel) bool {
		return entities.MeetingType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("rock_status", func(fl validator.FieldLevel) bool {
		return entities.RockStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("rock_level", func(fl validator.FieldLevel) bool {
		return entities.RockLevel(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("todo_status", func(fl validator.FieldLevel) bool {
		return entities.TodoStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("access_level", func(fl validator.FieldLevel) bool {
		return entities.AccessLevel(fl.Field().String()).IsValid()
	})

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// Describe flattens validation errors into field -> rule pairs for error details
func Describe(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details[fe.Field()] = rule
	}
	return details
}
