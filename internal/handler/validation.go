package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Creastina/bambushain/internal/model"
)

// crossFieldValidator is implemented by requests with checks that struct
// tags cannot express
type crossFieldValidator interface {
	Validate() []model.FieldError
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report the json name instead of the Go field name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the validator tags and, when implemented, the
// request's own cross field checks
func validateStruct(v any) []model.FieldError {
	var fieldErrors []model.FieldError

	if err := validate.Struct(v); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fe := range validationErrors {
				fieldErrors = append(fieldErrors, model.FieldError{
					Field:   fieldPath(fe),
					Message: fieldMessage(fe),
				})
			}
		} else {
			fieldErrors = append(fieldErrors, model.FieldError{Field: "body", Message: err.Error()})
		}
	}

	if cv, ok := v.(crossFieldValidator); ok {
		fieldErrors = append(fieldErrors, cv.Validate()...)
	}
	return fieldErrors
}

// fieldPath drops the struct name from the namespace, "CharacterRequest.custom_fields[0].label"
// becomes "custom_fields[0].label"
func fieldPath(fe validator.FieldError) string {
	if _, path, found := strings.Cut(fe.Namespace(), "."); found {
		return path
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must only contain digits", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag())
	}
}

// decodeAndValidate decodes the body into v and validates it. On failure the
// problem is written and false is returned.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := DecodeJSON(w, r, v); err != nil {
		WriteError(w, model.NewBadRequestError(err.Error()))
		return false
	}
	if fieldErrors := validateStruct(v); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return false
	}
	return true
}
