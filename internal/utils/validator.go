// internal/utils/validator.go
package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	validate.RegisterValidation("enum", validateEnum)
	validate.RegisterValidation("handle", validateHandle)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateVar checks a single value against a tag list.
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// validateEnum is a case-insensitive oneof; enum values are stored upper-cased.
func validateEnum(fl validator.FieldLevel) bool {
	value := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	for _, allowed := range strings.Fields(fl.Param()) {
		if value == allowed {
			return true
		}
	}
	return false
}

func validateHandle(fl validator.FieldLevel) bool {
	handle := strings.TrimSpace(fl.Field().String())
	return len(handle) <= 255 && !strings.ContainsAny(handle, " \t\n")
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	return FieldValidationErrors("", err)
}

// FieldValidationErrors converts validator output into ValidationErrors whose
// field names are rooted at prefix.
func FieldValidationErrors(prefix string, err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := fieldPath(prefix, e)
			validationErrors = append(validationErrors, ValidationError{
				Field:   field,
				Tag:     e.Tag(),
				Message: getValidationMessage(field, e),
			})
		}
	}

	return validationErrors
}

func fieldPath(prefix string, e validator.FieldError) string {
	// Var() errors carry no namespace (or only an index after dive);
	// Struct() errors start with the type name.
	ns := e.Namespace()
	if strings.HasPrefix(ns, "[") {
		return prefix + ns
	}
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	} else {
		ns = ""
	}

	switch {
	case prefix == "":
		return ns
	case ns == "":
		return prefix
	default:
		return prefix + "." + ns
	}
}

func getValidationMessage(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email format"
	case "url":
		return field + " must be a valid URL"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "gte":
		return field + " must be greater than or equal to " + e.Param()
	case "timezone":
		return field + " must be a valid IANA time zone"
	case "enum", "oneof":
		return field + " must be one of " + e.Param()
	case "handle":
		return field + " must be a handle without spaces"
	default:
		return field + " is invalid"
	}
}
