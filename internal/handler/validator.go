package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// userIDPattern admits the ids upstream identity providers hand out
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.:@-]+$`)

const userIDTag = "userid"

// Validator checks request structs against their validate tags
type Validator struct {
	validate *validator.Validate
}

var (
	sharedValidator *Validator
	validatorOnce   sync.Once
)

// GetValidator returns the process-wide validator, building it on first use
func GetValidator() *Validator {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldName)
		if err := v.RegisterValidation(userIDTag, validUserID); err != nil {
			panic(err)
		}
		sharedValidator = &Validator{validate: v}
	})
	return sharedValidator
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateVar validates a single value against a tag string
func (v *Validator) ValidateVar(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// fieldName reports fields by their JSON name so clients see the key they sent
func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(f.Name)
	}
	return name
}

// FormatValidationError maps each failing field to a message without exposing Go type names
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": ErrMsgInvalidRequestFormat}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case userIDTag:
		return "Contains invalid characters"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	}
	return "Invalid value"
}

// empty passes; pair with required when the field is mandatory
func validUserID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return id == "" || userIDPattern.MatchString(id)
}
