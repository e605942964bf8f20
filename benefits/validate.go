package benefits

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use once configured; tags are cached.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// "required" accepts "   "; names must have visible characters.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ValidateEmployee checks an employee at the boundary, before it reaches the
// Roster: the employee name and every dependent name must be non-blank.
// Returns a *ValidationError wrapping ErrInvalidEmployee.
func ValidateEmployee(e Employee) error {
	err := validate.Struct(e)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fieldPath(fe), Rule: fe.Tag()})
	}
	return out
}

// fieldPath drops the root struct name: "Employee.dependents[0].name" ->
// "dependents[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		parts[i] = fieldPath(fe) + " " + fe.Tag()
		if fe.Param() != "" {
			parts[i] += "=" + fe.Param()
		}
	}
	return strings.Join(parts, ", ")
}
