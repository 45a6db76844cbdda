// Package validator wraps go-playground struct validation so services
// can check invariants declared as `validate` tags on domain types.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates tagged fields and returns a field to failed-tag map,
// or nil when the value is valid.
func Struct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
