// Package validation runs the `binding` struct tags that gin checks on
// request bodies, so services enforce the same rules on their inputs.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct returns every violated rule of s, in field order. It is empty when s is valid.
func Struct(s any) validator.ValidationErrors {
	var verrs validator.ValidationErrors
	if err := validate.Struct(s); errors.As(err, &verrs) {
		return verrs
	}
	return nil
}
