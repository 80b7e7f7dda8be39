package middleware

import (
	"errors"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Client documents are DNI-style numbers: digits only, 6 to 11 long
var docNumberPattern = regexp.MustCompile(`^[0-9]{6,11}$`)

// SetupValidator registers custom validations with gin's binding engine.
// Must run once at startup, before any request is bound.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	return v.RegisterValidation("docnum", func(fl validator.FieldLevel) bool {
		return docNumberPattern.MatchString(fl.Field().String())
	})
}
