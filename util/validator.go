package util

import "github.com/go-playground/validator/v10"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Coordinate bounds, used by report and help-request payloads.
	v.RegisterValidation("latitude", func(fl validator.FieldLevel) bool {
		lat := fl.Field().Float()
		return lat >= -90 && lat <= 90
	})
	v.RegisterValidation("longitude", func(fl validator.FieldLevel) bool {
		lng := fl.Field().Float()
		return lng >= -180 && lng <= 180
	})

	return v
}

// ValidateStruct checks the validate tags on a request payload.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
