// Request validation for the survey API. Wraps go-playground/validator so
// echo can validate bound request bodies, with custom validators for the
// fields the binder cannot express.
package enquete

import (
	"regexp"

	"github.com/go-playground/validator"
)

type RequestValidator struct {
	validator *validator.Validate
}

var (
	languageCodeRegexp = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]{2,8})?$`)
	surveyIDRegexp     = regexp.MustCompile(`^[1-9]{1,6}$`)
)

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	err := v.RegisterValidation("langcode", languageCodeValidator)
	if err != nil {
		return nil
	}

	err = v.RegisterValidation("surveyid", surveyIDValidator)
	if err != nil {
		return nil
	}
	return &RequestValidator{v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validator.Struct(i)
}

func languageCodeValidator(fl validator.FieldLevel) bool {
	return languageCodeRegexp.MatchString(fl.Field().String())
}

func surveyIDValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || surveyIDRegexp.MatchString(value)
}
