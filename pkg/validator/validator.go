package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground struct validation with the custom
// physiological-range checks used by the vitals service.
type Validator interface {
	Validate(obj interface{}) error
}

type structValidator struct {
	v *validator.Validate
}

func New() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Celsius body temperature that a monitor could plausibly report.
	v.RegisterValidation("body_temp", func(fl validator.FieldLevel) bool {
		t := fl.Field().Float()
		return t >= 20 && t <= 45
	})

	return &structValidator{v: v}
}

func (s *structValidator) Validate(obj interface{}) error {
	if err := s.v.Struct(obj); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("field %s failed validation rule %q", fe.Field(), fe.Tag())
		}
		return err
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}
