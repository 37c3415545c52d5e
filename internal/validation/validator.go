package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/artshop/internal/apperr"
)

// Validator adapts go-playground/validator to echo.Validator and to the
// apperr taxonomy.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return &Validator{v: v}
}

// Validate returns nil or a Validation *apperr.Error whose Message is the
// first failing field's message.
func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.Unknown, "validation", err)
	}

	out := &apperr.Error{Kind: apperr.Validation, Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		msg := message(fe)
		if _, ok := out.Fields[fe.Field()]; !ok {
			out.Fields[fe.Field()] = msg
		}
		if out.Message == "" {
			out.Message = msg
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	case "oneof":
		return fmt.Sprintf("%s is invalid", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s is too short", field)
		}
		return fmt.Sprintf("%s is too low", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s is too long", field)
		}
		return fmt.Sprintf("%s is too high", field)
	case "gte", "gt":
		return fmt.Sprintf("%s is too low", field)
	case "lte", "lt":
		return fmt.Sprintf("%s is too high", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
