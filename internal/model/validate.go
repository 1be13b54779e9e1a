package model

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Validate checks an input against its validate tags. The error text is a
// user-facing sentence describing the first failing field.
func Validate(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return errors.New("Invalid input.")
	}
	return errors.New(validationMessage(errs[0]))
}

func validationMessage(fe validator.FieldError) string {
	switch {
	case fe.Field() == "name" && fe.Tag() == "required":
		return "Name is required."
	case fe.Field() == "price" && fe.Tag() == "gte":
		return "Price cannot be negative."
	}
	return "Invalid " + fe.Field() + "."
}
