package store

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dshills/larek/internal/model"
)

// Struct fields validated by each checkout step.
var (
	deliveryStructFields = []string{"Payment", "Address"}
	contactStructFields  = []string{"Email", "Phone"}
)

// newValidator returns a validator that reports fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("json")
		if i := strings.Index(name, ","); i >= 0 {
			name = name[:i]
		}
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// validateStep checks the given fields of order and returns the full error set.
func validateStep(v *validator.Validate, order model.Order, fields []string) model.FormErrors {
	out := model.FormErrors{}

	err := v.StructPartial(order, fields...)
	if err == nil {
		return out
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = messageFor(fe.Field(), fe.Tag())
		}
		return out
	}

	// Not a field failure; mark every checked field so submit stays disabled.
	for _, f := range fields {
		key := strings.ToLower(f)
		out[key] = messageFor(key, "")
	}
	return out
}

func messageFor(field, tag string) string {
	if tag != "required" && tag != "" {
		return "Invalid " + field
	}
	switch field {
	case model.FieldPayment:
		return "Choose a payment method"
	case model.FieldAddress:
		return "Enter a delivery address"
	case model.FieldEmail:
		return "Enter an email"
	case model.FieldPhone:
		return "Enter a phone number"
	default:
		return "Field " + field + " is required"
	}
}
