// Package validation owns the validator/v10 instance shared by request
// decoding and the services that re-check merged records.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/depotvente-backend/pkg/enums"
)

var shared = New()

// enumTags registers one validation tag per domain enum.
var enumTags = map[string]func(string) bool{
	"exemplar_state": func(s string) bool { return enums.ExemplarState(s).IsValid() },
	"sale_status":    func(s string) bool { return enums.SaleStatus(s).IsValid() },
	"role":           func(s string) bool { return enums.Role(s).IsValid() },
}

// Shared returns the process-wide validator.
func Shared() *validator.Validate {
	return shared
}

// New builds a validator that names fields by their JSON key, validates
// decimals as floats and knows the enum tags.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
			return name
		}
		return f.Name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
	for tag, valid := range enumTags {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	return v
}

// Email applies the same `email` rule as request bodies.
func Email(value string) bool {
	return shared.Var(value, "required,email") == nil
}
