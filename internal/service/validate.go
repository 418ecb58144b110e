package service

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"market-backend/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
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

// check runs struct validation and reports the first failure as a validation error.
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			return domain.Validationf("%s: failed %s=%s", field, fe.Tag(), fe.Param())
		}
		return domain.Validationf("%s: failed %s", field, fe.Tag())
	}
	return domain.Validation(err.Error())
}

// checkPrice enforces the decimal(10,2) column range.
func checkPrice(field string, p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.Validationf("%s must not be negative", field)
	}
	if p.GreaterThan(maxPrice) {
		return domain.Validationf("%s must be at most %s", field, maxPrice.StringFixed(2))
	}
	if !p.Equal(p.Truncate(2)) {
		return domain.Validationf("%s must have at most 2 decimal places", field)
	}
	return nil
}

var maxPrice = decimal.RequireFromString("99999999.99")
