package checkout

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"github.com/fjod/storefront-checkout/domain"
)

var (
	phonePattern  = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)
	zipPattern    = regexp.MustCompile(`^[A-Za-z0-9 \-]{3,10}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
)

var fieldLabels = map[string]string{
	"first_name":      "first name",
	"last_name":       "last name",
	"email":           "email",
	"phone":           "phone number",
	"address":         "address",
	"city":            "city",
	"state":           "state",
	"zip_code":        "ZIP code",
	"shipping_method": "shipping method",
	"card_number":     "card number",
	"expiry_date":     "expiry date",
	"cvv":             "CVV",
	"cardholder_name": "cardholder name",
}

// formValidator turns struct tag violations into field-scoped messages keyed by
// the json field name.
type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "zipcode", func(fl validator.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "shipping_method", func(fl validator.FieldLevel) bool {
		return domain.ShippingMethod(fl.Field().String()).IsValid()
	})
	mustRegister(v, "card_expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	return &formValidator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Struct validates form and returns a *domain.ValidationError listing every
// failing field, or nil.
func (f *formValidator) Struct(form interface{}) error {
	err := f.v.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate form")
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe.Field(), fe.Tag())
	}
	return domain.NewValidationError(fields)
}

func message(field, tag string) string {
	label, ok := fieldLabels[field]
	if !ok {
		label = strings.ReplaceAll(field, "_", " ")
	}
	switch tag {
	case "required":
		return "please enter your " + label
	case "email":
		return "please enter a valid email"
	case "shipping_method":
		return "please choose standard or express shipping"
	case "credit_card":
		return "please enter a valid card number"
	case "card_expiry":
		return "please enter the expiry date as MM/YY"
	default:
		if field == "cvv" {
			return "please enter the 3 or 4 digit CVV"
		}
		return "please enter a valid " + label
	}
}
