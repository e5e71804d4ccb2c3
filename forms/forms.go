// Package forms decodes posted forms into tagged structs and validates them,
// producing field errors keyed by form field name.
package forms

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/DEFRA/fes-frontend/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
)

var (
	postcodeRegex       = regexp.MustCompile(`(?i)^[a-z]{1,2}[0-9r][0-9a-z]?\s?[0-9][abd-hjlnp-uw-z]{2}$`)
	documentNumberRegex = regexp.MustCompile(`^GBR-\d{4}-(CC|PS|SD)-[A-Z0-9]{9}$`)
	healthCertRegex     = regexp.MustCompile(`^\d{2}/\d/\d{6}$`)
	plnRegex            = regexp.MustCompile(`(?i)^[a-z]{1,3}\s?\d{1,5}$`)
	weightRegex         = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	maxWeight           = decimal.RequireFromString("99999999999.99")
)

// DateLayout is the layout of every date field
const DateLayout = "2006-01-02"

var (
	once     sync.Once
	validate *validator.Validate
	// Now is the clock used by the pastdate rule
	Now = time.Now
)

func validatorInstance() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegister(v, "postcode", func(fl validator.FieldLevel) bool {
			return IsPostcode(fl.Field().String())
		})
		mustRegister(v, "documentnumber", func(fl validator.FieldLevel) bool {
			return IsDocumentNumber(fl.Field().String())
		})
		mustRegister(v, "healthcert", func(fl validator.FieldLevel) bool {
			return healthCertRegex.MatchString(fl.Field().String())
		})
		mustRegister(v, "plnumber", func(fl validator.FieldLevel) bool {
			return plnRegex.MatchString(strings.TrimSpace(fl.Field().String()))
		})
		mustRegister(v, "weight", func(fl validator.FieldLevel) bool {
			_, ok := ParseWeight(fl.Field().String())
			return ok
		})
		mustRegister(v, "pastdate", func(fl validator.FieldLevel) bool {
			return IsPastDate(fl.Field().String())
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// IsPostcode reports whether s looks like a UK postcode
func IsPostcode(s string) bool {
	return postcodeRegex.MatchString(strings.TrimSpace(s))
}

// IsDocumentNumber reports whether s is a well formed document number
func IsDocumentNumber(s string) bool {
	return documentNumberRegex.MatchString(s)
}

// ParseWeight parses a weight in kilograms. Weights must be positive with at
// most two decimal places.
func ParseWeight(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !weightRegex.MatchString(s) {
		return decimal.Zero, false
	}
	w, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if !w.IsPositive() || w.GreaterThan(maxWeight) {
		return decimal.Zero, false
	}
	return w, true
}

// IsPastDate reports whether s is a YYYY-MM-DD date no later than today
func IsPastDate(s string) bool {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return false
	}
	now := Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !d.After(today)
}

// Decode copies posted values into out, a pointer to a struct with form tags.
// Fields posted once decode as strings, repeated fields as slices.
func Decode(values url.Values, out interface{}) error {
	input := make(map[string]interface{}, len(values))
	for k, v := range values {
		switch len(v) {
		case 0:
		case 1:
			input[k] = strings.TrimSpace(v[0])
		default:
			input[k] = v
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "form",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Validate checks v against its validate tags. Each failure becomes a field
// error whose message is the translation key "error.<field>.<rule>".
func Validate(v interface{}) []models.FieldError {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []models.FieldError{{Key: "form", Message: "error.form.invalid"}}
	}
	out := make([]models.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		// Slice elements report as "field[i]"
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i > 0 {
			field = field[:i]
		}
		out = append(out, models.FieldError{
			Key:     field,
			Message: fmt.Sprintf("error.%s.%s", field, fe.Tag()),
		})
	}
	return out
}

// Error builds a single field error
func Error(field, rule string) models.FieldError {
	return models.FieldError{Key: field, Message: fmt.Sprintf("error.%s.%s", field, rule)}
}
