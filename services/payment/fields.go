package payment

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"beautybook/models"

	"github.com/go-playground/validator/v10"
)

// Field names used as keys of FieldErrors.
const (
	FieldCardNumber     = "cardNumber"
	FieldExpiry         = "expiry"
	FieldCVV            = "cvv"
	FieldCardholderName = "cardholderName"
	FieldPostalCode     = "postalCode"
	// FieldPaymentToken holds a payment method tokenized by the client SDK.
	// It is not validated here; the gateway rejects an unknown token.
	FieldPaymentToken = "paymentToken"
)

const (
	MaxCardNumberLength = 19 // 16 digits plus three separators
	MaxExpiryLength     = 5  // MM/YY
	MaxCVVDigits        = 4
	MaxPostalCodeDigits = 5
	maxCardDigits       = 16
)

var ErrUnknownField = errors.New("unknown payment field")

var fieldMessages = map[string]string{
	FieldCardNumber:     "Please enter a valid card number",
	FieldExpiry:         "Please enter a valid expiry date (MM/YY)",
	FieldCVV:            "Please enter a valid CVV",
	FieldCardholderName: "Please enter the cardholder name",
	FieldPostalCode:     "Please enter a valid ZIP code",
}

// FieldErrors maps a field name to a human-readable message. An empty map
// means every field passed.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid payment fields: " + strings.Join(parts, "; ")
}

var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

// cardInput carries the rules applied to direct-card fields.
type cardInput struct {
	CardNumber     string `json:"cardNumber" validate:"mindigits=16"`
	Expiry         string `json:"expiry" validate:"expiry"`
	CVV            string `json:"cvv" validate:"mindigits=3"`
	CardholderName string `json:"cardholderName" validate:"notblank"`
	PostalCode     string `json:"postalCode" validate:"mindigits=5"`
}

var fieldValidator = newFieldValidator()

func newFieldValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "mindigits", func(fl validator.FieldLevel) bool {
		want, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(digitsOnly(fl.Field().String())) >= want
	})
	mustRegister(v, "expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("payment: register %q validation: %v", tag, err))
	}
}

// Validate runs every field rule and returns all failing fields.
func Validate(fields models.PaymentFields) FieldErrors {
	errs := FieldErrors{}
	in := cardInput{
		CardNumber:     fields.CardNumber,
		Expiry:         fields.Expiry,
		CVV:            fields.CVV,
		CardholderName: fields.CardholderName,
		PostalCode:     fields.PostalCode,
	}

	err := fieldValidator.Struct(in)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs
	}
	for _, fe := range verrs {
		if msg, ok := fieldMessages[fe.Field()]; ok {
			errs[fe.Field()] = msg
		}
	}
	return errs
}

// FormatCardNumber keeps the first 16 digits of raw and groups them in fours.
func FormatCardNumber(raw string) string {
	v := digitsOnly(raw)
	if len(v) < 4 {
		return v
	}
	if len(v) > maxCardDigits {
		v = v[:maxCardDigits]
	}
	parts := make([]string, 0, 4)
	for i := 0; i < len(v); i += 4 {
		end := i + 4
		if end > len(v) {
			end = len(v)
		}
		parts = append(parts, v[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatExpiry inserts the MM/YY separator once two digits are present.
func FormatExpiry(raw string) string {
	v := digitsOnly(raw)
	if len(v) < 2 {
		return v
	}
	end := len(v)
	if end > 4 {
		end = 4
	}
	return v[:2] + "/" + v[2:end]
}

// SanitizeDigits strips non-digits and truncates to maxLen.
func SanitizeDigits(raw string, maxLen int) string {
	v := digitsOnly(raw)
	if maxLen >= 0 && len(v) > maxLen {
		v = v[:maxLen]
	}
	return v
}

// UpdateField applies one keystroke to a single field. The returned bool is
// false when the formatted value exceeds the field's length and the previous
// value was kept.
func UpdateField(fields models.PaymentFields, field, raw string) (models.PaymentFields, bool, error) {
	switch field {
	case FieldCardNumber:
		formatted := FormatCardNumber(raw)
		if len(formatted) > MaxCardNumberLength {
			return fields, false, nil
		}
		fields.CardNumber = formatted
	case FieldExpiry:
		formatted := FormatExpiry(raw)
		if len(formatted) > MaxExpiryLength {
			return fields, false, nil
		}
		fields.Expiry = formatted
	case FieldCVV:
		fields.CVV = SanitizeDigits(raw, MaxCVVDigits)
	case FieldPostalCode:
		fields.PostalCode = SanitizeDigits(raw, MaxPostalCodeDigits)
	case FieldCardholderName:
		fields.CardholderName = raw
	case FieldPaymentToken:
		fields.PaymentToken = strings.TrimSpace(raw)
	default:
		return fields, false, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return fields, true, nil
}

// FieldValue returns the current value of a named field.
func FieldValue(fields models.PaymentFields, field string) string {
	switch field {
	case FieldCardNumber:
		return fields.CardNumber
	case FieldExpiry:
		return fields.Expiry
	case FieldCVV:
		return fields.CVV
	case FieldPostalCode:
		return fields.PostalCode
	case FieldCardholderName:
		return fields.CardholderName
	case FieldPaymentToken:
		return fields.PaymentToken
	}
	return ""
}

// MaskCardNumber hides all but the last four digits.
func MaskCardNumber(cardNumber string) string {
	d := digitsOnly(cardNumber)
	if len(d) <= 4 {
		return d
	}
	return strings.Repeat("•", len(d)-4) + d[len(d)-4:]
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
