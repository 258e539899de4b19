package payment_test

import (
	"reflect"
	"regexp"
	"testing"

	"beautybook/models"
	"beautybook/services/payment"
)

var cardInputs = []string{
	"",
	"4",
	"424",
	"4242",
	"42424",
	"4242 4242 4242 4242",
	"4242-4242-4242-4242",
	"4242424242424242",
	"42424242424242429999",
	"abcd efgh",
	"  12 34 56 78 90 12 34 56 78  ",
	"٤٢٤٢4242", // non-ASCII digits are dropped
}

func TestFormatCardNumber_Shape(t *testing.T) {
	groups := regexp.MustCompile(`^(\d{1,4})( \d{1,4})*$`)
	for _, in := range cardInputs {
		got := payment.FormatCardNumber(in)
		if len(got) > payment.MaxCardNumberLength {
			t.Fatalf("FormatCardNumber(%q) = %q: longer than %d", in, got, payment.MaxCardNumberLength)
		}
		if got != "" && !groups.MatchString(got) {
			t.Fatalf("FormatCardNumber(%q) = %q: not digit groups of <=4", in, got)
		}
	}
}

func TestFormatCardNumber_Values(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"42":                   "42",
		"4242":                 "4242",
		"424242":               "4242 42",
		"4242-4242-4242-4242":  "4242 4242 4242 4242",
		"42424242424242429999": "4242 4242 4242 4242",
	}
	for in, want := range cases {
		if got := payment.FormatCardNumber(in); got != want {
			t.Fatalf("FormatCardNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatExpiry(t *testing.T) {
	shape := regexp.MustCompile(`^\d{0,2}(/\d{0,2})?$`)
	cases := map[string]string{
		"":        "",
		"1":       "1",
		"12":      "12/",
		"123":     "12/3",
		"1234":    "12/34",
		"12/34":   "12/34",
		"123456":  "12/34",
		"ab12cd3": "12/3",
	}
	for in, want := range cases {
		got := payment.FormatExpiry(in)
		if got != want {
			t.Fatalf("FormatExpiry(%q) = %q, want %q", in, got, want)
		}
		if len(got) > payment.MaxExpiryLength || !shape.MatchString(got) {
			t.Fatalf("FormatExpiry(%q) = %q violates MM/YY shape", in, got)
		}
	}
}

func TestSanitizeDigits(t *testing.T) {
	if got := payment.SanitizeDigits("12a34-5678", 5); got != "12345" {
		t.Fatalf("got %q", got)
	}
	if got := payment.SanitizeDigits("1x2", 4); got != "12" {
		t.Fatalf("got %q", got)
	}
}

func validFields() models.PaymentFields {
	return models.PaymentFields{
		Method:         models.PaymentMethodCard,
		CardNumber:     "4242 4242 4242 4242",
		Expiry:         "12/30",
		CVV:            "123",
		CardholderName: "Jane Doe",
		PostalCode:     "10001",
	}
}

func TestValidate_AllValid(t *testing.T) {
	if errs := payment.Validate(validFields()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidate_ReportsEveryFailingField(t *testing.T) {
	errs := payment.Validate(models.PaymentFields{CardholderName: "   "})
	for _, f := range []string{
		payment.FieldCardNumber,
		payment.FieldExpiry,
		payment.FieldCVV,
		payment.FieldCardholderName,
		payment.FieldPostalCode,
	} {
		if errs[f] == "" {
			t.Fatalf("expected error for %s, got %v", f, errs)
		}
	}
}

func TestValidate_SingleRules(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*models.PaymentFields)
		field string
	}{
		{"15 digit card", func(f *models.PaymentFields) { f.CardNumber = "4242 4242 4242 424" }, payment.FieldCardNumber},
		{"expiry without slash", func(f *models.PaymentFields) { f.Expiry = "1230" }, payment.FieldExpiry},
		{"short cvv", func(f *models.PaymentFields) { f.CVV = "12" }, payment.FieldCVV},
		{"blank name", func(f *models.PaymentFields) { f.CardholderName = "\t" }, payment.FieldCardholderName},
		{"short postal", func(f *models.PaymentFields) { f.PostalCode = "1234" }, payment.FieldPostalCode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validFields()
			tc.edit(&f)
			errs := payment.Validate(f)
			if len(errs) != 1 || errs[tc.field] == "" {
				t.Fatalf("expected only %s to fail, got %v", tc.field, errs)
			}
		})
	}
}

func TestValidate_Idempotent(t *testing.T) {
	f := validFields()
	f.CVV = "1"
	f.Expiry = "1/2"
	first := payment.Validate(f)
	second := payment.Validate(f)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("validate not idempotent: %v vs %v", first, second)
	}
}

func TestUpdateField(t *testing.T) {
	var f models.PaymentFields
	var ok bool
	var err error

	f, ok, err = payment.UpdateField(f, payment.FieldCardNumber, "42424242")
	if err != nil || !ok || f.CardNumber != "4242 4242" {
		t.Fatalf("card number: %q ok=%v err=%v", f.CardNumber, ok, err)
	}
	f, _, _ = payment.UpdateField(f, payment.FieldExpiry, "0729")
	if f.Expiry != "07/29" {
		t.Fatalf("expiry: %q", f.Expiry)
	}
	f, _, _ = payment.UpdateField(f, payment.FieldCVV, "12345")
	if f.CVV != "1234" {
		t.Fatalf("cvv: %q", f.CVV)
	}
	f, _, _ = payment.UpdateField(f, payment.FieldPostalCode, "1000-12")
	if f.PostalCode != "10001" {
		t.Fatalf("postal code: %q", f.PostalCode)
	}
	f, _, _ = payment.UpdateField(f, payment.FieldCardholderName, "Jane Doe ")
	if f.CardholderName != "Jane Doe " {
		t.Fatalf("name: %q", f.CardholderName)
	}
	f, _, _ = payment.UpdateField(f, payment.FieldPaymentToken, " pm_card_visa ")
	if f.PaymentToken != "pm_card_visa" || payment.FieldValue(f, payment.FieldPaymentToken) != "pm_card_visa" {
		t.Fatalf("payment token: %q", f.PaymentToken)
	}
	if _, _, err := payment.UpdateField(f, "pin", "1234"); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestMaskCardNumber(t *testing.T) {
	if got := payment.MaskCardNumber("4242 4242 4242 1234"); got != "••••••••••••1234" {
		t.Fatalf("got %q", got)
	}
}
