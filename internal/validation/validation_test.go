package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fptthinhgreenwich/qlkhohang/internal/domain"
)

func validFields() Fields {
	return Fields{
		FieldSKU:       "SKU-0001",
		FieldName:      "USB Keyboard",
		FieldCategory:  "Accessories",
		FieldQuantity:  json.Number("25"),
		FieldUnitPrice: json.Number("12.50"),
		FieldSupplier:  "Tech Supplier A",
		FieldStatus:    "active",
		FieldNote:      "Basic model",
	}
}

func TestValidate_ValidRecord(t *testing.T) {
	errs := Validate(validFields(), false)
	assert.True(t, errs.Valid(), "unexpected errors: %v", errs)
}

func TestValidate_OptionalFieldsMayBeAbsent(t *testing.T) {
	fields := validFields()
	delete(fields, FieldCategory)
	fields[FieldSupplier] = nil
	fields[FieldNote] = ""

	assert.Empty(t, Validate(fields, false))
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		want  string
	}{
		{"sku missing", FieldSKU, nil, MsgSKURequired},
		{"sku blank", FieldSKU, "   ", MsgSKURequired},
		{"sku too short", FieldSKU, "AB", MsgSKULength},
		{"sku too long", FieldSKU, strings.Repeat("A", 51), MsgSKULength},
		{"sku bad charset", FieldSKU, "AB CD", MsgSKUCharset},
		{"sku dot", FieldSKU, "SKU.01", MsgSKUCharset},
		{"sku trimmed ok", FieldSKU, "  SKU_1-a  ", ""},
		{"name missing", FieldName, nil, MsgNameRequired},
		{"name too short", FieldName, "X", MsgNameLength},
		{"name too long", FieldName, strings.Repeat("n", 201), MsgNameLength},
		{"name unicode length", FieldName, strings.Repeat("é", 200), ""},
		{"category too long", FieldCategory, strings.Repeat("c", 101), MsgCategoryLength},
		{"category at limit", FieldCategory, strings.Repeat("c", 100), ""},
		{"quantity missing", FieldQuantity, nil, MsgQuantityRequired},
		{"quantity empty", FieldQuantity, "", MsgQuantityRequired},
		{"quantity whitespace reads as zero", FieldQuantity, "   ", ""},
		{"quantity padded", FieldQuantity, " 12 ", ""},
		{"quantity fraction", FieldQuantity, "1.5", MsgQuantityInteger},
		{"quantity text", FieldQuantity, "abc", MsgQuantityInteger},
		{"quantity negative", FieldQuantity, json.Number("-1"), MsgQuantityNegative},
		{"quantity integral float", FieldQuantity, float64(7), ""},
		{"quantity zero", FieldQuantity, "0", ""},
		{"quantity trailing zero", FieldQuantity, "5.0", ""},
		{"price missing", FieldUnitPrice, nil, MsgUnitPriceRequired},
		{"price empty", FieldUnitPrice, "", MsgUnitPriceRequired},
		{"price whitespace reads as zero", FieldUnitPrice, "  ", ""},
		{"price exponent", FieldUnitPrice, "1e15", ""},
		{"price small exponent", FieldUnitPrice, "1e-5", ""},
		{"price text", FieldUnitPrice, "cheap", MsgUnitPriceNumber},
		{"price negative", FieldUnitPrice, "-0.01", MsgUnitPriceNegative},
		{"price three decimals", FieldUnitPrice, "1.999", MsgUnitPriceDecimals},
		{"price trailing zero beyond two", FieldUnitPrice, json.Number("1.500"), MsgUnitPriceDecimals},
		{"price two decimals", FieldUnitPrice, "1.99", ""},
		{"price float", FieldUnitPrice, 9.99, ""},
		{"price integer", FieldUnitPrice, 149, ""},
		{"supplier too long", FieldSupplier, strings.Repeat("s", 201), MsgSupplierLength},
		{"status missing", FieldStatus, nil, MsgStatusRequired},
		{"status blank", FieldStatus, " ", MsgStatusRequired},
		{"status unknown", FieldStatus, "archived", MsgStatusEnum},
		{"status case sensitive", FieldStatus, "Active", MsgStatusEnum},
		{"status leading space", FieldStatus, " active", MsgStatusEnum},
		{"status trailing space", FieldStatus, "inactive ", MsgStatusEnum},
		{"note too long", FieldNote, strings.Repeat("n", 501), MsgNoteLength},
		{"note at limit", FieldNote, strings.Repeat("n", 500), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(validFields().With(tt.field, tt.value), false)
			assert.Equal(t, tt.want, errs[tt.field])
			if tt.want == "" {
				assert.True(t, errs.Valid(), "unexpected errors: %v", errs)
			} else {
				assert.Len(t, errs, 1)
			}
		})
	}
}

func TestValidate_ReportsEveryInvalidField(t *testing.T) {
	errs := Validate(Fields{}, false)

	assert.Equal(t, Errors{
		FieldSKU:       MsgSKURequired,
		FieldName:      MsgNameRequired,
		FieldQuantity:  MsgQuantityRequired,
		FieldUnitPrice: MsgUnitPriceRequired,
		FieldStatus:    MsgStatusRequired,
	}, errs)
}

func TestCoerce_WhitespaceNumbersAreZero(t *testing.T) {
	fields := validFields()
	fields[FieldQuantity] = "  "
	fields[FieldUnitPrice] = "\t"

	require.Empty(t, Validate(fields, false))

	in := Coerce(fields)
	assert.Equal(t, 0, in.Quantity)
	assert.True(t, in.UnitPrice.IsZero())
}

func TestValidate_NumericFailureSkipsDecimalCheck(t *testing.T) {
	errs := Validate(validFields().With(FieldUnitPrice, "-1.999"), false)
	assert.Equal(t, MsgUnitPriceNegative, errs[FieldUnitPrice])
}

func TestValidateField(t *testing.T) {
	assert.Equal(t, MsgUnitPriceDecimals, ValidateField(FieldUnitPrice, "1.999", Fields{}))
	assert.Equal(t, "", ValidateField(FieldUnitPrice, "1.99", Fields{}))
	assert.Equal(t, MsgSKULength, ValidateField(FieldSKU, "AB", validFields()))
	assert.Equal(t, "", ValidateField(FieldCategory, nil, Fields{}))
}

func TestCoerce(t *testing.T) {
	fields := validFields()
	fields[FieldSKU] = "  SKU-0001 "
	fields[FieldCategory] = "   "
	fields[FieldSupplier] = nil
	fields[FieldQuantity] = "5.0"

	in := Coerce(fields)

	assert.Equal(t, "SKU-0001", in.SKU)
	assert.Equal(t, "USB Keyboard", in.Name)
	assert.Nil(t, in.Category)
	assert.Nil(t, in.Supplier)
	require.NotNil(t, in.Note)
	assert.Equal(t, "Basic model", *in.Note)
	assert.Equal(t, 5, in.Quantity)
	assert.True(t, decimal.RequireFromString("12.5").Equal(in.UnitPrice))
	assert.Equal(t, domain.StatusActive, in.Status)
}

var invalidValues = map[string]any{
	FieldSKU:       "x",
	FieldName:      "",
	FieldCategory:  strings.Repeat("c", 150),
	FieldQuantity:  "-3",
	FieldUnitPrice: "2.345",
	FieldSupplier:  strings.Repeat("s", 250),
	FieldStatus:    "deleted",
	FieldNote:      strings.Repeat("n", 600),
}

// Feature: inventory-items, Property 1: Every invalid field is reported independently
func TestProperty_EveryInvalidFieldIsReported(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("error keys equal the set of broken fields", prop.ForAll(
		func(mask uint8) bool {
			fields := validFields()
			broken := map[string]bool{}
			for i, name := range FieldNames {
				if mask&(1<<i) != 0 {
					fields[name] = invalidValues[name]
					broken[name] = true
				}
			}

			errs := Validate(fields, false)
			if len(errs) != len(broken) {
				t.Logf("FAIL: mask %08b produced %v", mask, errs)
				return false
			}
			for name := range broken {
				if _, ok := errs[name]; !ok {
					t.Logf("FAIL: %s not reported for mask %08b", name, mask)
					return false
				}
			}
			return true
		},
		gen.UInt8(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: inventory-items, Property 2: Single-field validation agrees with full validation
func TestProperty_ValidateFieldAgreesWithValidate(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("per-field verdict matches the full validator", prop.ForAll(
		func(fieldIdx int, value string, isUpdate bool) bool {
			name := FieldNames[fieldIdx]
			form := validFields()

			full := Validate(form.With(name, value), isUpdate)[name]
			single := ValidateField(name, value, form)
			return full == single
		},
		gen.IntRange(0, len(FieldNames)-1),
		gen.OneGenOf(
			gen.AlphaString(),
			gen.NumString(),
			gen.RegexMatch(`-?[0-9]{1,4}\.[0-9]{1,4}`),
			gen.Const(""),
		),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: inventory-items, Property 3: Price decimal places are judged on the supplied text
func TestProperty_PriceDecimalPlaces(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("prices with more than two fraction digits are rejected", prop.ForAll(
		func(whole int, frac string) bool {
			text := decimal.NewFromInt(int64(whole)).String() + "." + frac
			msg := ValidateField(FieldUnitPrice, text, validFields())
			if len(frac) > MaxPriceDecimals {
				return msg == MsgUnitPriceDecimals
			}
			return msg == ""
		},
		gen.IntRange(0, 100000),
		gen.RegexMatch(`[0-9]{1,5}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: inventory-items, Property 4: Coerced quantities match their integer input
func TestProperty_CoercePreservesQuantity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid integers survive coercion", prop.ForAll(
		func(qty int) bool {
			fields := validFields().With(FieldQuantity, json.Number(decimal.NewFromInt(int64(qty)).String()))
			if !Validate(fields, false).Valid() {
				return false
			}
			return Coerce(fields).Quantity == qty
		},
		gen.IntRange(0, 1_000_000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
