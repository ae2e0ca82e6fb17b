// Package validation holds the inventory item rule set. The HTTP service and the
// interactive validation endpoint both call into it, so there is exactly one copy
// of the rules.
package validation

import (
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Field names as they appear on the wire
const (
	FieldSKU       = "sku"
	FieldName      = "name"
	FieldCategory  = "category"
	FieldQuantity  = "quantity"
	FieldUnitPrice = "unitPrice"
	FieldSupplier  = "supplier"
	FieldStatus    = "status"
	FieldNote      = "note"
)

// FieldNames lists every validated field
var FieldNames = []string{
	FieldSKU,
	FieldName,
	FieldCategory,
	FieldQuantity,
	FieldUnitPrice,
	FieldSupplier,
	FieldStatus,
	FieldNote,
}

// Error messages returned per field
const (
	MsgSKURequired = "SKU is required"
	MsgSKULength   = "SKU must be between 3 and 50 characters"
	MsgSKUCharset  = "SKU can only contain letters, numbers, hyphen (-) and underscore (_)"

	MsgNameRequired = "Name is required"
	MsgNameLength   = "Name must be between 2 and 200 characters"

	MsgCategoryLength = "Category must be at most 100 characters"

	MsgQuantityRequired = "Quantity is required"
	MsgQuantityInteger  = "Quantity must be an integer"
	MsgQuantityNegative = "Quantity must be >= 0"

	MsgUnitPriceRequired = "Unit Price is required"
	MsgUnitPriceNumber   = "Unit Price must be a number"
	MsgUnitPriceNegative = "Unit Price must be >= 0"
	MsgUnitPriceDecimals = "Unit Price can have at most 2 decimal places"

	MsgSupplierLength = "Supplier must be at most 200 characters"

	MsgStatusRequired = "Status is required"
	MsgStatusEnum     = `Status must be "active" or "inactive"`

	MsgNoteLength = "Note must be at most 500 characters"
)

// MaxPriceDecimals is the number of fractional digits allowed in a unit price
const MaxPriceDecimals = 2

var skuRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		return skuRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register sku validator: %v", err))
	}
}

// Fields is a loosely typed bag of candidate item fields. Values may be strings,
// json.Number, numbers or nil, depending on how the transport decoded them.
type Fields map[string]any

// With returns a copy of f with name set to value
func (f Fields) With(name string, value any) Fields {
	c := make(Fields, len(f)+1)
	maps.Copy(c, f)
	c[name] = value
	return c
}

// Errors maps a field name to its error message
type Errors map[string]string

// Valid reports whether no field failed
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Validate checks every field of the candidate and returns all failures at once.
// isUpdate is carried for parity with the create path; it does not relax any rule.
func Validate(fields Fields, isUpdate bool) Errors {
	_ = isUpdate

	errs := Errors{}

	if msg := checkSKU(fields); msg != "" {
		errs[FieldSKU] = msg
	}
	if msg := checkName(fields); msg != "" {
		errs[FieldName] = msg
	}
	if msg := checkMaxLength(fields, FieldCategory, 100, MsgCategoryLength); msg != "" {
		errs[FieldCategory] = msg
	}
	if msg := checkQuantity(fields); msg != "" {
		errs[FieldQuantity] = msg
	}
	if msg := checkUnitPrice(fields); msg != "" {
		errs[FieldUnitPrice] = msg
	}
	if msg := checkMaxLength(fields, FieldSupplier, 200, MsgSupplierLength); msg != "" {
		errs[FieldSupplier] = msg
	}
	if msg := checkStatus(fields); msg != "" {
		errs[FieldStatus] = msg
	}
	if msg := checkMaxLength(fields, FieldNote, 500, MsgNoteLength); msg != "" {
		errs[FieldNote] = msg
	}

	return errs
}

// ValidateField validates rest with name overridden by value and returns the
// message for that field only, or an empty string when it passes.
func ValidateField(name string, value any, rest Fields) string {
	return Validate(rest.With(name, value), false)[name]
}

func checkSKU(fields Fields) string {
	sku, ok := trimmedText(fields, FieldSKU)
	switch {
	case !ok || sku == "":
		return MsgSKURequired
	case !is(sku, "min=3,max=50"):
		return MsgSKULength
	case !is(sku, "sku"):
		return MsgSKUCharset
	}
	return ""
}

func checkName(fields Fields) string {
	name, ok := trimmedText(fields, FieldName)
	switch {
	case !ok || name == "":
		return MsgNameRequired
	case !is(name, "min=2,max=200"):
		return MsgNameLength
	}
	return ""
}

// checkStatus matches the value as supplied; " active" is not a status.
func checkStatus(fields Fields) string {
	status, ok := rawText(fields, FieldStatus)
	switch {
	case !ok || strings.TrimSpace(status) == "":
		return MsgStatusRequired
	case !is(status, "oneof=active inactive"):
		return MsgStatusEnum
	}
	return ""
}

func checkMaxLength(fields Fields, name string, max int, msg string) string {
	v, ok := trimmedText(fields, name)
	if !ok || v == "" {
		return ""
	}
	if !is(v, "max="+strconv.Itoa(max)) {
		return msg
	}
	return ""
}

func checkQuantity(fields Fields) string {
	raw, ok := numberText(fields, FieldQuantity)
	if !ok {
		return MsgQuantityRequired
	}

	qty, err := parseNumber(raw)
	if err != nil || !qty.IsInteger() || !fitsInt64(qty) {
		return MsgQuantityInteger
	}
	if qty.IsNegative() {
		return MsgQuantityNegative
	}
	return ""
}

func checkUnitPrice(fields Fields) string {
	raw, ok := numberText(fields, FieldUnitPrice)
	if !ok {
		return MsgUnitPriceRequired
	}

	price, err := parseNumber(raw)
	if err != nil {
		return MsgUnitPriceNumber
	}
	if price.IsNegative() {
		return MsgUnitPriceNegative
	}
	if fractionDigits(raw) > MaxPriceDecimals {
		return MsgUnitPriceDecimals
	}
	return ""
}

func is(value string, tag string) bool {
	return validate.Var(value, tag) == nil
}

// fractionDigits counts the characters after the decimal point in the text as
// supplied, so "1.500" reports 3 even though it equals 1.5.
func fractionDigits(text string) int {
	_, frac, found := strings.Cut(text, ".")
	if !found {
		return 0
	}
	if i := strings.IndexByte(frac, '.'); i >= 0 {
		frac = frac[:i]
	}
	return len(frac)
}

var (
	minInt64 = decimal.NewFromInt(-1 << 63)
	maxInt64 = decimal.NewFromInt(1<<63 - 1)
)

func fitsInt64(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(minInt64) && d.LessThanOrEqual(maxInt64)
}

func parseNumber(text string) (decimal.Decimal, error) {
	return decimal.NewFromString(text)
}

// trimmedText returns the textual form of a field with surrounding whitespace
// removed. ok is false when the field is absent or null.
func trimmedText(fields Fields, name string) (string, bool) {
	v, ok := fields[name]
	if !ok || v == nil {
		return "", false
	}
	return strings.TrimSpace(text(v)), true
}

// rawText returns the textual form of a field without trimming
func rawText(fields Fields, name string) (string, bool) {
	v, ok := fields[name]
	if !ok || v == nil {
		return "", false
	}
	return text(v), true
}

// numberText returns the trimmed text of a numeric field. Only absent, null
// and empty values are missing; whitespace-only text reads as zero.
func numberText(fields Fields, name string) (string, bool) {
	raw, ok := rawText(fields, name)
	if !ok || raw == "" {
		return "", false
	}
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed, true
	}
	return "0", true
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case decimal.Decimal:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
