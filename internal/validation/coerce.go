package validation

import (
	"github.com/fptthinhgreenwich/qlkhohang/internal/domain"
)

// Coerce converts validated fields into a strictly typed item input. Strings are
// trimmed, blank optional fields become nil, quantity and unit price are parsed
// (whitespace-only numbers read as zero).
// Callers must run Validate first; Coerce does not report errors.
func Coerce(fields Fields) domain.ItemInput {
	sku, _ := trimmedText(fields, FieldSKU)
	name, _ := trimmedText(fields, FieldName)
	status, _ := trimmedText(fields, FieldStatus)

	in := domain.ItemInput{
		SKU:      sku,
		Name:     name,
		Category: optional(fields, FieldCategory),
		Supplier: optional(fields, FieldSupplier),
		Status:   domain.Status(status),
		Note:     optional(fields, FieldNote),
	}

	if raw, ok := numberText(fields, FieldQuantity); ok {
		if qty, err := parseNumber(raw); err == nil {
			in.Quantity = int(qty.IntPart())
		}
	}

	if raw, ok := numberText(fields, FieldUnitPrice); ok {
		if price, err := parseNumber(raw); err == nil {
			in.UnitPrice = price
		}
	}

	return in
}

func optional(fields Fields, name string) *string {
	v, ok := trimmedText(fields, name)
	if !ok || v == "" {
		return nil
	}
	return &v
}
