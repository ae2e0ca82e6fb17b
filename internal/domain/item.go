package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an inventory item
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Item represents a single inventory record
type Item struct {
	ID        string
	SKU       string
	Name      string
	Category  *string
	Quantity  int
	UnitPrice decimal.Decimal
	Supplier  *string
	Status    Status
	Note      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemInput holds the mutable fields of an item after coercion.
// Optional fields are nil when absent.
type ItemInput struct {
	SKU       string
	Name      string
	Category  *string
	Quantity  int
	UnitPrice decimal.Decimal
	Supplier  *string
	Status    Status
	Note      *string
}

// Apply copies every mutable field from in onto the item
func (i *Item) Apply(in ItemInput) {
	i.SKU = in.SKU
	i.Name = in.Name
	i.Category = in.Category
	i.Quantity = in.Quantity
	i.UnitPrice = in.UnitPrice
	i.Supplier = in.Supplier
	i.Status = in.Status
	i.Note = in.Note
}

// Clone returns a deep copy of the item
func (i *Item) Clone() *Item {
	c := *i
	c.Category = cloneString(i.Category)
	c.Supplier = cloneString(i.Supplier)
	c.Note = cloneString(i.Note)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
