package domain

// SortField is a sortable item attribute
type SortField string

const (
	SortBySKU       SortField = "sku"
	SortByName      SortField = "name"
	SortByCategory  SortField = "category"
	SortByQuantity  SortField = "quantity"
	SortByUnitPrice SortField = "unitPrice"
	SortByStatus    SortField = "status"
	SortByUpdatedAt SortField = "updatedAt"
	SortByCreatedAt SortField = "createdAt"
)

// SortFields lists every sortable attribute in a fixed order
var SortFields = []SortField{
	SortBySKU,
	SortByName,
	SortByCategory,
	SortByQuantity,
	SortByUnitPrice,
	SortByStatus,
	SortByUpdatedAt,
	SortByCreatedAt,
}

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// Sort describes how a result set is ordered
type Sort struct {
	Field SortField
	Order SortOrder
}

// ItemFilter is the predicate used to select items.
// Zero values impose no restriction.
type ItemFilter struct {
	// Search is a case-insensitive literal substring matched against
	// sku, name, category and supplier.
	Search string
	Status Status
	// SKU is an exact, case-sensitive match.
	SKU string
	// ExcludeID drops the item with this id from the match.
	ExcludeID string
}
