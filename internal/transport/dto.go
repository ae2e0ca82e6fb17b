package transport

import (
	"time"

	"github.com/fptthinhgreenwich/qlkhohang/internal/domain"
	"github.com/fptthinhgreenwich/qlkhohang/internal/service"
)

// ItemResponse is the wire form of an inventory item.
// Optional fields are always present and null when absent.
type ItemResponse struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Category  *string   `json:"category"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	Supplier  *string   `json:"supplier"`
	Status    string    `json:"status"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListMeta describes the page returned by a list request
type ListMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// ListResponse is one page of items
type ListResponse struct {
	Data []ItemResponse `json:"data"`
	Meta ListMeta       `json:"meta"`
}

// ValidateResponse is the verdict of the interactive validation endpoint
type ValidateResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// HealthResponse reports process liveness
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func newItemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		SKU:       item.SKU,
		Name:      item.Name,
		Category:  item.Category,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice.InexactFloat64(),
		Supplier:  item.Supplier,
		Status:    string(item.Status),
		Note:      item.Note,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func newListResponse(res *service.ListResult) ListResponse {
	data := make([]ItemResponse, 0, len(res.Items))
	for _, item := range res.Items {
		data = append(data, newItemResponse(item))
	}

	return ListResponse{
		Data: data,
		Meta: ListMeta{
			Page:     res.Page,
			PageSize: res.PageSize,
			Total:    res.Total,
		},
	}
}
