// Package seed resets the item store to a small set of sample items.
package seed

import (
	"context"
	"fmt"

	"github.com/fptthinhgreenwich/qlkhohang/internal/domain"
	"github.com/fptthinhgreenwich/qlkhohang/internal/repository"
	"github.com/fptthinhgreenwich/qlkhohang/internal/service"
	"github.com/fptthinhgreenwich/qlkhohang/internal/validation"

	"go.uber.org/zap"
)

const clearBatchSize = 100

// SampleItems returns the items written by Run, as create payloads
func SampleItems() []validation.Fields {
	return []validation.Fields{
		{
			"sku":       "SKU-0001",
			"name":      "USB Keyboard",
			"category":  "Accessories",
			"quantity":  25,
			"unitPrice": "12.50",
			"supplier":  "Tech Supplier A",
			"status":    "active",
			"note":      "Basic model",
		},
		{
			"sku":       "SKU-0002",
			"name":      "Wireless Mouse",
			"category":  "Accessories",
			"quantity":  40,
			"unitPrice": "9.99",
			"supplier":  "Tech Supplier B",
			"status":    "active",
			"note":      nil,
		},
		{
			"sku":       "SKU-0003",
			"name":      "27-inch Monitor",
			"category":  "Display",
			"quantity":  10,
			"unitPrice": "149.00",
			"supplier":  "Tech Supplier A",
			"status":    "inactive",
			"note":      "Discontinued",
		},
	}
}

// Run deletes every stored item and inserts the sample items through the
// item service, so they pass the same validation as API writes.
func Run(ctx context.Context, repo repository.ItemRepository, logger *zap.Logger) ([]*domain.Item, error) {
	cleared, err := clear(ctx, repo)
	if err != nil {
		return nil, err
	}
	logger.Info("Cleared existing inventory items", zap.Int("count", cleared))

	itemService := service.NewItemService(repo)

	inserted := make([]*domain.Item, 0, len(SampleItems()))
	for _, fields := range SampleItems() {
		item, err := itemService.Create(ctx, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sample item %v: %w", fields["sku"], err)
		}
		logger.Info("Inserted sample item", zap.String("sku", item.SKU), zap.String("name", item.Name))
		inserted = append(inserted, item)
	}

	return inserted, nil
}

func clear(ctx context.Context, repo repository.ItemRepository) (int, error) {
	sort := domain.Sort{Field: domain.SortByCreatedAt, Order: domain.SortOrderAsc}

	total := 0
	for {
		batch, err := repo.Find(ctx, domain.ItemFilter{}, sort, 0, clearBatchSize)
		if err != nil {
			return total, fmt.Errorf("failed to list items: %w", err)
		}
		if len(batch) == 0 {
			return total, nil
		}

		for _, item := range batch {
			if _, err := repo.DeleteByID(ctx, item.ID); err != nil {
				return total, fmt.Errorf("failed to delete item %s: %w", item.ID, err)
			}
			total++
		}
	}
}
