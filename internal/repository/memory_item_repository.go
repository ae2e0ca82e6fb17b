package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/fptthinhgreenwich/qlkhohang/internal/domain"

	"github.com/google/uuid"
)

type memoryItemRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Item
	bySKU map[string]string
}

// NewMemoryItemRepository creates an ItemRepository kept entirely in process memory
func NewMemoryItemRepository() ItemRepository {
	return &memoryItemRepository{
		items: make(map[string]*domain.Item),
		bySKU: make(map[string]string),
	}
}

func (r *memoryItemRepository) Count(_ context.Context, filter domain.ItemFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, item := range r.items {
		if matches(item, filter) {
			total++
		}
	}
	return total, nil
}

func (r *memoryItemRepository) Find(_ context.Context, filter domain.ItemFilter, sort domain.Sort, offset, limit int) ([]*domain.Item, error) {
	r.mu.RLock()
	matched := []*domain.Item{}
	for _, item := range r.items {
		if matches(item, filter) {
			matched = append(matched, item.Clone())
		}
	}
	r.mu.RUnlock()

	desc := sort.Order != domain.SortOrderAsc
	slices.SortFunc(matched, func(a, b *domain.Item) int {
		c := compareBy(sort.Field, a, b)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})

	if offset >= len(matched) {
		return []*domain.Item{}, nil
	}
	end := min(len(matched), offset+limit)
	return matched[offset:end], nil
}

func (r *memoryItemRepository) FindOne(_ context.Context, filter domain.ItemFilter) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if filter.SKU != "" {
		id, ok := r.bySKU[filter.SKU]
		if !ok || !matches(r.items[id], filter) {
			return nil, ErrItemNotFound
		}
		return r.items[id].Clone(), nil
	}

	for _, item := range r.items {
		if matches(item, filter) {
			return item.Clone(), nil
		}
	}
	return nil, ErrItemNotFound
}

func (r *memoryItemRepository) FindByID(_ context.Context, id string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return item.Clone(), nil
}

func (r *memoryItemRepository) Insert(_ context.Context, item *domain.Item) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySKU[item.SKU]; taken {
		return nil, ErrDuplicateSKU
	}

	stored := item.Clone()
	stored.ID = uuid.NewString()
	r.items[stored.ID] = stored
	r.bySKU[stored.SKU] = stored.ID

	return stored.Clone(), nil
}

func (r *memoryItemRepository) UpdateByID(_ context.Context, id string, item *domain.Item) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	if owner, taken := r.bySKU[item.SKU]; taken && owner != id {
		return nil, ErrDuplicateSKU
	}

	stored := item.Clone()
	stored.ID = id
	stored.CreatedAt = existing.CreatedAt
	delete(r.bySKU, existing.SKU)
	r.items[id] = stored
	r.bySKU[stored.SKU] = id

	return stored.Clone(), nil
}

func (r *memoryItemRepository) DeleteByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return false, nil
	}
	delete(r.items, id)
	delete(r.bySKU, item.SKU)
	return true, nil
}

func (r *memoryItemRepository) Ping(context.Context) error {
	return nil
}

func matches(item *domain.Item, filter domain.ItemFilter) bool {
	if filter.Status != "" && item.Status != filter.Status {
		return false
	}
	if filter.SKU != "" && item.SKU != filter.SKU {
		return false
	}
	if filter.ExcludeID != "" && item.ID == filter.ExcludeID {
		return false
	}
	if filter.Search == "" {
		return true
	}

	needle := strings.ToLower(filter.Search)
	for _, field := range []*string{&item.SKU, &item.Name, item.Category, item.Supplier} {
		if field != nil && strings.Contains(strings.ToLower(*field), needle) {
			return true
		}
	}
	return false
}

// compareBy orders two items by one attribute; absent optional values sort first
func compareBy(field domain.SortField, a, b *domain.Item) int {
	switch field {
	case domain.SortBySKU:
		return strings.Compare(a.SKU, b.SKU)
	case domain.SortByName:
		return strings.Compare(a.Name, b.Name)
	case domain.SortByCategory:
		return compareOptional(a.Category, b.Category)
	case domain.SortByQuantity:
		return cmp.Compare(a.Quantity, b.Quantity)
	case domain.SortByUnitPrice:
		return a.UnitPrice.Cmp(b.UnitPrice)
	case domain.SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case domain.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
}

func compareOptional(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return strings.Compare(*a, *b)
}
