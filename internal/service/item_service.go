package service

import (
	"context"
	"errors"
	"time"

	"github.com/fptthinhgreenwich/qlkhohang/internal/domain"
	"github.com/fptthinhgreenwich/qlkhohang/internal/listquery"
	"github.com/fptthinhgreenwich/qlkhohang/internal/repository"
	"github.com/fptthinhgreenwich/qlkhohang/internal/validation"

	"golang.org/x/sync/errgroup"
)

// ListResult is one page of items with its pagination metadata
type ListResult struct {
	Items    []*domain.Item
	Page     int
	PageSize int
	Total    int64
}

// ItemService defines the interface for inventory item business logic.
// Every failure is returned as *Error.
type ItemService interface {
	List(ctx context.Context, params listquery.Params) (*ListResult, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
	Create(ctx context.Context, fields validation.Fields) (*domain.Item, error)
	Update(ctx context.Context, id string, fields validation.Fields) (*domain.Item, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type itemService struct {
	repo repository.ItemRepository
	now  func() time.Time
}

// NewItemService creates a new instance of ItemService
func NewItemService(repo repository.ItemRepository) ItemService {
	return newItemService(repo, func() time.Time {
		return time.Now().UTC().Truncate(time.Millisecond)
	})
}

func newItemService(repo repository.ItemRepository, now func() time.Time) *itemService {
	return &itemService{repo: repo, now: now}
}

// List plans the query and fetches the page and the total concurrently
func (s *itemService) List(ctx context.Context, params listquery.Params) (*ListResult, error) {
	plan := listquery.Build(params)

	var (
		items []*domain.Item
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, plan.Filter)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.Find(gctx, plan.Filter, plan.Sort, plan.Offset, plan.Limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internalError("list items", err)
	}

	if items == nil {
		items = []*domain.Item{}
	}

	return &ListResult{
		Items:    items,
		Page:     plan.Page,
		PageSize: plan.PageSize,
		Total:    total,
	}, nil
}

// Get retrieves a single item
func (s *itemService) Get(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("get item", err)
	}
	return item, nil
}

// Create validates the fields and stores a new item
func (s *itemService) Create(ctx context.Context, fields validation.Fields) (*domain.Item, error) {
	if errs := validation.Validate(fields, false); !errs.Valid() {
		return nil, validationError(errs)
	}

	in := validation.Coerce(fields)
	if err := s.ensureSKUAvailable(ctx, in.SKU, ""); err != nil {
		return nil, err
	}

	now := s.now()
	item := &domain.Item{CreatedAt: now, UpdatedAt: now}
	item.Apply(in)

	created, err := s.repo.Insert(ctx, item)
	if err != nil {
		return nil, storeError("create item", err)
	}

	return created, nil
}

// Update replaces every mutable field of an existing item
func (s *itemService) Update(ctx context.Context, id string, fields validation.Fields) (*domain.Item, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("get item", err)
	}

	if errs := validation.Validate(fields, true); !errs.Valid() {
		return nil, validationError(errs)
	}

	in := validation.Coerce(fields)
	if err := s.ensureSKUAvailable(ctx, in.SKU, existing.ID); err != nil {
		return nil, err
	}

	item := existing.Clone()
	item.Apply(in)
	item.UpdatedAt = s.now()

	updated, err := s.repo.UpdateByID(ctx, existing.ID, item)
	if err != nil {
		return nil, storeError("update item", err)
	}

	return updated, nil
}

// Delete removes an item
func (s *itemService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return internalError("delete item", err)
	}
	if !deleted {
		return notFoundError(repository.ErrItemNotFound)
	}
	return nil
}

// Ping checks that the item store is reachable
func (s *itemService) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return internalError("ping item store", err)
	}
	return nil
}

// ensureSKUAvailable fails with a conflict when another item already owns sku
func (s *itemService) ensureSKUAvailable(ctx context.Context, sku, excludeID string) error {
	_, err := s.repo.FindOne(ctx, domain.ItemFilter{SKU: sku, ExcludeID: excludeID})
	switch {
	case err == nil:
		return conflictError(repository.ErrDuplicateSKU)
	case errors.Is(err, repository.ErrItemNotFound):
		return nil
	default:
		return internalError("check sku", err)
	}
}

// storeError maps repository sentinels onto tagged service errors
func storeError(op string, err error) *Error {
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		return notFoundError(err)
	case errors.Is(err, repository.ErrDuplicateSKU):
		return conflictError(err)
	default:
		return internalError(op, err)
	}
}
