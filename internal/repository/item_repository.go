package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fptthinhgreenwich/qlkhohang/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrDuplicateSKU = errors.New("duplicate sku")
)

// ItemRepository defines the interface for inventory item data access
type ItemRepository interface {
	Count(ctx context.Context, filter domain.ItemFilter) (int64, error)
	Find(ctx context.Context, filter domain.ItemFilter, sort domain.Sort, offset, limit int) ([]*domain.Item, error)
	FindOne(ctx context.Context, filter domain.ItemFilter) (*domain.Item, error)
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	// Insert stores a new item and returns it with its assigned id.
	Insert(ctx context.Context, item *domain.Item) (*domain.Item, error)
	UpdateByID(ctx context.Context, id string, item *domain.Item) (*domain.Item, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
}

const itemColumns = `id, sku, name, category, quantity, unit_price, supplier, status, note, created_at, updated_at`

// sortColumns maps sortable attributes to their columns
var sortColumns = map[domain.SortField]string{
	domain.SortBySKU:       "sku",
	domain.SortByName:      "name",
	domain.SortByCategory:  "category",
	domain.SortByQuantity:  "quantity",
	domain.SortByUnitPrice: "unit_price",
	domain.SortByStatus:    "status",
	domain.SortByUpdatedAt: "updated_at",
	domain.SortByCreatedAt: "created_at",
}

type itemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository creates a PostgreSQL backed ItemRepository
func NewItemRepository(db *pgxpool.Pool) ItemRepository {
	return &itemRepository{db: db}
}

// Count returns the number of items matching the filter
func (r *itemRepository) Count(ctx context.Context, filter domain.ItemFilter) (int64, error) {
	where, args := buildWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM items"+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}

	return total, nil
}

// Find retrieves one page of items matching the filter
func (r *itemRepository) Find(ctx context.Context, filter domain.ItemFilter, sort domain.Sort, offset, limit int) ([]*domain.Item, error) {
	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "updated_at"
	}
	// Missing values sort lowest, as in the memory and MongoDB stores.
	order, nulls := domain.SortOrderDesc, "NULLS LAST"
	if sort.Order == domain.SortOrderAsc {
		order, nulls = domain.SortOrderAsc, "NULLS FIRST"
	}

	where, args := buildWhere(filter)
	query := fmt.Sprintf(`
		SELECT %s
		FROM items%s
		ORDER BY %s %s %s, id %s
		LIMIT $%d OFFSET $%d
	`, itemColumns, where, column, order, nulls, order, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []*domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// FindOne retrieves the first item matching the filter
func (r *itemRepository) FindOne(ctx context.Context, filter domain.ItemFilter) (*domain.Item, error) {
	where, args := buildWhere(filter)
	query := "SELECT " + itemColumns + " FROM items" + where + " LIMIT 1"

	item, err := scanItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	return item, nil
}

// FindByID retrieves an item by ID
func (r *itemRepository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	query := "SELECT " + itemColumns + " FROM items WHERE id = $1"

	item, err := scanItem(r.db.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}

	return item, nil
}

// Insert stores a new item under a freshly generated UUID
func (r *itemRepository) Insert(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	query := `
		INSERT INTO items (id, sku, name, category, quantity, unit_price, supplier, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + itemColumns

	created, err := scanItem(r.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		item.SKU,
		item.Name,
		item.Category,
		item.Quantity,
		item.UnitPrice,
		item.Supplier,
		string(item.Status),
		item.Note,
		item.CreatedAt,
		item.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSKU
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return created, nil
}

// UpdateByID replaces the mutable fields of an item
func (r *itemRepository) UpdateByID(ctx context.Context, id string, item *domain.Item) (*domain.Item, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	query := `
		UPDATE items
		SET sku = $2, name = $3, category = $4, quantity = $5, unit_price = $6,
		    supplier = $7, status = $8, note = $9, updated_at = $10
		WHERE id = $1
		RETURNING ` + itemColumns

	updated, err := scanItem(r.db.QueryRow(
		ctx,
		query,
		uid,
		item.SKU,
		item.Name,
		item.Category,
		item.Quantity,
		item.UnitPrice,
		item.Supplier,
		string(item.Status),
		item.Note,
		item.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSKU
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return updated, nil
}

// DeleteByID removes an item, reporting whether it existed
func (r *itemRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, uid)
	if err != nil {
		return false, fmt.Errorf("failed to delete item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Ping checks the database connection
func (r *itemRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// buildWhere renders the filter as a WHERE clause with positional arguments
func buildWhere(filter domain.ItemFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + escapeLike(filter.Search) + "%")
		conds = append(conds, fmt.Sprintf(
			"(sku ILIKE %[1]s OR name ILIKE %[1]s OR category ILIKE %[1]s OR supplier ILIKE %[1]s)", p))
	}
	if filter.Status != "" {
		conds = append(conds, "status = "+arg(string(filter.Status)))
	}
	if filter.SKU != "" {
		conds = append(conds, "sku = "+arg(filter.SKU))
	}
	if filter.ExcludeID != "" {
		// a malformed id cannot match any row, so there is nothing to exclude
		if uid, err := uuid.Parse(filter.ExcludeID); err == nil {
			conds = append(conds, "id <> "+arg(uid))
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var (
		item   domain.Item
		id     uuid.UUID
		status string
	)
	err := row.Scan(
		&id,
		&item.SKU,
		&item.Name,
		&item.Category,
		&item.Quantity,
		&item.UnitPrice,
		&item.Supplier,
		&status,
		&item.Note,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.ID = id.String()
	item.Status = domain.Status(status)
	return &item, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
