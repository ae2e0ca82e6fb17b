package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/fptthinhgreenwich/qlkhohang/internal/domain"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// itemDocument is the stored shape of an item in MongoDB
type itemDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	SKU       string               `bson:"sku"`
	Name      string               `bson:"name"`
	Category  *string              `bson:"category"`
	Quantity  int64                `bson:"quantity"`
	UnitPrice primitive.Decimal128 `bson:"unitPrice"`
	Supplier  *string              `bson:"supplier"`
	Status    string               `bson:"status"`
	Note      *string              `bson:"note"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

type mongoItemRepository struct {
	coll *mongo.Collection
}

// NewMongoItemRepository creates a MongoDB backed ItemRepository.
// The collection needs a unique index on sku, see database.EnsureItemIndexes.
func NewMongoItemRepository(coll *mongo.Collection) ItemRepository {
	return &mongoItemRepository{coll: coll}
}

// Count returns the number of items matching the filter
func (r *mongoItemRepository) Count(ctx context.Context, filter domain.ItemFilter) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, buildMongoFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return total, nil
}

// Find retrieves one page of items matching the filter
func (r *mongoItemRepository) Find(ctx context.Context, filter domain.ItemFilter, sort domain.Sort, offset, limit int) ([]*domain.Item, error) {
	dir := -1
	if sort.Order == domain.SortOrderAsc {
		dir = 1
	}
	field := string(sort.Field)
	if _, ok := sortColumns[sort.Field]; !ok {
		field = string(domain.SortByUpdatedAt)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, buildMongoFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*domain.Item{}
	for cursor.Next(ctx) {
		var doc itemDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode item: %w", err)
		}
		item, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// FindOne retrieves the first item matching the filter
func (r *mongoItemRepository) FindOne(ctx context.Context, filter domain.ItemFilter) (*domain.Item, error) {
	return r.findOne(ctx, buildMongoFilter(filter))
}

// FindByID retrieves an item by its ObjectID hex string
func (r *mongoItemRepository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrItemNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoItemRepository) findOne(ctx context.Context, filter bson.M) (*domain.Item, error) {
	var doc itemDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	return doc.toDomain()
}

// Insert stores a new item, letting MongoDB assign the ObjectID
func (r *mongoItemRepository) Insert(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	doc, err := newItemDocument(item)
	if err != nil {
		return nil, err
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateSKU
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to create item: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid

	return doc.toDomain()
}

// UpdateByID replaces the mutable fields of an item
func (r *mongoItemRepository) UpdateByID(ctx context.Context, id string, item *domain.Item) (*domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	doc, err := newItemDocument(item)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"sku":       doc.SKU,
		"name":      doc.Name,
		"category":  doc.Category,
		"quantity":  doc.Quantity,
		"unitPrice": doc.UnitPrice,
		"supplier":  doc.Supplier,
		"status":    doc.Status,
		"note":      doc.Note,
		"updatedAt": doc.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated itemDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateSKU
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return updated.toDomain()
}

// DeleteByID removes an item, reporting whether it existed
func (r *mongoItemRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("failed to delete item: %w", err)
	}

	return res.DeletedCount > 0, nil
}

// Ping checks the connection to the primary
func (r *mongoItemRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func buildMongoFilter(filter domain.ItemFilter) bson.M {
	m := bson.M{}

	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		m["$or"] = bson.A{
			bson.M{"sku": re},
			bson.M{"name": re},
			bson.M{"category": re},
			bson.M{"supplier": re},
		}
	}
	if filter.Status != "" {
		m["status"] = string(filter.Status)
	}
	if filter.SKU != "" {
		m["sku"] = filter.SKU
	}
	if filter.ExcludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(filter.ExcludeID); err == nil {
			m["_id"] = bson.M{"$ne": oid}
		}
	}

	return m
}

func newItemDocument(item *domain.Item) (*itemDocument, error) {
	price, err := primitive.ParseDecimal128(item.UnitPrice.String())
	if err != nil {
		return nil, fmt.Errorf("failed to encode unit price: %w", err)
	}

	return &itemDocument{
		SKU:       item.SKU,
		Name:      item.Name,
		Category:  item.Category,
		Quantity:  int64(item.Quantity),
		UnitPrice: price,
		Supplier:  item.Supplier,
		Status:    string(item.Status),
		Note:      item.Note,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}, nil
}

func (d *itemDocument) toDomain() (*domain.Item, error) {
	price, err := decimal.NewFromString(d.UnitPrice.String())
	if err != nil {
		return nil, fmt.Errorf("failed to decode unit price: %w", err)
	}

	return &domain.Item{
		ID:        d.ID.Hex(),
		SKU:       d.SKU,
		Name:      d.Name,
		Category:  d.Category,
		Quantity:  int(d.Quantity),
		UnitPrice: price,
		Supplier:  d.Supplier,
		Status:    domain.Status(d.Status),
		Note:      d.Note,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}
