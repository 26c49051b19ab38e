package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
)

// CollectionName is the collection holding order documents.
const CollectionName = "orders"

var _ ports.Repository = (*Repository)(nil)

// Repository stores each order as a single document, items embedded, so an
// item change and the recomputed order status land in one write.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository wires a MongoDB-backed repository on the given database.
func NewRepository(db *mongo.Database) *Repository {
	if db == nil {
		return &Repository{}
	}
	return &Repository{collection: db.Collection(CollectionName)}
}

// EnsureIndexes creates the store listing index. Safe to call repeatedly.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	if err := r.ensureCollection(); err != nil {
		return err
	}
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "storeId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "storeId", Value: 1}, {Key: "orderStatus", Value: 1}}},
	})
	return err
}

type orderDocument struct {
	ID             string           `bson:"_id"`
	StoreID        string           `bson:"storeId"`
	Customer       customerDocument `bson:"customer"`
	ShippingMethod string           `bson:"shippingMethod"`
	Items          []itemDocument   `bson:"items"`
	Summary        summaryDocument  `bson:"summary"`
	Refund         *refundDocument  `bson:"refund"`
	OrderStatus    string           `bson:"orderStatus"`
	Note           string           `bson:"note,omitempty"`
	Version        int64            `bson:"version"`
	CreatedAt      time.Time        `bson:"createdAt"`
	UpdatedAt      time.Time        `bson:"updatedAt"`
}

type customerDocument struct {
	FirstName string `bson:"firstName"`
	LastName  string `bson:"lastName"`
	Email     string `bson:"email"`
	Phone     string `bson:"phone,omitempty"`
}

type itemDocument struct {
	ID        string               `bson:"id"`
	ProductID string               `bson:"productId"`
	SKU       string               `bson:"sku"`
	Name      string               `bson:"name"`
	Size      string               `bson:"size,omitempty"`
	Color     string               `bson:"color,omitempty"`
	Quantity  int                  `bson:"quantity"`
	UnitPrice primitive.Decimal128 `bson:"unitPrice"`
	ItemTotal primitive.Decimal128 `bson:"itemTotal"`
	Status    itemStatusDocument   `bson:"status"`
}

type itemStatusDocument struct {
	Current string                          `bson:"current"`
	Meta    map[string]statusChangeDocument `bson:"meta"`
}

type statusChangeDocument struct {
	User      string    `bson:"user"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type summaryDocument struct {
	Subtotal primitive.Decimal128 `bson:"subtotal"`
	SalesTax primitive.Decimal128 `bson:"salesTax"`
	Shipping primitive.Decimal128 `bson:"shipping"`
	Total    primitive.Decimal128 `bson:"total"`
}

type refundDocument struct {
	Amount    primitive.Decimal128 `bson:"amount"`
	Full      bool                 `bson:"full"`
	Reason    string               `bson:"reason"`
	User      string               `bson:"user"`
	CreatedAt time.Time            `bson:"createdAt"`
}

// Create inserts a new order at version 1.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	created := order.Clone()
	created.Version = 1
	doc, err := toDocument(created)
	if err != nil {
		return nil, err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ports.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// GetByID fetches an order within a store.
func (r *Repository) GetByID(ctx context.Context, storeID, orderID string) (*domain.Order, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	var doc orderDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": orderID, "storeId": storeID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

// ListByStore returns the store's orders oldest first.
func (r *Repository) ListByStore(ctx context.Context, storeID string, filter ports.ListFilter) ([]*domain.Order, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	query := bson.M{"storeId": storeID}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		query["orderStatus"] = bson.M{"$in": statuses}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		order, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Update replaces the mutable fields when the stored version still matches.
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	saved := order.Clone()
	saved.Version = order.Version + 1
	doc, err := toDocument(saved)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": order.ID, "storeId": order.StoreID, "version": order.Version}
	update := bson.M{"$set": bson.M{
		"items":       doc.Items,
		"summary":     doc.Summary,
		"refund":      doc.Refund,
		"orderStatus": doc.OrderStatus,
		"note":        doc.Note,
		"version":     doc.Version,
		"updatedAt":   doc.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": order.ID, "storeId": order.StoreID})
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrVersionConflict
	}
	return saved, nil
}

func (r *Repository) ensureCollection() error {
	if r == nil || r.collection == nil {
		return errors.New("mongo order repository not configured")
	}
	return nil
}

func toDocument(order *domain.Order) (orderDocument, error) {
	summary, err := toSummaryDocument(order.Summary)
	if err != nil {
		return orderDocument{}, err
	}
	doc := orderDocument{
		ID:      order.ID,
		StoreID: order.StoreID,
		Customer: customerDocument{
			FirstName: order.Customer.FirstName,
			LastName:  order.Customer.LastName,
			Email:     order.Customer.Email,
			Phone:     order.Customer.Phone,
		},
		ShippingMethod: string(order.ShippingMethod),
		Items:          make([]itemDocument, 0, len(order.Items)),
		Summary:        summary,
		OrderStatus:    string(order.Status),
		Note:           order.Note,
		Version:        order.Version,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	for _, item := range order.Items {
		unitPrice, err := toDecimal128(item.UnitPrice)
		if err != nil {
			return orderDocument{}, err
		}
		itemTotal, err := toDecimal128(item.LineTotal)
		if err != nil {
			return orderDocument{}, err
		}
		meta := make(map[string]statusChangeDocument, len(item.Status.Meta))
		for status, change := range item.Status.Meta {
			meta[string(status)] = statusChangeDocument{User: change.User, UpdatedAt: change.UpdatedAt}
		}
		doc.Items = append(doc.Items, itemDocument{
			ID:        item.ID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			ItemTotal: itemTotal,
			Status:    itemStatusDocument{Current: string(item.Status.Current), Meta: meta},
		})
	}
	if order.Refund != nil {
		amount, err := toDecimal128(order.Refund.Amount)
		if err != nil {
			return orderDocument{}, err
		}
		doc.Refund = &refundDocument{
			Amount:    amount,
			Full:      order.Refund.Full,
			Reason:    order.Refund.Reason,
			User:      order.Refund.User,
			CreatedAt: order.Refund.CreatedAt,
		}
	}
	return doc, nil
}

func (d orderDocument) toDomain() (*domain.Order, error) {
	summary, err := d.Summary.toDomain()
	if err != nil {
		return nil, err
	}
	order := &domain.Order{
		ID:      d.ID,
		StoreID: d.StoreID,
		Customer: domain.Customer{
			FirstName: d.Customer.FirstName,
			LastName:  d.Customer.LastName,
			Email:     d.Customer.Email,
			Phone:     d.Customer.Phone,
		},
		ShippingMethod: domain.ShippingMethod(d.ShippingMethod),
		Items:          make([]domain.Item, 0, len(d.Items)),
		Summary:        summary,
		Status:         domain.OrderStatus(d.OrderStatus),
		Note:           d.Note,
		Version:        d.Version,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	for _, item := range d.Items {
		unitPrice, err := fromDecimal128(item.UnitPrice)
		if err != nil {
			return nil, err
		}
		itemTotal, err := fromDecimal128(item.ItemTotal)
		if err != nil {
			return nil, err
		}
		meta := make(map[domain.ItemStatus]domain.StatusChange, len(item.Status.Meta))
		for status, change := range item.Status.Meta {
			meta[domain.ItemStatus(status)] = domain.StatusChange{User: change.User, UpdatedAt: change.UpdatedAt}
		}
		order.Items = append(order.Items, domain.Item{
			ID:        item.ID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			LineTotal: itemTotal,
			Status:    domain.ItemStatusState{Current: domain.ItemStatus(item.Status.Current), Meta: meta},
		})
	}
	if d.Refund != nil {
		amount, err := fromDecimal128(d.Refund.Amount)
		if err != nil {
			return nil, err
		}
		order.Refund = &domain.Refund{
			Amount:    amount,
			Full:      d.Refund.Full,
			Reason:    d.Refund.Reason,
			User:      d.Refund.User,
			CreatedAt: d.Refund.CreatedAt,
		}
	}
	return order, nil
}

func toSummaryDocument(s domain.Summary) (summaryDocument, error) {
	var doc summaryDocument
	var err error
	if doc.Subtotal, err = toDecimal128(s.Subtotal); err != nil {
		return summaryDocument{}, err
	}
	if doc.SalesTax, err = toDecimal128(s.SalesTax); err != nil {
		return summaryDocument{}, err
	}
	if doc.Shipping, err = toDecimal128(s.Shipping); err != nil {
		return summaryDocument{}, err
	}
	if doc.Total, err = toDecimal128(s.Total); err != nil {
		return summaryDocument{}, err
	}
	return doc, nil
}

func (d summaryDocument) toDomain() (domain.Summary, error) {
	var s domain.Summary
	var err error
	if s.Subtotal, err = fromDecimal128(d.Subtotal); err != nil {
		return domain.Summary{}, err
	}
	if s.SalesTax, err = fromDecimal128(d.SalesTax); err != nil {
		return domain.Summary{}, err
	}
	if s.Shipping, err = fromDecimal128(d.Shipping); err != nil {
		return domain.Summary{}, err
	}
	if s.Total, err = fromDecimal128(d.Total); err != nil {
		return domain.Summary{}, err
	}
	return s, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	value, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode amount %s: %w", d.String(), err)
	}
	return value, nil
}

func fromDecimal128(value primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode amount %s: %w", value.String(), err)
	}
	return d, nil
}
