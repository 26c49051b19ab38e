package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Items, customer and
// refund are stored as jsonb documents next to the relational status columns.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and schema.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// columns rewritten by Update; identity, customer and creation time never change.
var mutableColumns = []string{
	"items", "subtotal", "sales_tax", "shipping", "total", "refund", "status", "note", "version", "updated_at",
}

type orderRecord struct {
	ID             string          `gorm:"primaryKey;column:id;size:64"`
	StoreID        string          `gorm:"column:store_id;size:64;index:idx_orders_store_status"`
	Customer       customerRecord  `gorm:"column:customer;type:jsonb;serializer:json"`
	ShippingMethod string          `gorm:"column:shipping_method;type:varchar(16)"`
	Items          []itemRecord    `gorm:"column:items;type:jsonb;serializer:json"`
	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2)"`
	SalesTax       decimal.Decimal `gorm:"column:sales_tax;type:numeric(12,2)"`
	Shipping       decimal.Decimal `gorm:"column:shipping;type:numeric(12,2)"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	Refund         *refundRecord   `gorm:"column:refund;type:jsonb;serializer:json"`
	Status         string          `gorm:"column:status;type:varchar(32);index:idx_orders_store_status"`
	Note           string          `gorm:"column:note"`
	Version        int64           `gorm:"column:version;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime:false;index"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (orderRecord) TableName() string { return "orders" }

type customerRecord struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type itemRecord struct {
	ID        string           `json:"id"`
	ProductID string           `json:"productId"`
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	Size      string           `json:"size,omitempty"`
	Color     string           `json:"color,omitempty"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
	LineTotal decimal.Decimal  `json:"itemTotal"`
	Status    itemStatusRecord `json:"status"`
}

type itemStatusRecord struct {
	Current string                        `json:"current"`
	Meta    map[string]statusChangeRecord `json:"meta"`
}

type statusChangeRecord struct {
	User      string    `json:"user"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type refundRecord struct {
	Amount    decimal.Decimal `json:"amount"`
	Full      bool            `json:"full"`
	Reason    string          `json:"reason"`
	User      string          `json:"user"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Create inserts a new order at version 1.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	record.Version = 1
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrAlreadyExists
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an order within a store.
func (r *Repository) GetByID(ctx context.Context, storeID, orderID string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Where("id = ? AND store_id = ?", orderID, storeID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByStore returns the store's orders oldest first.
func (r *Repository) ListByStore(ctx context.Context, storeID string, filter ports.ListFilter) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		query = query.Where("status IN ?", statuses)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	var records []orderRecord
	if err := query.Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// Update compare-and-swaps the mutable columns on (id, store_id, version).
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	record.Version = order.Version + 1
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND store_id = ? AND version = ?", order.ID, order.StoreID, order.Version).
		Select(mutableColumns).
		Updates(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, r.missOrConflict(ctx, order.StoreID, order.ID)
	}
	saved := order.Clone()
	saved.Version = record.Version
	return saved, nil
}

func (r *Repository) missOrConflict(ctx context.Context, storeID, orderID string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ? AND store_id = ?", orderID, storeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrVersionConflict
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:      order.ID,
		StoreID: order.StoreID,
		Customer: customerRecord{
			FirstName: order.Customer.FirstName,
			LastName:  order.Customer.LastName,
			Email:     order.Customer.Email,
			Phone:     order.Customer.Phone,
		},
		ShippingMethod: string(order.ShippingMethod),
		Items:          make([]itemRecord, 0, len(order.Items)),
		Subtotal:       order.Summary.Subtotal,
		SalesTax:       order.Summary.SalesTax,
		Shipping:       order.Summary.Shipping,
		Total:          order.Summary.Total,
		Status:         string(order.Status),
		Note:           order.Note,
		Version:        order.Version,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	for _, item := range order.Items {
		meta := make(map[string]statusChangeRecord, len(item.Status.Meta))
		for status, change := range item.Status.Meta {
			meta[string(status)] = statusChangeRecord{User: change.User, UpdatedAt: change.UpdatedAt}
		}
		rec.Items = append(rec.Items, itemRecord{
			ID:        item.ID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
			Status:    itemStatusRecord{Current: string(item.Status.Current), Meta: meta},
		})
	}
	if order.Refund != nil {
		rec.Refund = &refundRecord{
			Amount:    order.Refund.Amount,
			Full:      order.Refund.Full,
			Reason:    order.Refund.Reason,
			User:      order.Refund.User,
			CreatedAt: order.Refund.CreatedAt,
		}
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:      r.ID,
		StoreID: r.StoreID,
		Customer: domain.Customer{
			FirstName: r.Customer.FirstName,
			LastName:  r.Customer.LastName,
			Email:     r.Customer.Email,
			Phone:     r.Customer.Phone,
		},
		ShippingMethod: domain.ShippingMethod(r.ShippingMethod),
		Items:          make([]domain.Item, 0, len(r.Items)),
		Summary: domain.Summary{
			Subtotal: r.Subtotal,
			SalesTax: r.SalesTax,
			Shipping: r.Shipping,
			Total:    r.Total,
		},
		Status:    domain.OrderStatus(r.Status),
		Note:      r.Note,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	for _, item := range r.Items {
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
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
			Status:    domain.ItemStatusState{Current: domain.ItemStatus(item.Status.Current), Meta: meta},
		})
	}
	if r.Refund != nil {
		order.Refund = &domain.Refund{
			Amount:    r.Refund.Amount,
			Full:      r.Refund.Full,
			Reason:    r.Refund.Reason,
			User:      r.Refund.User,
			CreatedAt: r.Refund.CreatedAt,
		}
	}
	return order
}
