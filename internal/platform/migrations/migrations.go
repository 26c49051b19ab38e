package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&orderIdempotencyRecord{},
		&employeeRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter. Items, customer and refund are jsonb documents.
type orderRecord struct {
	ID             string          `gorm:"primaryKey;column:id;size:64"`
	StoreID        string          `gorm:"column:store_id;size:64;not null;index:idx_orders_store_status"`
	Customer       string          `gorm:"column:customer;type:jsonb"`
	ShippingMethod string          `gorm:"column:shipping_method;type:varchar(16)"`
	Items          string          `gorm:"column:items;type:jsonb;not null"`
	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2)"`
	SalesTax       decimal.Decimal `gorm:"column:sales_tax;type:numeric(12,2)"`
	Shipping       decimal.Decimal `gorm:"column:shipping;type:numeric(12,2)"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	Refund         *string         `gorm:"column:refund;type:jsonb"`
	Status         string          `gorm:"column:status;type:varchar(32);index:idx_orders_store_status"`
	Note           string          `gorm:"column:note"`
	Version        int64           `gorm:"column:version;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;index"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Idempotency keys for order creation.
type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	StoreID     string    `gorm:"column:store_id;size:64"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Employee schema mirrors the employees Postgres adapter.
type employeeRecord struct {
	ID        int64          `gorm:"primaryKey;column:id"`
	Username  string         `gorm:"column:username;uniqueIndex"`
	FirstName string         `gorm:"column:first_name"`
	LastName  string         `gorm:"column:last_name"`
	Email     string         `gorm:"column:email"`
	Phone     string         `gorm:"column:phone"`
	Role      string         `gorm:"column:role;type:varchar(16)"`
	StoreIDs  pq.StringArray `gorm:"column:store_ids;type:text[]"`
	Active    bool           `gorm:"column:active;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (employeeRecord) TableName() string { return "employees" }
