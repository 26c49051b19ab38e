package ports

import (
	"context"
	"errors"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrVersionConflict means the order changed since it was read.
	ErrVersionConflict = errors.New("order was modified concurrently")
	ErrAlreadyExists   = errors.New("order already exists")
)

// ListFilter narrows a store listing. A zero Limit means no limit.
type ListFilter struct {
	Statuses []domain.OrderStatus
	Limit    int
	Offset   int
}

// Repository persists orders scoped by store.
type Repository interface {
	// Create stores a new order at version 1.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, storeID, orderID string) (*domain.Order, error)
	// ListByStore returns orders oldest first.
	ListByStore(ctx context.Context, storeID string, filter ListFilter) ([]*domain.Order, error)
	// Update writes items, status, summary and refund only when the stored
	// version still equals order.Version, and returns the order with the
	// version bumped. A stale version yields ErrVersionConflict.
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
}
