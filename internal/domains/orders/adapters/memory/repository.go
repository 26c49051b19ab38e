package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	// insertion order, used for stable listings
	sequence []string
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	clone := order.Clone()
	clone.Version = 1
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[clone.ID]; exists {
		return nil, ports.ErrAlreadyExists
	}
	r.orders[clone.ID] = clone
	r.sequence = append(r.sequence, clone.ID)
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, storeID, orderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[orderID]
	if !ok || order.StoreID != storeID {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) ListByStore(_ context.Context, storeID string, filter ports.ListFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0)
	skipped := 0
	for _, id := range r.sequence {
		order := r.orders[id]
		if order.StoreID != storeID {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, order.Status) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		list = append(list, order.Clone())
		if filter.Limit > 0 && len(list) == filter.Limit {
			break
		}
	}
	return list, nil
}

// Update replaces the stored order when its version matches.
func (r *Repository) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok || stored.StoreID != order.StoreID {
		return nil, ports.ErrNotFound
	}
	if stored.Version != order.Version {
		return nil, ports.ErrVersionConflict
	}
	next := order.Clone()
	next.Version = stored.Version + 1
	next.CreatedAt = stored.CreatedAt
	r.orders[next.ID] = next
	return next.Clone(), nil
}
