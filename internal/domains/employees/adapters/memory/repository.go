package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/domain"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps employees in process memory keyed by username.
type Repository struct {
	mu     sync.RWMutex
	items  map[string]*domain.Employee
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{items: make(map[string]*domain.Employee)}
}

func (r *Repository) Save(_ context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if employee == nil {
		return nil, errors.New("employee is nil")
	}
	clone := employee.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[clone.Username]; ok {
		clone.ID = existing.ID
	} else if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.items[clone.Username] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByUsername(_ context.Context, username string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	employee, ok := r.items[strings.TrimSpace(username)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return employee.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	username = strings.TrimSpace(username)
	if _, ok := r.items[username]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, username)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Employee, 0, len(r.items))
	for _, employee := range r.items {
		list = append(list, employee.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return list, nil
}
