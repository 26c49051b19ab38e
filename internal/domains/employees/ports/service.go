package ports

import (
	"context"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/domain"
)

// Service exposes employee bounded context use cases to adapters.
type Service interface {
	CreateEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
	GetByUsername(ctx context.Context, username string) (*domain.Employee, error)
	List(ctx context.Context) ([]*domain.Employee, error)
	Update(ctx context.Context, username string, updated *domain.Employee) (*domain.Employee, error)
	Delete(ctx context.Context, username string) error
}
