package ports

import (
	"context"
	"errors"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/domain"
)

var (
	ErrNotFound      = errors.New("employee not found")
	ErrAlreadyExists = errors.New("employee already exists")
)

type Repository interface {
	// Save inserts or updates an employee keyed by username.
	Save(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
	GetByUsername(ctx context.Context, username string) (*domain.Employee, error)
	Delete(ctx context.Context, username string) error
	// List returns every employee ordered by username.
	List(ctx context.Context) ([]*domain.Employee, error)
}
