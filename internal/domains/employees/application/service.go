package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/domain"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/ports"
)

// Service exposes employee bounded context use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// CreateEmployee registers a new employee; usernames are unique.
func (s *Service) CreateEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if employee == nil {
		return nil, fmt.Errorf("%w: employee is nil", ErrInvalidInput)
	}
	candidate := employee.Clone()
	if err := candidate.Validate(); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetByUsername(ctx, candidate.Username); err == nil {
		return nil, ports.ErrAlreadyExists
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	return s.repo.Save(ctx, candidate)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, mapError(domain.ErrEmptyUsername)
	}
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) List(ctx context.Context) ([]*domain.Employee, error) {
	return s.repo.List(ctx)
}

// Update replaces an employee's profile, role, stores and active flag. The
// username in the path wins over the one in the payload.
func (s *Service) Update(ctx context.Context, username string, updated *domain.Employee) (*domain.Employee, error) {
	if updated == nil {
		return nil, fmt.Errorf("%w: employee is nil", ErrInvalidInput)
	}
	existing, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	candidate := updated.Clone()
	candidate.ID = existing.ID
	candidate.Username = existing.Username
	if err := candidate.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, candidate)
}

func (s *Service) Delete(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return mapError(domain.ErrEmptyUsername)
	}
	return s.repo.Delete(ctx, username)
}

var _ ports.Service = (*Service)(nil)
