package actors

import (
	"context"
	"errors"

	employeeports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/ports"
	orderports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
)

var _ orderports.ActorDirectory = (*EmployeeDirectory)(nil)

// EmployeeDirectory resolves acting users against the employees context.
type EmployeeDirectory struct {
	employees employeeports.Service
}

func NewEmployeeDirectory(employees employeeports.Service) *EmployeeDirectory {
	return &EmployeeDirectory{employees: employees}
}

// ResolveActor accepts only active employees.
func (d *EmployeeDirectory) ResolveActor(ctx context.Context, username string) (string, error) {
	if d == nil || d.employees == nil {
		return "", errors.New("employee directory not configured")
	}
	employee, err := d.employees.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, employeeports.ErrNotFound) {
			return "", orderports.ErrUnknownActor
		}
		return "", err
	}
	if !employee.Active {
		return "", orderports.ErrInactiveActor
	}
	return employee.Username, nil
}
