package mapper

import (
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/domain"
)

// Employee represents the transport-level employee payload.
type Employee struct {
	ID        int64    `json:"id,omitempty"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Role      string   `json:"role,omitempty"`
	StoreIDs  []string `json:"storeIds"`
	Active    *bool    `json:"active,omitempty"`
}

// ToDomainEmployee converts a transport employee to its domain counterpart.
// A missing active flag means active.
func ToDomainEmployee(model Employee) *domain.Employee {
	active := true
	if model.Active != nil {
		active = *model.Active
	}
	return &domain.Employee{
		ID:        model.ID,
		Username:  model.Username,
		FirstName: model.FirstName,
		LastName:  model.LastName,
		Email:     model.Email,
		Phone:     model.Phone,
		Role:      domain.Role(model.Role),
		StoreIDs:  append([]string(nil), model.StoreIDs...),
		Active:    active,
	}
}

// FromDomainEmployee converts a domain employee into a transport representation.
func FromDomainEmployee(employee *domain.Employee) Employee {
	if employee == nil {
		return Employee{}
	}
	active := employee.Active
	storeIDs := append([]string{}, employee.StoreIDs...)
	return Employee{
		ID:        employee.ID,
		Username:  employee.Username,
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		Email:     employee.Email,
		Phone:     employee.Phone,
		Role:      string(employee.Role),
		StoreIDs:  storeIDs,
		Active:    &active,
	}
}

func FromDomainEmployees(employees []*domain.Employee) []Employee {
	result := make([]Employee, 0, len(employees))
	for _, employee := range employees {
		result = append(result, FromDomainEmployee(employee))
	}
	return result
}
