package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrInvalidRole   = errors.New("role must be admin, manager or staff")
)

// Role grades what an employee may do in the admin dashboard.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	default:
		return false
	}
}

// Employee is a staff member allowed to work on store orders.
type Employee struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      Role
	StoreIDs  []string
	Active    bool
}

// NewEmployee builds an active employee. An empty role defaults to staff.
func NewEmployee(id int64, username string, role Role) (*Employee, error) {
	employee := &Employee{ID: id, Active: true}
	if err := employee.SetUsername(username); err != nil {
		return nil, err
	}
	if err := employee.SetRole(role); err != nil {
		return nil, err
	}
	return employee, nil
}

// SetUsername trims and validates the username.
func (e *Employee) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	e.Username = username
	return nil
}

func (e *Employee) SetRole(role Role) error {
	if role == "" {
		role = RoleStaff
	}
	if !role.Valid() {
		return ErrInvalidRole
	}
	e.Role = role
	return nil
}

// UpdateProfile applies optional profile fields and validates email if present.
func (e *Employee) UpdateProfile(firstName, lastName, email, phone string) error {
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	e.FirstName = strings.TrimSpace(firstName)
	e.LastName = strings.TrimSpace(lastName)
	e.Email = email
	e.Phone = strings.TrimSpace(phone)
	return nil
}

// AssignStores replaces the store assignments, dropping blanks and duplicates.
func (e *Employee) AssignStores(storeIDs []string) {
	seen := make(map[string]struct{}, len(storeIDs))
	assigned := make([]string, 0, len(storeIDs))
	for _, id := range storeIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		assigned = append(assigned, id)
	}
	sort.Strings(assigned)
	e.StoreIDs = assigned
}

func (e *Employee) Deactivate() { e.Active = false }

func (e *Employee) Activate() { e.Active = true }

// Validate re-applies core invariants for persistence.
func (e *Employee) Validate() error {
	if err := e.SetUsername(e.Username); err != nil {
		return err
	}
	if err := e.SetRole(e.Role); err != nil {
		return err
	}
	if err := e.UpdateProfile(e.FirstName, e.LastName, e.Email, e.Phone); err != nil {
		return err
	}
	e.AssignStores(e.StoreIDs)
	return nil
}

// Clone returns a deep copy.
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	clone := *e
	clone.StoreIDs = append([]string(nil), e.StoreIDs...)
	return &clone
}
