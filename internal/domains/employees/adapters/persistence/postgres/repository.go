package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/domain"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists employees in PostgreSQL using GORM.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and schema.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

type employeeRecord struct {
	ID        int64          `gorm:"primaryKey;column:id"`
	Username  string         `gorm:"column:username;uniqueIndex"`
	FirstName string         `gorm:"column:first_name"`
	LastName  string         `gorm:"column:last_name"`
	Email     string         `gorm:"column:email"`
	Phone     string         `gorm:"column:phone"`
	Role      string         `gorm:"column:role;type:varchar(16)"`
	StoreIDs  pq.StringArray `gorm:"column:store_ids;type:text[]"`
	Active    bool           `gorm:"column:active"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (employeeRecord) TableName() string { return "employees" }

// Save inserts or updates an employee keyed by username.
func (r *Repository) Save(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, errors.New("employee is nil")
	}
	clone := employee.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(clone)
	now := r.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "email", "phone", "role", "store_ids", "active", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByUsername(ctx, record.Username)
}

// GetByUsername fetches an employee by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	var record employeeRecord
	if err := r.db.WithContext(ctx).First(&record, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes an employee by username.
func (r *Repository) Delete(ctx context.Context, username string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	result := r.db.WithContext(ctx).Where("username = ?", username).Delete(&employeeRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all employees ordered by username.
func (r *Repository) List(ctx context.Context) ([]*domain.Employee, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []employeeRecord
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	employees := make([]*domain.Employee, 0, len(records))
	for i := range records {
		employees = append(employees, records[i].toDomain())
	}
	return employees, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres employee repository not configured")
	}
	return nil
}

func toRecord(employee *domain.Employee) employeeRecord {
	return employeeRecord{
		ID:        employee.ID,
		Username:  employee.Username,
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		Email:     employee.Email,
		Phone:     employee.Phone,
		Role:      string(employee.Role),
		StoreIDs:  pq.StringArray(append([]string{}, employee.StoreIDs...)),
		Active:    employee.Active,
	}
}

func (r employeeRecord) toDomain() *domain.Employee {
	return &domain.Employee{
		ID:        r.ID,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Role:      domain.Role(r.Role),
		StoreIDs:  append([]string{}, r.StoreIDs...),
		Active:    r.Active,
	}
}
