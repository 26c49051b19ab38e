package adminserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	employeehttpmapper "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/adapters/http/mapper"
	employeeports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/ports"
)

// EmployeeAPI exposes staff administration.
type EmployeeAPI struct {
	service employeeports.Service
}

// NewEmployeeAPI creates an EmployeeAPI backed by the provided service.
func NewEmployeeAPI(service employeeports.Service) EmployeeAPI {
	return EmployeeAPI{service: service}
}

// Post /api/employees
// Create employee
func (api *EmployeeAPI) CreateEmployee(c *gin.Context) {
	var payload employeehttpmapper.Employee
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.service.CreateEmployee(c.Request.Context(), employeehttpmapper.ToDomainEmployee(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, employeehttpmapper.FromDomainEmployee(created))
}

// Get /api/employees
// List employees
func (api *EmployeeAPI) ListEmployees(c *gin.Context) {
	employees, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, employeehttpmapper.FromDomainEmployees(employees))
}

// Get /api/employees/:username
// Get employee by username
func (api *EmployeeAPI) GetEmployee(c *gin.Context) {
	employee, err := api.service.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, employeehttpmapper.FromDomainEmployee(employee))
}

// Put /api/employees/:username
// Update employee
func (api *EmployeeAPI) UpdateEmployee(c *gin.Context) {
	var payload employeehttpmapper.Employee
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	updated, err := api.service.Update(c.Request.Context(), c.Param("username"), employeehttpmapper.ToDomainEmployee(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, employeehttpmapper.FromDomainEmployee(updated))
}

// Delete /api/employees/:username
// Delete employee
func (api *EmployeeAPI) DeleteEmployee(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("username")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
