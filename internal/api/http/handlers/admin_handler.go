package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/dto"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/service"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

// AdminHandler exposes employee and department administration.
type AdminHandler struct {
	employees *service.EmployeeService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(employees *service.EmployeeService) *AdminHandler {
	return &AdminHandler{employees: employees}
}

// ListEmployees GET /admin/employees?role=&department_id=&limit=&offset=.
func (h *AdminHandler) ListEmployees(c *fiber.Ctx) error {
	admin, err := currentEmployee(c)
	if err != nil {
		return err
	}
	filters := service.EmployeeListFilters{}
	if raw := c.Query("role"); raw != "" {
		role := domain.Role(raw)
		if !role.Valid() {
			return apperrors.NewValidationError("invalid role", map[string]any{"role": raw})
		}
		filters.Role = &role
	}
	if dept := c.Query("department_id"); dept != "" {
		filters.DepartmentID = &dept
	}
	if filters.Limit, filters.Offset, err = parsePage(c); err != nil {
		return err
	}
	employees, err := h.employees.ListEmployees(c.UserContext(), admin, filters)
	if err != nil {
		return err
	}
	resp := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		resp = append(resp, dto.NewEmployeeResponse(&employees[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateEmployee POST /admin/employees.
func (h *AdminHandler) CreateEmployee(c *fiber.Ctx) error {
	admin, err := currentEmployee(c)
	if err != nil {
		return err
	}
	var req dto.CreateEmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	employee, err := h.employees.CreateEmployee(c.UserContext(), admin, service.EmployeeInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         domain.Role(req.Role),
		Gender:       domain.Gender(req.Gender),
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}

// GetEmployee GET /admin/employees/:id.
func (h *AdminHandler) GetEmployee(c *fiber.Ctx) error {
	admin, err := currentEmployee(c)
	if err != nil {
		return err
	}
	employee, err := h.employees.GetEmployee(c.UserContext(), admin, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}

// UpdateEmployee PUT /admin/employees/:id.
func (h *AdminHandler) UpdateEmployee(c *fiber.Ctx) error {
	admin, err := currentEmployee(c)
	if err != nil {
		return err
	}
	var req dto.UpdateEmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := service.EmployeeUpdateInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		DepartmentID: req.DepartmentID,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}
	if req.Gender != nil {
		gender := domain.Gender(*req.Gender)
		input.Gender = &gender
	}
	employee, err := h.employees.UpdateEmployee(c.UserContext(), admin, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}

// DeleteEmployee DELETE /admin/employees/:id.
func (h *AdminHandler) DeleteEmployee(c *fiber.Ctx) error {
	admin, err := currentEmployee(c)
	if err != nil {
		return err
	}
	if err := h.employees.DeleteEmployee(c.UserContext(), admin, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListDepartments GET /admin/departments.
func (h *AdminHandler) ListDepartments(c *fiber.Ctx) error {
	admin, err := currentEmployee(c)
	if err != nil {
		return err
	}
	depts, err := h.employees.ListDepartments(c.UserContext(), admin)
	if err != nil {
		return err
	}
	resp := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		resp = append(resp, dto.NewDepartmentResponse(&depts[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateDepartment POST /admin/departments.
func (h *AdminHandler) CreateDepartment(c *fiber.Ctx) error {
	admin, err := currentEmployee(c)
	if err != nil {
		return err
	}
	var req dto.DepartmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	dept, err := h.employees.CreateDepartment(c.UserContext(), admin, service.DepartmentInput{
		Name:     req.Name,
		HeadName: req.HeadName,
		TLEmail:  req.TLEmail,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// UpdateDepartment PUT /admin/departments/:id.
func (h *AdminHandler) UpdateDepartment(c *fiber.Ctx) error {
	admin, err := currentEmployee(c)
	if err != nil {
		return err
	}
	var req dto.DepartmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	dept, err := h.employees.UpdateDepartment(c.UserContext(), admin, c.Params("id"), service.DepartmentInput{
		Name:     req.Name,
		HeadName: req.HeadName,
		TLEmail:  req.TLEmail,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}
