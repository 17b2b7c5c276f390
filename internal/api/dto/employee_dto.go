package dto

import (
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
)

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token and the caller's identity.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Role      domain.Role `json:"role"`
	Name      string      `json:"name"`
}

// PasswordChangeRequest payload.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// CreateEmployeeRequest is the admin payload for a new employee.
type CreateEmployeeRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	Role         string  `json:"role" validate:"required,oneof=Employee Manager HR 'Team Lead' Admin"`
	Gender       string  `json:"gender" validate:"required,oneof=Male Female"`
	DepartmentID *string `json:"department_id" validate:"omitempty,max=64"`
}

// UpdateEmployeeRequest is a partial update; absent fields are left unchanged and an empty
// department_id clears the department.
type UpdateEmployeeRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Password     *string `json:"password" validate:"omitempty,min=8"`
	Role         *string `json:"role" validate:"omitempty,oneof=Employee Manager HR 'Team Lead' Admin"`
	Gender       *string `json:"gender" validate:"omitempty,oneof=Male Female"`
	DepartmentID *string `json:"department_id" validate:"omitempty,max=64"`
}

// EmployeeResponse is the wire form of an employee. The password hash never leaves the service.
type EmployeeResponse struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Role         domain.Role   `json:"role"`
	Gender       domain.Gender `json:"gender"`
	DepartmentID *string       `json:"department_id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// HRDirectoryEntry is the manager-facing view of an HR employee.
type HRDirectoryEntry struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DepartmentRequest payload for department create and update.
type DepartmentRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	HeadName string `json:"head_name" validate:"max=200"`
	TLEmail  string `json:"tl_email" validate:"omitempty,email"`
}

// DepartmentResponse is the wire form of a department.
type DepartmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HeadName  string    `json:"head_name"`
	TLEmail   string    `json:"tl_email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEmployeeResponse converts a domain employee.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Role:         e.Role,
		Gender:       e.Gender,
		DepartmentID: e.DepartmentID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// NewDepartmentResponse converts a domain department.
func NewDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:        d.ID,
		Name:      d.Name,
		HeadName:  d.HeadName,
		TLEmail:   d.TLEmail,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
