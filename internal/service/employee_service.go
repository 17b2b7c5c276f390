package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

// EmployeeService manages employees and departments.
type EmployeeService struct {
	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
	ledger      *LedgerService
	tx          repository.TxManager
	policy      *auth.Policy
	bcryptCost  int
	logger      *zap.Logger
}

// EmployeeDependencies encapsulates repositories required for org management.
type EmployeeDependencies struct {
	EmployeeRepo   repository.EmployeeRepository
	DepartmentRepo repository.DepartmentRepository
	Ledger         *LedgerService
	TxManager      repository.TxManager
	Policy         *auth.Policy
	Logger         *zap.Logger
}

// EmployeeInput describes a new employee.
type EmployeeInput struct {
	Name         string
	Email        string
	Password     string
	Role         domain.Role
	Gender       domain.Gender
	DepartmentID *string
}

// EmployeeUpdateInput holds optional changes; nil fields are left as they are.
type EmployeeUpdateInput struct {
	Name         *string
	Email        *string
	Password     *string
	Role         *domain.Role
	Gender       *domain.Gender
	DepartmentID *string
}

// EmployeeListFilters define listing parameters.
type EmployeeListFilters struct {
	Role         *domain.Role
	DepartmentID *string
	Limit        int
	Offset       int
}

// DepartmentInput describes a department.
type DepartmentInput struct {
	Name     string
	HeadName string
	TLEmail  string
}

// NewEmployeeService constructs the service.
func NewEmployeeService(cfg config.Config, deps EmployeeDependencies) *EmployeeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:   deps.EmployeeRepo,
		departments: deps.DepartmentRepo,
		ledger:      deps.Ledger,
		tx:          deps.TxManager,
		policy:      deps.Policy,
		bcryptCost:  cfg.Auth.BcryptCost,
		logger:      logger.Named("employees"),
	}
}

// CreateEmployee registers an employee and opens their leave balance.
func (s *EmployeeService) CreateEmployee(ctx context.Context, actor *domain.Employee, input EmployeeInput) (*domain.Employee, error) {
	if err := authorize(s.policy, actor, auth.ObjectEmployee, auth.ActionManage); err != nil {
		return nil, err
	}
	if err := s.validateEmployee(ctx, input.Name, input.Email, input.Role, input.Gender, input.DepartmentID); err != nil {
		return nil, err
	}
	hash, err := hashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	employee := &domain.Employee{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		Role:         input.Role,
		Gender:       input.Gender,
		DepartmentID: input.DepartmentID,
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.employees.Create(ctx, employee); err != nil {
			return err
		}
		_, err := s.ledger.Open(ctx, employee)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
		}
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("employee created", zap.String("employee_id", employee.ID), zap.String("role", string(employee.Role)))
	return employee, nil
}

// UpdateEmployee applies the non-nil fields of input.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, actor *domain.Employee, id string, input EmployeeUpdateInput) (*domain.Employee, error) {
	if err := authorize(s.policy, actor, auth.ObjectEmployee, auth.ActionManage); err != nil {
		return nil, err
	}
	employee, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		employee.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		employee.Email = strings.TrimSpace(*input.Email)
	}
	if input.Role != nil {
		employee.Role = *input.Role
	}
	if input.Gender != nil {
		employee.Gender = *input.Gender
	}
	if input.DepartmentID != nil {
		if *input.DepartmentID == "" {
			employee.DepartmentID = nil
		} else {
			employee.DepartmentID = input.DepartmentID
		}
	}
	if err := s.validateEmployee(ctx, employee.Name, employee.Email, employee.Role, employee.Gender, employee.DepartmentID); err != nil {
		return nil, err
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		employee.PasswordHash = hash
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": employee.Email})
		}
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// DeleteEmployee removes an employee together with their tickets and balance.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, actor *domain.Employee, id string) error {
	if err := authorize(s.policy, actor, auth.ObjectEmployee, auth.ActionManage); err != nil {
		return err
	}
	if actor.ID == id {
		return apperrors.NewValidationError("cannot delete own account", nil)
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetEmployee fetches one employee.
func (s *EmployeeService) GetEmployee(ctx context.Context, actor *domain.Employee, id string) (*domain.Employee, error) {
	if err := authorize(s.policy, actor, auth.ObjectEmployee, auth.ActionManage); err != nil {
		return nil, err
	}
	return s.getEmployee(ctx, id)
}

// ListEmployees lists employees.
func (s *EmployeeService) ListEmployees(ctx context.Context, actor *domain.Employee, filters EmployeeListFilters) ([]domain.Employee, error) {
	if err := authorize(s.policy, actor, auth.ObjectEmployee, auth.ActionManage); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.EmployeeFilter{
		Role:         filters.Role,
		DepartmentID: filters.DepartmentID,
		Limit:        filters.Limit,
		Offset:       filters.Offset,
	})
}

// ListHR returns the HR directory managers pick assignees from.
func (s *EmployeeService) ListHR(ctx context.Context, actor *domain.Employee) ([]domain.Employee, error) {
	if err := authorize(s.policy, actor, auth.ObjectEmployee, auth.ActionListHR); err != nil {
		return nil, err
	}
	role := domain.RoleHR
	return s.list(ctx, repository.EmployeeFilter{Role: &role, Limit: 500})
}

func (s *EmployeeService) list(ctx context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	employees, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	return employees, nil
}

// CreateDepartment creates a new department.
func (s *EmployeeService) CreateDepartment(ctx context.Context, actor *domain.Employee, input DepartmentInput) (*domain.Department, error) {
	if err := authorize(s.policy, actor, auth.ObjectDepartment, auth.ActionManage); err != nil {
		return nil, err
	}
	dept := &domain.Department{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(input.Name),
		HeadName: strings.TrimSpace(input.HeadName),
		TLEmail:  strings.ToLower(strings.TrimSpace(input.TLEmail)),
	}
	if dept.Name == "" {
		return nil, apperrors.NewValidationError("name is required", map[string]any{"name": "required"})
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("department already exists", map[string]any{"name": dept.Name})
		}
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// UpdateDepartment modifies department metadata.
func (s *EmployeeService) UpdateDepartment(ctx context.Context, actor *domain.Employee, id string, input DepartmentInput) (*domain.Department, error) {
	if err := authorize(s.policy, actor, auth.ObjectDepartment, auth.ActionManage); err != nil {
		return nil, err
	}
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		dept.Name = name
	}
	dept.HeadName = strings.TrimSpace(input.HeadName)
	dept.TLEmail = strings.ToLower(strings.TrimSpace(input.TLEmail))
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// ListDepartments returns every department.
func (s *EmployeeService) ListDepartments(ctx context.Context, actor *domain.Employee) ([]domain.Department, error) {
	if err := authorize(s.policy, actor, auth.ObjectDepartment, auth.ActionList); err != nil {
		return nil, err
	}
	depts, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if depts == nil {
		depts = []domain.Department{}
	}
	return depts, nil
}

func (s *EmployeeService) getEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

func (s *EmployeeService) validateEmployee(ctx context.Context, name, email string, role domain.Role, gender domain.Gender, departmentID *string) error {
	details := map[string]any{}
	if strings.TrimSpace(name) == "" {
		details["name"] = "required"
	}
	if !strings.Contains(email, "@") {
		details["email"] = "invalid"
	}
	if !role.Valid() {
		details["role"] = "unknown role"
	}
	if gender != "" && gender != domain.GenderMale && gender != domain.GenderFemale {
		details["gender"] = "must be Male or Female"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid employee", details)
	}
	if departmentID != nil {
		if _, err := s.departments.GetByID(ctx, *departmentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("department not found", map[string]any{"department_id": *departmentID})
			}
			return apperrors.MapError(err)
		}
	}
	return nil
}
