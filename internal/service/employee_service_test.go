package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leave-service/internal/domain"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

func TestCreateEmployeeOpensBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.employees.CreateEmployee(ctx, f.admin, EmployeeInput{
		Name:         "Dana",
		Email:        "Dana@Corp.com",
		Password:     "long-enough",
		Role:         domain.RoleEmployee,
		Gender:       domain.GenderFemale,
		DepartmentID: &f.dept.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "dana@corp.com", created.Email)
	assert.NotEqual(t, "long-enough", created.PasswordHash)

	balance, err := f.store.Balances().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, balance.RemainingSick)
	assert.Zero(t, balance.TotalTickets)

	_, err = f.employees.CreateEmployee(ctx, f.admin, EmployeeInput{
		Name: "Dup", Email: "dana@corp.com", Password: "long-enough", Role: domain.RoleEmployee,
	})
	requireCode(t, err, apperrors.CodeConflict)
}

func TestCreateEmployeeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.employees.CreateEmployee(ctx, f.manager, EmployeeInput{Name: "x", Email: "x@corp.com", Password: "long-enough", Role: domain.RoleEmployee})
	requireCode(t, err, apperrors.CodeForbidden)

	_, err = f.employees.CreateEmployee(ctx, f.admin, EmployeeInput{Name: "x", Email: "x@corp.com", Password: "short", Role: domain.RoleEmployee})
	requireCode(t, err, apperrors.CodeValidation)

	_, err = f.employees.CreateEmployee(ctx, f.admin, EmployeeInput{Name: "x", Email: "x@corp.com", Password: "long-enough", Role: "Intern"})
	requireCode(t, err, apperrors.CodeValidation)

	missing := "dept-missing"
	_, err = f.employees.CreateEmployee(ctx, f.admin, EmployeeInput{Name: "x", Email: "x@corp.com", Password: "long-enough", Role: domain.RoleEmployee, DepartmentID: &missing})
	requireCode(t, err, apperrors.CodeValidation)

	_, err = f.store.Employees().GetByEmail(ctx, "x@corp.com")
	assert.Error(t, err)
}

func TestUpdateAndDeleteEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	role := domain.RoleHR
	none := ""
	updated, err := f.employees.UpdateEmployee(ctx, f.admin, f.other.ID, EmployeeUpdateInput{Role: &role, DepartmentID: &none})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHR, updated.Role)
	assert.Nil(t, updated.DepartmentID)

	hrs, err := f.employees.ListHR(ctx, f.manager)
	require.NoError(t, err)
	assert.Len(t, hrs, 3)

	_, err = f.employees.ListHR(ctx, f.employee)
	requireCode(t, err, apperrors.CodeForbidden)

	ticket := f.submit(t, f.employee, domain.LeaveSick)
	require.NoError(t, f.employees.DeleteEmployee(ctx, f.admin, f.employee.ID))
	_, err = f.store.Tickets().GetByID(ctx, ticket.ID)
	assert.Error(t, err)

	requireCode(t, f.employees.DeleteEmployee(ctx, f.admin, f.employee.ID), apperrors.CodeNotFound)
	requireCode(t, f.employees.DeleteEmployee(ctx, f.admin, f.admin.ID), apperrors.CodeValidation)
}

func TestDepartments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dept, err := f.employees.CreateDepartment(ctx, f.admin, DepartmentInput{Name: "Finance", TLEmail: "FinLead@corp.com"})
	require.NoError(t, err)
	assert.Equal(t, "finlead@corp.com", dept.TLEmail)

	_, err = f.employees.CreateDepartment(ctx, f.admin, DepartmentInput{Name: "finance"})
	requireCode(t, err, apperrors.CodeConflict)

	_, err = f.employees.CreateDepartment(ctx, f.admin, DepartmentInput{})
	requireCode(t, err, apperrors.CodeValidation)

	dept, err = f.employees.UpdateDepartment(ctx, f.admin, f.noTLDept.ID, DepartmentInput{TLEmail: "opslead@corp.com"})
	require.NoError(t, err)
	assert.Equal(t, "Operations", dept.Name)

	depts, err := f.employees.ListDepartments(ctx, f.hr)
	require.NoError(t, err)
	assert.Len(t, depts, 3)

	_, err = f.employees.ListDepartments(ctx, f.employee)
	requireCode(t, err, apperrors.CodeForbidden)
}
