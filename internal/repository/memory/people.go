package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
)

type employeeRepo struct{ s *Store }

func (r employeeRepo) Create(ctx context.Context, employee *domain.Employee) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		employee.Email = strings.ToLower(employee.Email)
		if _, ok := t.employees[employee.ID]; ok {
			return repository.ErrDuplicate
		}
		if emailTaken(t, employee.Email, "") {
			return repository.ErrDuplicate
		}
		employee.CreatedAt = now
		employee.UpdatedAt = now
		t.employees[employee.ID] = *employee
		return nil
	})
}

func (r employeeRepo) Update(ctx context.Context, employee *domain.Employee) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		current, ok := t.employees[employee.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		employee.Email = strings.ToLower(employee.Email)
		if emailTaken(t, employee.Email, employee.ID) {
			return repository.ErrDuplicate
		}
		employee.CreatedAt = current.CreatedAt
		employee.UpdatedAt = now
		t.employees[employee.ID] = *employee
		return nil
	})
}

func (r employeeRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		if _, ok := t.employees[id]; !ok {
			return pgx.ErrNoRows
		}
		delete(t.employees, id)
		delete(t.balances, id)
		for ticketID, ticket := range t.tickets {
			if ticket.EmployeeID == id {
				delete(t.tickets, ticketID)
			}
		}
		kept := t.ledger[:0]
		for _, entry := range t.ledger {
			if entry.EmployeeID != id {
				kept = append(kept, entry)
			}
		}
		t.ledger = kept
		return nil
	})
}

func (r employeeRepo) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return r.find(ctx, func(e domain.Employee) bool { return e.ID == id })
}

func (r employeeRepo) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return r.find(ctx, func(e domain.Employee) bool { return strings.EqualFold(e.Email, email) })
}

func (r employeeRepo) find(ctx context.Context, match func(domain.Employee) bool) (*domain.Employee, error) {
	var found *domain.Employee
	err := r.s.read(ctx, func(t *tables) error {
		for _, e := range t.employees {
			if match(e) {
				e := e
				found = &e
				return nil
			}
		}
		return pgx.ErrNoRows
	})
	return found, err
}

func (r employeeRepo) List(ctx context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	var result []domain.Employee
	err := r.s.read(ctx, func(t *tables) error {
		for _, e := range t.employees {
			if filter.Role != nil && e.Role != *filter.Role {
				continue
			}
			if filter.DepartmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *filter.DepartmentID) {
				continue
			}
			result = append(result, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return paginate(result, filter.Limit, filter.Offset), nil
}

func emailTaken(t *tables, email, exceptID string) bool {
	for id, e := range t.employees {
		if id != exceptID && e.Email == email {
			return true
		}
	}
	return false
}

type departmentRepo struct{ s *Store }

func (r departmentRepo) Create(ctx context.Context, dept *domain.Department) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		for _, existing := range t.departments {
			if existing.ID == dept.ID || strings.EqualFold(existing.Name, dept.Name) {
				return repository.ErrDuplicate
			}
		}
		dept.CreatedAt = now
		dept.UpdatedAt = now
		t.departments[dept.ID] = *dept
		return nil
	})
}

func (r departmentRepo) Update(ctx context.Context, dept *domain.Department) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		current, ok := t.departments[dept.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		dept.CreatedAt = current.CreatedAt
		dept.UpdatedAt = now
		t.departments[dept.ID] = *dept
		return nil
	})
}

func (r departmentRepo) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	var dept domain.Department
	err := r.s.read(ctx, func(t *tables) error {
		found, ok := t.departments[id]
		if !ok {
			return pgx.ErrNoRows
		}
		dept = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r departmentRepo) List(ctx context.Context) ([]domain.Department, error) {
	var result []domain.Department
	err := r.s.read(ctx, func(t *tables) error {
		for _, d := range t.departments {
			result = append(result, d)
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, err
}
