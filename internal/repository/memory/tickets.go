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

type ticketRepo struct{ s *Store }

func (r ticketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		if _, ok := t.tickets[ticket.ID]; ok {
			return repository.ErrDuplicate
		}
		ticket.Version = 1
		ticket.AppliedAt = now
		ticket.UpdatedAt = now
		t.tickets[ticket.ID] = *ticket
		return nil
	})
}

func (r ticketRepo) Update(ctx context.Context, ticket *domain.Ticket, expectedVersion int64) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		current, ok := t.tickets[ticket.ID]
		if !ok || current.Version != expectedVersion {
			return repository.ErrStaleTicket
		}
		updated := *ticket
		updated.EmployeeID = current.EmployeeID
		updated.EmployeeName = current.EmployeeName
		updated.EmployeeEmail = current.EmployeeEmail
		updated.DepartmentID = current.DepartmentID
		updated.AppliedAt = current.AppliedAt
		updated.Version = expectedVersion + 1
		updated.UpdatedAt = now
		t.tickets[ticket.ID] = updated

		ticket.Version = updated.Version
		ticket.UpdatedAt = now
		return nil
	})
}

func (r ticketRepo) Delete(ctx context.Context, id string, expectedVersion int64) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		current, ok := t.tickets[id]
		if !ok || current.Version != expectedVersion {
			return repository.ErrStaleTicket
		}
		delete(t.tickets, id)
		kept := t.history[:0]
		for _, h := range t.history {
			if h.TicketID != id {
				kept = append(kept, h)
			}
		}
		t.history = kept
		return nil
	})
}

func (r ticketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := r.s.read(ctx, func(t *tables) error {
		found, ok := t.tickets[id]
		if !ok {
			return pgx.ErrNoRows
		}
		ticket = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r ticketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	err := r.s.read(ctx, func(t *tables) error {
		for _, ticket := range t.tickets {
			if matchTicket(ticket, filter) {
				result = append(result, ticket)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AppliedAt.Equal(result[j].AppliedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].AppliedAt.After(result[j].AppliedAt)
	})
	return paginate(result, filter.Limit, filter.Offset), nil
}

func matchTicket(ticket domain.Ticket, f repository.TicketFilter) bool {
	if f.EmployeeID != nil && ticket.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.DepartmentID != nil && (ticket.DepartmentID == nil || *ticket.DepartmentID != *f.DepartmentID) {
		return false
	}
	if f.AssignedHREmail != nil && !equalFoldPtr(ticket.AssignedHREmail, *f.AssignedHREmail) {
		return false
	}
	if f.AssignedTL != nil && !equalFoldPtr(ticket.AssignedTL, *f.AssignedTL) {
		return false
	}
	if len(f.Statuses) > 0 && !contains(f.Statuses, ticket.State.Status()) {
		return false
	}
	if len(f.LeaveTypes) > 0 && !contains(f.LeaveTypes, ticket.LeaveType) {
		return false
	}
	if f.StartFrom != nil && ticket.StartDate.Before(*f.StartFrom) {
		return false
	}
	if f.StartTo != nil && !ticket.StartDate.Before(*f.StartTo) {
		return false
	}
	return true
}

func equalFoldPtr(value *string, want string) bool {
	return value != nil && strings.EqualFold(*value, want)
}

func contains[T comparable](list []T, v T) bool {
	for _, candidate := range list {
		if candidate == v {
			return true
		}
	}
	return false
}
