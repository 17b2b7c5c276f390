package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
)

type policyRepo struct{ s *Store }

func (r policyRepo) GetByGender(ctx context.Context, gender domain.Gender) (*domain.LeavePolicy, error) {
	var policy domain.LeavePolicy
	err := r.s.read(ctx, func(t *tables) error {
		found, ok := t.policies[gender]
		if !ok {
			return pgx.ErrNoRows
		}
		policy = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r policyRepo) Upsert(ctx context.Context, policy *domain.LeavePolicy) error {
	return r.s.write(ctx, func(t *tables, _ time.Time) error {
		t.policies[policy.Gender] = *policy
		return nil
	})
}

func (r policyRepo) List(ctx context.Context) ([]domain.LeavePolicy, error) {
	var result []domain.LeavePolicy
	err := r.s.read(ctx, func(t *tables) error {
		for _, p := range t.policies {
			result = append(result, p)
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool { return result[i].Gender < result[j].Gender })
	return result, err
}

type balanceRepo struct{ s *Store }

func (r balanceRepo) Open(ctx context.Context, balance *domain.LeaveBalance) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		if _, ok := t.balances[balance.EmployeeID]; ok {
			return nil
		}
		balance.UpdatedAt = now
		t.balances[balance.EmployeeID] = *balance
		return nil
	})
}

func (r balanceRepo) Get(ctx context.Context, employeeID string) (*domain.LeaveBalance, error) {
	var balance domain.LeaveBalance
	err := r.s.read(ctx, func(t *tables) error {
		found, ok := t.balances[employeeID]
		if !ok {
			return pgx.ErrNoRows
		}
		balance = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r balanceRepo) Decrement(ctx context.Context, employeeID string, leaveType domain.LeaveType) (*domain.LeaveBalance, error) {
	return r.adjust(ctx, employeeID, leaveType, func(remaining, _ int) (int, bool) {
		if remaining <= 0 {
			return remaining, false
		}
		return remaining - 1, true
	})
}

func (r balanceRepo) Increment(ctx context.Context, employeeID string, leaveType domain.LeaveType) (*domain.LeaveBalance, error) {
	return r.adjust(ctx, employeeID, leaveType, func(remaining, limit int) (int, bool) {
		if remaining+1 > limit {
			return limit, true
		}
		return remaining + 1, true
	})
}

func (r balanceRepo) adjust(ctx context.Context, employeeID string, leaveType domain.LeaveType, step func(remaining, limit int) (int, bool)) (*domain.LeaveBalance, error) {
	if !leaveType.Valid() {
		return nil, fmt.Errorf("unknown leave type %q", leaveType)
	}
	var result domain.LeaveBalance
	err := r.s.write(ctx, func(t *tables, now time.Time) error {
		balance, ok := t.balances[employeeID]
		if !ok {
			return pgx.ErrNoRows
		}
		next, ok := step(balance.Remaining(leaveType), balance.Cap(leaveType))
		if !ok {
			return pgx.ErrNoRows
		}
		switch leaveType {
		case domain.LeavePlanned:
			balance.RemainingPlanned = next
		case domain.LeaveSick:
			balance.RemainingSick = next
		case domain.LeaveEmergency:
			balance.RemainingEmergency = next
		}
		balance.UpdatedAt = now
		t.balances[employeeID] = balance
		result = balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r balanceRepo) IncrementTickets(ctx context.Context, employeeID string) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		balance, ok := t.balances[employeeID]
		if !ok {
			return nil
		}
		balance.TotalTickets++
		balance.UpdatedAt = now
		t.balances[employeeID] = balance
		return nil
	})
}

type ledgerRepo struct{ s *Store }

func (r ledgerRepo) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		for _, existing := range t.ledger {
			if existing.TicketID == entry.TicketID && existing.Kind == entry.Kind {
				return repository.ErrDuplicate
			}
		}
		entry.CreatedAt = now
		t.ledger = append(t.ledger, *entry)
		return nil
	})
}

func (r ledgerRepo) Exists(ctx context.Context, ticketID string, kind domain.LedgerEntryKind) (bool, error) {
	var exists bool
	err := r.s.read(ctx, func(t *tables) error {
		for _, entry := range t.ledger {
			if entry.TicketID == ticketID && entry.Kind == kind {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

func (r ledgerRepo) ListByEmployee(ctx context.Context, employeeID string) ([]domain.LedgerEntry, error) {
	var result []domain.LedgerEntry
	err := r.s.read(ctx, func(t *tables) error {
		for _, entry := range t.ledger {
			if entry.EmployeeID == employeeID {
				result = append(result, entry)
			}
		}
		return nil
	})
	return result, err
}

type historyRepo struct{ s *Store }

func (r historyRepo) Create(ctx context.Context, history *domain.TicketHistory) error {
	return r.s.write(ctx, func(t *tables, now time.Time) error {
		history.CreatedAt = now
		t.history = append(t.history, *history)
		return nil
	})
}

func (r historyRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	var result []domain.TicketHistory
	err := r.s.read(ctx, func(t *tables) error {
		for _, h := range t.history {
			if h.TicketID == ticketID {
				result = append(result, h)
			}
		}
		return nil
	})
	return result, err
}
