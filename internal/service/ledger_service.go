package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

// LedgerService owns leave balances. Debits and refunds are keyed by ticket so repeating one
// for the same ticket leaves the balance untouched.
type LedgerService struct {
	balances  repository.BalanceRepository
	entries   repository.LedgerEntryRepository
	policies  repository.LeavePolicyRepository
	employees repository.EmployeeRepository
	tickets   repository.TicketRepository
	tx        repository.TxManager
	policy    *auth.Policy
	defaults  config.LeaveConfig
	logger    *zap.Logger
}

// LedgerDependencies bundles repositories for the ledger.
type LedgerDependencies struct {
	BalanceRepo     repository.BalanceRepository
	LedgerEntryRepo repository.LedgerEntryRepository
	PolicyRepo      repository.LeavePolicyRepository
	EmployeeRepo    repository.EmployeeRepository
	TicketRepo      repository.TicketRepository
	TxManager       repository.TxManager
	Policy          *auth.Policy
	Defaults        config.LeaveConfig
	Logger          *zap.Logger
}

// NewLedgerService constructs the service.
func NewLedgerService(deps LedgerDependencies) *LedgerService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		balances:  deps.BalanceRepo,
		entries:   deps.LedgerEntryRepo,
		policies:  deps.PolicyRepo,
		employees: deps.EmployeeRepo,
		tickets:   deps.TicketRepo,
		tx:        deps.TxManager,
		policy:    deps.Policy,
		defaults:  deps.Defaults,
		logger:    logger.Named("ledger"),
	}
}

// Open creates the employee's balance from the leave policy for their gender, falling back
// to the configured quotas. An existing balance is left as is.
func (s *LedgerService) Open(ctx context.Context, employee *domain.Employee) (*domain.LeaveBalance, error) {
	policy, err := s.policyFor(ctx, employee.Gender)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	balance := &domain.LeaveBalance{
		EmployeeID:         employee.ID,
		RemainingPlanned:   policy.Planned,
		RemainingSick:      policy.Sick,
		RemainingEmergency: policy.Emergency,
		PlannedCap:         policy.Planned,
		SickCap:            policy.Sick,
		EmergencyCap:       policy.Emergency,
	}
	if err := s.balances.Open(ctx, balance); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.balances.Get(ctx, employee.ID)
}

func (s *LedgerService) policyFor(ctx context.Context, gender domain.Gender) (*domain.LeavePolicy, error) {
	if s.policies != nil && gender != "" {
		policy, err := s.policies.GetByGender(ctx, gender)
		if err == nil {
			return policy, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	return &domain.LeavePolicy{
		Gender:    gender,
		Planned:   s.defaults.DefaultPlanned,
		Sick:      s.defaults.DefaultSick,
		Emergency: s.defaults.DefaultEmergency,
	}, nil
}

// GetBalance returns the employee's balance, opening it on first access.
func (s *LedgerService) GetBalance(ctx context.Context, employeeID string) (*domain.LeaveBalance, error) {
	return s.ensureBalance(ctx, employeeID)
}

func (s *LedgerService) ensureBalance(ctx context.Context, employeeID string) (*domain.LeaveBalance, error) {
	balance, err := s.balances.Get(ctx, employeeID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	return s.Open(ctx, employee)
}

// BalanceFor returns employeeID's balance if actor may see it: everyone may read their own,
// HR, managers and admins may read anyone's.
func (s *LedgerService) BalanceFor(ctx context.Context, actor *domain.Employee, employeeID string) (*domain.LeaveBalance, error) {
	if err := s.authorizeRead(actor, employeeID); err != nil {
		return nil, err
	}
	return s.GetBalance(ctx, employeeID)
}

// UsageFor is MonthlyUsage behind the same visibility rule as BalanceFor.
func (s *LedgerService) UsageFor(ctx context.Context, actor *domain.Employee, employeeID string, year int, month time.Month) (*domain.MonthlyUsage, error) {
	if err := s.authorizeRead(actor, employeeID); err != nil {
		return nil, err
	}
	return s.MonthlyUsage(ctx, employeeID, year, month)
}

func (s *LedgerService) authorizeRead(actor *domain.Employee, employeeID string) error {
	if actor != nil && actor.ID == employeeID {
		return authorize(s.policy, actor, auth.ObjectBalance, auth.ActionView)
	}
	return authorize(s.policy, actor, auth.ObjectBalance, auth.ActionViewAny)
}

// RecordSubmission counts one submitted ticket.
func (s *LedgerService) RecordSubmission(ctx context.Context, employeeID string) error {
	if _, err := s.ensureBalance(ctx, employeeID); err != nil {
		return err
	}
	return apperrors.MapError(s.balances.IncrementTickets(ctx, employeeID))
}

// Debit takes one unit of leaveType for ticketID. It fails with InsufficientBalance when
// nothing remains; a second call for the same ticket returns the balance unchanged.
func (s *LedgerService) Debit(ctx context.Context, employeeID, ticketID string, leaveType domain.LeaveType) (*domain.LeaveBalance, error) {
	if !leaveType.Valid() {
		return nil, apperrors.NewValidationError("unknown leave type", map[string]any{"leave_type": leaveType})
	}

	var result *domain.LeaveBalance
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.ensureBalance(ctx, employeeID)
		if err != nil {
			return err
		}

		entry := &domain.LedgerEntry{
			ID:         uuid.NewString(),
			TicketID:   ticketID,
			EmployeeID: employeeID,
			LeaveType:  leaveType,
			Kind:       domain.LedgerDebit,
		}
		if err := s.entries.Create(ctx, entry); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				s.logger.Debug("debit already applied", zap.String("ticket_id", ticketID))
				result = current
				return nil
			}
			return apperrors.MapError(err)
		}

		updated, err := s.balances.Decrement(ctx, employeeID, leaveType)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewInsufficientBalance(string(leaveType), current.Remaining(leaveType))
			}
			return apperrors.MapError(err)
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("balance debited",
		zap.String("employee_id", employeeID),
		zap.String("ticket_id", ticketID),
		zap.String("leave_type", string(leaveType)),
		zap.Int("remaining", result.Remaining(leaveType)))
	return result, nil
}

// Refund returns the unit debited for ticketID. Without a prior debit, or when the refund was
// already applied, it is a no-op. The remaining count never exceeds its cap.
func (s *LedgerService) Refund(ctx context.Context, employeeID, ticketID string, leaveType domain.LeaveType) (*domain.LeaveBalance, error) {
	var result *domain.LeaveBalance
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.ensureBalance(ctx, employeeID)
		if err != nil {
			return err
		}
		result = current

		debited, err := s.entries.Exists(ctx, ticketID, domain.LedgerDebit)
		if err != nil {
			return apperrors.MapError(err)
		}
		if !debited {
			return nil
		}

		entry := &domain.LedgerEntry{
			ID:         uuid.NewString(),
			TicketID:   ticketID,
			EmployeeID: employeeID,
			LeaveType:  leaveType,
			Kind:       domain.LedgerRefund,
		}
		if err := s.entries.Create(ctx, entry); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil
			}
			return apperrors.MapError(err)
		}

		updated, err := s.balances.Increment(ctx, employeeID, leaveType)
		if err != nil {
			return apperrors.MapError(err)
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MonthlyUsage counts approved and re-raised-approved tickets per leave type whose start date
// falls in the given month.
func (s *LedgerService) MonthlyUsage(ctx context.Context, employeeID string, year int, month time.Month) (*domain.MonthlyUsage, error) {
	if month < time.January || month > time.December {
		return nil, apperrors.NewValidationError("invalid month", map[string]any{"month": int(month)})
	}
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	usage := &domain.MonthlyUsage{EmployeeID: employeeID, Year: year, Month: month}

	const page = 200
	for offset := 0; ; offset += page {
		tickets, err := s.tickets.List(ctx, repository.TicketFilter{
			EmployeeID: &employeeID,
			Statuses:   []domain.TicketStatus{domain.StatusApproved, domain.StatusReRaisedApproved},
			StartFrom:  &from,
			StartTo:    &to,
			Limit:      page,
			Offset:     offset,
		})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		for _, t := range tickets {
			usage.Add(t.LeaveType)
		}
		if len(tickets) < page {
			break
		}
	}
	return usage, nil
}

// ParseUsagePeriod accepts a month as a name, an abbreviation, a number or "2025-06", and an
// optional year. A missing month or year defaults to the current one. A year given next to a
// "2025-06" month must agree with it.
func ParseUsagePeriod(month, year string, now time.Time) (int, time.Month, error) {
	month = strings.TrimSpace(month)
	year = strings.TrimSpace(year)

	y := now.Year()
	if year != "" {
		parsed, err := strconv.Atoi(year)
		if err != nil || parsed < 1 {
			return 0, 0, apperrors.NewValidationError("invalid year", map[string]any{"year": year})
		}
		y = parsed
	}

	if t, err := time.Parse("2006-01", month); err == nil {
		if year != "" && t.Year() != y {
			return 0, 0, apperrors.NewValidationError("month and year disagree", map[string]any{"month": month, "year": year})
		}
		return t.Year(), t.Month(), nil
	}
	if month == "" {
		return y, now.Month(), nil
	}
	if n, err := strconv.Atoi(month); err == nil {
		if n < 1 || n > 12 {
			return 0, 0, apperrors.NewValidationError("invalid month", map[string]any{"month": month})
		}
		return y, time.Month(n), nil
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(month, name) || strings.EqualFold(month, name[:3]) {
			return y, m, nil
		}
	}
	return 0, 0, apperrors.NewValidationError("invalid month", map[string]any{"month": month})
}
