package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/clock"
	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/events"
	"github.com/spec-kit/leave-service/internal/lifecycle"
	"github.com/spec-kit/leave-service/internal/observability"
	"github.com/spec-kit/leave-service/internal/repository/memory"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

const testPassword = "password123"

var testNow = time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store     *memory.Store
	cfg       config.Config
	metrics   *observability.Metrics
	clock     *clock.Manual
	tickets   *TicketService
	ledger    *LedgerService
	employees *EmployeeService
	auth      *AuthService

	mu        sync.Mutex
	published []events.Event

	dept     domain.Department
	noTLDept domain.Department
	employee *domain.Employee
	other    *domain.Employee
	loner    *domain.Employee
	manager  *domain.Employee
	hr       *domain.Employee
	hr2      *domain.Employee
	tl       *domain.Employee
	admin    *domain.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		store: memory.NewStore(
			domain.LeavePolicy{Gender: domain.GenderMale, Planned: 12, Sick: 10, Emergency: 5},
			domain.LeavePolicy{Gender: domain.GenderFemale, Planned: 12, Sick: 12, Emergency: 5},
		),
		metrics: observability.NewMetrics(),
	}
	f.cfg.Auth = config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, BcryptCost: 4}
	f.cfg.Leave = config.LeaveConfig{DefaultPlanned: 10, DefaultSick: 8, DefaultEmergency: 3, PlannedNoticeDays: 30}

	policy := auth.MustPolicy()
	f.clock = clock.NewManual(testNow)
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.SubscribeAll(func(_ context.Context, e events.Event) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.published = append(f.published, e)
		return nil
	})

	f.ledger = NewLedgerService(LedgerDependencies{
		BalanceRepo:     f.store.Balances(),
		LedgerEntryRepo: f.store.Ledger(),
		PolicyRepo:      f.store.LeavePolicies(),
		EmployeeRepo:    f.store.Employees(),
		TicketRepo:      f.store.Tickets(),
		TxManager:       f.store,
		Policy:          policy,
		Defaults:        f.cfg.Leave,
	})
	f.tickets = NewTicketService(TicketDependencies{
		TicketRepo:     f.store.Tickets(),
		EmployeeRepo:   f.store.Employees(),
		DepartmentRepo: f.store.Departments(),
		HistoryRepo:    f.store.History(),
		TxManager:      f.store,
		Ledger:         f.ledger,
		Policy:         policy,
		Dispatcher:     dispatcher,
		Metrics:        f.metrics,
		Clock:          f.clock,
		Leave:          f.cfg.Leave,
	})
	f.employees = NewEmployeeService(f.cfg, EmployeeDependencies{
		EmployeeRepo:   f.store.Employees(),
		DepartmentRepo: f.store.Departments(),
		Ledger:         f.ledger,
		TxManager:      f.store,
		Policy:         policy,
	})
	f.auth = NewAuthService(f.cfg, AuthDependencies{EmployeeRepo: f.store.Employees()})

	f.dept = domain.Department{ID: "dept-eng", Name: "Engineering", HeadName: "Head", TLEmail: "tl@corp.com"}
	f.noTLDept = domain.Department{ID: "dept-ops", Name: "Operations"}
	require.NoError(t, f.store.Departments().Create(ctx, &f.dept))
	require.NoError(t, f.store.Departments().Create(ctx, &f.noTLDept))

	hash, err := auth.HashPassword(testPassword, 4)
	require.NoError(t, err)
	person := func(id, email string, role domain.Role, dept *string) *domain.Employee {
		e := &domain.Employee{
			ID:           id,
			Name:         id,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			Gender:       domain.GenderMale,
			DepartmentID: dept,
		}
		require.NoError(t, f.store.Employees().Create(ctx, e))
		return e
	}
	eng, ops := &f.dept.ID, &f.noTLDept.ID
	f.employee = person("emp-1", "emp@corp.com", domain.RoleEmployee, eng)
	f.other = person("emp-2", "other@corp.com", domain.RoleEmployee, eng)
	f.loner = person("emp-3", "loner@corp.com", domain.RoleEmployee, ops)
	f.manager = person("mgr-1", "manager@corp.com", domain.RoleManager, eng)
	f.hr = person("hr-1", "hr@corp.com", domain.RoleHR, nil)
	f.hr2 = person("hr-2", "hr2@corp.com", domain.RoleHR, nil)
	f.tl = person("tl-1", "tl@corp.com", domain.RoleTeamLead, eng)
	f.admin = person("adm-1", "admin@corp.com", domain.RoleAdmin, nil)
	return f
}

func (f *fixture) input(leaveType domain.LeaveType) TicketInput {
	start := time.Date(2025, time.May, 12, 0, 0, 0, 0, time.UTC)
	if leaveType == domain.LeavePlanned {
		start = time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
	}
	return TicketInput{
		LeaveType:       leaveType,
		Reason:          "family",
		StartDate:       start,
		EndDate:         start.AddDate(0, 0, 2),
		EmployeeMessage: "please approve",
	}
}

func (f *fixture) submit(t *testing.T, owner *domain.Employee, leaveType domain.LeaveType) *domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.Create(context.Background(), owner, f.input(leaveType))
	require.NoError(t, err)
	return ticket
}

// toTLApproved drives a fresh ticket to (in-progress-tl-level, approved).
func (f *fixture) toTLApproved(t *testing.T, owner *domain.Employee, leaveType domain.LeaveType) *domain.Ticket {
	t.Helper()
	ctx := context.Background()
	ticket := f.submit(t, owner, leaveType)

	_, err := f.tickets.Assign(ctx, f.manager, ticket.ID, f.hr.Email)
	require.NoError(t, err)
	_, err = f.tickets.HRAction(ctx, f.hr, ticket.ID, lifecycle.ActionForwardToTL, "")
	require.NoError(t, err)
	ticket, err = f.tickets.TLAction(ctx, f.tl, ticket.ID, lifecycle.ActionTLApprove, "ok")
	require.NoError(t, err)
	return ticket
}

func (f *fixture) events(eventType events.EventType) []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []events.Event
	for _, e := range f.published {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, apperrors.HasCode(err, code), "want %s, got %v", code, err)
}
