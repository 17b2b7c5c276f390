// Package memory implements the repository interfaces over process memory. It backs the
// service when no database is configured and is used by the service and handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
)

type txKey struct{}

type tables struct {
	tickets     map[string]domain.Ticket
	employees   map[string]domain.Employee
	departments map[string]domain.Department
	policies    map[domain.Gender]domain.LeavePolicy
	balances    map[string]domain.LeaveBalance
	ledger      []domain.LedgerEntry
	history     []domain.TicketHistory
}

func newTables() *tables {
	return &tables{
		tickets:     map[string]domain.Ticket{},
		employees:   map[string]domain.Employee{},
		departments: map[string]domain.Department{},
		policies:    map[domain.Gender]domain.LeavePolicy{},
		balances:    map[string]domain.LeaveBalance{},
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.tickets {
		c.tickets[k] = v
	}
	for k, v := range t.employees {
		c.employees[k] = v
	}
	for k, v := range t.departments {
		c.departments[k] = v
	}
	for k, v := range t.policies {
		c.policies[k] = v
	}
	for k, v := range t.balances {
		c.balances[k] = v
	}
	c.ledger = append([]domain.LedgerEntry(nil), t.ledger...)
	c.history = append([]domain.TicketHistory(nil), t.history...)
	return c
}

// Store holds every table. Transactions are serialised and roll back by restoring a snapshot
// taken when they began; writes outside a transaction wait for any open one to finish.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *tables
	now  func() time.Time
}

// NewStore returns an empty store seeded with the given leave policies.
func NewStore(policies ...domain.LeavePolicy) *Store {
	s := &Store{data: newTables(), now: func() time.Time { return time.Now().UTC() }}
	for _, p := range policies {
		s.data.policies[p.Gender] = p
	}
	return s
}

// SetNow replaces the timestamp source used for created_at and updated_at columns.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// WithinTx implements repository.TxManager.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

func (s *Store) write(ctx context.Context, fn func(t *tables, now time.Time) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data, s.now())
}

func (s *Store) read(ctx context.Context, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// Tickets returns the ticket repository.
func (s *Store) Tickets() repository.TicketRepository { return ticketRepo{s} }

// Employees returns the employee repository.
func (s *Store) Employees() repository.EmployeeRepository { return employeeRepo{s} }

// Departments returns the department repository.
func (s *Store) Departments() repository.DepartmentRepository { return departmentRepo{s} }

// LeavePolicies returns the leave policy repository.
func (s *Store) LeavePolicies() repository.LeavePolicyRepository { return policyRepo{s} }

// Balances returns the balance repository.
func (s *Store) Balances() repository.BalanceRepository { return balanceRepo{s} }

// Ledger returns the ledger entry repository.
func (s *Store) Ledger() repository.LedgerEntryRepository { return ledgerRepo{s} }

// History returns the ticket history repository.
func (s *Store) History() repository.TicketHistoryRepository { return historyRepo{s} }

func paginate[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
