package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/api/http/handlers"
	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/clock"
	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/observability"
	"github.com/spec-kit/leave-service/internal/persistence"
	"github.com/spec-kit/leave-service/internal/repository/memory"
	"github.com/spec-kit/leave-service/internal/service"
)

const testPassword = "password123"

var testNow = time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)

type testServer struct {
	app     *fiber.App
	store   *memory.Store
	metrics *observability.Metrics
	tokens  *auth.TokenManager
	people  map[string]*domain.Employee
}

func newTestServer(t *testing.T, throttler *Throttler) *testServer {
	t.Helper()
	ctx := context.Background()

	s := &testServer{
		store:   memory.NewStore(domain.LeavePolicy{Gender: domain.GenderMale, Planned: 12, Sick: 10, Emergency: 5}),
		metrics: observability.NewMetrics(),
		people:  map[string]*domain.Employee{},
	}
	var cfg config.Config
	cfg.Auth = config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, BcryptCost: 4}
	cfg.Leave = config.LeaveConfig{DefaultPlanned: 12, DefaultSick: 10, DefaultEmergency: 5, PlannedNoticeDays: 30}

	policy := auth.MustPolicy()
	fixed := clock.NewFixed(testNow)
	ledger := service.NewLedgerService(service.LedgerDependencies{
		BalanceRepo:     s.store.Balances(),
		LedgerEntryRepo: s.store.Ledger(),
		PolicyRepo:      s.store.LeavePolicies(),
		EmployeeRepo:    s.store.Employees(),
		TicketRepo:      s.store.Tickets(),
		TxManager:       s.store,
		Policy:          policy,
		Defaults:        cfg.Leave,
	})
	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     s.store.Tickets(),
		EmployeeRepo:   s.store.Employees(),
		DepartmentRepo: s.store.Departments(),
		HistoryRepo:    s.store.History(),
		TxManager:      s.store,
		Ledger:         ledger,
		Policy:         policy,
		Metrics:        s.metrics,
		Clock:          fixed,
		Leave:          cfg.Leave,
	})
	employees := service.NewEmployeeService(cfg, service.EmployeeDependencies{
		EmployeeRepo:   s.store.Employees(),
		DepartmentRepo: s.store.Departments(),
		Ledger:         ledger,
		TxManager:      s.store,
		Policy:         policy,
	})
	authService := service.NewAuthService(cfg, service.AuthDependencies{EmployeeRepo: s.store.Employees()})
	s.tokens = authService.TokenManager()

	dept := domain.Department{ID: "dept-eng", Name: "Engineering", TLEmail: "tl@corp.com"}
	require.NoError(t, s.store.Departments().Create(ctx, &dept))
	hash, err := auth.HashPassword(testPassword, 4)
	require.NoError(t, err)
	for _, p := range []struct {
		id, email string
		role      domain.Role
		dept      *string
	}{
		{"emp-1", "emp@corp.com", domain.RoleEmployee, &dept.ID},
		{"mgr-1", "manager@corp.com", domain.RoleManager, &dept.ID},
		{"hr-1", "hr@corp.com", domain.RoleHR, nil},
		{"tl-1", "tl@corp.com", domain.RoleTeamLead, &dept.ID},
		{"adm-1", "admin@corp.com", domain.RoleAdmin, nil},
	} {
		e := &domain.Employee{
			ID:           p.id,
			Name:         p.id,
			Email:        p.email,
			PasswordHash: hash,
			Role:         p.role,
			Gender:       domain.GenderMale,
			DepartmentID: p.dept,
		}
		require.NoError(t, s.store.Employees().Create(ctx, e))
		s.people[p.id] = e
	}

	if throttler == nil {
		throttler = NewThrottler(nil, config.ThrottleConfig{}, nil)
	}
	s.app = fiber.New()
	RegisterMiddlewares(s.app, zap.NewNop(), s.metrics, 5*time.Second)
	RegisterRoutes(s.app, RouteConfig{
		Health:         handlers.NewHealthHandler("leave-service", "test", &persistence.Postgres{}, &persistence.Redis{}, s.metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(tickets, ledger),
		Review:         handlers.NewReviewHandler(tickets, ledger, employees, fixed),
		Admin:          handlers.NewAdminHandler(employees),
		AuthMiddleware: auth.NewAuthMiddleware(s.tokens, s.store.Employees()),
		Throttler:      throttler,
	})
	return s
}

func (s *testServer) token(t *testing.T, id string) string {
	t.Helper()
	token, _, err := s.tokens.GenerateToken(s.people[id])
	require.NoError(t, err)
	return token
}

// call sends a JSON request as the given employee ("" for anonymous) and decodes the reply.
func (s *testServer) call(t *testing.T, as, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if as != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+s.token(t, as))
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, "missing data object in %v", body)
	return d
}

func errorBody(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error object in %v", body)
	return e
}

func sickLeave() map[string]any {
	return map[string]any{
		"leave_type": "SickLeave",
		"reason":     "flu",
		"start_date": "2025-05-10",
		"end_date":   "2025-05-12",
	}
}

// submit creates a sick leave ticket for emp-1 and returns its id.
func (s *testServer) submit(t *testing.T) string {
	t.Helper()
	status, body := s.call(t, "emp-1", fiber.MethodPost, "/employee/tickets", sickLeave())
	require.Equal(t, fiber.StatusCreated, status, body)
	return data(t, body)["id"].(string)
}
