package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/leave-service/internal/api/http"
	"github.com/spec-kit/leave-service/internal/api/http/handlers"
	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/clock"
	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/events"
	"github.com/spec-kit/leave-service/internal/observability"
	"github.com/spec-kit/leave-service/internal/persistence"
	"github.com/spec-kit/leave-service/internal/repository"
	"github.com/spec-kit/leave-service/internal/repository/memory"
	"github.com/spec-kit/leave-service/internal/service"
	"github.com/spec-kit/leave-service/internal/worker"
)

// repositories is the storage backend chosen at startup.
type repositories struct {
	tickets     repository.TicketRepository
	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
	policies    repository.LeavePolicyRepository
	balances    repository.BalanceRepository
	ledger      repository.LedgerEntryRepository
	history     repository.TicketHistoryRepository
	tx          repository.TxManager
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing := observability.SetupTracing(ctx, cfg.App, cfg.Telemetry, logger)
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.Enabled() {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := newRepositories(pg, cfg.Leave)
	metrics := observability.NewMetrics()
	policy := auth.MustPolicy()
	systemClock := clock.NewSystem()

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	var sink *events.KafkaSink
	var forward worker.EventHandler
	if len(cfg.Kafka.Brokers) > 0 {
		sink = events.NewKafkaSink(events.NewKafkaWriter(cfg.Kafka), logger)
		forward = sink.Handle
		logger.Info("publishing ticket events to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	workers := worker.Start(ctx, dispatcher, notifications, forward, 1024, logger)
	defer func() {
		workers.Stop()
		if sink == nil {
			return
		}
		if err := sink.Close(); err != nil {
			logger.Warn("kafka writer close", zap.Error(err))
		}
	}()

	ledgerService := service.NewLedgerService(service.LedgerDependencies{
		BalanceRepo:     repos.balances,
		LedgerEntryRepo: repos.ledger,
		PolicyRepo:      repos.policies,
		EmployeeRepo:    repos.employees,
		TicketRepo:      repos.tickets,
		TxManager:       repos.tx,
		Policy:          policy,
		Defaults:        cfg.Leave,
		Logger:          logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     repos.tickets,
		EmployeeRepo:   repos.employees,
		DepartmentRepo: repos.departments,
		HistoryRepo:    repos.history,
		TxManager:      repos.tx,
		Ledger:         ledgerService,
		Policy:         policy,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
		Clock:          systemClock,
		Leave:          cfg.Leave,
		Logger:         logger,
	})
	employeeService := service.NewEmployeeService(*cfg, service.EmployeeDependencies{
		EmployeeRepo:   repos.employees,
		DepartmentRepo: repos.departments,
		Ledger:         ledgerService,
		TxManager:      repos.tx,
		Policy:         policy,
		Logger:         logger,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		EmployeeRepo: repos.employees,
		Logger:       logger,
	})

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			logger.Fatal("failed to seed admin", zap.Error(err))
		}
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, ledgerService),
		Review:         handlers.NewReviewHandler(ticketService, ledgerService, employeeService, systemClock),
		Admin:          handlers.NewAdminHandler(employeeService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), repos.employees),
		Throttler:      httptransport.NewThrottler(redis.Cmdable(), cfg.Throttle, logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

// newRepositories returns Postgres repositories when a pool is open and the in-memory store
// otherwise.
func newRepositories(pg *persistence.Postgres, leave config.LeaveConfig) repositories {
	if pg.Enabled() {
		pool := pg.PoolHandle()
		return repositories{
			tickets:     repository.NewTicketRepository(pool),
			employees:   repository.NewEmployeeRepository(pool),
			departments: repository.NewDepartmentRepository(pool),
			policies:    repository.NewLeavePolicyRepository(pool),
			balances:    repository.NewBalanceRepository(pool),
			ledger:      repository.NewLedgerEntryRepository(pool),
			history:     repository.NewTicketHistoryRepository(pool),
			tx:          repository.NewTxManager(pool),
		}
	}

	store := memory.NewStore(
		domain.LeavePolicy{Gender: domain.GenderMale, Planned: leave.DefaultPlanned, Sick: leave.DefaultSick, Emergency: leave.DefaultEmergency},
		domain.LeavePolicy{Gender: domain.GenderFemale, Planned: leave.DefaultPlanned, Sick: leave.DefaultSick, Emergency: leave.DefaultEmergency},
	)
	return repositories{
		tickets:     store.Tickets(),
		employees:   store.Employees(),
		departments: store.Departments(),
		policies:    store.LeavePolicies(),
		balances:    store.Balances(),
		ledger:      store.Ledger(),
		history:     store.History(),
		tx:          store,
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
