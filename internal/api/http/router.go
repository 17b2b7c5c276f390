package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/http/handlers"
	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Review         *handlers.ReviewHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Throttler      *Throttler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/auth/password/change", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.Auth.ChangePassword)
	app.Get("/leave-types", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.Tickets.LeaveTypes)

	employee := app.Group("/employee", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleEmployee))
	employee.Post("/tickets", cfg.Tickets.CreateTicket)
	employee.Get("/tickets", cfg.Tickets.ListTickets)
	employee.Get("/tickets/:id", cfg.Tickets.GetTicket)
	employee.Put("/tickets/:id", cfg.Tickets.UpdateTicket)
	employee.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)
	employee.Post("/tickets/:id/accept-rejection", cfg.Tickets.AcceptRejection)
	employee.Post("/tickets/:id/re-raise", cfg.Tickets.ReRaise)
	employee.Get("/balance", cfg.Tickets.Balance)

	manager := app.Group("/manager", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleManager))
	manager.Get("/tickets", cfg.Throttler.Limit("manager-tickets"), cfg.Review.ListTickets)
	manager.Get("/tickets/:id", cfg.Review.GetTicket)
	manager.Get("/hr", cfg.Review.HRDirectory)
	manager.Post("/tickets/:id/assign", cfg.Review.Assign)
	manager.Put("/tickets/:id/assign", cfg.Review.Reassign)

	hr := app.Group("/hr", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleHR))
	hr.Get("/tickets", cfg.Review.ListTickets)
	hr.Get("/tickets/:id", cfg.Review.GetTicket)
	hr.Post("/tickets/:id/status", cfg.Throttler.Limit("hr-status"), cfg.Review.HRStatus)
	hr.Get("/employees/:id/balance", cfg.Review.EmployeeBalance)
	hr.Get("/employees/:id/usage", cfg.Review.EmployeeUsage)

	tl := app.Group("/tl", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleTeamLead))
	tl.Get("/tickets", cfg.Review.ListTickets)
	tl.Get("/tickets/:id", cfg.Review.GetTicket)
	tl.Post("/tickets/:id/status", cfg.Throttler.Limit("tl-status"), cfg.Review.TLStatus)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/employees", cfg.Admin.ListEmployees)
	admin.Post("/employees", cfg.Admin.CreateEmployee)
	admin.Get("/employees/:id", cfg.Admin.GetEmployee)
	admin.Put("/employees/:id", cfg.Admin.UpdateEmployee)
	admin.Delete("/employees/:id", cfg.Admin.DeleteEmployee)
	admin.Get("/departments", cfg.Admin.ListDepartments)
	admin.Post("/departments", cfg.Admin.CreateDepartment)
	admin.Put("/departments/:id", cfg.Admin.UpdateDepartment)
}
