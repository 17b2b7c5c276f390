package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/dto"
	"github.com/spec-kit/leave-service/internal/clock"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/lifecycle"
	"github.com/spec-kit/leave-service/internal/service"
)

// ReviewHandler serves the manager, HR and team lead review queues. Queue scope is decided by
// the caller's role in the ticket service.
type ReviewHandler struct {
	tickets   *service.TicketService
	ledger    *service.LedgerService
	employees *service.EmployeeService
	clock     clock.Clock
}

// NewReviewHandler constructs handler.
func NewReviewHandler(tickets *service.TicketService, ledger *service.LedgerService, employees *service.EmployeeService, clk clock.Clock) *ReviewHandler {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &ReviewHandler{tickets: tickets, ledger: ledger, employees: employees, clock: clk}
}

// ListTickets GET /manager/tickets, /hr/tickets and /tl/tickets.
func (h *ReviewHandler) ListTickets(c *fiber.Ctx) error {
	reviewer, err := currentEmployee(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.List(c.UserContext(), reviewer, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// GetTicket GET /{manager,hr,tl}/tickets/:id.
func (h *ReviewHandler) GetTicket(c *fiber.Ctx) error {
	reviewer, err := currentEmployee(c)
	if err != nil {
		return err
	}
	detail, err := h.tickets.Get(c.UserContext(), reviewer, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetailResponse(detail.Ticket, detail.History)})
}

// HRDirectory GET /manager/hr.
func (h *ReviewHandler) HRDirectory(c *fiber.Ctx) error {
	manager, err := currentEmployee(c)
	if err != nil {
		return err
	}
	staff, err := h.employees.ListHR(c.UserContext(), manager)
	if err != nil {
		return err
	}
	entries := make([]dto.HRDirectoryEntry, 0, len(staff))
	for _, e := range staff {
		entries = append(entries, dto.HRDirectoryEntry{Name: e.Name, Email: e.Email})
	}
	return c.JSON(fiber.Map{"data": entries})
}

// Assign POST /manager/tickets/:id/assign.
func (h *ReviewHandler) Assign(c *fiber.Ctx) error {
	return h.assign(c, false)
}

// Reassign PUT /manager/tickets/:id/assign.
func (h *ReviewHandler) Reassign(c *fiber.Ctx) error {
	return h.assign(c, true)
}

func (h *ReviewHandler) assign(c *fiber.Ctx, reassign bool) error {
	manager, err := currentEmployee(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	var ticket *domain.Ticket
	if reassign {
		ticket, err = h.tickets.Reassign(c.UserContext(), manager, c.Params("id"), req.HREmail)
	} else {
		ticket, err = h.tickets.Assign(c.UserContext(), manager, c.Params("id"), req.HREmail)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// HRStatus POST /hr/tickets/:id/status.
func (h *ReviewHandler) HRStatus(c *fiber.Ctx) error {
	hr, err := currentEmployee(c)
	if err != nil {
		return err
	}
	var req dto.StatusActionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.tickets.HRAction(c.UserContext(), hr, c.Params("id"), lifecycle.Action(req.Action), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// TLStatus POST /tl/tickets/:id/status.
func (h *ReviewHandler) TLStatus(c *fiber.Ctx) error {
	lead, err := currentEmployee(c)
	if err != nil {
		return err
	}
	var req dto.StatusActionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.tickets.TLAction(c.UserContext(), lead, c.Params("id"), lifecycle.Action(req.Action), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// EmployeeBalance GET /hr/employees/:id/balance.
func (h *ReviewHandler) EmployeeBalance(c *fiber.Ctx) error {
	reviewer, err := currentEmployee(c)
	if err != nil {
		return err
	}
	balance, err := h.ledger.BalanceFor(c.UserContext(), reviewer, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBalanceResponse(balance)})
}

// EmployeeUsage GET /hr/employees/:id/usage?month=June&year=2025 or ?month=2025-06.
func (h *ReviewHandler) EmployeeUsage(c *fiber.Ctx) error {
	reviewer, err := currentEmployee(c)
	if err != nil {
		return err
	}
	year, month, err := service.ParseUsagePeriod(c.Query("month"), c.Query("year"), h.clock.Now())
	if err != nil {
		return err
	}
	usage, err := h.ledger.UsageFor(c.UserContext(), reviewer, c.Params("id"), year, month)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUsageResponse(usage)})
}
