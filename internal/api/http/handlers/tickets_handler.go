package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/dto"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/service"
)

// TicketsHandler manages the employee's own leave tickets.
type TicketsHandler struct {
	tickets *service.TicketService
	ledger  *service.LedgerService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, ledger *service.LedgerService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, ledger: ledger}
}

// LeaveTypes GET /leave-types.
func (h *TicketsHandler) LeaveTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": domain.LeaveTypes})
}

// CreateTicket POST /employee/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	var req dto.TicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := ticketInput(req)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Create(c.UserContext(), employee, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /employee/tickets. The remaining balance is returned alongside.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.List(c.UserContext(), employee, filter)
	if err != nil {
		return err
	}
	balance, err := h.ledger.BalanceFor(c.UserContext(), employee, employee.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    dto.NewTicketResponses(tickets),
		"balance": dto.NewBalanceResponse(balance),
	})
}

// GetTicket GET /employee/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	detail, err := h.tickets.Get(c.UserContext(), employee, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetailResponse(detail.Ticket, detail.History)})
}

// UpdateTicket PUT /employee/tickets/:id. A body with query_answer set answers an HR query.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	var req dto.TicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input, err := ticketInput(req)
	if err != nil {
		return err
	}
	var ticket *domain.Ticket
	if req.QueryAnswer {
		ticket, err = h.tickets.AnswerQuery(c.UserContext(), employee, c.Params("id"), input)
	} else {
		ticket, err = h.tickets.Update(c.UserContext(), employee, c.Params("id"), input)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// DeleteTicket DELETE /employee/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	if err := h.tickets.Delete(c.UserContext(), employee, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AcceptRejection POST /employee/tickets/:id/accept-rejection.
func (h *TicketsHandler) AcceptRejection(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.AcceptRejection(c.UserContext(), employee, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ReRaise POST /employee/tickets/:id/re-raise.
func (h *TicketsHandler) ReRaise(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	var req dto.ReRaiseRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.tickets.ReRaise(c.UserContext(), employee, c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Balance GET /employee/balance.
func (h *TicketsHandler) Balance(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	balance, err := h.ledger.BalanceFor(c.UserContext(), employee, employee.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBalanceResponse(balance)})
}
